package wordlist

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"vocab-builder/pkg/filter"
	"vocab-builder/pkg/httpclient"
)

const (
	DefaultArticleLimit = 50
	minTokenLength      = 4
)

var (
	stopWords   = map[string]struct{}{}
	shortTokens = filter.NewMinLengthFilter(minTokenLength)
)

func init() {
	for _, w := range strings.Fields(`
		about above after again against also because been before being below between both
		could does doing down during each even every from further have having here hers herself
		himself into itself just like more most much must myself only other ours ourselves over
		same should some such than that their theirs them themselves then there these they this
		those through under until very were what when where which while whom will with would
		your yours yourself yourselves already always another anything around away back
		come made make many may might never news still take thing things think want well year years`) {
		stopWords[w] = struct{}{}
	}
}

// ArticleSource mines an article page for vocabulary: unique lowercase
// alphabetic tokens of at least four letters, stop words removed, in the
// order they first appear.
type ArticleSource struct {
	fetcher httpclient.Fetcher
	timeout time.Duration
	limit   int
}

func NewArticleSource(fetcher httpclient.Fetcher, timeout time.Duration, limit int) *ArticleSource {
	if limit <= 0 {
		limit = DefaultArticleLimit
	}
	return &ArticleSource{fetcher: fetcher, timeout: timeout, limit: limit}
}

func (s *ArticleSource) Words(ctx context.Context, pageURL string) ([]string, error) {
	if !isHTTPURL(pageURL) {
		return nil, fmt.Errorf("article source: %s is not an http(s) URL", pageURL)
	}

	body, err := s.fetcher.Fetch(ctx, pageURL, s.timeout)
	if err != nil {
		return nil, fmt.Errorf("article source: %w", err)
	}

	text, err := ExtractText(body)
	if err != nil {
		return nil, fmt.Errorf("article source: %w", err)
	}
	return Tokenize(text, s.limit), nil
}

// ExtractText returns the main article text, falling back to the whole body
// when readability finds nothing.
func ExtractText(htmlContent string) (string, error) {
	article, err := readability.FromReader(strings.NewReader(htmlContent), nil)
	if err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return text, nil
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	text := strings.TrimSpace(doc.Find("body").Text())
	if text == "" {
		return "", fmt.Errorf("no text found in HTML")
	}
	return text, nil
}

// Tokenize splits text into candidate words
func Tokenize(text string, limit int) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	seen := make(map[string]struct{})
	words := make([]string, 0, limit)
	for _, f := range fields {
		w := strings.ToLower(f)
		if keep, _ := shortTokens.ShouldKeep(context.Background(), w); !keep || !isASCIIWord(w) {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
		if len(words) == limit {
			break
		}
	}
	return words
}

func isASCIIWord(w string) bool {
	for _, r := range w {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

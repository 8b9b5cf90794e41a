package sites

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vocab-builder/pkg/domain"
)

// ErrWordNotFound means the page was served but holds no usable entry
var ErrWordNotFound = errors.New("word not found")

// Source is one dictionary website: where to find a word and how to read its page.
// Implementations share the contract only, not parsing code.
type Source interface {
	Name() string
	Origin() domain.SourceOrigin
	URL(word string) string
	Extract(markup, word string) (*domain.WordRecord, error)
}

// crossRefMarkers are glyphs that introduce "see also" pointers rather than prose
var crossRefMarkers = []string{"→", "⇒", "☞"}

// parseDocument parses markup and checks the page signature:
// the entry selector must match and none of the missing selectors may match.
func parseDocument(markup, entrySelector string, missingSelectors []string) (*goquery.Document, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, ErrWordNotFound
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	if doc.Find(entrySelector).Length() == 0 {
		return nil, ErrWordNotFound
	}
	for _, sel := range missingSelectors {
		if doc.Find(sel).Length() > 0 {
			return nil, ErrWordNotFound
		}
	}

	return doc, nil
}

// text returns the collapsed, trimmed text of the first matched node
func text(s *goquery.Selection) string {
	return cleanText(s.First().Text())
}

// cleanText collapses runs of whitespace into single spaces
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// isCrossReference reports whether an example line is a "see also" pointer
func isCrossReference(s string) bool {
	for _, m := range crossRefMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// collectExamples keeps up to MaxExamplesPerSense non-empty prose examples
func collectExamples(sel *goquery.Selection) []string {
	examples := make([]string, 0, domain.MaxExamplesPerSense)
	sel.EachWithBreak(func(i int, s *goquery.Selection) bool {
		ex := cleanText(s.Text())
		if ex == "" || isCrossReference(ex) {
			return true
		}
		examples = append(examples, ex)
		return len(examples) < domain.MaxExamplesPerSense
	})
	return examples
}

// absoluteURL prefixes scheme-less links with the site origin
func absoluteURL(origin, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}

	base, err := url.Parse(origin)
	if err != nil {
		return strings.TrimRight(origin, "/") + "/" + strings.TrimLeft(href, "/")
	}
	ref, err := url.Parse(href)
	if err != nil {
		return strings.TrimRight(origin, "/") + "/" + strings.TrimLeft(href, "/")
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String()
}

// slug turns a word into the path segment dictionary sites use
func slug(word string) string {
	return url.PathEscape(strings.Join(strings.Fields(strings.ToLower(word)), "-"))
}

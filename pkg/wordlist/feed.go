package wordlist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"vocab-builder/pkg/httpclient"
)

// FeedSource reads word-of-the-day style RSS/Atom feeds where each item
// title is a word, optionally behind a label ("Word of the Day: gambit").
type FeedSource struct {
	fetcher    httpclient.Fetcher
	feedParser *gofeed.Parser
	timeout    time.Duration
}

func NewFeedSource(fetcher httpclient.Fetcher, timeout time.Duration) *FeedSource {
	return &FeedSource{
		fetcher:    fetcher,
		feedParser: gofeed.NewParser(),
		timeout:    timeout,
	}
}

func (s *FeedSource) Words(ctx context.Context, feedURL string) ([]string, error) {
	if !isHTTPURL(feedURL) {
		return nil, fmt.Errorf("feed source: %s is not an http(s) URL", feedURL)
	}

	body, err := s.fetcher.Fetch(ctx, feedURL, s.timeout)
	if err != nil {
		return nil, fmt.Errorf("feed source: %w", err)
	}

	feed, err := s.feedParser.ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	if feed == nil || len(feed.Items) == 0 {
		return nil, fmt.Errorf("feed contains no items")
	}

	words := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		if w := wordFromTitle(item.Title); w != "" {
			words = append(words, w)
		}
	}
	return words, nil
}

// wordFromTitle keeps what follows the last colon, if any
func wordFromTitle(title string) string {
	if i := strings.LastIndex(title, ":"); i >= 0 {
		title = title[i+1:]
	}
	return strings.TrimSpace(title)
}

package wordlist

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// ErrNoWords means a source understood the location but found nothing usable
var ErrNoWords = errors.New("no words found")

// Source turns a location (path or URL) into candidate words.
// Candidates are raw; validation happens in the batch.
type Source interface {
	Words(ctx context.Context, location string) ([]string, error)
}

// Resolve tries sources in order and returns the first non-empty list
func Resolve(ctx context.Context, location string, sources ...Source) ([]string, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no word list sources configured")
	}

	var errs []error
	for _, src := range sources {
		words, err := src.Words(ctx, location)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(words) == 0 {
			errs = append(errs, ErrNoWords)
			continue
		}
		return words, nil
	}

	return nil, fmt.Errorf("all word list sources failed for %s: %w", location, errors.Join(errs...))
}

func isHTTPURL(location string) bool {
	u, err := url.Parse(location)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

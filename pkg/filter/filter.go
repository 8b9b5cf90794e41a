package filter

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// Filter decides whether a candidate word goes into a batch
type Filter interface {
	ShouldKeep(ctx context.Context, word string) (bool, error)
}

// FilterWords applies all filters to a list of words, keeping order
func FilterWords(ctx context.Context, words []string, filters ...Filter) ([]string, error) {
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		keep := true
		for _, f := range filters {
			shouldKeep, err := f.ShouldKeep(ctx, word)
			if err != nil {
				return nil, fmt.Errorf("filter error for word %q: %w", word, err)
			}
			if !shouldKeep {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, word)
		}
	}

	return filtered, nil
}

// MinLengthFilter drops words shorter than a number of letters
type MinLengthFilter struct {
	minLen int
}

func NewMinLengthFilter(minLen int) *MinLengthFilter {
	return &MinLengthFilter{minLen: minLen}
}

func (f *MinLengthFilter) ShouldKeep(ctx context.Context, word string) (bool, error) {
	return utf8.RuneCountInString(word) >= f.minLen, nil
}

// AlreadyStoredFilter drops words whose headword is already in the store.
// Words must be normalized the same way headwords are.
type AlreadyStoredFilter struct {
	stored map[string]bool
}

func NewAlreadyStoredFilter(stored map[string]bool) *AlreadyStoredFilter {
	return &AlreadyStoredFilter{
		stored: stored,
	}
}

func (f *AlreadyStoredFilter) ShouldKeep(ctx context.Context, word string) (bool, error) {
	return !f.stored[word], nil
}

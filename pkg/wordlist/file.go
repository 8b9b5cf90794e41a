package wordlist

import (
	"context"
	"fmt"

	"vocab-builder/pkg/batch"
)

// FileSource reads a local word file, one word per line
type FileSource struct{}

func NewFileSource() *FileSource {
	return &FileSource{}
}

func (s *FileSource) Words(ctx context.Context, path string) ([]string, error) {
	if isHTTPURL(path) {
		return nil, fmt.Errorf("file source: %s is a URL", path)
	}
	words, err := batch.ReadWordFile(path)
	if err != nil {
		return nil, fmt.Errorf("file source: %w", err)
	}
	return words, nil
}

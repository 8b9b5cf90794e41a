package batch

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadWordFile reads one word per line. Blank lines and lines starting
// with '#' are skipped; no validation happens here.
func ReadWordFile(filename string) ([]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open word file: %w", err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word file: %w", err)
	}

	return words, nil
}

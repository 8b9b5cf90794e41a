package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// MinBatchDelay is the smallest pause allowed between two words of a batch
const MinBatchDelay = 500 * time.Millisecond

// Validate checks cross-field constraints that tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if c.Fetch.Timeout <= 0 {
		errs = append(errs, errors.New("fetch.timeout must be positive"))
	}
	if c.Translate.Timeout <= 0 {
		errs = append(errs, errors.New("translate.timeout must be positive"))
	}
	if c.Batch.MaxWords < 1 || c.Batch.MaxWords > 50 {
		errs = append(errs, fmt.Errorf("batch.max_words must be between 1 and 50, got %d", c.Batch.MaxWords))
	}
	if c.Batch.Delay < MinBatchDelay {
		errs = append(errs, fmt.Errorf("batch.delay must be at least %s, got %s", MinBatchDelay, c.Batch.Delay))
	}

	for name, raw := range map[string]string{
		"sources.cambridge_url": c.Sources.CambridgeURL,
		"sources.oxford_url":    c.Sources.OxfordURL,
		"translate.base_url":    c.Translate.BaseURL,
	} {
		if err := validateHTTPURL(raw); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if strings.TrimSpace(c.Mongo.Database) == "" {
		errs = append(errs, errors.New("mongo.database is required"))
	}
	if strings.TrimSpace(c.Mongo.Collection) == "" {
		errs = append(errs, errors.New("mongo.collection is required"))
	}

	return errors.Join(errs...)
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

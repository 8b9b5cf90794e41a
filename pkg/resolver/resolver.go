package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vocab-builder/pkg/domain"
	"vocab-builder/pkg/httpclient"
	"vocab-builder/pkg/sites"
)

// DefaultFetchTimeout bounds one dictionary page request
const DefaultFetchTimeout = 15 * time.Second

// ErrBothSourcesFailed matches every *BothSourcesFailedError
var ErrBothSourcesFailed = errors.New("both sources failed")

// BothSourcesFailedError keeps the reason each source gave
type BothSourcesFailedError struct {
	Word          string
	PrimaryName   string
	PrimaryErr    error
	SecondaryName string
	SecondaryErr  error
}

func (e *BothSourcesFailedError) Error() string {
	return fmt.Sprintf("%s: primary (%s): %v; secondary (%s): %v",
		e.Word, e.PrimaryName, e.PrimaryErr, e.SecondaryName, e.SecondaryErr)
}

func (e *BothSourcesFailedError) Is(target error) bool {
	return target == ErrBothSourcesFailed
}

func (e *BothSourcesFailedError) Unwrap() []error {
	return []error{e.PrimaryErr, e.SecondaryErr}
}

// Resolver looks a word up in the primary source and falls back to the secondary one
type Resolver struct {
	fetcher   httpclient.Fetcher
	primary   sites.Source
	secondary sites.Source
	timeout   time.Duration
	now       func() time.Time
	log       *slog.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithTimeout sets the per-page fetch timeout
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithClock replaces time.Now for FetchedAt
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

// New creates a Resolver over an ordered pair of sources
func New(fetcher httpclient.Fetcher, primary, secondary sites.Source, logger *slog.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher:   fetcher,
		primary:   primary,
		secondary: secondary,
		timeout:   DefaultFetchTimeout,
		now:       time.Now,
		log:       logger.With("component", "resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the first record a source can produce for word.
// The secondary source is only contacted after the primary one failed.
func (r *Resolver) Resolve(ctx context.Context, word string) (*domain.WordRecord, error) {
	rec, primaryErr := r.attempt(ctx, r.primary, word)
	if primaryErr == nil {
		return rec, nil
	}

	r.log.WarnContext(ctx, "primary source failed, falling back",
		slog.String("word", word),
		slog.String("source", r.primary.Name()),
		slog.String("error", primaryErr.Error()),
	)

	rec, secondaryErr := r.attempt(ctx, r.secondary, word)
	if secondaryErr == nil {
		return rec, nil
	}

	return nil, &BothSourcesFailedError{
		Word:          word,
		PrimaryName:   r.primary.Name(),
		PrimaryErr:    primaryErr,
		SecondaryName: r.secondary.Name(),
		SecondaryErr:  secondaryErr,
	}
}

func (r *Resolver) attempt(ctx context.Context, src sites.Source, word string) (*domain.WordRecord, error) {
	markup, err := r.fetcher.Fetch(ctx, src.URL(word), r.timeout)
	if err != nil {
		return nil, err
	}

	rec, err := src.Extract(markup, word)
	if err != nil {
		return nil, err
	}

	rec.Source = src.Origin()
	rec.FetchedAt = r.now().UTC()

	r.log.DebugContext(ctx, "resolved",
		slog.String("word", word),
		slog.String("source", src.Name()),
		slog.Int("senses", len(rec.Senses)),
	)
	return rec, nil
}

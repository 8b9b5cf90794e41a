package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"vocab-builder/pkg/domain"
)

const (
	// DefaultMaxWords is the largest batch a single call processes
	DefaultMaxWords = 50

	// DefaultDelay is the pause between two words
	DefaultDelay = 2 * time.Second
)

// ErrNoValidWords is returned when filtering leaves nothing to process
var ErrNoValidWords = errors.New("no valid words to process")

var wordPattern = regexp.MustCompile(`^[a-zA-Z\s-]+$`)

// WordResolver is satisfied by *resolver.Resolver
type WordResolver interface {
	Resolve(ctx context.Context, word string) (*domain.WordRecord, error)
}

// RecordEnricher is satisfied by *enricher.Enricher
type RecordEnricher interface {
	Enrich(ctx context.Context, rec *domain.WordRecord) *domain.WordRecord
}

// Pacer blocks between two consecutive words
type Pacer interface {
	Wait(ctx context.Context) error
}

// DelayPacer sleeps for a fixed duration, returning early when ctx is done
type DelayPacer struct {
	Delay time.Duration
}

func (p DelayPacer) Wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Processor runs words through the resolver one at a time
type Processor struct {
	resolver WordResolver
	enricher RecordEnricher
	pacer    Pacer
	maxWords int
	log      *slog.Logger
}

// Option configures a Processor
type Option func(*Processor)

func WithPacer(p Pacer) Option {
	return func(proc *Processor) {
		proc.pacer = p
	}
}

// WithMaxWords lowers the batch cap; values outside 1..DefaultMaxWords are ignored
func WithMaxWords(n int) Option {
	return func(proc *Processor) {
		if n > 0 && n <= DefaultMaxWords {
			proc.maxWords = n
		}
	}
}

// NewProcessor creates a Processor with a DefaultDelay pacer
func NewProcessor(resolver WordResolver, enricher RecordEnricher, logger *slog.Logger, opts ...Option) *Processor {
	p := &Processor{
		resolver: resolver,
		enricher: enricher,
		pacer:    DelayPacer{Delay: DefaultDelay},
		maxWords: DefaultMaxWords,
		log:      logger.With("component", "batch"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prepare normalizes words and drops the ones that cannot be looked up:
// blanks, anything outside letters/spaces/hyphens, and repeats.
// The result keeps input order and is capped at the processor's limit.
func (p *Processor) Prepare(words []string) []string {
	prepared := make([]string, 0, min(len(words), p.maxWords))
	seen := make(map[string]struct{}, len(words))

	for _, w := range words {
		w = Normalize(w)
		if w == "" || !ValidWord(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}

		prepared = append(prepared, w)
		if len(prepared) == p.maxWords {
			break
		}
	}
	return prepared
}

// ProcessBatch resolves and enriches each prepared word in order.
// A failing word is recorded and the batch moves on; the only error returned
// is ErrNoValidWords. When ctx ends, the words not yet started are recorded
// as cancelled failures.
func (p *Processor) ProcessBatch(ctx context.Context, words []string) (*domain.BatchOutcome, error) {
	prepared := p.Prepare(words)
	if len(prepared) == 0 {
		return nil, ErrNoValidWords
	}

	p.log.InfoContext(ctx, "batch started",
		slog.Int("requested", len(words)),
		slog.Int("accepted", len(prepared)),
	)

	outcome := &domain.BatchOutcome{
		Records:  make([]domain.WordRecord, 0, len(prepared)),
		Failures: make([]domain.Failure, 0),
	}

	for i, word := range prepared {
		if i > 0 {
			if err := p.pacer.Wait(ctx); err != nil {
				p.cancelRemaining(ctx, outcome, prepared[i:], err)
				break
			}
		}
		if err := ctx.Err(); err != nil {
			p.cancelRemaining(ctx, outcome, prepared[i:], err)
			break
		}

		p.processWord(ctx, outcome, word)
	}

	p.log.InfoContext(ctx, "batch finished",
		slog.Int("records", len(outcome.Records)),
		slog.Int("failures", len(outcome.Failures)),
	)
	return outcome, nil
}

func (p *Processor) processWord(ctx context.Context, outcome *domain.BatchOutcome, word string) {
	rec, err := p.resolver.Resolve(ctx, word)
	if err != nil {
		p.log.WarnContext(ctx, "word failed", slog.String("word", word), slog.String("error", err.Error()))
		outcome.AddFailure(word, err.Error())
		return
	}

	rec = p.enricher.Enrich(ctx, rec)
	outcome.AddRecord(*rec)

	p.log.InfoContext(ctx, "word processed",
		slog.String("word", word),
		slog.String("source", string(rec.Source)),
		slog.Int("senses", len(rec.Senses)),
	)
}

func (p *Processor) cancelRemaining(ctx context.Context, outcome *domain.BatchOutcome, words []string, cause error) {
	reason := fmt.Sprintf("batch cancelled: %v", cause)
	for _, w := range words {
		outcome.AddFailure(w, reason)
	}
	p.log.WarnContext(ctx, "batch cancelled", slog.Int("skipped", len(words)), slog.String("error", cause.Error()))
}

// Normalize trims, lowercases and collapses inner whitespace
func Normalize(word string) string {
	return strings.Join(strings.Fields(strings.ToLower(word)), " ")
}

// ValidWord reports whether a normalized word may be looked up
func ValidWord(word string) bool {
	return wordPattern.MatchString(word)
}

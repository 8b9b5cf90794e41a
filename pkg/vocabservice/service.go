package vocabservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"vocab-builder/pkg/batch"
	"vocab-builder/pkg/domain"
	"vocab-builder/pkg/filter"
	"vocab-builder/pkg/wordlist"
)

// ErrOwnerRequired is returned when an import carries no caller identity
var ErrOwnerRequired = errors.New("owner is required")

// DefaultSaveTimeout bounds persisting one batch once its lookups are done
const DefaultSaveTimeout = 30 * time.Second

// Store is the persistence the service needs; *db.Client satisfies it
type Store interface {
	SaveWord(ctx context.Context, rec *domain.WordRecord) error
	GetAllHeadwords(ctx context.Context) (map[string]bool, error)
}

// BatchRunner is satisfied by *batch.Processor
type BatchRunner interface {
	ProcessBatch(ctx context.Context, words []string) (*domain.BatchOutcome, error)
}

// Service is the caller boundary: it gathers words, skips stored ones,
// runs the batch and persists the records under the caller's identity.
type Service struct {
	store   Store
	runner  BatchRunner
	sources []wordlist.Source
	now     func() time.Time
	newID   func() string
	log     *slog.Logger

	saveTimeout time.Duration
}

// Config holds the service dependencies
type Config struct {
	Store  Store
	Runner BatchRunner

	// Sources are tried in order for ImportRequest.Location
	Sources []wordlist.Source

	Logger *slog.Logger
	Now    func() time.Time
	NewID  func() string

	// SaveTimeout defaults to DefaultSaveTimeout
	SaveTimeout time.Duration
}

func NewService(cfg Config) *Service {
	s := &Service{
		store:   cfg.Store,
		runner:  cfg.Runner,
		sources: cfg.Sources,
		now:     cfg.Now,
		newID:   cfg.NewID,
		log:     cfg.Logger,

		saveTimeout: cfg.SaveTimeout,
	}
	if s.saveTimeout <= 0 {
		s.saveTimeout = DefaultSaveTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.log = s.log.With("component", "vocabservice")
	return s
}

// ImportRequest describes one import run. Words and Location may be combined.
type ImportRequest struct {
	Owner    string
	Words    []string
	Location string

	// Refresh refetches words that are already stored
	Refresh bool
}

// ImportResult is the batch outcome after persistence plus what was skipped
type ImportResult struct {
	BatchID string
	Outcome *domain.BatchOutcome
	Skipped []string
}

// Import runs one batch for req.Owner. Per-word problems, including failed
// saves, end up in Outcome.Failures; errors are returned only when the run
// could not start.
func (s *Service) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	owner := strings.TrimSpace(req.Owner)
	if owner == "" {
		return nil, ErrOwnerRequired
	}

	words, err := s.collect(ctx, req)
	if err != nil {
		return nil, err
	}

	candidates := words
	var skipped []string
	if !req.Refresh {
		candidates, skipped, err = s.skipStored(ctx, words)
		if err != nil {
			return nil, err
		}
	}

	result := &ImportResult{
		BatchID: s.newID(),
		Skipped: skipped,
	}

	if len(candidates) == 0 && len(skipped) > 0 {
		s.log.InfoContext(ctx, "all words already stored", slog.Int("skipped", len(skipped)))
		result.Outcome = &domain.BatchOutcome{Records: []domain.WordRecord{}, Failures: []domain.Failure{}}
		return result, nil
	}

	outcome, err := s.runner.ProcessBatch(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("process batch: %w", err)
	}

	result.Outcome = s.persist(ctx, outcome, candidates, owner, result.BatchID)

	s.log.InfoContext(ctx, "import finished",
		slog.String("batch_id", result.BatchID),
		slog.String("owner", owner),
		slog.Int("saved", len(result.Outcome.Records)),
		slog.Int("failed", len(result.Outcome.Failures)),
		slog.Int("skipped", len(skipped)),
	)
	return result, nil
}

// collect merges explicit words with words read from the location
func (s *Service) collect(ctx context.Context, req ImportRequest) ([]string, error) {
	words := make([]string, 0, len(req.Words))
	for _, w := range req.Words {
		words = append(words, batch.Normalize(w))
	}

	if loc := strings.TrimSpace(req.Location); loc != "" {
		found, err := wordlist.Resolve(ctx, loc, s.sources...)
		if err != nil {
			return nil, fmt.Errorf("read word list: %w", err)
		}
		for _, w := range found {
			words = append(words, batch.Normalize(w))
		}
	}
	return words, nil
}

func (s *Service) skipStored(ctx context.Context, words []string) ([]string, []string, error) {
	stored, err := s.store.GetAllHeadwords(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get stored headwords: %w", err)
	}

	kept, err := filter.FilterWords(ctx, words, filter.NewAlreadyStoredFilter(stored))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to filter words: %w", err)
	}

	var skipped []string
	seen := make(map[string]bool)
	for _, w := range words {
		if stored[w] && !seen[w] {
			seen[w] = true
			skipped = append(skipped, w)
		}
	}
	return kept, skipped, nil
}

// persist saves each record; a failed save turns the record into a failure.
// Saving outlives cancellation of ctx so words fetched before an interrupt
// are kept. Failures come back in the order the words were processed.
func (s *Service) persist(ctx context.Context, outcome *domain.BatchOutcome, words []string, owner, batchID string) *domain.BatchOutcome {
	saved := &domain.BatchOutcome{
		Records:  make([]domain.WordRecord, 0, len(outcome.Records)),
		Failures: append([]domain.Failure{}, outcome.Failures...),
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.saveTimeout)
	defer cancel()

	now := s.now().UTC()
	for i := range outcome.Records {
		rec := outcome.Records[i]
		rec.Owner = owner
		rec.BatchID = batchID
		rec.UpdatedAt = now

		if err := s.store.SaveWord(saveCtx, &rec); err != nil {
			s.log.ErrorContext(ctx, "save failed", slog.String("word", rec.Headword), slog.String("error", err.Error()))
			saved.AddFailure(rec.Headword, "save: "+err.Error())
			continue
		}
		saved.AddRecord(rec)
	}

	sortByPosition(saved.Failures, words)
	return saved
}

// sortByPosition orders failures by where their word sits in words.
// Words not in the list keep their relative order at the end.
func sortByPosition(failures []domain.Failure, words []string) {
	pos := make(map[string]int, len(words))
	for i, w := range words {
		if _, ok := pos[w]; !ok {
			pos[w] = i
		}
	}
	rank := func(w string) int {
		if i, ok := pos[w]; ok {
			return i
		}
		return len(words)
	}
	slices.SortStableFunc(failures, func(a, b domain.Failure) int {
		return rank(a.Word) - rank(b.Word)
	})
}

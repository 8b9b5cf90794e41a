package replication

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"vocab-builder/pkg/db"
	"vocab-builder/pkg/domain"

	supabase "github.com/supabase-community/supabase-go"
)

const (
	processBatchSize = 100
	numWorkers       = 5
)

// WordSource is satisfied by *db.Client
type WordSource interface {
	GetAllWords(ctx context.Context) ([]domain.WordRecord, error)
}

// Sink is a replication target for the word table
type Sink interface {
	EnsureSchema(ctx context.Context) error
	Existing(ctx context.Context, headwords []string) (map[string]bool, error)
	Insert(ctx context.Context, rows []WordRow) error
}

// Config wires the replication dependencies. Exactly one target is used:
// Postgres when it has a live handle, otherwise the Supabase REST API.
type Config struct {
	Mongo    WordSource
	Postgres db.DBProvider
	Supabase *supabase.Client
	Logger   *slog.Logger

	// Sink overrides the target (tests)
	Sink Sink
}

// Replicator copies stored words from Mongo into a relational `word` table.
// It is a one-shot, "copy everything" flow that never overwrites rows.
type Replicator struct {
	mongo WordSource
	sink  Sink
	log   *slog.Logger
}

func NewReplicator(cfg Config) (*Replicator, error) {
	if cfg.Mongo == nil {
		return nil, fmt.Errorf("mongo client is required")
	}

	sink := cfg.Sink
	switch {
	case sink != nil:
	case cfg.Postgres != nil && cfg.Postgres.DB() != nil:
		sink = NewSQLSink(cfg.Postgres)
	case cfg.Supabase != nil:
		sink = NewRESTSink(cfg.Supabase)
	default:
		return nil, fmt.Errorf("postgres or supabase target is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Replicator{
		mongo: cfg.Mongo,
		sink:  sink,
		log:   logger.With("component", "replication"),
	}, nil
}

// Result counts what a replication run did
type Result struct {
	Processed int
	Inserted  int
}

// ReplicateWordsMongoToPostgres reads every stored word and inserts the ones
// whose headword is not in the target yet, in parallel batches.
func (r *Replicator) ReplicateWordsMongoToPostgres(ctx context.Context) (Result, error) {
	if err := r.sink.EnsureSchema(ctx); err != nil {
		return Result{}, err
	}

	words, err := r.mongo.GetAllWords(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("read words from mongo: %w", err)
	}

	r.log.InfoContext(ctx, "loaded words from mongo", slog.Int("count", len(words)))

	res, err := r.processBatches(ctx, words)
	if err != nil {
		return res, err
	}

	r.log.InfoContext(ctx, "replication complete",
		slog.Int("processed", res.Processed),
		slog.Int("inserted", res.Inserted),
	)
	return res, nil
}

// processBatches fans batches out to a fixed worker pool and fails on the first error
func (r *Replicator) processBatches(ctx context.Context, words []domain.WordRecord) (Result, error) {
	type batchJob struct {
		batch      []domain.WordRecord
		start, end int
	}
	type batchResult struct {
		processed int
		inserted  int
		err       error
	}

	numBatches := (len(words) + processBatchSize - 1) / processBatchSize
	jobs := make(chan batchJob, numBatches)
	results := make(chan batchResult, numBatches)

	for start := 0; start < len(words); start += processBatchSize {
		end := min(start+processBatchSize, len(words))
		jobs <- batchJob{batch: words[start:end], start: start, end: end}
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				inserted, err := r.processBatch(ctx, job.batch, job.start, job.end)
				results <- batchResult{processed: len(job.batch), inserted: inserted, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var total Result
	var firstErr error
	for result := range results {
		if result.err != nil {
			if firstErr == nil {
				firstErr = result.err
			}
			continue
		}
		total.Processed += result.processed
		total.Inserted += result.inserted
	}

	return total, firstErr
}

func (r *Replicator) processBatch(ctx context.Context, batch []domain.WordRecord, start, end int) (int, error) {
	headwords := headwordsOf(batch)
	if len(headwords) == 0 {
		return 0, nil
	}

	existing, err := r.sink.Existing(ctx, headwords)
	if err != nil {
		return 0, fmt.Errorf("check existing headwords for batch [%d:%d]: %w", start, end, err)
	}

	toInsert := make([]WordRow, 0, len(batch))
	for i := range batch {
		if batch[i].Headword == "" || existing[batch[i].Headword] {
			continue
		}
		row, err := NewWordRow(&batch[i])
		if err != nil {
			return 0, err
		}
		toInsert = append(toInsert, row)
	}

	r.log.DebugContext(ctx, "batch checked",
		slog.Int("start", start),
		slog.Int("end", end),
		slog.Int("existing", len(existing)),
		slog.Int("new", len(toInsert)),
	)

	if len(toInsert) == 0 {
		return 0, nil
	}
	if err := r.sink.Insert(ctx, toInsert); err != nil {
		return 0, fmt.Errorf("insert batch [%d:%d]: %w", start, end, err)
	}
	return len(toInsert), nil
}

func headwordsOf(batch []domain.WordRecord) []string {
	out := make([]string, 0, len(batch))
	for _, w := range batch {
		if w.Headword != "" {
			out = append(out, w.Headword)
		}
	}
	return out
}

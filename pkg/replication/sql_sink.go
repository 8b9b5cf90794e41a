package replication

import (
	"context"
	"crypto/md5"
	"database/sql"
	"fmt"
	"strings"

	"vocab-builder/pkg/db"
)

// SQLSink writes to Postgres (or Supabase's direct connection) through database/sql
type SQLSink struct {
	pg db.DBProvider
}

func NewSQLSink(pg db.DBProvider) *SQLSink {
	return &SQLSink{pg: pg}
}

func (s *SQLSink) EnsureSchema(ctx context.Context) error {
	if s.pg.DB() == nil {
		return fmt.Errorf("postgres DB not connected")
	}

	// headword is the primary key, which also gives us uniqueness
	const ddl = `
CREATE TABLE IF NOT EXISTS word (
  headword TEXT PRIMARY KEY,
  pronunciation_primary TEXT NOT NULL DEFAULT '',
  pronunciation_secondary TEXT NOT NULL DEFAULT '',
  audio_primary TEXT NOT NULL DEFAULT '',
  audio_secondary TEXT NOT NULL DEFAULT '',
  level TEXT NOT NULL DEFAULT '',
  frequency_band TEXT NOT NULL DEFAULT '',
  translated_headword TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL DEFAULT '',
  owner TEXT NOT NULL DEFAULT '',
  senses JSONB NOT NULL DEFAULT '[]'::jsonb,
  fetched_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

	if _, err := s.pg.DB().ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create word table: %w", err)
	}
	return nil
}

// Existing returns the subset of headwords already in the table
func (s *SQLSink) Existing(ctx context.Context, headwords []string) (map[string]bool, error) {
	if s.pg.DB() == nil {
		return nil, fmt.Errorf("postgres DB not connected")
	}
	if len(headwords) == 0 {
		return map[string]bool{}, nil
	}

	query, args := buildHeadwordInQuery(headwords)
	rows, err := s.pg.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query existing headwords: %w", err)
	}
	defer rows.Close()

	set := make(map[string]bool)
	for rows.Next() {
		var hw string
		if err := rows.Scan(&hw); err != nil {
			return nil, fmt.Errorf("scan headword: %w", err)
		}
		set[hw] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return set, nil
}

// Insert writes rows in one transaction; conflicts are skipped
func (s *SQLSink) Insert(ctx context.Context, rows []WordRow) error {
	tx, err := s.pg.DB().BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertQuery = `
INSERT INTO word (headword, pronunciation_primary, pronunciation_secondary, audio_primary, audio_secondary,
  level, frequency_band, translated_headword, source, owner, senses, fetched_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, $12, $13)
ON CONFLICT (headword) DO NOTHING`

	stmt, err := tx.PrepareContext(ctx, insertQuery)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.ExecContext(ctx,
			r.Headword, r.PronunciationPrimary, r.PronunciationSecondary, r.AudioPrimary, r.AudioSecondary,
			r.Level, r.FrequencyBand, r.TranslatedHeadword, r.Source, r.Owner, string(r.Senses),
			r.FetchedAt, r.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert word %q: %w", r.Headword, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// buildHeadwordInQuery builds a SELECT ... IN ($1..$n) query.
// The comment tag differs per batch so parallel workers never share a
// cached prepared statement.
func buildHeadwordInQuery(headwords []string) (string, []any) {
	hash := md5.Sum([]byte(headwords[0]))

	var b strings.Builder
	fmt.Fprintf(&b, `/* q_%d_%x */ SELECT headword FROM word WHERE headword IN (`, len(headwords), hash[:4])
	args := make([]any, len(headwords))
	for i, hw := range headwords {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "$%d", i+1)
		args[i] = hw
	}
	b.WriteString(")")
	return b.String(), args
}

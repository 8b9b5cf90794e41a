package replication

import (
	"context"
	"encoding/json"
	"fmt"

	supabase "github.com/supabase-community/supabase-go"
)

// RESTSink writes through the Supabase REST API, for projects where only
// the URL and a service key are available. The word table must already exist.
type RESTSink struct {
	client *supabase.Client
}

func NewRESTSink(client *supabase.Client) *RESTSink {
	return &RESTSink{client: client}
}

// EnsureSchema is a no-op: the REST API cannot run DDL
func (s *RESTSink) EnsureSchema(ctx context.Context) error {
	return nil
}

func (s *RESTSink) Existing(ctx context.Context, headwords []string) (map[string]bool, error) {
	if len(headwords) == 0 {
		return map[string]bool{}, nil
	}

	body, _, err := s.client.From("word").
		Select("headword", "", false).
		In("headword", headwords).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("query existing headwords: %w", err)
	}

	var found []struct {
		Headword string `json:"headword"`
	}
	if err := json.Unmarshal(body, &found); err != nil {
		return nil, fmt.Errorf("decode existing headwords: %w", err)
	}

	set := make(map[string]bool, len(found))
	for _, f := range found {
		set[f.Headword] = true
	}
	return set, nil
}

func (s *RESTSink) Insert(ctx context.Context, rows []WordRow) error {
	_, _, err := s.client.From("word").
		Insert(rows, false, "", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("insert %d words: %w", len(rows), err)
	}
	return nil
}

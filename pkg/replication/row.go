package replication

import (
	"encoding/json"
	"fmt"
	"time"

	"vocab-builder/pkg/domain"
)

// WordRow is the flat relational shape of a record; senses travel as JSONB
type WordRow struct {
	Headword               string          `json:"headword"`
	PronunciationPrimary   string          `json:"pronunciation_primary"`
	PronunciationSecondary string          `json:"pronunciation_secondary"`
	AudioPrimary           string          `json:"audio_primary"`
	AudioSecondary         string          `json:"audio_secondary"`
	Level                  string          `json:"level"`
	FrequencyBand          string          `json:"frequency_band"`
	TranslatedHeadword     string          `json:"translated_headword"`
	Source                 string          `json:"source"`
	Owner                  string          `json:"owner"`
	Senses                 json.RawMessage `json:"senses"`
	FetchedAt              time.Time       `json:"fetched_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// NewWordRow flattens rec. Missing timestamps default to now so older
// documents still satisfy the NOT NULL columns.
func NewWordRow(rec *domain.WordRecord) (WordRow, error) {
	senses := rec.Senses
	if senses == nil {
		senses = []domain.Sense{}
	}
	raw, err := json.Marshal(senses)
	if err != nil {
		return WordRow{}, fmt.Errorf("encode senses of %q: %w", rec.Headword, err)
	}

	now := time.Now().UTC()
	fetched := rec.FetchedAt
	if fetched.IsZero() {
		fetched = now
	}
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = fetched
	}

	return WordRow{
		Headword:               rec.Headword,
		PronunciationPrimary:   rec.Pronunciation.Primary,
		PronunciationSecondary: rec.Pronunciation.Secondary,
		AudioPrimary:           rec.Audio.Primary,
		AudioSecondary:         rec.Audio.Secondary,
		Level:                  rec.Level,
		FrequencyBand:          rec.FrequencyBand,
		TranslatedHeadword:     rec.TranslatedHeadword,
		Source:                 string(rec.Source),
		Owner:                  rec.Owner,
		Senses:                 raw,
		FetchedAt:              fetched,
		UpdatedAt:              updated,
	}, nil
}

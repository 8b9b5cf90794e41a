package domain

import "time"

// SourceOrigin identifies which dictionary produced a record.
type SourceOrigin string

const (
	SourcePrimary   SourceOrigin = "primary"
	SourceSecondary SourceOrigin = "secondary"
)

// Limits applied by every source extractor.
const (
	MaxSenses           = 3
	MaxExamplesPerSense = 2
)

// Dialects holds one value per pronunciation dialect.
// Primary is British English, Secondary is American English.
type Dialects struct {
	Primary   string `bson:"primary" json:"primary"`
	Secondary string `bson:"secondary" json:"secondary"`
}

// Sense is one dictionary meaning of a word.
type Sense struct {
	PartOfSpeech         string   `bson:"part_of_speech" json:"part_of_speech"`
	Definition           string   `bson:"definition" json:"definition"`
	Examples             []string `bson:"examples" json:"examples"`
	TranslatedDefinition string   `bson:"translated_definition" json:"translated_definition"`
}

// WordRecord is the normalized dictionary entry stored in the database.
//
// Owner, BatchID and UpdatedAt are set by the caller that persists the record,
// never by the fetching code.
type WordRecord struct {
	Headword           string       `bson:"headword" json:"headword"`
	Pronunciation      Dialects     `bson:"pronunciation" json:"pronunciation"`
	Audio              Dialects     `bson:"audio" json:"audio"`
	Level              string       `bson:"level" json:"level"`
	FrequencyBand      string       `bson:"frequency_band" json:"frequency_band"`
	Senses             []Sense      `bson:"senses" json:"senses"`
	TranslatedHeadword string       `bson:"translated_headword" json:"translated_headword"`
	Source             SourceOrigin `bson:"source" json:"source"`
	FetchedAt          time.Time    `bson:"fetched_at" json:"fetched_at"`

	Owner     string    `bson:"owner,omitempty" json:"owner,omitempty"`
	BatchID   string    `bson:"batch_id,omitempty" json:"batch_id,omitempty"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// FillPronunciationGaps copies a dialect's transcription into the other one
// when only one of them is known.
func (r *WordRecord) FillPronunciationGaps() {
	switch {
	case r.Pronunciation.Secondary == "" && r.Pronunciation.Primary != "":
		r.Pronunciation.Secondary = r.Pronunciation.Primary
	case r.Pronunciation.Primary == "" && r.Pronunciation.Secondary != "":
		r.Pronunciation.Primary = r.Pronunciation.Secondary
	}
}

// Failure records why a single word could not be turned into a record.
type Failure struct {
	Word   string `json:"word"`
	Reason string `json:"reason"`
}

// BatchOutcome is the result of processing a list of words.
// Partial success is normal: both lists may be non-empty.
type BatchOutcome struct {
	Records  []WordRecord `json:"records"`
	Failures []Failure    `json:"failures"`
}

// AddRecord appends a successful record.
func (o *BatchOutcome) AddRecord(rec WordRecord) {
	o.Records = append(o.Records, rec)
}

// AddFailure appends a per-word failure.
func (o *BatchOutcome) AddFailure(word, reason string) {
	o.Failures = append(o.Failures, Failure{Word: word, Reason: reason})
}

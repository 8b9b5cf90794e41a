package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocab-builder/pkg/db"
	"vocab-builder/pkg/domain"
)

func sampleRecord() domain.WordRecord {
	return domain.WordRecord{
		Headword:           "cat",
		TranslatedHeadword: "con mèo",
		Pronunciation:      domain.Dialects{Primary: "kæt", Secondary: "kæt"},
		Level:              "A1",
		Source:             domain.SourcePrimary,
		Senses: []domain.Sense{{
			PartOfSpeech:         "noun",
			Definition:           "a small animal with fur",
			TranslatedDefinition: "một con vật nhỏ có lông",
			Examples:             []string{"Have you fed the cat?"},
		}},
	}
}

func TestFormatRecord(t *testing.T) {
	want := "cat (con mèo) [A1]\n" +
		"  UK /kæt/  US /kæt/\n" +
		"  1. (noun) a small animal with fur\n" +
		"     một con vật nhỏ có lông\n" +
		"     - Have you fed the cat?\n"
	assert.Equal(t, want, formatRecord(sampleRecord()))
}

func TestPrintOutcome(t *testing.T) {
	outcome := &domain.BatchOutcome{
		Records:  []domain.WordRecord{sampleRecord()},
		Failures: []domain.Failure{{Word: "zzxq", Reason: "zzxq: primary (cambridge): word not found; secondary (oxford): word not found"}},
	}

	var buf bytes.Buffer
	require.NoError(t, printOutcome(&buf, outcome, false))
	assert.Contains(t, buf.String(), "failed (1):\n  zzxq: zzxq: primary (cambridge)")
	assert.Contains(t, buf.String(), "1 found, 1 failed")

	buf.Reset()
	require.NoError(t, printOutcome(&buf, outcome, true))
	var decoded domain.BatchOutcome
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "con mèo", decoded.Records[0].TranslatedHeadword)
}

func TestPrintPage(t *testing.T) {
	var buf bytes.Buffer
	page := &db.WordPage{Items: []domain.WordRecord{sampleRecord()}, Total: 41, Page: 2, PageSize: 20}
	require.NoError(t, printPage(&buf, page, false))

	assert.Contains(t, buf.String(), "HEADWORD")
	assert.Contains(t, buf.String(), "con mèo")
	assert.Contains(t, buf.String(), "page 2 of 3 (41 words)")
}

func TestPickLocation(t *testing.T) {
	kind, loc, err := pickLocation("", "https://example.com/feed", "")
	require.NoError(t, err)
	assert.Equal(t, "feed", kind)
	assert.Equal(t, "https://example.com/feed", loc)

	kind, loc, err = pickLocation("", "", "")
	require.NoError(t, err)
	assert.Empty(t, kind)
	assert.Empty(t, loc)

	_, _, err = pickLocation("words.txt", "", "https://example.com")
	assert.Error(t, err)
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"fetch", "import", "list", "search", "show", "replicate"} {
		assert.True(t, names[want], "missing %s", want)
	}
}

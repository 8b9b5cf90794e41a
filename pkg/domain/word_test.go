package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordRecord_FillPronunciationGaps(t *testing.T) {
	tests := []struct {
		name string
		in   Dialects
		want Dialects
	}{
		{"secondary copied from primary", Dialects{Primary: "/kæt/"}, Dialects{Primary: "/kæt/", Secondary: "/kæt/"}},
		{"primary copied from secondary", Dialects{Secondary: "/kæt/"}, Dialects{Primary: "/kæt/", Secondary: "/kæt/"}},
		{"both present untouched", Dialects{Primary: "/ɒ/", Secondary: "/ɑː/"}, Dialects{Primary: "/ɒ/", Secondary: "/ɑː/"}},
		{"both empty", Dialects{}, Dialects{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := WordRecord{Pronunciation: tt.in}
			rec.FillPronunciationGaps()
			assert.Equal(t, tt.want, rec.Pronunciation)
		})
	}
}

func TestBatchOutcome_Add(t *testing.T) {
	var o BatchOutcome
	o.AddRecord(WordRecord{Headword: "cat"})
	o.AddFailure("dog", "not found")

	assert.Len(t, o.Records, 1)
	assert.Equal(t, []Failure{{Word: "dog", Reason: "not found"}}, o.Failures)
}

package sites

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocab-builder/pkg/domain"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(b)
}

func TestCambridge_Extract(t *testing.T) {
	c := NewCambridge()

	rec, err := c.Extract(loadFixture(t, "cambridge_cat.html"), "cat")
	require.NoError(t, err)

	assert.Equal(t, "cat", rec.Headword)
	assert.Equal(t, "kæt", rec.Pronunciation.Primary)
	assert.Equal(t, "kæt̬", rec.Pronunciation.Secondary)
	assert.Equal(t, "https://dictionary.cambridge.org/media/english/uk_pron/u/ukc/ukcas/ukcastr020.mp3", rec.Audio.Primary)
	assert.Equal(t, "https://audio.example.com/us_pron/c/cat/cat__/cat.mp3", rec.Audio.Secondary)
	assert.Equal(t, "A1", rec.Level)
	assert.Empty(t, rec.FrequencyBand)

	require.Len(t, rec.Senses, domain.MaxSenses)
	first := rec.Senses[0]
	assert.Equal(t, "noun", first.PartOfSpeech)
	assert.Equal(t, "a small animal with fur, four legs, a tail, and claws, usually kept as a pet or for catching mice", first.Definition)
	assert.Equal(t, []string{"Have you fed the cat?", "The cat purred on my lap."}, first.Examples)

	// the empty definition block is skipped, not counted
	assert.Equal(t, "any member of the group of animals similar to the cat, such as the lion", rec.Senses[1].Definition)
	assert.Equal(t, []string{"The big cats are in danger."}, rec.Senses[1].Examples)
	assert.Equal(t, "a man, especially one who is fashionable", rec.Senses[2].Definition)
	assert.Empty(t, rec.Senses[2].Examples)

	for _, s := range rec.Senses {
		assert.LessOrEqual(t, len(s.Examples), domain.MaxExamplesPerSense)
		assert.Empty(t, s.TranslatedDefinition)
	}
}

func TestCambridge_PartOfSpeechPerEntry(t *testing.T) {
	rec, err := NewCambridge().Extract(loadFixture(t, "cambridge_two_entries.html"), "cake")
	require.NoError(t, err)

	require.Len(t, rec.Senses, 2)
	assert.Equal(t, "noun", rec.Senses[0].PartOfSpeech)
	assert.Equal(t, "verb", rec.Senses[1].PartOfSpeech)
	assert.Equal(t, "to cover something thickly", rec.Senses[1].Definition)
}

func TestCambridge_PronunciationFallback(t *testing.T) {
	rec, err := NewCambridge().Extract(loadFixture(t, "cambridge_uk_only.html"), "elephant")
	require.NoError(t, err)

	assert.Equal(t, "ˈel.ɪ.fənt", rec.Pronunciation.Primary)
	assert.Equal(t, rec.Pronunciation.Primary, rec.Pronunciation.Secondary)
	assert.Empty(t, rec.Audio.Primary)
	assert.Empty(t, rec.Audio.Secondary)
	assert.Empty(t, rec.Level)
}

func TestCambridge_NotFound(t *testing.T) {
	tests := []struct {
		name   string
		markup string
	}{
		{name: "empty body", markup: ""},
		{name: "whitespace", markup: "  \n\t"},
		{name: "spellcheck page", markup: loadFixture(t, "cambridge_spellcheck.html")},
		{name: "empty dictionary shell", markup: loadFixture(t, "cambridge_shell.html")},
		{name: "entry without definitions", markup: `<div class="entry-body"><div class="entry-body__el"><span class="pos">noun</span></div></div>`},
		{name: "oxford page", markup: loadFixture(t, "oxford_run.html")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NewCambridge().Extract(tt.markup, "zzxq")
			assert.ErrorIs(t, err, ErrWordNotFound)
			assert.Nil(t, rec)
		})
	}
}

func TestCambridge_URL(t *testing.T) {
	assert.Equal(t, "https://dictionary.cambridge.org/dictionary/english/serendipity", NewCambridge().URL("serendipity"))
	assert.Equal(t, "http://127.0.0.1:8080/dictionary/english/ice-cream", NewCambridgeWithOrigin("http://127.0.0.1:8080/").URL("Ice  Cream"))
}

func TestOxford_Extract(t *testing.T) {
	rec, err := NewOxford().Extract(loadFixture(t, "oxford_run.html"), "run")
	require.NoError(t, err)

	assert.Equal(t, "run", rec.Headword)
	assert.Equal(t, "rʌn", rec.Pronunciation.Primary)
	assert.Equal(t, "rʌn", rec.Pronunciation.Secondary)
	assert.Equal(t, "https://www.oxfordlearnersdictionaries.com/media/english/uk_pron/r/run/run__/run__gb_1.mp3", rec.Audio.Primary)
	assert.Equal(t, "https://www.oxfordlearnersdictionaries.com/media/english/us_pron/r/run/run__/run__us_1.mp3", rec.Audio.Secondary)
	assert.Equal(t, "A1", rec.Level)
	assert.Equal(t, "ox3000", rec.FrequencyBand)

	require.Len(t, rec.Senses, domain.MaxSenses)
	assert.Equal(t, "verb", rec.Senses[0].PartOfSpeech)
	assert.Equal(t, "to move using your legs, going faster than when you walk", rec.Senses[0].Definition)
	assert.Equal(t, []string{"Can you run as fast as Mike?", "They ran for the bus."}, rec.Senses[0].Examples)
	assert.Equal(t, []string{"Holmes ran a fine race."}, rec.Senses[1].Examples)
	assert.Equal(t, "to manage a business", rec.Senses[2].Definition)
	assert.Empty(t, rec.Senses[2].Examples)
}

func TestOxford_SecondaryOnlyAndBand(t *testing.T) {
	rec, err := NewOxford().Extract(loadFixture(t, "oxford_us_only_5k.html"), "lexicon")
	require.NoError(t, err)

	assert.Equal(t, "ˈleksɪkɑːn", rec.Pronunciation.Secondary)
	assert.Equal(t, rec.Pronunciation.Secondary, rec.Pronunciation.Primary)
	assert.Equal(t, "https://www.oxfordlearnersdictionaries.com/media/english/us_pron/l/lex/lexicon__us_1.mp3", rec.Audio.Secondary)
	assert.Empty(t, rec.Audio.Primary)
	assert.Equal(t, "C1", rec.Level)
	assert.Equal(t, "ox5000", rec.FrequencyBand)
	require.Len(t, rec.Senses, 1)
	assert.Equal(t, "noun", rec.Senses[0].PartOfSpeech)
}

func TestOxford_NotFound(t *testing.T) {
	tests := []struct {
		name   string
		markup string
	}{
		{name: "empty body", markup: ""},
		{name: "did you mean page", markup: loadFixture(t, "oxford_didyoumean.html")},
		{name: "cambridge page", markup: loadFixture(t, "cambridge_cat.html")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOxford().Extract(tt.markup, "zzxq")
			assert.ErrorIs(t, err, ErrWordNotFound)
		})
	}
}

func TestExtract_Deterministic(t *testing.T) {
	markup := loadFixture(t, "cambridge_cat.html")
	c := NewCambridge()

	a, err := c.Extract(markup, "cat")
	require.NoError(t, err)
	b, err := c.Extract(markup, "cat")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestSourcesIdentity(t *testing.T) {
	var primary, secondary Source = NewCambridge(), NewOxford()

	assert.Equal(t, "cambridge", primary.Name())
	assert.Equal(t, domain.SourcePrimary, primary.Origin())
	assert.Equal(t, "oxford", secondary.Name())
	assert.Equal(t, domain.SourceSecondary, secondary.Origin())
}

func TestAbsoluteURL(t *testing.T) {
	origin := "https://dictionary.cambridge.org"
	tests := []struct {
		href string
		want string
	}{
		{href: "", want: ""},
		{href: "/media/a.mp3", want: "https://dictionary.cambridge.org/media/a.mp3"},
		{href: "media/a.mp3", want: "https://dictionary.cambridge.org/media/a.mp3"},
		{href: "//cdn.example.com/a.mp3", want: "https://cdn.example.com/a.mp3"},
		{href: "http://example.com/a.mp3", want: "http://example.com/a.mp3"},
		{href: " https://example.com/a.mp3 ", want: "https://example.com/a.mp3"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, absoluteURL(origin, tt.href), "href %q", tt.href)
	}
}

func TestCollectExamples_SkipsCrossReferences(t *testing.T) {
	assert.True(t, isCrossReference("→ See also dog"))
	assert.True(t, isCrossReference("☞ compare kitten"))
	assert.False(t, isCrossReference("The cat sat on the mat."))
}

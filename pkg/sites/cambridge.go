package sites

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vocab-builder/pkg/domain"
)

// CambridgeOrigin is the public origin of the Cambridge dictionary
const CambridgeOrigin = "https://dictionary.cambridge.org"

// Cambridge reads entry pages of the Cambridge English dictionary.
// It is the primary source: richer senses, CEFR levels, UK and US audio.
type Cambridge struct {
	origin string
}

// NewCambridge creates the extractor for the public site
func NewCambridge() *Cambridge {
	return NewCambridgeWithOrigin(CambridgeOrigin)
}

// NewCambridgeWithOrigin creates the extractor for another host (mirrors, tests)
func NewCambridgeWithOrigin(origin string) *Cambridge {
	return &Cambridge{origin: strings.TrimRight(origin, "/")}
}

func (c *Cambridge) Name() string                { return "cambridge" }
func (c *Cambridge) Origin() domain.SourceOrigin { return domain.SourcePrimary }

// URL returns the entry page for word
func (c *Cambridge) URL(word string) string {
	return c.origin + "/dictionary/english/" + slug(word)
}

// Extract builds a record from a Cambridge entry page.
//
// Missing words either land on a spellcheck page or on an empty dictionary
// shell, so the page must contain an entry block and no search markers.
func (c *Cambridge) Extract(markup, word string) (*domain.WordRecord, error) {
	doc, err := parseDocument(markup, ".entry-body .entry-body__el", []string{
		".cdo-search__no-results",
		".spellcheck",
	})
	if err != nil {
		return nil, err
	}

	rec := &domain.WordRecord{
		Headword: word,
		Pronunciation: domain.Dialects{
			Primary:   text(doc.Find(".uk.dpron-i .ipa")),
			Secondary: text(doc.Find(".us.dpron-i .ipa")),
		},
		Audio: domain.Dialects{
			Primary:   c.audio(doc.Find(".uk.dpron-i")),
			Secondary: c.audio(doc.Find(".us.dpron-i")),
		},
		Level:  text(doc.Find(".epp-xref")),
		Senses: c.senses(doc),
	}
	rec.FillPronunciationGaps()

	if len(rec.Senses) == 0 {
		return nil, ErrWordNotFound
	}
	return rec, nil
}

// audio returns the mp3 link of the first pronunciation block
func (c *Cambridge) audio(block *goquery.Selection) string {
	src, ok := block.First().Find(`source[type="audio/mpeg"]`).First().Attr("src")
	if !ok {
		return ""
	}
	return absoluteURL(c.origin, src)
}

// senses walks definition blocks in document order
func (c *Cambridge) senses(doc *goquery.Document) []domain.Sense {
	var senses []domain.Sense

	doc.Find(".entry-body .def-block").EachWithBreak(func(i int, block *goquery.Selection) bool {
		def := strings.TrimSuffix(text(block.Find(".def")), ":")
		def = strings.TrimSpace(def)
		if def == "" {
			return true
		}

		entry := block.Closest(".entry-body__el")
		senses = append(senses, domain.Sense{
			PartOfSpeech: text(entry.Find(".pos-header .pos")),
			Definition:   def,
			Examples:     collectExamples(block.Find(".examp .eg")),
		})
		return len(senses) < domain.MaxSenses
	})

	return senses
}

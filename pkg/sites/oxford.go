package sites

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vocab-builder/pkg/domain"
)

// OxfordOrigin is the public origin of Oxford Learner's Dictionaries
const OxfordOrigin = "https://www.oxfordlearnersdictionaries.com"

// Oxford reads entry pages of Oxford Learner's Dictionaries.
// It is the secondary source and the only one exposing the Oxford 3000/5000 bands.
type Oxford struct {
	origin string
}

// NewOxford creates the extractor for the public site
func NewOxford() *Oxford {
	return NewOxfordWithOrigin(OxfordOrigin)
}

// NewOxfordWithOrigin creates the extractor for another host (mirrors, tests)
func NewOxfordWithOrigin(origin string) *Oxford {
	return &Oxford{origin: strings.TrimRight(origin, "/")}
}

func (o *Oxford) Name() string                { return "oxford" }
func (o *Oxford) Origin() domain.SourceOrigin { return domain.SourceSecondary }

// URL returns the entry page for word
func (o *Oxford) URL(word string) string {
	return o.origin + "/definition/english/" + slug(word)
}

// Extract builds a record from an Oxford entry page.
// Unknown words are served as a "did you mean" list.
func (o *Oxford) Extract(markup, word string) (*domain.WordRecord, error) {
	doc, err := parseDocument(markup, "#entryContent .entry", []string{
		"#didyoumean",
		".result-list",
	})
	if err != nil {
		return nil, err
	}

	webtop := doc.Find(".webtop").First()
	level, band := o.symbols(webtop.Find(".symbols span"))

	rec := &domain.WordRecord{
		Headword: word,
		Pronunciation: domain.Dialects{
			Primary:   phonetic(webtop.Find(".phons_br .phon")),
			Secondary: phonetic(webtop.Find(".phons_n_am .phon")),
		},
		Audio: domain.Dialects{
			Primary:   o.audio(webtop.Find(".phons_br .sound")),
			Secondary: o.audio(webtop.Find(".phons_n_am .sound")),
		},
		Level:         level,
		FrequencyBand: band,
		Senses:        o.senses(doc, text(webtop.Find(".pos"))),
	}
	rec.FillPronunciationGaps()

	if len(rec.Senses) == 0 {
		return nil, ErrWordNotFound
	}
	return rec, nil
}

// phonetic drops the slashes Oxford prints around IPA
func phonetic(s *goquery.Selection) string {
	return strings.TrimSpace(strings.Trim(text(s), "/"))
}

func (o *Oxford) audio(sound *goquery.Selection) string {
	src, ok := sound.First().Attr("data-src-mp3")
	if !ok {
		return ""
	}
	return absoluteURL(o.origin, src)
}

// symbols decodes level/band icons such as <span class="ox3ksym_a1">
// into ("A1", "ox3000"). The first recognised icon wins.
func (o *Oxford) symbols(spans *goquery.Selection) (level, band string) {
	spans.EachWithBreak(func(i int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		for _, c := range strings.Fields(class) {
			switch {
			case strings.HasPrefix(c, "ox3ksym_"):
				band = "ox3000"
				level = strings.ToUpper(strings.TrimPrefix(c, "ox3ksym_"))
			case strings.HasPrefix(c, "ox5ksym_"):
				band = "ox5000"
				level = strings.ToUpper(strings.TrimPrefix(c, "ox5ksym_"))
			default:
				continue
			}
			return false
		}
		return true
	})
	return level, band
}

// senses walks li.sense blocks in document order.
// Oxford prints the part of speech once per entry.
func (o *Oxford) senses(doc *goquery.Document, pos string) []domain.Sense {
	var senses []domain.Sense

	doc.Find("#entryContent li.sense").EachWithBreak(func(i int, block *goquery.Selection) bool {
		def := text(block.Find(".def"))
		if def == "" {
			return true
		}

		senses = append(senses, domain.Sense{
			PartOfSpeech: pos,
			Definition:   def,
			Examples:     collectExamples(block.Find("ul.examples .x")),
		})
		return len(senses) < domain.MaxSenses
	})

	return senses
}

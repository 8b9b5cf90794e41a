package enricher

import (
	"context"
	"log/slog"

	"vocab-builder/pkg/domain"
)

// Translator is satisfied by *translate.Translator
type Translator interface {
	Translate(ctx context.Context, text string) string
}

// Enricher fills the translated fields of a resolved record
type Enricher struct {
	translator Translator
	log        *slog.Logger
}

func New(translator Translator, logger *slog.Logger) *Enricher {
	return &Enricher{
		translator: translator,
		log:        logger.With("component", "enricher"),
	}
}

// Enrich translates the headword and every sense definition in place and
// returns the same record. Misses leave the translated field empty.
func (e *Enricher) Enrich(ctx context.Context, rec *domain.WordRecord) *domain.WordRecord {
	rec.TranslatedHeadword = e.translator.Translate(ctx, rec.Headword)

	missed := 0
	if rec.TranslatedHeadword == "" {
		missed++
	}
	for i := range rec.Senses {
		rec.Senses[i].TranslatedDefinition = e.translator.Translate(ctx, rec.Senses[i].Definition)
		if rec.Senses[i].TranslatedDefinition == "" {
			missed++
		}
	}

	if missed > 0 {
		e.log.DebugContext(ctx, "translation incomplete",
			slog.String("word", rec.Headword),
			slog.Int("missed", missed),
		)
	}
	return rec
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"vocab-builder/pkg/batch"
	"vocab-builder/pkg/db"
	"vocab-builder/pkg/domain"
)

func normalizeArg(word string) string {
	return batch.Normalize(word)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func printOutcome(w io.Writer, outcome *domain.BatchOutcome, asJSON bool) error {
	if asJSON {
		return writeJSON(w, outcome)
	}

	if err := printRecords(w, outcome.Records, false); err != nil {
		return err
	}
	if len(outcome.Failures) > 0 {
		fmt.Fprintf(w, "\nfailed (%d):\n", len(outcome.Failures))
		for _, f := range outcome.Failures {
			fmt.Fprintf(w, "  %s: %s\n", f.Word, f.Reason)
		}
	}
	fmt.Fprintf(w, "\n%d found, %d failed\n", len(outcome.Records), len(outcome.Failures))
	return nil
}

func printPage(w io.Writer, page *db.WordPage, asJSON bool) error {
	if asJSON {
		return writeJSON(w, page)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "HEADWORD\tLEVEL\tSOURCE\tVIETNAMESE\tOWNER")
	for _, rec := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", rec.Headword, dash(rec.Level), rec.Source, dash(rec.TranslatedHeadword), dash(rec.Owner))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	pages := (page.Total + int64(page.PageSize) - 1) / int64(page.PageSize)
	fmt.Fprintf(w, "page %d of %d (%d words)\n", page.Page, pages, page.Total)
	return nil
}

func printRecords(w io.Writer, recs []domain.WordRecord, asJSON bool) error {
	if asJSON {
		return writeJSON(w, recs)
	}

	for i, rec := range recs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprint(w, formatRecord(rec))
	}
	return nil
}

// formatRecord renders one record as a short dictionary card
func formatRecord(rec domain.WordRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s", rec.Headword)
	if rec.TranslatedHeadword != "" {
		fmt.Fprintf(&b, " (%s)", rec.TranslatedHeadword)
	}
	if rec.Level != "" {
		fmt.Fprintf(&b, " [%s]", rec.Level)
	}
	if rec.FrequencyBand != "" {
		fmt.Fprintf(&b, " {%s}", rec.FrequencyBand)
	}
	b.WriteString("\n")

	if rec.Pronunciation.Primary != "" {
		fmt.Fprintf(&b, "  UK /%s/  US /%s/\n", rec.Pronunciation.Primary, rec.Pronunciation.Secondary)
	}

	for i, s := range rec.Senses {
		fmt.Fprintf(&b, "  %d. ", i+1)
		if s.PartOfSpeech != "" {
			fmt.Fprintf(&b, "(%s) ", s.PartOfSpeech)
		}
		b.WriteString(s.Definition)
		b.WriteString("\n")
		if s.TranslatedDefinition != "" {
			fmt.Fprintf(&b, "     %s\n", s.TranslatedDefinition)
		}
		for _, ex := range s.Examples {
			fmt.Fprintf(&b, "     - %s\n", ex)
		}
	}
	return b.String()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"vocab-builder/pkg/httpclient"
)

const (
	// DefaultBaseURL is the public gtx endpoint
	DefaultBaseURL = "https://translate.googleapis.com/translate_a/single"

	DefaultTimeout    = 5 * time.Second
	DefaultSourceLang = "en"
	DefaultTargetLang = "vi"
)

var errEmptyTranslation = errors.New("empty translation")

// Config selects the endpoint and language pair
type Config struct {
	BaseURL    string
	SourceLang string
	TargetLang string
	Timeout    time.Duration
}

// Translator turns English text into the target language.
// Translate never fails: any problem yields an empty string.
type Translator struct {
	fetcher httpclient.Fetcher
	cfg     Config
	log     *slog.Logger
}

// New creates a Translator. Zero config fields fall back to the defaults.
func New(fetcher httpclient.Fetcher, cfg Config, logger *slog.Logger) *Translator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.SourceLang == "" {
		cfg.SourceLang = DefaultSourceLang
	}
	if cfg.TargetLang == "" {
		cfg.TargetLang = DefaultTargetLang
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Translator{
		fetcher: fetcher,
		cfg:     cfg,
		log:     logger.With("component", "translate"),
	}
}

// Translate returns the first translated segment of text, or "" on any failure
func (t *Translator) Translate(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	body, err := t.fetcher.Fetch(ctx, t.requestURL(text), t.cfg.Timeout)
	if err != nil {
		t.log.WarnContext(ctx, "translation request failed",
			slog.String("text", text),
			slog.String("error", err.Error()),
		)
		return ""
	}

	translated, err := parseResponse(body)
	if err != nil {
		t.log.WarnContext(ctx, "translation response unusable",
			slog.String("text", text),
			slog.String("error", err.Error()),
		)
		return ""
	}

	t.log.DebugContext(ctx, "translated", slog.String("text", text), slog.String("result", translated))
	return translated
}

func (t *Translator) requestURL(text string) string {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", t.cfg.SourceLang)
	q.Set("tl", t.cfg.TargetLang)
	q.Set("dt", "t")
	q.Set("q", text)
	return t.cfg.BaseURL + "?" + q.Encode()
}

// parseResponse reads [0][0][0] of the nested array the endpoint returns:
// [[["xin chào","hello",null,null,10]],null,"en",...]
func parseResponse(body string) (string, error) {
	var root []json.RawMessage
	if err := json.Unmarshal([]byte(body), &root); err != nil {
		return "", fmt.Errorf("decode json: %w", err)
	}
	if len(root) == 0 {
		return "", errEmptyTranslation
	}

	var segments [][]any
	if err := json.Unmarshal(root[0], &segments); err != nil {
		return "", fmt.Errorf("decode segments: %w", err)
	}
	if len(segments) == 0 || len(segments[0]) == 0 {
		return "", errEmptyTranslation
	}

	first, ok := segments[0][0].(string)
	if !ok {
		return "", fmt.Errorf("unexpected segment type %T", segments[0][0])
	}
	first = strings.TrimSpace(first)
	if first == "" {
		return "", errEmptyTranslation
	}
	return first, nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"

	"vocab-builder/pkg/batch"
	"vocab-builder/pkg/config"
	"vocab-builder/pkg/db"
	"vocab-builder/pkg/enricher"
	"vocab-builder/pkg/httpclient"
	"vocab-builder/pkg/logging"
	"vocab-builder/pkg/resolver"
	"vocab-builder/pkg/sites"
	"vocab-builder/pkg/translate"
	"vocab-builder/pkg/wordlist"
)

// app holds what every command needs; it is built once in PersistentPreRunE
type app struct {
	cfg *config.Config
	log *slog.Logger

	browser *httpclient.HTTPClient
	api     *httpclient.HTTPClient
}

func newApp(cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		log:     logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}),
		browser: httpclient.NewClient(httpclient.BrowserClient, httpclient.WithUserAgent(cfg.Fetch.UserAgent)),
		api:     httpclient.NewClient(httpclient.APIClient, httpclient.WithUserAgent(cfg.Fetch.UserAgent)),
	}, nil
}

func (a *app) processor() *batch.Processor {
	res := resolver.New(
		a.browser,
		sites.NewCambridgeWithOrigin(a.cfg.Sources.CambridgeURL),
		sites.NewOxfordWithOrigin(a.cfg.Sources.OxfordURL),
		a.log,
		resolver.WithTimeout(a.cfg.Fetch.Timeout),
	)

	tr := translate.New(a.api, translate.Config{
		BaseURL:    a.cfg.Translate.BaseURL,
		SourceLang: a.cfg.Translate.SourceLang,
		TargetLang: a.cfg.Translate.TargetLang,
		Timeout:    a.cfg.Translate.Timeout,
	}, a.log)

	return batch.NewProcessor(res, enricher.New(tr, a.log), a.log,
		batch.WithPacer(batch.DelayPacer{Delay: a.cfg.Batch.Delay}),
		batch.WithMaxWords(a.cfg.Batch.MaxWords),
	)
}

// wordSources returns the list readers for the chosen kind; "" means all, in fallback order
func (a *app) wordSources(kind string) []wordlist.Source {
	file := wordlist.NewFileSource()
	feed := wordlist.NewFeedSource(a.browser, a.cfg.Fetch.Timeout)
	article := wordlist.NewArticleSource(a.browser, a.cfg.Fetch.Timeout, a.cfg.Batch.MaxWords)

	switch kind {
	case "file":
		return []wordlist.Source{file}
	case "feed":
		return []wordlist.Source{feed}
	case "url":
		return []wordlist.Source{article}
	default:
		return []wordlist.Source{file, feed, article}
	}
}

// connectMongo opens the word store; the caller owns Close
func (a *app) connectMongo(ctx context.Context) (*db.Client, error) {
	client := db.NewClient(a.cfg.Mongo.URI, a.cfg.Mongo.Database, a.cfg.Mongo.Collection)
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := client.EnsureIndexes(ctx); err != nil {
		_ = client.Close(ctx)
		return nil, err
	}
	return client, nil
}

func (a *app) poolConfig() db.PoolConfig {
	return db.PoolConfig{
		MaxOpenConns: a.cfg.Postgres.MaxOpenConns,
		MaxIdleConns: a.cfg.Postgres.MaxIdleConns,
		ConnMaxLife:  a.cfg.Postgres.ConnMaxLife,
	}
}

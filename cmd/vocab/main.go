package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vocab-builder/pkg/db"
	"vocab-builder/pkg/domain"
	"vocab-builder/pkg/replication"
	"vocab-builder/pkg/vocabservice"
)

type rootFlags struct {
	cfgFile string
	owner   string
	asJSON  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}
	var a *app

	rootCmd := &cobra.Command{
		Use:   "vocab",
		Short: "Build an English-Vietnamese vocabulary from dictionary sites",
		Long: `vocab looks words up in the Cambridge dictionary, falls back to
Oxford Learner's Dictionaries, adds Vietnamese translations and stores
the results in MongoDB.

Examples:
  vocab fetch serendipity "ice cream"   # look up without saving
  vocab import --file words.txt         # look up and save a word list
  vocab import --feed https://example.com/wotd.rss
  vocab list --level B2
  vocab search ser`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(flags.cfgFile)
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.cfgFile, "config", "", "config file (default $VOCAB_CONFIG or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.owner, "owner", os.Getenv("USER"), "identity recorded on imported words")
	rootCmd.PersistentFlags().BoolVar(&flags.asJSON, "json", false, "print JSON instead of text")

	appRef := func() *app { return a }
	rootCmd.AddCommand(
		newFetchCommand(appRef, flags),
		newImportCommand(appRef, flags),
		newListCommand(appRef, flags),
		newSearchCommand(appRef, flags),
		newShowCommand(appRef, flags),
		newReplicateCommand(appRef),
	)
	return rootCmd
}

func newFetchCommand(appRef func() *app, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <word>...",
		Short: "Look words up and print the records without saving them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := appRef().processor().ProcessBatch(cmd.Context(), args)
			if err != nil {
				return err
			}
			return printOutcome(cmd.OutOrStdout(), outcome, flags.asJSON)
		},
	}
}

func newImportCommand(appRef func() *app, flags *rootFlags) *cobra.Command {
	var (
		file, feed, page string
		refresh          bool
	)

	cmd := &cobra.Command{
		Use:   "import [word]...",
		Short: "Look words up and save them",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appRef()
			ctx := cmd.Context()

			kind, location, err := pickLocation(file, feed, page)
			if err != nil {
				return err
			}
			if location == "" && len(args) == 0 {
				return errors.New("give words as arguments or one of --file, --feed, --url")
			}

			store, err := a.connectMongo(ctx)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			svc := vocabservice.NewService(vocabservice.Config{
				Store:   store,
				Runner:  a.processor(),
				Sources: a.wordSources(kind),
				Logger:  a.log,
			})

			start := time.Now()
			res, err := svc.Import(ctx, vocabservice.ImportRequest{
				Owner:    flags.owner,
				Words:    args,
				Location: location,
				Refresh:  refresh,
			})
			if err != nil {
				return err
			}

			a.log.Info("import done", "batch_id", res.BatchID, "duration", time.Since(start).String())
			if len(res.Skipped) > 0 && !flags.asJSON {
				fmt.Fprintf(cmd.OutOrStdout(), "skipped %d stored words (use --refresh to refetch)\n", len(res.Skipped))
			}
			return printOutcome(cmd.OutOrStdout(), res.Outcome, flags.asJSON)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "read words from a file, one per line")
	cmd.Flags().StringVar(&feed, "feed", "", "read words from RSS/Atom item titles")
	cmd.Flags().StringVar(&page, "url", "", "mine words from an article page")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "refetch words that are already stored")
	return cmd
}

func newListCommand(appRef func() *app, flags *rootFlags) *cobra.Command {
	var (
		q    db.WordQuery
		mine bool
		src  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored words, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appRef()
			ctx := cmd.Context()

			if mine {
				q.Owner = flags.owner
			}
			q.Source = domain.SourceOrigin(src)

			store, err := a.connectMongo(ctx)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			page, err := store.ListWords(ctx, q)
			if err != nil {
				return err
			}
			return printPage(cmd.OutOrStdout(), page, flags.asJSON)
		},
	}

	cmd.Flags().StringVar(&q.Level, "level", "", "only words at this CEFR level")
	cmd.Flags().StringVar(&src, "source", "", "only words from primary or secondary source")
	cmd.Flags().IntVar(&q.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&q.PageSize, "page-size", db.DefaultPageSize, "words per page")
	cmd.Flags().BoolVar(&mine, "mine", false, "only words imported by --owner")
	return cmd
}

func newSearchCommand(appRef func() *app, flags *rootFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <prefix>",
		Short: "Find stored words by headword prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := appRef().connectMongo(ctx)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			words, err := store.SearchWords(ctx, args[0], limit)
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), words, flags.asJSON)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum results")
	return cmd
}

func newShowCommand(appRef func() *app, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <word>",
		Short: "Print one stored word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := appRef().connectMongo(ctx)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			rec, err := store.GetWord(ctx, normalizeArg(args[0]))
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), []domain.WordRecord{*rec}, flags.asJSON)
		},
	}
}

func newReplicateCommand(appRef func() *app) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "replicate",
		Short: "Copy stored words into Postgres or Supabase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appRef()
			ctx := cmd.Context()

			store, err := a.connectMongo(ctx)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			repCfg := replication.Config{Mongo: store, Logger: a.log}
			switch target {
			case "postgres":
				pg := db.NewPostgresClient(db.PostgresConfig{DSN: a.cfg.Postgres.DSN, Pool: a.poolConfig()})
				if err := pg.Connect(ctx); err != nil {
					return err
				}
				defer pg.Close()
				repCfg.Postgres = pg

			case "supabase":
				if !a.cfg.Supabase.Enabled() {
					return errors.New("supabase is not configured")
				}
				sb := db.NewSupabaseClient(db.SupabaseConfig{
					ConnectionString: a.cfg.Supabase.ConnectionString,
					SupabaseURL:      a.cfg.Supabase.URL,
					SupabaseKey:      a.cfg.Supabase.Key,
					Password:         a.cfg.Supabase.Password,
					Pool:             a.poolConfig(),
				})
				if err := sb.Connect(ctx); err != nil {
					return err
				}
				defer sb.Close()
				if sb.HasDirectDB() {
					repCfg.Postgres = sb
				} else {
					repCfg.Supabase = sb.SDK()
				}

			default:
				return fmt.Errorf("unknown target %q (postgres or supabase)", target)
			}

			rep, err := replication.NewReplicator(repCfg)
			if err != nil {
				return err
			}
			res, err := rep.ReplicateWordsMongoToPostgres(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "processed %d words, inserted %d\n", res.Processed, res.Inserted)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "postgres", "postgres or supabase")
	return cmd
}

// pickLocation allows at most one list location flag
func pickLocation(file, feed, page string) (kind, location string, err error) {
	set := 0
	for _, c := range []struct{ kind, value string }{{"file", file}, {"feed", feed}, {"url", page}} {
		if c.value != "" {
			set++
			kind, location = c.kind, c.value
		}
	}
	if set > 1 {
		return "", "", errors.New("use only one of --file, --feed, --url")
	}
	return kind, location, nil
}

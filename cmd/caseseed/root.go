package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/johnwards/caseseed/internal/config"
	"github.com/johnwards/caseseed/internal/database"
	"github.com/johnwards/caseseed/internal/store"
)

type globalFlags struct {
	verbose bool
	envFile string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "caseseed",
		Short: "Seed a case-management database with sample data",
		Long: `caseseed fills a case-management database with an interlinked sample
dataset (practice areas, a law firm, users, cases, participants, messages,
notes and calendar events) and mirrors it to the configured email, SMS, chat,
calendar and text-analytics providers.

Credentials are read from the environment or a .env file. Providers without
credentials are skipped.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if flags.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return config.LoadEnvFile(flags.envFile)
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log every item, not just summaries")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "dotenv file to load (default .env, ignored when absent)")

	cmd.AddCommand(newSeedCmd(), newPracticeAreasCmd(), newArchiveCmd())
	return cmd
}

// openStore loads configuration, opens and migrates the database. The caller
// closes the returned db.
func openStore(ctx context.Context) (config.Config, *sql.DB, *store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, nil, err
	}

	db, dialect, err := database.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.Migrate(ctx, db, dialect); err != nil {
		_ = db.Close()
		return cfg, nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("database ready", "driver", dialect, "dsn", redactDSN(cfg.DBDSN))
	return cfg, db, store.New(db, dialect), nil
}

// redactDSN hides the password in URL-style DSNs.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	return u.Redacted()
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnwards/caseseed/internal/seed"
	"github.com/johnwards/caseseed/internal/store"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func newSeedCmd() *cobra.Command {
	var randSeed uint64

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Run the full seeding pipeline",
		Long: `Seed practice areas, the law firm, users, cases and their participants,
then generate messages, notes and calendar events for every case.

Keyed rows (practice areas, firm, users, cases, participants) are reused when
they already exist, so the command can be run repeatedly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			cfg, db, st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			p, err := buildProviders(ctx, cfg, st, slog.Default())
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("seed") {
				randSeed = uint64(time.Now().UnixNano())
			}
			slog.Info("random seed", "seed", randSeed)

			s, err := seed.New(seed.Options{
				Writer:   store.NewGateway(st),
				Notifier: p.notifier,
				Calendar: p.calendar,
				Enricher: p.enricher,
				Password: cfg.SeedPassword,
				Rand:     rand.New(rand.NewPCG(randSeed, randSeed)),
				Logger:   slog.Default(),
			})
			if err != nil {
				return err
			}

			report, err := s.Run(ctx)
			fmt.Fprint(cmd.OutOrStdout(), report.String())
			if err != nil {
				return fmt.Errorf("seed (%s): %w", seed.KindOf(err), err)
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&randSeed, "seed", 0, "Random seed for generated messages, notes and events (default: time based)")
	return cmd
}

func newPracticeAreasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "practice-areas",
		Short: "Refresh practice areas from the full catalog",
		Long: `Replace the practice areas with the full catalog. Areas missing from the
catalog are removed unless a case still references them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			_, db, st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			sr, err := seed.RefreshPracticeAreas(ctx, st, seed.PracticeAreaCatalog, slog.Default())
			if err != nil {
				return fmt.Errorf("refresh practice areas: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "practice areas: %d added, %d kept, %d removed, %d skipped\n",
				sr.Created, sr.Existing, sr.Removed, sr.Skipped)
			return nil
		},
	}
}

func newArchiveCmd() *cobra.Command {
	var archiveDays, purgeDays int

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive old cases and purge long-archived ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			_, db, st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			day := 24 * time.Hour
			res, err := seed.Archive(ctx, st, time.Now(),
				time.Duration(archiveDays)*day, time.Duration(purgeDays)*day, slog.Default())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cases: %d archived, %d purged\n", res.Archived, res.Purged)
			return nil
		},
	}

	cmd.Flags().IntVar(&archiveDays, "archive-after-days", 365, "Archive cases created more than this many days ago")
	cmd.Flags().IntVar(&purgeDays, "purge-after-days", 730, "Delete archived cases created more than this many days ago")
	return cmd
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/johnwards/backoffice/internal/config"
	"github.com/johnwards/backoffice/internal/database"
	"github.com/johnwards/backoffice/internal/seed"
)

func newMigrateCmd(load func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			h, err := openMigrated(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer func() { _ = h.Close() }()

			slog.Info("schema up to date", "driver", h.Dialect.Name())
			return nil
		},
	}
}

func newSeedCmd(load func() (config.Config, error)) *cobra.Command {
	var (
		reset      bool
		randomSeed uint64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo data set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			h, err := openMigrated(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer func() { _ = h.Close() }()

			if reset {
				if err := database.Truncate(ctx, h.SQL); err != nil {
					return err
				}
			}
			if err := seed.SeedWith(ctx, h.SQL, h.Dialect, randomSeed); err != nil {
				return fmt.Errorf("seed data: %w", err)
			}
			slog.Info("seed complete", "reset", reset, "seed", randomSeed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "delete all rows before seeding")
	cmd.Flags().Uint64Var(&randomSeed, "random-seed", seed.DefaultSeed, "random seed for generated documents")
	return cmd
}

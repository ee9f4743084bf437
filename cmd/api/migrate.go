// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/shopora/internal/platform/migration"
)

func newMigrateCommand() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	migrate.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending up migrations",
		RunE: func(*cobra.Command, []string) error {
			return withMigrator(func(runner *migration.Runner) error {
				return stage("run_migrations", runner.Up())
			})
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		RunE: func(*cobra.Command, []string) error {
			return withMigrator(func(runner *migration.Runner) error {
				return stage("rollback_migrations", runner.Down(steps))
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	migrate.AddCommand(down)

	migrate.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied migration version",
		RunE: func(command *cobra.Command, _ []string) error {
			return withMigrator(func(runner *migration.Runner) error {
				version, dirty, err := runner.Version()
				if err != nil {
					return stage("read_version", err)
				}
				fmt.Fprintf(command.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
				return nil
			})
		},
	})

	return migrate
}

// withMigrator loads configuration and hands an open runner to run.
func withMigrator(run func(*migration.Runner) error) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	runner, err := migration.Open(cfg.DatabaseURL, cfg.MigrationPath, log)
	if err != nil {
		return stage("open_migrations", err)
	}
	defer runner.Close()

	return run(runner)
}

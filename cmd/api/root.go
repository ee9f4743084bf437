// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taibuivan/shopora/internal/platform/config"
	"github.com/taibuivan/shopora/internal/platform/constants"
	"github.com/taibuivan/shopora/internal/platform/logger"
)

func newRootCommand() *cobra.Command {
	serve := newServeCommand()

	root := &cobra.Command{
		Use:           "shopora",
		Short:         "Shopora storefront API",
		Version:       constants.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Running the binary without a subcommand starts the server.
		RunE: serve.RunE,
	}

	root.AddCommand(
		serve,
		newMigrateCommand(),
		newWorkerCommand(),
		newUserCommand(),
	)
	return root
}

// bootstrap loads the configuration and builds the root logger. Every
// command starts with it.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(logger.Options{
		App:   constants.AppName,
		Debug: cfg.Debug,
		File:  cfg.LogFile,
	})
	zap.ReplaceGlobals(log)

	log.Info("configuration_loaded",
		zap.String("environment", cfg.Environment),
		zap.String("auth_provider", cfg.AuthProvider),
		zap.String("mail_queue", cfg.MailQueue),
		zap.String("storage_backend", cfg.StorageBackend),
	)
	return cfg, log, nil
}

// stage wraps a startup error with the step that failed.
func stage(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

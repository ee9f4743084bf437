// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	pgstore "github.com/taibuivan/shopora/internal/platform/postgres"
	"github.com/taibuivan/shopora/internal/platform/sec"
	"github.com/taibuivan/shopora/internal/platform/validate"
	"github.com/taibuivan/shopora/internal/users/auth"
	"github.com/taibuivan/shopora/pkg/clock"
)

func newUserCommand() *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "Administer user profiles",
	}

	var email, role string
	promote := &cobra.Command{
		Use:   "promote",
		Short: "Change the role of the profile registered under --email",
		Example: `  shopora user promote --email owner@shopora.app --role admin
  shopora user promote --email former@shopora.app --role user`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return promoteUser(cmd.Context(), email, role)
		},
	}
	promote.Flags().StringVar(&email, "email", "", "email of the profile to update")
	promote.Flags().StringVar(&role, "role", string(sec.RoleAdmin), "new role: admin or user")
	_ = promote.MarkFlagRequired("email")

	user.AddCommand(promote)
	return user
}

func promoteUser(ctx context.Context, email, role string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	validator := &validate.Validator{}
	validator.Email("email", email).OneOf("role", role, string(sec.RoleAdmin), string(sec.RoleUser))
	if err := validator.Err(); err != nil {
		return err
	}

	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	pool, err := pgstore.NewPool(ctx, databaseOptions(cfg), log)
	if err != nil {
		return stage("connect_postgres", err)
	}
	defer pool.Close()

	profiles := auth.NewPostgresProfileStore(pool, clock.System())
	profile, err := profiles.SetRole(ctx, email, sec.UserRole(role))
	if err != nil {
		return stage("set_role", err)
	}

	log.Info("user_role_changed", zap.String("user_id", profile.ID), zap.String("role", role))
	fmt.Printf("%s is now %s\n", profile.Email, profile.Role)
	return nil
}

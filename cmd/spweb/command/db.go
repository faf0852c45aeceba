// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/smartplate/smartplate/pkg/adapter/config"
	"github.com/smartplate/smartplate/pkg/adapter/db/postgres"
	"github.com/smartplate/smartplate/pkg/core/repo"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For a fresh installation, the init sub-command creates the expected
tables and indices in the configured database.`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the database schema",
	Long: `Initialize the database schema, creating the participants
and food requests tables and their indices if they do not exist yet.
The database connection information are read from the config file.
Running it against an already initialized database is harmless.`,
	RunE: initSchema,
	Args: cobra.NoArgs,
}

func initSchema(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	p, err := c.ConnectionPool(ctx, repo.AdminRole)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	err = p.Conn(ctx, func(ctx context.Context, conn repo.Conn) error {
		return postgres.InitSchema(ctx, conn)
	})
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func init() {
	dbCmd.AddCommand(initCmd)
	rootCmd.AddCommand(dbCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/francesco-c/acceptance-filler/internal/infrastructure/config"
)

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check the connection to the acceptance database",
		RunE:  runPing,
	}
}

func runPing(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	return withDeps(cfg, func(deps *Deps) error {
		if err := deps.Store.Ping(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Connected to %s\n", describeDatabase(cfg.Database))
		return nil
	})
}

// describeDatabase names the database without credentials.
func describeDatabase(db config.DatabaseConfig) string {
	if db.Driver == config.DriverSQLite {
		return fmt.Sprintf("sqlite database %s", db.Path)
	}
	return fmt.Sprintf("%s database %s on %s:%d", db.Driver, db.Name, db.Host, db.Port)
}

// Package main provides the entry point for the acceptance-filler CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"

	globalConfig    string
	globalLogLevel  string
	globalLogFormat string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:           "acceptance-filler",
		Short:         "Fill a spreadsheet of persons with their acceptance history",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globalConfig, "config", "c", "", "Config file (default: ./"+defaultConfigName+" if present)")
	rootCmd.PersistentFlags().StringVar(&globalLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&globalLogFormat, "log-format", "", "Log format (text, json)")

	rootCmd.AddCommand(
		newFillCmd(),
		newPingCmd(),
		newColumnsCmd(),
		newInitCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}

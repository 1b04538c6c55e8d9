package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
)

func newColumnsCmd() *cobra.Command {
	var maxPeriods int

	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Print the report header",
		Long:  "Prints the report columns, one per line, for the configured number of period groups.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("max-periods") {
				cfg.Match.MaxPeriods = maxPeriods
			}
			if cfg.Match.MaxPeriods <= 0 {
				return fmt.Errorf("max periods must be positive, got %d", cfg.Match.MaxPeriods)
			}

			header := entities.ReportHeader(cfg.Match.MaxPeriods)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(header, "\n"))
			return err
		},
	}

	cmd.Flags().IntVar(&maxPeriods, "max-periods", entities.DefaultMaxPeriods, "Acceptance periods reported per person")

	return cmd
}

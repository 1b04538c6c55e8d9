package main

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/francesco-c/acceptance-filler/internal/application/handlers"
	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
	"github.com/francesco-c/acceptance-filler/internal/domain/services"
	"github.com/francesco-c/acceptance-filler/internal/infrastructure/config"
	"github.com/francesco-c/acceptance-filler/internal/infrastructure/parsers"
	"github.com/francesco-c/acceptance-filler/internal/infrastructure/reportwriter"
)

type fillFlags struct {
	inputFile   string
	outputFile  string
	mode        string
	resume      bool
	dateWindow  bool
	windowDays  int
	maxPeriods  int
	format      string
	print       string
	metricsFile string
}

func newFillCmd() *cobra.Command {
	var flags fillFlags

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the report for an input file of persons",
		Long: `Reads persons from the input spreadsheet, looks up their acceptance periods
and writes one row per person with up to --max-periods period groups.

In batch mode the report is written once at the end. In incremental mode each
row is written as soon as it is produced; with --resume an interrupted run
continues after the rows already in the output.`,
		Example: `  acceptance-filler fill --input_file ./xls/persons.xlsx
  acceptance-filler fill --input_file persons.csv --output_file out.csv --date-window
  acceptance-filler fill --input_file persons.xlsx --mode incremental --resume`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFill(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.inputFile, "input_file", "", "Input spreadsheet of persons (xlsx, csv, json)")
	cmd.Flags().StringVar(&flags.outputFile, "output_file", config.DefaultOutputFile, "Output report (xlsx, csv)")
	cmd.Flags().StringVarP(&flags.mode, "mode", "m", "batch", "Output mode (batch, incremental)")
	cmd.Flags().BoolVar(&flags.resume, "resume", false, "Continue an incremental report already holding rows")
	cmd.Flags().BoolVar(&flags.dateWindow, "date-window", false, "Only report periods starting after the person's reference date minus --window-days")
	cmd.Flags().IntVar(&flags.windowDays, "window-days", services.DefaultWindowDays, "Tolerance in days for --date-window")
	cmd.Flags().IntVar(&flags.maxPeriods, "max-periods", entities.DefaultMaxPeriods, "Acceptance periods reported per person")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "Input format (auto, csv, xlsx, json)")
	cmd.Flags().StringVarP(&flags.print, "print", "p", "markdown", "Print the table to stdout (markdown, csv, json, none)")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "Write run metrics to this file in prometheus text format")
	_ = cmd.MarkFlagRequired("input_file")

	return cmd
}

// applyFillFlags overrides cfg with the flags set on the command line.
// Unset flags leave the configured values in place.
func applyFillFlags(fs *pflag.FlagSet, flags fillFlags, cfg *config.Config) error {
	if fs.Changed("output_file") {
		cfg.Report.Output = flags.outputFile
	}
	if fs.Changed("mode") {
		cfg.Report.Mode = flags.mode
	}
	if fs.Changed("print") {
		cfg.Report.Print = flags.print
	}
	if fs.Changed("format") {
		cfg.Input.Format = flags.format
	}
	if fs.Changed("date-window") {
		cfg.Match.DateWindow = flags.dateWindow
	}
	if fs.Changed("window-days") {
		cfg.Match.WindowDays = flags.windowDays
	}
	if fs.Changed("max-periods") {
		cfg.Match.MaxPeriods = flags.maxPeriods
	}

	if !slices.Contains(validPrintFormats, cfg.Report.Print) {
		return fmt.Errorf("invalid print format %q, valid formats: %v", cfg.Report.Print, validPrintFormats)
	}
	if !slices.Contains(validInputFormats, cfg.Input.Format) {
		return fmt.Errorf("invalid input format %q, valid formats: %v", cfg.Input.Format, validInputFormats)
	}
	if !slices.Contains(validModes, cfg.Report.Mode) {
		return fmt.Errorf("invalid mode %q, valid modes: %v", cfg.Report.Mode, validModes)
	}
	if flags.resume && cfg.Report.Mode != string(services.ModeIncremental) {
		return errors.New("--resume requires --mode incremental")
	}
	return nil
}

func personColumns(cols config.ColumnsConfig) parsers.PersonColumns {
	return parsers.PersonColumns{
		ID:          cols.ID,
		Name:        cols.Name,
		Surname:     cols.Surname,
		BirthNation: cols.BirthNation,
		BirthDate:   cols.BirthDate,
		Gender:      cols.Gender,
		FromDate:    cols.FromDate,
	}
}

func runFill(cmd *cobra.Command, flags fillFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyFillFlags(cmd.Flags(), flags, cfg); err != nil {
		return err
	}

	mode, err := services.ParseMode(cfg.Report.Mode)
	if err != nil {
		return err
	}

	writer, err := reportwriter.ForFile(cfg.Report.Output)
	if err != nil {
		return err
	}
	defer writer.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(cfg, func(deps *Deps) error {
		opts := handlers.FillOptions{
			Format:  cfg.Input.Format,
			Columns: personColumns(cfg.Input.Columns),
			Mode:    mode,
			Resume:  flags.resume,
		}

		var printErr error
		if mode == services.ModeBatch && cfg.Report.Print != "none" {
			opts.Preview = func(header []string, table [][]entities.Cell) {
				printErr = formatTable(out, cfg.Report.Print, header, table)
			}
		}

		deps.Logger.InfoContext(ctx, "fill started",
			"input", flags.inputFile,
			"output", cfg.Report.Output,
			"mode", mode,
			"driver", cfg.Database.Driver,
		)

		result, err := deps.FillHandler.Handle(ctx, flags.inputFile, writer, opts)
		if err != nil {
			return err
		}
		if printErr != nil {
			return fmt.Errorf("printing table: %w", printErr)
		}
		if mode == services.ModeIncremental && cfg.Report.Print != "none" {
			if err := formatTable(out, cfg.Report.Print, result.Header, result.Rows); err != nil {
				return fmt.Errorf("printing table: %w", err)
			}
		}

		if flags.metricsFile != "" {
			if err := deps.Metrics.WriteTextfile(flags.metricsFile); err != nil {
				return err
			}
		}

		printSummary(cmd.ErrOrStderr(), result, cfg.Report.Output)
		return nil
	})
}

func printSummary(w io.Writer, result *handlers.FillResult, output string) {
	fmt.Fprintf(w, "Filled %d of %d persons into %s (%d matched, %d periods", len(result.Rows), result.Persons, output, result.Matched, result.Periods)
	if result.Truncated > 0 {
		fmt.Fprintf(w, ", %d truncated", result.Truncated)
	}
	if result.Skipped > 0 {
		fmt.Fprintf(w, ", %d already present", result.Skipped)
	}
	fmt.Fprintln(w, ")")
}

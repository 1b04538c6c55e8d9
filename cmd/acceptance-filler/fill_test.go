package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francesco-c/acceptance-filler/internal/application/handlers"
	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
	"github.com/francesco-c/acceptance-filler/internal/infrastructure/config"
)

// parseFillFlags parses args with the fill command's flag set.
func parseFillFlags(t *testing.T, args ...string) (*pflag.FlagSet, fillFlags) {
	t.Helper()
	cmd := newFillCmd()
	require.NoError(t, cmd.ParseFlags(args))
	// Flag values are bound to a closure variable; read them back.
	fs := cmd.Flags()
	var f fillFlags
	var err error
	f.inputFile, err = fs.GetString("input_file")
	require.NoError(t, err)
	f.outputFile, _ = fs.GetString("output_file")
	f.mode, _ = fs.GetString("mode")
	f.resume, _ = fs.GetBool("resume")
	f.dateWindow, _ = fs.GetBool("date-window")
	f.windowDays, _ = fs.GetInt("window-days")
	f.maxPeriods, _ = fs.GetInt("max-periods")
	f.format, _ = fs.GetString("format")
	f.print, _ = fs.GetString("print")
	return fs, f
}

func TestApplyFillFlags_KeepsConfigForUnsetFlags(t *testing.T) {
	cfg := config.Default()
	cfg.Report.Output = "./from-config.csv"
	cfg.Match.DateWindow = true

	fs, flags := parseFillFlags(t, "--input_file", "persons.xlsx")
	require.NoError(t, applyFillFlags(fs, flags, cfg))

	assert.Equal(t, "./from-config.csv", cfg.Report.Output)
	assert.True(t, cfg.Match.DateWindow)
	assert.Equal(t, "batch", cfg.Report.Mode)
}

func TestApplyFillFlags_Overrides(t *testing.T) {
	cfg := config.Default()

	fs, flags := parseFillFlags(t,
		"--input_file", "persons.xlsx",
		"--output_file", "out.csv",
		"--mode", "incremental",
		"--resume",
		"--date-window",
		"--window-days", "3",
		"--max-periods", "2",
		"--format", "xlsx",
		"--print", "none",
	)
	require.NoError(t, applyFillFlags(fs, flags, cfg))

	assert.Equal(t, "persons.xlsx", flags.inputFile)
	assert.Equal(t, "out.csv", cfg.Report.Output)
	assert.Equal(t, "incremental", cfg.Report.Mode)
	assert.True(t, cfg.Match.DateWindow)
	assert.Equal(t, 3, cfg.Match.WindowDays)
	assert.Equal(t, 2, cfg.Match.MaxPeriods)
	assert.Equal(t, "xlsx", cfg.Input.Format)
	assert.Equal(t, "none", cfg.Report.Print)
}

func TestApplyFillFlags_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{"print format", []string{"--print", "html"}, "invalid print format"},
		{"input format", []string{"--format", "ods"}, "invalid input format"},
		{"mode", []string{"--mode", "stream"}, "invalid mode"},
		{"resume in batch mode", []string{"--resume"}, "--resume requires"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, flags := parseFillFlags(t, append([]string{"--input_file", "x.csv"}, tt.args...)...)
			err := applyFillFlags(fs, flags, config.Default())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestPersonColumns(t *testing.T) {
	cols := personColumns(config.Default().Input.Columns)
	assert.Equal(t, "nome", cols.Name)
	assert.Equal(t, "cognome", cols.Surname)
	assert.Equal(t, "ingresso", cols.FromDate)
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, &handlers.FillResult{
		Persons:   3,
		Skipped:   1,
		Matched:   1,
		Periods:   6,
		Truncated: 2,
		Rows:      make([][]entities.Cell, 2),
	}, "out.xlsx")

	assert.Equal(t, "Filled 2 of 3 persons into out.xlsx (1 matched, 6 periods, 2 truncated, 1 already present)\n", buf.String())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)
	logger.Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	logger, err = newLogger(config.LogConfig{Level: "warn"}, &buf)
	require.NoError(t, err)
	logger.Info("hidden")
	assert.Empty(t, buf.String())
	assert.True(t, logger.Enabled(t.Context(), slog.LevelWarn))

	_, err = newLogger(config.LogConfig{Level: "loud"}, &buf)
	require.Error(t, err)
	_, err = newLogger(config.LogConfig{Format: "xml"}, &buf)
	require.Error(t, err)
}

func TestDescribeDatabase(t *testing.T) {
	assert.Equal(t, "sqlite database /tmp/a.db", describeDatabase(config.DatabaseConfig{Driver: "sqlite", Path: "/tmp/a.db"}))
	assert.Equal(t, "mysql database printer_counter on localhost:3306", describeDatabase(config.Default().Database))
}

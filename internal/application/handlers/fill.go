// Package handlers wires infrastructure to the reconcile pipeline for the CLI.
package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
	"github.com/francesco-c/acceptance-filler/internal/domain/ports"
	"github.com/francesco-c/acceptance-filler/internal/domain/services"
	"github.com/francesco-c/acceptance-filler/internal/infrastructure/parsers"
)

// FillHandler handles filling a report from an input file of persons.
type FillHandler struct {
	service *services.ReconcileService
}

// NewFillHandler creates a new fill handler.
func NewFillHandler(service *services.ReconcileService) *FillHandler {
	return &FillHandler{
		service: service,
	}
}

// FillOptions controls fill behavior.
type FillOptions struct {
	Format  string // "json", "csv", "xlsx", or "auto"
	Columns parsers.PersonColumns
	Mode    services.Mode
	Resume  bool // Continue an incremental report, skipping persons already written
	// Preview, if set, receives the assembled table before a batch write.
	Preview func(header []string, table [][]entities.Cell)
}

// FillResult contains the result of a fill operation.
type FillResult struct {
	Persons   int // persons read from the input
	Skipped   int // persons already in a resumed output
	Matched   int
	Periods   int
	Truncated int
	Written   int // data rows in the output
	Header    []string
	Rows      [][]entities.Cell // rows produced by this run
}

// Handle reads persons from inputPath and writes their report through writer.
// Every input row is validated before the store is queried.
func (h *FillHandler) Handle(ctx context.Context, inputPath string, writer ports.ReportWriter, opts FillOptions) (*FillResult, error) {
	persons, err := h.readPersons(inputPath, opts)
	if err != nil {
		return nil, err
	}

	mode := opts.Mode
	if mode == "" {
		mode = services.ModeBatch
	}
	acc := services.NewAccumulator(writer, mode, h.service.MaxPeriods())
	acc.SetPreview(opts.Preview)

	skip := 0
	if opts.Resume {
		existing, err := writer.CountRows()
		if err != nil {
			return nil, fmt.Errorf("counting existing report rows: %w", err)
		}
		header, err := writer.ReadHeader()
		if err != nil {
			return nil, fmt.Errorf("reading existing report header: %w", err)
		}
		if err := acc.Resume(header, existing); err != nil {
			return nil, fmt.Errorf("resuming report: %w", err)
		}
		skip = existing
	}

	result, err := h.service.Run(ctx, persons, acc, skip)
	if err != nil {
		return nil, err
	}

	return &FillResult{
		Persons:   len(persons),
		Skipped:   result.Skipped,
		Matched:   result.Matched,
		Periods:   result.Periods,
		Truncated: result.Truncated,
		Written:   result.Written,
		Header:    acc.Header(),
		Rows:      acc.Table(),
	}, nil
}

// readPersons parses and validates the input file.
func (h *FillHandler) readPersons(inputPath string, opts FillOptions) ([]entities.Person, error) {
	// Get parser
	var parser parsers.Parser
	if opts.Format == "" || opts.Format == "auto" {
		parser = parsers.ForFile(inputPath)
	} else {
		parser = parsers.ForFormat(opts.Format)
	}

	if parser == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", inputPath)
	}

	// Open file
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer file.Close()

	table, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", inputPath, err)
	}

	inputs, err := parsers.ToPersonInputs(inputPath, table, opts.Columns)
	if err != nil {
		return nil, err
	}

	persons := make([]entities.Person, 0, len(inputs))
	for _, in := range inputs {
		p, err := entities.NewPerson(in)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", inputPath, err)
		}
		persons = append(persons, p)
	}

	return persons, nil
}

package services

import (
	"errors"
	"fmt"
	"slices"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
	"github.com/francesco-c/acceptance-filler/internal/domain/ports"
)

// Mode selects when the accumulator writes to the output.
type Mode string

const (
	// ModeBatch buffers every row and writes the table once on Flush.
	ModeBatch Mode = "batch"
	// ModeIncremental writes the header with the first row and appends
	// each following row as it is added.
	ModeIncremental Mode = "incremental"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeBatch, ModeIncremental:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid mode %q (valid: batch, incremental)", s)
	}
}

var (
	// ErrAlreadyFlushed is returned when a batch accumulator is flushed or
	// added to after its single write.
	ErrAlreadyFlushed = errors.New("report already flushed")
	// ErrHeaderMismatch is returned when resuming a report whose header
	// differs from the one this run writes.
	ErrHeaderMismatch = errors.New("existing report header does not match")
)

// Accumulator collects report rows in input order and emits them through a
// ReportWriter. The data-row offset of the next append is tracked here, so
// the output is never re-read to find where to write.
type Accumulator struct {
	writer ports.ReportWriter
	mode   Mode
	header []string

	rows          []entities.ReportRow
	offset        int // data rows persisted in the output
	headerWritten bool
	flushed       bool
	preview       func(header []string, table [][]entities.Cell)
}

// NewAccumulator creates an accumulator for reports with maxPeriods groups.
func NewAccumulator(writer ports.ReportWriter, mode Mode, maxPeriods int) *Accumulator {
	return &Accumulator{
		writer: writer,
		mode:   mode,
		header: entities.ReportHeader(maxPeriods),
	}
}

// Header returns the report header.
func (a *Accumulator) Header() []string {
	return a.header
}

// SetPreview registers fn to receive the assembled table right before a
// batch flush writes it.
func (a *Accumulator) SetPreview(fn func(header []string, table [][]entities.Cell)) {
	a.preview = fn
}

// Resume continues an incremental report whose output already holds
// existing data rows below header.
func (a *Accumulator) Resume(header []string, existing int) error {
	if a.mode != ModeIncremental {
		return fmt.Errorf("resume requires %s mode", ModeIncremental)
	}
	if existing < 0 {
		return fmt.Errorf("invalid existing row count %d", existing)
	}
	if len(a.rows) > 0 || a.headerWritten {
		return errors.New("resume must be called before adding rows")
	}
	if existing > 0 && !slices.Equal(header, a.header) {
		return fmt.Errorf("%w: %d columns, this run writes %d", ErrHeaderMismatch, len(header), len(a.header))
	}
	a.offset = existing
	a.headerWritten = existing > 0
	return nil
}

// Add appends row. In incremental mode the row is written immediately.
func (a *Accumulator) Add(row entities.ReportRow) error {
	if a.flushed {
		return ErrAlreadyFlushed
	}
	a.rows = append(a.rows, row)

	if a.mode != ModeIncremental {
		return nil
	}

	cells := [][]entities.Cell{row.Cells()}
	if !a.headerWritten {
		if err := a.writer.WriteTable(a.header, cells); err != nil {
			return fmt.Errorf("writing report header: %w", err)
		}
		a.headerWritten = true
		a.offset = 1
		return nil
	}

	if err := a.writer.WriteRows(a.offset, cells); err != nil {
		return fmt.Errorf("appending report row %d: %w", a.offset+1, err)
	}
	a.offset++
	return nil
}

// Flush completes the report. Batch mode writes header and all rows;
// incremental mode only writes a bare header when nothing was written yet.
func (a *Accumulator) Flush() error {
	if a.flushed {
		return ErrAlreadyFlushed
	}
	a.flushed = true

	if a.mode == ModeIncremental {
		if a.headerWritten {
			return nil
		}
		if err := a.writer.WriteTable(a.header, nil); err != nil {
			return fmt.Errorf("writing report header: %w", err)
		}
		a.headerWritten = true
		return nil
	}

	table := a.Table()
	if a.preview != nil {
		a.preview(a.header, table)
	}
	if err := a.writer.WriteTable(a.header, table); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	a.offset = len(a.rows)
	a.headerWritten = true
	return nil
}

// Rows returns the rows added so far, in input order.
func (a *Accumulator) Rows() []entities.ReportRow {
	return a.rows
}

// Table returns the added rows as cells.
func (a *Accumulator) Table() [][]entities.Cell {
	table := make([][]entities.Cell, 0, len(a.rows))
	for _, r := range a.rows {
		table = append(table, r.Cells())
	}
	return table
}

// Written returns the number of data rows persisted in the output.
func (a *Accumulator) Written() int {
	return a.offset
}

package mocks

import (
	"fmt"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
)

// ReportWriter is an in-memory implementation of ports.ReportWriter.
type ReportWriter struct {
	Header []string
	Rows   [][]entities.Cell
	Err    error

	// Call tracking
	WriteTableCallCount int
	WriteRowsCallCount  int
	CountRowsCallCount  int
	ReadHeaderCallCount int
	Offsets             []int
}

// WriteTable replaces the stored table.
func (m *ReportWriter) WriteTable(header []string, rows [][]entities.Cell) error {
	m.WriteTableCallCount++
	if m.Err != nil {
		return m.Err
	}
	m.Header = append([]string(nil), header...)
	m.Rows = append([][]entities.Cell(nil), rows...)
	return nil
}

// WriteRows writes rows at offset. Offsets past the end are rejected so
// tests catch gaps.
func (m *ReportWriter) WriteRows(offset int, rows [][]entities.Cell) error {
	m.WriteRowsCallCount++
	m.Offsets = append(m.Offsets, offset)
	if m.Err != nil {
		return m.Err
	}
	if offset > len(m.Rows) {
		return fmt.Errorf("offset %d past end %d", offset, len(m.Rows))
	}
	m.Rows = append(m.Rows[:offset], rows...)
	return nil
}

// CountRows returns the number of stored rows.
func (m *ReportWriter) CountRows() (int, error) {
	m.CountRowsCallCount++
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.Rows), nil
}

// ReadHeader returns the stored header.
func (m *ReportWriter) ReadHeader() ([]string, error) {
	m.ReadHeaderCallCount++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Header, nil
}

// Close is a no-op.
func (m *ReportWriter) Close() error {
	return nil
}

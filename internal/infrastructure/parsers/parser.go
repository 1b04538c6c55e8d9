// Package parsers reads person rows from spreadsheet-like input files.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// RawRow is one input record before validation: column name to raw cell
// value. A nil value is an empty cell.
type RawRow struct {
	LineNum int // Line (CSV), sheet row (XLSX) or array index (JSON), 1-indexed
	Values  map[string]*string
}

// Get returns the value of col and whether the column exists in the row.
func (r RawRow) Get(col string) (*string, bool) {
	v, ok := r.Values[col]
	return v, ok
}

// Table is the parsed content of an input file.
type Table struct {
	// Header lists the named columns in input order. It is nil for formats
	// without a header line, where columns are only known per row.
	Header []string
	Rows   []RawRow
}

// Parser defines the interface for reading rows from an input format.
type Parser interface {
	Parse(r io.Reader) (*Table, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv", "xlsx".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	case "xlsx", "xlsm":
		return &XLSXParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	return ForFormat(ext)
}

func cell(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

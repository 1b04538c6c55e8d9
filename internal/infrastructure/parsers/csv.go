package parsers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
)

const sourceCSV = "csv input"

// CSVParser reads rows from CSV with a header line.
type CSVParser struct{}

// Parse reads CSV from the reader. Empty cells become nil values.
func (p *CSVParser) Parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)

	header, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	rows, err := p.readRecords(reader, header)
	if err != nil {
		return nil, err
	}
	return &Table{Header: headerNames(header), Rows: rows}, nil
}

// readHeader reads the header line and rejects duplicate names.
func (p *CSVParser) readHeader(reader *csv.Reader) ([]string, error) {
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &entities.InputFormatError{Source: sourceCSV, Message: "missing header line"}
	}
	if err != nil {
		return nil, &entities.InputFormatError{Source: sourceCSV, Line: 1, Message: fmt.Sprintf("reading header: %v", err)}
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if err := checkHeader(sourceCSV, header); err != nil {
		return nil, err
	}

	return header, nil
}

// readRecords reads all data lines and converts them to RawRows.
func (p *CSVParser) readRecords(reader *csv.Reader, header []string) ([]RawRow, error) {
	var rows []RawRow
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &entities.InputFormatError{Source: sourceCSV, Line: lineNum, Message: err.Error()}
		}

		rows = append(rows, buildRow(lineNum, header, record))
	}

	return rows, nil
}

// checkHeader rejects duplicate column names. Blank names, such as an
// exported index column, are allowed and their cells ignored.
func checkHeader(source string, header []string) error {
	seen := make(map[string]bool, len(header))
	for _, col := range header {
		name := strings.TrimSpace(col)
		if name == "" {
			continue
		}
		if seen[name] {
			return &entities.InputFormatError{Source: source, Line: 1, Column: name, Message: "duplicate column"}
		}
		seen[name] = true
	}
	return nil
}

// headerNames returns the trimmed non-blank column names of header.
func headerNames(header []string) []string {
	names := make([]string, 0, len(header))
	for _, col := range header {
		if name := strings.TrimSpace(col); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// buildRow maps a record onto the header. Cells missing at the end of a
// short record are nil; cells under a blank column name are dropped.
func buildRow(lineNum int, header, record []string) RawRow {
	values := make(map[string]*string, len(header))
	for i, col := range header {
		name := strings.TrimSpace(col)
		if name == "" {
			continue
		}
		var v *string
		if i < len(record) {
			v = cell(record[i])
		}
		values[name] = v
	}
	return RawRow{LineNum: lineNum, Values: values}
}

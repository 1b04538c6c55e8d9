package parsers

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
)

const sourceXLSX = "xlsx input"

// XLSXParser reads rows from the first sheet of a workbook. The first row is
// the header. Cells are read raw, so dates arrive as Excel serial numbers.
type XLSXParser struct {
	// Sheet overrides the sheet to read. Empty means the first sheet.
	Sheet string
}

// Parse reads a workbook from the reader. Fully empty rows are skipped.
func (p *XLSXParser) Parse(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &entities.InputFormatError{Source: sourceXLSX, Message: fmt.Sprintf("opening workbook: %v", err)}
	}
	defer f.Close()

	sheet := p.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, &entities.InputFormatError{Source: sourceXLSX, Message: "workbook has no sheets"}
		}
		sheet = sheets[0]
	}

	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &entities.InputFormatError{Source: sourceXLSX, Message: fmt.Sprintf("reading sheet %q: %v", sheet, err)}
	}
	if len(records) == 0 {
		return nil, &entities.InputFormatError{Source: sourceXLSX, Message: "missing header row"}
	}

	header := records[0]
	if err := checkHeader(sourceXLSX, header); err != nil {
		return nil, err
	}

	var rows []RawRow
	for i, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		rows = append(rows, buildRow(i+2, header, record))
	}

	return &Table{Header: headerNames(header), Rows: rows}, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

package reportwriter

import (
	"errors"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
)

// DefaultSheet is the sheet the report is written to.
const DefaultSheet = "Sheet1"

// XLSXWriter writes the report to the first sheet of a workbook. The file is
// opened per call, so nothing is held between writes.
type XLSXWriter struct {
	path  string
	sheet string
}

// NewXLSXWriter creates a writer for path.
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path, sheet: DefaultSheet}
}

// WriteTable replaces the workbook with header and rows.
func (w *XLSXWriter) WriteTable(header []string, rows [][]entities.Cell) error {
	if err := ensureDir(w.path); err != nil {
		return w.fail(err)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(w.sheet, "A1", &headerRow); err != nil {
		return w.fail(fmt.Errorf("writing header: %w", err))
	}
	if err := w.setRows(f, 0, rows); err != nil {
		return w.fail(err)
	}

	if err := f.SaveAs(w.path); err != nil {
		return w.fail(err)
	}
	return nil
}

// WriteRows writes rows into the existing workbook starting at data row
// offset.
func (w *XLSXWriter) WriteRows(offset int, rows [][]entities.Cell) error {
	if offset < 0 {
		return w.fail(fmt.Errorf("negative row offset %d", offset))
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return w.fail(fmt.Errorf("opening workbook: %w", err))
	}
	defer f.Close()

	if err := w.setRows(f, offset, rows); err != nil {
		return w.fail(err)
	}
	if err := f.Save(); err != nil {
		return w.fail(err)
	}
	return nil
}

// setRows writes rows below the header. Null cells are left empty.
func (w *XLSXWriter) setRows(f *excelize.File, offset int, rows [][]entities.Cell) error {
	for i, row := range rows {
		sheetRow := offset + i + 2 // 1-indexed, header on row 1
		for j, c := range row {
			if !c.Valid {
				continue
			}
			addr, err := excelize.CoordinatesToCellName(j+1, sheetRow)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(w.sheet, addr, c.Value); err != nil {
				return fmt.Errorf("writing cell %s: %w", addr, err)
			}
		}
	}
	return nil
}

// CountRows returns the number of data rows in the workbook, 0 if the file
// does not exist.
func (w *XLSXWriter) CountRows() (int, error) {
	rows, err := w.readRows()
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return len(rows) - 1, nil
}

// ReadHeader returns the first row of the workbook, nil if the file does not
// exist.
func (w *XLSXWriter) ReadHeader() ([]string, error) {
	rows, err := w.readRows()
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (w *XLSXWriter) readRows() ([][]string, error) {
	f, err := excelize.OpenFile(w.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, w.fail(fmt.Errorf("opening workbook: %w", err))
	}
	defer f.Close()

	rows, err := f.GetRows(w.sheet)
	if err != nil {
		return nil, w.fail(fmt.Errorf("reading sheet %q: %w", w.sheet, err))
	}
	return rows, nil
}

// Close is a no-op; the workbook is not held open between calls.
func (w *XLSXWriter) Close() error {
	return nil
}

func (w *XLSXWriter) fail(err error) error {
	return &entities.OutputWriteError{Path: w.path, Err: err}
}

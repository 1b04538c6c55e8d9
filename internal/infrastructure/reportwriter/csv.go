package reportwriter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
)

// CSVWriter writes the report as CSV. Null cells are empty fields.
// Rows can only be appended at the end, so WriteRows requires offset to
// equal the current row count.
type CSVWriter struct {
	path string
	// rows is the data row count of the file, -1 until known.
	rows   int
	header []string
}

// NewCSVWriter creates a writer for path.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path, rows: -1}
}

// WriteTable replaces the file with header and rows.
func (w *CSVWriter) WriteTable(header []string, rows [][]entities.Cell) error {
	if err := ensureDir(w.path); err != nil {
		return w.fail(err)
	}

	file, err := os.Create(w.path)
	if err != nil {
		return w.fail(err)
	}

	cw := csv.NewWriter(file)
	if err := cw.Write(header); err != nil {
		file.Close()
		return w.fail(err)
	}
	if err := writeRecords(cw, rows); err != nil {
		file.Close()
		return w.fail(err)
	}
	if err := file.Close(); err != nil {
		return w.fail(err)
	}

	w.rows = len(rows)
	w.header = append([]string(nil), header...)
	return nil
}

// WriteRows appends rows. offset must equal the current data row count.
func (w *CSVWriter) WriteRows(offset int, rows [][]entities.Cell) error {
	count, err := w.CountRows()
	if err != nil {
		return err
	}
	if offset != count {
		return w.fail(fmt.Errorf("row offset %d does not match %d existing rows", offset, count))
	}

	file, err := os.OpenFile(w.path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return w.fail(err)
	}

	if err := writeRecords(csv.NewWriter(file), rows); err != nil {
		file.Close()
		return w.fail(err)
	}
	if err := file.Close(); err != nil {
		return w.fail(err)
	}

	w.rows += len(rows)
	return nil
}

// CountRows returns the number of data rows in the file, 0 if it does not
// exist. The file is read once; later counts are tracked.
func (w *CSVWriter) CountRows() (int, error) {
	if err := w.scan(); err != nil {
		return 0, err
	}
	return w.rows, nil
}

// ReadHeader returns the header of the file, nil if it does not exist.
func (w *CSVWriter) ReadHeader() ([]string, error) {
	if err := w.scan(); err != nil {
		return nil, err
	}
	return w.header, nil
}

// scan reads the existing file once. A last record left incomplete by an
// interrupted write is cut off, so the next append starts on a new line.
func (w *CSVWriter) scan() error {
	if w.rows >= 0 {
		return nil
	}

	data, err := os.ReadFile(w.path)
	if errors.Is(err, os.ErrNotExist) {
		w.rows = 0
		return nil
	}
	if err != nil {
		return w.fail(err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	var (
		header   []string
		records  int
		complete int64 // end of the last complete record
	)
	for {
		start := reader.InputOffset()
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if openQuoteAtEOF(err, data[start:]) {
				break
			}
			return w.fail(fmt.Errorf("reading existing rows: %w", err))
		}

		end := reader.InputOffset()
		if data[end-1] != '\n' {
			// Unterminated, so it is the last record.
			break
		}
		if header == nil {
			header = record
		} else if len(record) != len(header) {
			return w.fail(fmt.Errorf("record %d has %d fields, header has %d", records+1, len(record), len(header)))
		}
		records++
		complete = end
	}

	if complete < int64(len(data)) {
		if err := os.Truncate(w.path, complete); err != nil {
			return w.fail(fmt.Errorf("dropping incomplete last row: %w", err))
		}
	}

	w.header = header
	w.rows = max(records-1, 0)
	return nil
}

// openQuoteAtEOF reports whether err is a quoted field still open at the end
// of the file. Records written by CSVWriter always close their quotes.
func openQuoteAtEOF(err error, rest []byte) bool {
	var pe *csv.ParseError
	if !errors.As(err, &pe) || !errors.Is(pe.Err, csv.ErrQuote) {
		return false
	}
	return bytes.Count(rest, []byte{'"'})%2 == 1
}

// Close is a no-op; the file is not held open between calls.
func (w *CSVWriter) Close() error {
	return nil
}

func (w *CSVWriter) fail(err error) error {
	return &entities.OutputWriteError{Path: w.path, Err: err}
}

func writeRecords(cw *csv.Writer, rows [][]entities.Cell) error {
	record := make([]string, 0)
	for _, row := range rows {
		record = record[:0]
		for _, c := range row {
			record = append(record, text(c))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

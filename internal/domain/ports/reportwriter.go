package ports

import "github.com/francesco-c/acceptance-filler/internal/domain/entities"

// ReportWriter persists a rectangular report table to an artifact.
type ReportWriter interface {
	// WriteTable replaces the artifact content with header followed by rows.
	WriteTable(header []string, rows [][]entities.Cell) error

	// WriteRows writes rows below the header starting at data row offset
	// (0-indexed, header excluded), leaving the header untouched.
	WriteRows(offset int, rows [][]entities.Cell) error

	// CountRows returns the number of data rows in the existing artifact,
	// 0 if it does not exist.
	CountRows() (int, error)

	// ReadHeader returns the header of the existing artifact, nil if it
	// does not exist.
	ReadHeader() ([]string, error)

	// Close releases any resources held by the writer.
	Close() error
}

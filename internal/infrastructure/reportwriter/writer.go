// Package reportwriter persists report tables as XLSX or CSV files.
package reportwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
	"github.com/francesco-c/acceptance-filler/internal/domain/ports"
)

// ForFile returns the writer matching the extension of path.
// Supported extensions: .xlsx, .csv.
func ForFile(path string) (ports.ReportWriter, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return NewXLSXWriter(path), nil
	case ".csv":
		return NewCSVWriter(path), nil
	default:
		return nil, &entities.OutputWriteError{
			Path: path,
			Err:  fmt.Errorf("unsupported output extension %q (valid: .xlsx, .csv)", filepath.Ext(path)),
		}
	}
}

// ensureDir creates the parent directory of path.
func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}

// text renders a cell for formats without a null marker.
func text(c entities.Cell) string {
	if !c.Valid {
		return ""
	}
	return c.Value
}

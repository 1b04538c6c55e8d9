package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
)

// formatTable prints the report table in the given format.
func formatTable(w io.Writer, format string, header []string, table [][]entities.Cell) error {
	switch format {
	case "json":
		return formatJSON(w, header, table)
	case "csv":
		return formatCSV(w, header, table)
	case "markdown":
		return formatMarkdown(w, header, table)
	case "none":
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// formatJSON prints one object per row. Null cells are JSON null.
func formatJSON(w io.Writer, header []string, table [][]entities.Cell) error {
	rows := make([]map[string]*string, 0, len(table))
	for _, row := range table {
		obj := make(map[string]*string, len(header))
		for i, col := range header {
			if i < len(row) && row[i].Valid {
				v := row[i].Value
				obj[col] = &v
			} else {
				obj[col] = nil
			}
		}
		rows = append(rows, obj)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rows)
}

func formatCSV(w io.Writer, header []string, table [][]entities.Cell) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for _, row := range table {
		for i := range record {
			record[i] = ""
			if i < len(row) && row[i].Valid {
				record[i] = row[i].Value
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatMarkdown prints a markdown table. Null cells render as "-".
func formatMarkdown(w io.Writer, header []string, table [][]entities.Cell) error {
	if _, err := fmt.Fprintf(w, "# Acceptance report\n\nTotal: %d rows\n\n", len(table)); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(header, " | ")); err != nil {
		return err
	}
	sep := make([]string, len(header))
	for i, h := range header {
		sep[i] = strings.Repeat("-", max(len(h), 3))
	}
	if _, err := fmt.Fprintf(w, "|%s|\n", "-"+strings.Join(sep, "-|-")+"-"); err != nil {
		return err
	}

	cells := make([]string, len(header))
	for _, row := range table {
		for i := range cells {
			cells[i] = "-"
			if i < len(row) && row[i].Valid {
				cells[i] = escapeMarkdown(row[i].Value)
			}
		}
		if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | ")); err != nil {
			return err
		}
	}

	return nil
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

package parsers

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
)

// PersonColumns names the input column holding each person field.
// An empty FromDate means the input carries no reference date.
type PersonColumns struct {
	ID          string
	Name        string
	Surname     string
	BirthNation string
	BirthDate   string
	Gender      string
	FromDate    string
}

// dateLayouts are tried in order before falling back to an Excel serial.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"02.01.2006",
	"20060102",
}

// maxExcelSerial is 9999-12-31 in the 1900 date system.
const maxExcelSerial = 2958465

// ToPersonInputs maps the rows of table onto PersonInputs. A configured
// column missing from the header, or from a row of a headerless table, is an
// InputFormatError; values are not validated beyond their type.
func ToPersonInputs(source string, table *Table, cols PersonColumns) ([]entities.PersonInput, error) {
	if table.Header != nil {
		if err := checkColumns(source, table.Header, cols); err != nil {
			return nil, err
		}
	}

	inputs := make([]entities.PersonInput, 0, len(table.Rows))
	for _, row := range table.Rows {
		in, err := toPersonInput(source, row, cols)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// checkColumns verifies header names every configured column.
func checkColumns(source string, header []string, cols PersonColumns) error {
	required := []string{cols.ID, cols.Name, cols.Surname, cols.BirthNation, cols.BirthDate, cols.Gender}
	if cols.FromDate != "" {
		required = append(required, cols.FromDate)
	}
	for _, col := range required {
		if !slices.Contains(header, col) {
			return &entities.InputFormatError{Source: source, Line: 1, Column: col, Message: "missing column"}
		}
	}
	return nil
}

func toPersonInput(source string, row RawRow, cols PersonColumns) (entities.PersonInput, error) {
	m := rowMapper{source: source, row: row}

	in := entities.PersonInput{
		Line:        row.LineNum,
		ID:          m.integer(cols.ID),
		Name:        m.text(cols.Name),
		Surname:     m.text(cols.Surname),
		BirthNation: m.text(cols.BirthNation),
		Gender:      m.text(cols.Gender),
	}
	if birth := m.date(cols.BirthDate); birth != nil {
		in.BirthDate = *birth
	}
	if cols.FromDate != "" {
		in.FromDate = m.date(cols.FromDate)
	}

	if m.err != nil {
		return entities.PersonInput{}, m.err
	}
	return in, nil
}

// rowMapper reads typed values from one row and keeps the first error.
type rowMapper struct {
	source string
	row    RawRow
	err    error
}

func (m *rowMapper) lookup(col string) (*string, bool) {
	if m.err != nil {
		return nil, false
	}
	v, ok := m.row.Get(col)
	if !ok {
		m.err = &entities.InputFormatError{Source: m.source, Line: m.row.LineNum, Column: col, Message: "missing column"}
		return nil, false
	}
	return v, true
}

func (m *rowMapper) fail(col, format string, args ...any) {
	m.err = &entities.InputFormatError{
		Source:  m.source,
		Line:    m.row.LineNum,
		Column:  col,
		Message: fmt.Sprintf(format, args...),
	}
}

func (m *rowMapper) text(col string) string {
	v, ok := m.lookup(col)
	if !ok || v == nil {
		return ""
	}
	return *v
}

func (m *rowMapper) integer(col string) int64 {
	v, ok := m.lookup(col)
	if !ok {
		return 0
	}
	if v == nil {
		m.fail(col, "empty identifier")
		return 0
	}
	id, err := ParseID(*v)
	if err != nil {
		m.fail(col, "%v", err)
		return 0
	}
	return id
}

func (m *rowMapper) date(col string) *time.Time {
	v, ok := m.lookup(col)
	if !ok || v == nil {
		return nil
	}
	d, err := ParseDate(*v)
	if err != nil {
		m.fail(col, "%v", err)
		return nil
	}
	return &d
}

// ParseID parses an integer identifier. Whole floats such as "12.0", which
// spreadsheets produce for numeric cells, are accepted.
func ParseID(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64/2 {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	return int64(f), nil
}

// ParseDate parses a calendar date in one of the accepted layouts or as an
// Excel serial date number. The result is midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dayOf(t), nil
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial <= maxExcelSerial {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return dayOf(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

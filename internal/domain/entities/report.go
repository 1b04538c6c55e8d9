package entities

import (
	"strconv"
	"time"
)

// DefaultMaxPeriods is the number of acceptance periods reported per person.
// Periods beyond it are dropped.
const DefaultMaxPeriods = 5

// DateLayout is the layout used for every date cell in the report.
const DateLayout = "2006-01-02"

// IdentityColumns are the leading columns of every report row.
var IdentityColumns = []string{
	"id",
	"external_id",
	"name",
	"surname",
	"birth_nation",
	"birth_date",
	"gender",
}

// PeriodColumns are the per-group column prefixes, suffixed with the group
// number in the header.
var PeriodColumns = []string{
	"facility",
	"entry_date",
	"exit_date",
	"exit_reason",
}

// ReportHeader returns the header for a report with maxPeriods groups.
func ReportHeader(maxPeriods int) []string {
	header := make([]string, 0, len(IdentityColumns)+len(PeriodColumns)*maxPeriods)
	header = append(header, IdentityColumns...)
	for i := 1; i <= maxPeriods; i++ {
		n := strconv.Itoa(i)
		for _, col := range PeriodColumns {
			header = append(header, col+"_"+n)
		}
	}
	return header
}

// Cell is one report value. A Cell that is not Valid is a null.
type Cell struct {
	Value string
	Valid bool
}

// Text returns a non-null cell.
func Text(s string) Cell {
	return Cell{Value: s, Valid: true}
}

// Null returns a null cell.
func Null() Cell {
	return Cell{}
}

// TextPtr returns a null cell for nil, a text cell otherwise.
func TextPtr(s *string) Cell {
	if s == nil {
		return Null()
	}
	return Text(*s)
}

// Date renders t with DateLayout.
func Date(t time.Time) Cell {
	return Text(t.Format(DateLayout))
}

// DatePtr returns a null cell for nil, a date cell otherwise.
func DatePtr(t *time.Time) Cell {
	if t == nil {
		return Null()
	}
	return Date(*t)
}

// PeriodSlot is one group of four period columns.
type PeriodSlot struct {
	Facility   Cell
	EntryDate  Cell
	ExitDate   Cell
	ExitReason Cell
}

// IsNull reports whether every cell in the slot is null.
func (s PeriodSlot) IsNull() bool {
	return !s.Facility.Valid && !s.EntryDate.Valid && !s.ExitDate.Valid && !s.ExitReason.Valid
}

// ReportRow is one flattened output row.
type ReportRow struct {
	ID          Cell
	ExternalID  Cell
	Name        Cell
	Surname     Cell
	BirthNation Cell
	BirthDate   Cell
	Gender      Cell
	Slots       []PeriodSlot
}

// Cells returns the row in header order.
func (r ReportRow) Cells() []Cell {
	cells := make([]Cell, 0, len(IdentityColumns)+len(PeriodColumns)*len(r.Slots))
	cells = append(cells, r.ID, r.ExternalID, r.Name, r.Surname, r.BirthNation, r.BirthDate, r.Gender)
	for _, s := range r.Slots {
		cells = append(cells, s.Facility, s.EntryDate, s.ExitDate, s.ExitReason)
	}
	return cells
}

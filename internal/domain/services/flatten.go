package services

import (
	"strconv"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
)

// Flatten maps a person and its match result to one report row with exactly
// maxPeriods period groups. Missing groups are null; periods beyond
// maxPeriods are dropped.
func Flatten(p entities.Person, result entities.MatchResult, maxPeriods int) entities.ReportRow {
	if maxPeriods < 0 {
		maxPeriods = 0
	}

	row := entities.ReportRow{
		ID:          entities.Text(strconv.FormatInt(p.ID(), 10)),
		ExternalID:  entities.Null(),
		Name:        entities.Text(p.Name()),
		Surname:     entities.Text(p.Surname()),
		BirthNation: entities.Text(p.BirthNation()),
		BirthDate:   entities.Date(p.BirthDate()),
		Gender:      entities.Text(string(p.Gender())),
		Slots:       make([]entities.PeriodSlot, maxPeriods),
	}
	if result.ExternalID != nil {
		row.ExternalID = entities.Text(strconv.FormatInt(*result.ExternalID, 10))
	}

	for i := 0; i < maxPeriods && i < len(result.Periods); i++ {
		period := result.Periods[i]
		row.Slots[i] = entities.PeriodSlot{
			Facility:   entities.Text(period.Facility),
			EntryDate:  entities.Date(period.EntryDate),
			ExitDate:   entities.DatePtr(period.ExitDate),
			ExitReason: entities.TextPtr(period.ExitReason),
		}
	}

	return row
}

package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
)

func TestFlatten_GroupCount(t *testing.T) {
	p := newPerson(t, 1, "Maria", "Rossi")

	for n := 0; n <= 8; n++ {
		t.Run(fmt.Sprintf("%d periods", n), func(t *testing.T) {
			result := entities.NewMatchResult(records(42, periods(n)))
			row := Flatten(p, result, entities.DefaultMaxPeriods)

			require.Len(t, row.Slots, entities.DefaultMaxPeriods)
			assert.Len(t, row.Cells(), len(entities.ReportHeader(entities.DefaultMaxPeriods)))

			filled := min(n, entities.DefaultMaxPeriods)
			for i, slot := range row.Slots {
				if i < filled {
					assert.False(t, slot.IsNull(), "slot %d should be populated", i+1)
					assert.Equal(t, result.Periods[i].Facility, slot.Facility.Value)
				} else {
					assert.True(t, slot.IsNull(), "slot %d should be null", i+1)
				}
			}
		})
	}
}

func TestFlatten_PopulatedSlot(t *testing.T) {
	p := newPerson(t, 1, "Maria", "Rossi")
	result := entities.NewMatchResult([]entities.AcceptanceRecord{
		{PersonID: 42, Period: entities.AcceptancePeriod{
			Facility:   "Centro Accoglienza Sud",
			EntryDate:  date(2019, 5, 2),
			ExitDate:   ptr(date(2020, 6, 30)),
			ExitReason: ptr("trasferimento"),
		}},
		{PersonID: 42, Period: entities.AcceptancePeriod{
			Facility:  "Centro Nord",
			EntryDate: date(2020, 7, 1),
		}},
	})

	row := Flatten(p, result, entities.DefaultMaxPeriods)

	assert.Equal(t, entities.PeriodSlot{
		Facility:   entities.Text("Centro Accoglienza Sud"),
		EntryDate:  entities.Text("2019-05-02"),
		ExitDate:   entities.Text("2020-06-30"),
		ExitReason: entities.Text("trasferimento"),
	}, row.Slots[0])
	assert.Equal(t, entities.PeriodSlot{
		Facility:   entities.Text("Centro Nord"),
		EntryDate:  entities.Text("2020-07-01"),
		ExitDate:   entities.Null(),
		ExitReason: entities.Null(),
	}, row.Slots[1])
}

func TestFlatten_IdentityColumns(t *testing.T) {
	p := newPerson(t, 1, "Maria", "Rossi")

	t.Run("matched", func(t *testing.T) {
		row := Flatten(p, entities.NewMatchResult(records(42, periods(1))), entities.DefaultMaxPeriods)
		assert.Equal(t, entities.Text("42"), row.ExternalID)
	})

	t.Run("unmatched keeps identity", func(t *testing.T) {
		row := Flatten(p, entities.MatchResult{}, entities.DefaultMaxPeriods)

		assert.Equal(t, entities.Text("1"), row.ID)
		assert.Equal(t, entities.Null(), row.ExternalID)
		assert.Equal(t, entities.Text("Maria"), row.Name)
		assert.Equal(t, entities.Text("Rossi"), row.Surname)
		assert.Equal(t, entities.Text("Italia"), row.BirthNation)
		assert.Equal(t, entities.Text("1990-01-01"), row.BirthDate)
		assert.Equal(t, entities.Text("F"), row.Gender)
		for _, slot := range row.Slots {
			assert.True(t, slot.IsNull())
		}
	})
}

func TestFlatten_Deterministic(t *testing.T) {
	p := newPerson(t, 1, "Maria", "Rossi")
	result := entities.NewMatchResult(records(42, periods(3)))

	assert.Equal(t, Flatten(p, result, 5), Flatten(p, result, 5))
}

func TestFlatten_CustomCap(t *testing.T) {
	p := newPerson(t, 1, "Maria", "Rossi")
	result := entities.NewMatchResult(records(42, periods(4)))

	row := Flatten(p, result, 2)
	assert.Len(t, row.Slots, 2)
	assert.Len(t, row.Cells(), 7+8)

	row = Flatten(p, result, -1)
	assert.Empty(t, row.Slots)
}

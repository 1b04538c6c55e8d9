package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func newPerson(t *testing.T, id int64, name, surname string) entities.Person {
	t.Helper()
	p, err := entities.NewPerson(entities.PersonInput{
		ID:          id,
		Name:        name,
		Surname:     surname,
		BirthNation: "Italia",
		BirthDate:   date(1990, 1, 1),
		Gender:      "F",
		FromDate:    ptr(date(2024, 3, 10)),
	})
	require.NoError(t, err)
	return p
}

func periods(n int) []entities.AcceptancePeriod {
	out := make([]entities.AcceptancePeriod, n)
	for i := range out {
		out[i] = entities.AcceptancePeriod{
			Facility:  "Centro " + string(rune('A'+i)),
			EntryDate: date(2020, time.Month(i+1), 1),
		}
	}
	return out
}

func records(personID int64, ps []entities.AcceptancePeriod) []entities.AcceptanceRecord {
	out := make([]entities.AcceptanceRecord, len(ps))
	for i, p := range ps {
		out[i] = entities.AcceptanceRecord{PersonID: personID, Period: p}
	}
	return out
}

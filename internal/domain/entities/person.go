// Package entities contains core domain data structures.
package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Gender is the closed set of gender codes stored for a person.
type Gender string

// Valid gender codes.
const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderTrans  Gender = "T"
)

// ParseGender normalizes a raw gender code. Input is case-insensitive.
func ParseGender(raw string) (Gender, error) {
	g := Gender(strings.ToUpper(strings.TrimSpace(raw)))
	switch g {
	case GenderMale, GenderFemale, GenderTrans:
		return g, nil
	default:
		return "", &ValidationError{
			Field:   "gender",
			Value:   raw,
			Message: fmt.Sprintf("invalid value %q (valid: M, F, T)", raw),
		}
	}
}

// PersonInput carries the raw, unvalidated identity fields of one input row.
type PersonInput struct {
	Line        int
	ID          int64
	Name        string
	Surname     string
	BirthNation string
	BirthDate   time.Time
	Gender      string
	FromDate    *time.Time
}

// Person is one validated input identity. The zero value is not valid;
// use NewPerson.
type Person struct {
	id          int64
	name        string
	surname     string
	birthNation string
	birthDate   time.Time
	gender      Gender
	fromDate    *time.Time
}

// NewPerson validates in and returns a Person. Either every field is valid
// or a *ValidationError is returned and no Person exists.
func NewPerson(in PersonInput) (Person, error) {
	name := strings.TrimSpace(in.Name)
	surname := strings.TrimSpace(in.Surname)
	nation := strings.TrimSpace(in.BirthNation)

	required := []struct {
		field string
		value string
	}{
		{"name", name},
		{"surname", surname},
		{"birth_nation", nation},
	}
	for _, r := range required {
		if r.value == "" {
			return Person{}, &ValidationError{Line: in.Line, Field: r.field, Message: "must not be empty"}
		}
	}

	if in.BirthDate.IsZero() {
		return Person{}, &ValidationError{Line: in.Line, Field: "birth_date", Message: "must be set"}
	}

	gender, err := ParseGender(in.Gender)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ve.Line = in.Line
		}
		return Person{}, err
	}

	p := Person{
		id:          in.ID,
		name:        name,
		surname:     surname,
		birthNation: nation,
		birthDate:   truncateDay(in.BirthDate),
		gender:      gender,
	}
	if in.FromDate != nil && !in.FromDate.IsZero() {
		d := truncateDay(*in.FromDate)
		p.fromDate = &d
	}
	return p, nil
}

// ID returns the input identifier, unique within one run.
func (p Person) ID() int64 { return p.id }

// Name returns the given name.
func (p Person) Name() string { return p.name }

// Surname returns the family name.
func (p Person) Surname() string { return p.surname }

// BirthNation returns the localized birth nation name.
func (p Person) BirthNation() string { return p.birthNation }

// BirthDate returns the birth date at day precision.
func (p Person) BirthDate() time.Time { return p.birthDate }

// Gender returns the normalized gender code.
func (p Person) Gender() Gender { return p.gender }

// FromDate returns the reference admission date, or nil.
func (p Person) FromDate() *time.Time {
	if p.fromDate == nil {
		return nil
	}
	d := *p.fromDate
	return &d
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

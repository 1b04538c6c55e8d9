package entities

import "time"

// MatchCriteria is the store-agnostic lookup predicate for one Person.
//
// A stored person matches when (name, surname) equals NameOrders[0] or
// NameOrders[1], and nation, birth date and gender are equal. When
// EntryNotBefore is set, periods starting before it are excluded. Results
// are ordered by entry date then period id and capped at Limit.
type MatchCriteria struct {
	NameOrders     [2]NamePair
	BirthNation    string
	Locale         string
	BirthDate      time.Time
	Gender         Gender
	EntryNotBefore *time.Time
	Limit          int
}

// NamePair is one (name, surname) ordering.
type NamePair struct {
	Name    string
	Surname string
}

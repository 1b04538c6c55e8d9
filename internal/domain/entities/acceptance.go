package entities

import "time"

// AcceptancePeriod is a span of time a person was hosted at a facility.
// ExitDate is nil for an ongoing period; ExitReason is set only when an
// exit event was recorded.
type AcceptancePeriod struct {
	Facility   string     `json:"facility"`
	EntryDate  time.Time  `json:"entry_date"`
	ExitDate   *time.Time `json:"exit_date,omitempty"`
	ExitReason *string    `json:"exit_reason,omitempty"`
}

// AcceptanceRecord is one row returned by the store: the matched person's
// id together with one of their periods.
type AcceptanceRecord struct {
	PersonID int64
	Period   AcceptancePeriod
}

// MatchResult is the outcome of looking up one Person.
type MatchResult struct {
	ExternalID *int64
	Periods    []AcceptancePeriod
}

// Matched reports whether the store returned at least one row.
func (r MatchResult) Matched() bool {
	return r.ExternalID != nil
}

// NewMatchResult collects store records into a MatchResult. The external id
// is taken from the first record.
func NewMatchResult(records []AcceptanceRecord) MatchResult {
	if len(records) == 0 {
		return MatchResult{}
	}
	id := records[0].PersonID
	periods := make([]AcceptancePeriod, 0, len(records))
	for _, r := range records {
		periods = append(periods, r.Period)
	}
	return MatchResult{ExternalID: &id, Periods: periods}
}

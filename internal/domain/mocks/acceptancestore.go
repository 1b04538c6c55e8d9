// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
)

// AcceptanceStore is a mock implementation of ports.AcceptanceStore.
// Records are keyed by the first name order of the criteria
// ("name|surname"); the criteria limit is applied.
type AcceptanceStore struct {
	Records map[string][]entities.AcceptanceRecord
	Err     error
	PingErr error

	// Call tracking
	Queries        []entities.MatchCriteria
	CloseCallCount int
}

// NewAcceptanceStore creates a new mock AcceptanceStore.
func NewAcceptanceStore() *AcceptanceStore {
	return &AcceptanceStore{
		Records: make(map[string][]entities.AcceptanceRecord),
	}
}

// Key returns the lookup key for a name pair.
func Key(name, surname string) string {
	return name + "|" + surname
}

// FindAcceptances returns the configured records for the criteria.
func (m *AcceptanceStore) FindAcceptances(_ context.Context, criteria entities.MatchCriteria) ([]entities.AcceptanceRecord, error) {
	m.Queries = append(m.Queries, criteria)
	if m.Err != nil {
		return nil, m.Err
	}
	pair := criteria.NameOrders[0]
	records := m.Records[Key(pair.Name, pair.Surname)]
	if criteria.Limit > 0 && len(records) > criteria.Limit {
		records = records[:criteria.Limit]
	}
	return records, nil
}

// Ping returns the configured error.
func (m *AcceptanceStore) Ping(_ context.Context) error {
	return m.PingErr
}

// Close records the call.
func (m *AcceptanceStore) Close() error {
	m.CloseCallCount++
	return nil
}

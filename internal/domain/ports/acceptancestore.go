// Package ports defines interfaces for external service communication.
package ports

import (
	"context"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
)

// AcceptanceStore is the relational source of person and acceptance-period
// history. Implementations must bind criteria values as query parameters.
type AcceptanceStore interface {
	// FindAcceptances returns the periods of persons matching criteria,
	// ordered by entry date then period id, at most criteria.Limit rows.
	FindAcceptances(ctx context.Context, criteria entities.MatchCriteria) ([]entities.AcceptanceRecord, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the store handle.
	Close() error
}

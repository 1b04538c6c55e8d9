package acceptancedb

import (
	"context"
	"fmt"
)

// schema is the subset of the acceptance database read by the match query.
// Statements are kept portable across the supported drivers and run one at
// a time, since the MySQL driver rejects multi-statement exec by default.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS nation_i18n (
		nation_id INTEGER NOT NULL,
		locale VARCHAR(16) NOT NULL,
		name VARCHAR(255) NOT NULL,
		PRIMARY KEY (nation_id, locale)
	)`,
	`CREATE TABLE IF NOT EXISTS person (
		id INTEGER PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		surname VARCHAR(255) NOT NULL,
		birth_nation_id INTEGER,
		birth_date DATE,
		gender CHAR(1)
	)`,
	`CREATE TABLE IF NOT EXISTS service (
		id INTEGER PRIMARY KEY,
		name VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS acceptance_reason (
		id INTEGER PRIMARY KEY,
		name VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS acceptance_event (
		id INTEGER PRIMARY KEY,
		acceptance_reason_id INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS acceptance_period (
		id INTEGER PRIMARY KEY,
		person_id INTEGER NOT NULL,
		service_id INTEGER NOT NULL,
		from_date DATE NOT NULL,
		to_date DATE,
		out_acceptance_event_id INTEGER
	)`,
}

// EnsureSchema creates the tables read by FindAcceptances if they don't
// exist. Production databases already carry them; this serves local
// databases and tests.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

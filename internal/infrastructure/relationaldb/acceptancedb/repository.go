// Package acceptancedb provides the SQL implementation of the
// AcceptanceStore port for MySQL, PostgreSQL and SQLite.
package acceptancedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver, registered as "pgx"
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "modernc.org/sqlite"             // Pure Go SQLite driver

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
	"github.com/francesco-c/acceptance-filler/internal/infrastructure/config"
)

// Repository implements ports.AcceptanceStore over database/sql.
type Repository struct {
	db      *sql.DB
	driver  string
	dialect Dialect
}

// NewRepository opens the database described by cfg. No connection is made
// until the first query; use Ping to check connectivity.
func NewRepository(cfg config.DatabaseConfig) (*Repository, error) {
	driverName, dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	return Open(driverName, dsn)
}

// Open opens a repository for a registered database/sql driver name.
func Open(driverName, dsn string) (*Repository, error) {
	dialect, err := DialectFor(driverName)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driverName, err)
	}

	// One connection per run. Also keeps an in-memory sqlite database alive
	// across queries.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if driverName == "sqlite" {
		// Set busy timeout to avoid "database is locked" errors
		if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting busy timeout: %w", err)
		}
	}

	return &Repository{
		db:      db,
		driver:  driverName,
		dialect: dialect,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Driver returns the database/sql driver name.
func (r *Repository) Driver() string {
	return r.driver
}

// Ping verifies the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return &entities.StoreAccessError{Op: "pinging " + r.driver + " database", Err: err}
	}
	return nil
}

// FindAcceptances returns the acceptance periods of the persons matching
// criteria, earliest entry first.
func (r *Repository) FindAcceptances(ctx context.Context, criteria entities.MatchCriteria) ([]entities.AcceptanceRecord, error) {
	query, args := BuildMatchQuery(criteria, r.dialect)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &entities.StoreAccessError{Op: "querying acceptances", Err: err}
	}
	defer rows.Close()

	var records []entities.AcceptanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, &entities.StoreAccessError{Op: "scanning acceptance row", Err: err}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &entities.StoreAccessError{Op: "iterating acceptance rows", Err: err}
	}

	return records, nil
}

// scanRecord reads one row of the match query.
func scanRecord(rows *sql.Rows) (entities.AcceptanceRecord, error) {
	var (
		personID   int64
		facility   sql.NullString
		entryRaw   any
		exitRaw    any
		exitReason sql.NullString
	)
	if err := rows.Scan(&personID, &facility, &entryRaw, &exitRaw, &exitReason); err != nil {
		return entities.AcceptanceRecord{}, err
	}

	entry, err := toDate(entryRaw)
	if err != nil {
		return entities.AcceptanceRecord{}, fmt.Errorf("entry_date: %w", err)
	}
	if entry == nil {
		return entities.AcceptanceRecord{}, errors.New("entry_date: unexpected null")
	}
	exit, err := toDate(exitRaw)
	if err != nil {
		return entities.AcceptanceRecord{}, fmt.Errorf("exit_date: %w", err)
	}

	rec := entities.AcceptanceRecord{
		PersonID: personID,
		Period: entities.AcceptancePeriod{
			Facility:  facility.String,
			EntryDate: *entry,
			ExitDate:  exit,
		},
	}
	if exitReason.Valid {
		reason := exitReason.String
		rec.Period.ExitReason = &reason
	}
	return rec, nil
}

// dateLayouts are the text forms drivers return DATE and DATETIME values in.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
}

// toDate normalizes a scanned date value to midnight UTC. It returns nil
// for SQL NULL.
func toDate(v any) (*time.Time, error) {
	var t time.Time
	switch x := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		t = x
	case []byte:
		return parseDate(string(x))
	case string:
		return parseDate(x)
	default:
		return nil, fmt.Errorf("unsupported date type %T", v)
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d, nil
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return toDate(t)
		}
	}
	return nil, fmt.Errorf("invalid date %q", s)
}

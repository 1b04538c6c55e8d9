package acceptancedb

import (
	"fmt"
	"strings"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
)

// Dialect controls how bind placeholders are rendered.
type Dialect int

const (
	// DialectQuestion uses "?" placeholders (mysql, sqlite).
	DialectQuestion Dialect = iota
	// DialectDollar uses "$1", "$2", ... placeholders (postgres, pgx).
	DialectDollar
)

// DialectFor returns the placeholder dialect of a database/sql driver name.
func DialectFor(driverName string) (Dialect, error) {
	switch driverName {
	case "mysql", "sqlite":
		return DialectQuestion, nil
	case "postgres", "pgx":
		return DialectDollar, nil
	default:
		return 0, fmt.Errorf("unsupported driver %q", driverName)
	}
}

// sqlDate is the bind format of date arguments. It compares correctly
// against DATE columns and against ISO text dates in sqlite.
const sqlDate = "2006-01-02"

// queryBuilder appends SQL fragments and their arguments in step.
type queryBuilder struct {
	dialect Dialect
	sb      strings.Builder
	args    []any
}

func (b *queryBuilder) write(s string) {
	b.sb.WriteString(s)
}

// bind appends a placeholder for v.
func (b *queryBuilder) bind(v any) {
	b.args = append(b.args, v)
	if b.dialect == DialectDollar {
		fmt.Fprintf(&b.sb, "$%d", len(b.args))
		return
	}
	b.sb.WriteByte('?')
}

// BuildMatchQuery renders the acceptance lookup for criteria. All criteria
// values are bound as arguments; nothing is interpolated into the SQL text.
//
// Exit event and reason are outer-joined so ongoing periods are returned
// with null exit columns.
func BuildMatchQuery(criteria entities.MatchCriteria, dialect Dialect) (string, []any) {
	b := &queryBuilder{dialect: dialect}

	b.write(`SELECT
	P.id AS person_id,
	S.name AS facility,
	AP.from_date AS entry_date,
	AP.to_date AS exit_date,
	AR.name AS exit_reason
FROM person AS P
JOIN acceptance_period AS AP ON P.id = AP.person_id
JOIN service AS S ON AP.service_id = S.id
JOIN nation_i18n AS N ON (P.birth_nation_id = N.nation_id AND N.locale = `)
	b.bind(criteria.Locale)
	b.write(`)
LEFT JOIN acceptance_event AS AE ON AP.out_acceptance_event_id = AE.id
LEFT JOIN acceptance_reason AS AR ON AE.acceptance_reason_id = AR.id
WHERE (
	(`)
	for i, pair := range criteria.NameOrders {
		if i > 0 {
			b.write(" OR ")
		}
		b.write("(P.name = ")
		b.bind(pair.Name)
		b.write(" AND P.surname = ")
		b.bind(pair.Surname)
		b.write(")")
	}
	b.write(")\n\tAND N.name = ")
	b.bind(criteria.BirthNation)
	b.write("\n\tAND P.birth_date = ")
	b.bind(criteria.BirthDate.Format(sqlDate))
	b.write("\n\tAND P.gender = ")
	b.bind(string(criteria.Gender))
	if criteria.EntryNotBefore != nil {
		b.write("\n\tAND AP.from_date >= ")
		b.bind(criteria.EntryNotBefore.Format(sqlDate))
	}
	b.write("\n)\nORDER BY AP.from_date ASC, AP.id ASC")

	if criteria.Limit > 0 {
		b.write("\nLIMIT ")
		b.bind(criteria.Limit)
	}

	return b.sb.String(), b.args
}

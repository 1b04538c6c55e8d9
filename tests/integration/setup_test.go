package integration

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/francesco-c/acceptance-filler/internal/application/handlers"
	"github.com/francesco-c/acceptance-filler/internal/domain/ports"
	"github.com/francesco-c/acceptance-filler/internal/domain/services"
	"github.com/francesco-c/acceptance-filler/internal/infrastructure/config"
	"github.com/francesco-c/acceptance-filler/internal/infrastructure/parsers"
	"github.com/francesco-c/acceptance-filler/internal/infrastructure/relationaldb/acceptancedb"
)

// personsCSV is the input used by the end-to-end tests. Luca Verdi is stored
// with name and surname transposed; Paolo Bianchi is not in the store.
const personsCSV = "id,nome,cognome,nazione,data_nascita,genere,ingresso\n" +
	"1,Maria,Rossi,Italia,1990-01-01,F,2024-03-10\n" +
	"2,Luca,Verdi,Francia,1970-02-02,M,2024-03-10\n" +
	"3,Paolo,Bianchi,Italia,1999-09-09,M,2024-03-10\n" +
	"4,Anna,Neri,Italia,1980-03-03,f,2015-01-01\n"

// seedStatements populate an acceptance database. They are portable across
// sqlite, MySQL and PostgreSQL.
var seedStatements = []string{
	`INSERT INTO nation_i18n (nation_id, locale, name) VALUES
		(1, 'it_IT', 'Italia'), (2, 'it_IT', 'Francia'), (1, 'en_US', 'Italy')`,
	`INSERT INTO person (id, name, surname, birth_nation_id, birth_date, gender) VALUES
		(42, 'Maria', 'Rossi', 1, '1990-01-01', 'F'),
		(43, 'Verdi', 'Luca', 2, '1970-02-02', 'M'),
		(44, 'Anna', 'Neri', 1, '1980-03-03', 'F')`,
	`INSERT INTO service (id, name) VALUES
		(1, 'Centro Sud'), (2, 'Centro Nord'), (3, 'SAI San Benedetto')`,
	`INSERT INTO acceptance_reason (id, name) VALUES (1, 'trasferimento'), (2, 'fine progetto')`,
	`INSERT INTO acceptance_event (id, acceptance_reason_id) VALUES (1, 1), (2, 2)`,
	`INSERT INTO acceptance_period (id, person_id, service_id, from_date, to_date, out_acceptance_event_id) VALUES
		(11, 42, 2, '2024-03-08', NULL, NULL),
		(10, 42, 1, '2019-05-02', '2020-06-30', 1),
		(12, 43, 3, '2024-02-01', '2024-02-20', 2),
		(13, 43, 1, '2024-03-06', NULL, NULL),
		(25, 44, 1, '2015-06-01', '2015-06-30', 1),
		(24, 44, 2, '2015-05-01', '2015-05-30', 1),
		(23, 44, 1, '2015-04-01', '2015-04-30', 1),
		(22, 44, 2, '2015-03-01', '2015-03-30', 1),
		(21, 44, 1, '2015-02-01', '2015-02-28', 1),
		(20, 44, 2, '2015-01-01', '2015-01-30', 1)`,
}

var testColumns = parsers.PersonColumns{
	ID:          "id",
	Name:        "nome",
	Surname:     "cognome",
	BirthNation: "nazione",
	BirthDate:   "data_nascita",
	Gender:      "genere",
	FromDate:    "ingresso",
}

// seed creates the schema through repo and inserts the fixture rows with db.
func seed(t *testing.T, repo *acceptancedb.Repository, db *sql.DB) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.EnsureSchema(ctx))
	for _, stmt := range seedStatements {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
}

// newSQLiteStore returns a repository over a seeded sqlite file.
func newSQLiteStore(t *testing.T) *acceptancedb.Repository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "acceptance.db")
	repo, err := acceptancedb.NewRepository(config.DatabaseConfig{Driver: config.DriverSQLite, Path: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	seed(t, repo, db)
	return repo
}

func newHandler(store ports.AcceptanceStore, dateWindow bool) *handlers.FillHandler {
	opts := services.DefaultMatchOptions()
	opts.DateWindow = dateWindow
	return handlers.NewFillHandler(services.NewReconcileService(services.NewMatchService(store, opts, nil)))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

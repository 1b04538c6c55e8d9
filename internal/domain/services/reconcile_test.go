package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francesco-c/acceptance-filler/internal/domain/entities"
	"github.com/francesco-c/acceptance-filler/internal/domain/mocks"
	"github.com/francesco-c/acceptance-filler/internal/infrastructure/metrics"
)

func TestReconcileService_Run(t *testing.T) {
	store := mocks.NewAcceptanceStore()
	store.Records[mocks.Key("Maria", "Rossi")] = records(42, periods(2))
	store.Records[mocks.Key("Luca", "Verdi")] = records(43, periods(7))
	m := metrics.New()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	matcher := NewMatchService(store, DefaultMatchOptions(), m)
	service := NewReconcileService(matcher, WithLogger(logger), WithMetrics(m))

	persons := []entities.Person{
		newPerson(t, 1, "Maria", "Rossi"),
		newPerson(t, 2, "Nobody", "Here"),
		newPerson(t, 3, "Luca", "Verdi"),
	}
	writer := &mocks.ReportWriter{}
	acc := NewAccumulator(writer, ModeBatch, matcher.MaxPeriods())

	result, err := service.Run(context.Background(), persons, acc, 0)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 2, result.Matched)
	// The mock applies the criteria limit, so nothing reaches the flattener
	// beyond the cap.
	assert.Equal(t, 2+5, result.Periods)
	assert.Equal(t, 0, result.Truncated)
	assert.Equal(t, 3, result.Written)

	require.Len(t, writer.Rows, 3)
	assert.Equal(t, entities.Text("1"), writer.Rows[0][0])
	assert.Equal(t, entities.Text("2"), writer.Rows[1][0])
	assert.Equal(t, entities.Text("3"), writer.Rows[2][0])
	assert.Equal(t, entities.Null(), writer.Rows[1][1])

	assert.Equal(t, 3.0, testutil.ToFloat64(m.PersonsProcessed))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PersonsMatched))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RowsWritten))

	assert.Contains(t, logs.String(), "reconcile complete")
	assert.Contains(t, logs.String(), "person_id=2")
}

func TestReconcileService_Run_Skip(t *testing.T) {
	store := mocks.NewAcceptanceStore()
	matcher := NewMatchService(store, DefaultMatchOptions(), nil)
	service := NewReconcileService(matcher)

	persons := []entities.Person{
		newPerson(t, 1, "A", "A"),
		newPerson(t, 2, "B", "B"),
		newPerson(t, 3, "C", "C"),
	}
	acc := NewAccumulator(&mocks.ReportWriter{}, ModeBatch, 5)

	result, err := service.Run(context.Background(), persons, acc, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, store.Queries, 1)
	assert.Equal(t, "C", store.Queries[0].NameOrders[0].Name)
}

func TestReconcileService_Run_SkipBeyondInput(t *testing.T) {
	service := NewReconcileService(NewMatchService(mocks.NewAcceptanceStore(), DefaultMatchOptions(), nil))
	acc := NewAccumulator(&mocks.ReportWriter{}, ModeIncremental, 5)

	_, err := service.Run(context.Background(), []entities.Person{newPerson(t, 1, "A", "A")}, acc, 2)
	require.Error(t, err)
}

func TestReconcileService_Run_StoreErrorAborts(t *testing.T) {
	store := mocks.NewAcceptanceStore()
	store.Err = errors.New("server has gone away")
	service := NewReconcileService(NewMatchService(store, DefaultMatchOptions(), nil))
	writer := &mocks.ReportWriter{}
	acc := NewAccumulator(writer, ModeBatch, 5)

	_, err := service.Run(context.Background(), []entities.Person{newPerson(t, 1, "A", "A")}, acc, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrStoreAccess)
	assert.Equal(t, 0, writer.WriteTableCallCount, "nothing is written when the run fails")
}

func TestReconcileService_Run_Cancelled(t *testing.T) {
	store := mocks.NewAcceptanceStore()
	service := NewReconcileService(NewMatchService(store, DefaultMatchOptions(), nil))
	acc := NewAccumulator(&mocks.ReportWriter{}, ModeBatch, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Run(ctx, []entities.Person{newPerson(t, 1, "A", "A")}, acc, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.Queries)
}

func TestReconcileService_Run_Idempotent(t *testing.T) {
	store := mocks.NewAcceptanceStore()
	store.Records[mocks.Key("Maria", "Rossi")] = records(42, periods(3))
	service := NewReconcileService(NewMatchService(store, DefaultMatchOptions(), nil))
	persons := []entities.Person{newPerson(t, 1, "Maria", "Rossi"), newPerson(t, 2, "X", "Y")}

	run := func() *mocks.ReportWriter {
		w := &mocks.ReportWriter{}
		_, err := service.Run(context.Background(), persons, NewAccumulator(w, ModeBatch, 5), 0)
		require.NoError(t, err)
		return w
	}

	first, second := run(), run()
	assert.Equal(t, first.Header, second.Header)
	assert.Equal(t, first.Rows, second.Rows)
}

func TestReconcileService_Run_ValidatesBeforeLookup(t *testing.T) {
	store := mocks.NewAcceptanceStore()
	opts := DefaultMatchOptions()
	opts.DateWindow = true
	service := NewReconcileService(NewMatchService(store, opts, nil))

	noFromDate, err := entities.NewPerson(entities.PersonInput{
		ID: 2, Name: "Luca", Surname: "Verdi", BirthNation: "Francia",
		BirthDate: date(1970, 2, 2), Gender: "M",
	})
	require.NoError(t, err)
	persons := []entities.Person{newPerson(t, 1, "Maria", "Rossi"), noFromDate}

	writer := &mocks.ReportWriter{}
	_, err = service.Run(context.Background(), persons, NewAccumulator(writer, ModeIncremental, 5), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrValidation)
	assert.Contains(t, err.Error(), "person 2")

	assert.Empty(t, store.Queries)
	assert.Zero(t, writer.WriteTableCallCount)
	assert.Zero(t, writer.WriteRowsCallCount)
}

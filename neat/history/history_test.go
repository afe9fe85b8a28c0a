package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.sqlite")
	store, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndRecordsRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	want := Record{
		RunID:          "run-1",
		Generation:     3,
		BestFitness:    0.92,
		SpeciesCount:   4,
		PopulationSize: 150,
		Timestamp:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, store.Append(ctx, want))

	got, err := store.Records(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want.Generation, got[0].Generation)
	assert.Equal(t, want.BestFitness, got[0].BestFitness)
}

func TestAppendUpsertsSameGeneration(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := Record{RunID: "run-2", Generation: 1, BestFitness: 0.1, Timestamp: time.Now().UTC()}
	require.NoError(t, store.Append(ctx, base))
	updated := base
	updated.BestFitness = 0.5
	require.NoError(t, store.Append(ctx, updated))

	records, err := store.Records(ctx, "run-2")
	require.NoError(t, err)
	require.Len(t, records, 1, "expected the second Append to replace the row rather than add one")
	assert.Equal(t, 0.5, records[0].BestFitness)
}

func TestRecordsOrderedByGeneration(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, gen := range []int{3, 1, 2} {
		require.NoError(t, store.Append(ctx, Record{RunID: "run-3", Generation: gen, Timestamp: time.Now().UTC()}))
	}

	records, err := store.Records(ctx, "run-3")
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, want := range []int{1, 2, 3} {
		assert.Equalf(t, want, records[i].Generation, "position %d", i)
	}
}

func TestRecordsReturnsEmptyForUnknownRun(t *testing.T) {
	store := openTestStore(t)
	records, err := store.Records(context.Background(), "no-such-run")
	require.NoError(t, err)
	assert.Empty(t, records)
}

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/suburbprice/internal/price"
)

func TestScan_EmptyStore(t *testing.T) {
	s := createTestStore(t)

	got, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestScan_WriteOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	writes := []struct{ suburb, date string }{
		{"unley", "2024-02-01"},
		{"glenelg", "2024-01-01"},
		{"unley", "2024-01-01"},
	}
	for _, w := range writes {
		require.NoError(t, s.Put(ctx, createTestObservation(w.suburb, w.date, "1", "")))
	}

	got, err := s.Scan(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, w := range writes {
		assert.Equal(t, w.suburb, got[i].Suburb)
		assert.Equal(t, w.date, price.FormatDate(got[i].Date))
	}
}

func TestHistory_OrderedByDate(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, createTestObservation("unley", "2024-03-01", "3", "")))
	require.NoError(t, s.Put(ctx, createTestObservation("glenelg", "2024-01-01", "9", "")))
	require.NoError(t, s.Put(ctx, createTestObservation("unley", "2024-01-01", "1", "")))

	got, err := s.History(ctx, "Unley")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-01", price.FormatDate(got[0].Date))
	assert.Equal(t, "2024-03-01", price.FormatDate(got[1].Date))

	none, err := s.History(ctx, "nowhere")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLatestDate(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, ok, err := s.LatestDate(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, createTestObservation("unley", "2024-03-01", "3", "")))
	require.NoError(t, s.Put(ctx, createTestObservation("glenelg", "2024-05-24", "9", "")))
	require.NoError(t, s.Put(ctx, createTestObservation("unley", "2024-01-01", "1", "")))

	latest, ok, err := s.LatestDate(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2024-05-24", price.FormatDate(latest))
}

func TestCount(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, s.Put(ctx, createTestObservation("unley", "2024-01-01", "1", "")))
	require.NoError(t, s.Put(ctx, createTestObservation("unley", "2024-01-01", "2", "")))
	require.NoError(t, s.Put(ctx, createTestObservation("unley", "2024-01-08", "3", "")))

	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestScan_CorruptPrice(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.db.Exec(`INSERT INTO observations (suburb, observed_on, price) VALUES ('unley', '2024-01-01', 'n/a')`)
	require.NoError(t, err)

	_, err = s.Scan(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse price")
}

package pgstore

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/suburbprice/internal/price"
)

// openTestStore connects to the database named by SUBURBPRICE_TEST_POSTGRES_DSN
// and truncates the observations table. Skips when the variable is unset.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("SUBURBPRICE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SUBURBPRICE_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	_, err = s.db.ExecContext(ctx, `TRUNCATE observations`)
	require.NoError(t, err)
	return s
}

func observation(t *testing.T, suburb, date, amount string) price.Observation {
	t.Helper()
	d, err := price.ParseDate(date)
	require.NoError(t, err)
	return price.NewObservation(suburb, d, decimal.RequireFromString(amount))
}

func TestPutScan_LastWriteWins(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, observation(t, "Unley", "2024-01-01", "500000")))
	require.NoError(t, s.Put(ctx, observation(t, "glenelg", "2024-01-01", "900000")))
	require.NoError(t, s.Put(ctx, observation(t, "unley", "2024-01-01", "510000.50")))

	got, err := s.Scan(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "glenelg", got[0].Suburb)
	assert.Equal(t, "unley", got[1].Suburb)
	assert.Equal(t, "510000.5", got[1].Price.String())
}

func TestHistoryAndLatestDate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, ok, err := s.LatestDate(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, observation(t, "unley", "2024-03-01", "3")))
	require.NoError(t, s.Put(ctx, observation(t, "unley", "2024-01-01", "1")))

	hist, err := s.History(ctx, "UNLEY")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "2024-01-01", price.FormatDate(hist[0].Date))

	latest, ok, err := s.LatestDate(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2024-03-01", price.FormatDate(latest))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPut_EmptySuburb(t *testing.T) {
	s := &Store{}
	err := s.Put(context.Background(), price.Observation{Suburb: " "})
	assert.True(t, errors.Is(err, ErrEmptySuburb))
}

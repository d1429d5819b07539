package gate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/suburbprice/internal/clock"
	"github.com/roach88/suburbprice/internal/price"
)

func date(s string) time.Time {
	d, err := price.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestEvaluate_EmptyHistoryBootstraps(t *testing.T) {
	d := Evaluate(nil, date("2024-01-10"), DefaultMinDays)
	assert.True(t, d.Allowed)
	assert.True(t, d.Bootstrap)
	assert.True(t, d.LastDate.IsZero())
	assert.Equal(t, 0, d.ElapsedDays)
}

func TestEvaluate_DeniesWithinInterval(t *testing.T) {
	// today=2024-01-10, last=2024-01-05, interval 6 -> elapsed 5 -> deny
	d := Evaluate(
		[]time.Time{date("2024-01-01"), date("2024-01-05"), date("2024-01-03")},
		date("2024-01-10"),
		6,
	)
	assert.False(t, d.Allowed)
	assert.False(t, d.Bootstrap)
	assert.Equal(t, 5, d.ElapsedDays)
	assert.Equal(t, date("2024-01-05"), d.LastDate)
	assert.Equal(t, 6, d.MinDays)
}

func TestEvaluate_BoundaryIsInclusive(t *testing.T) {
	d := Evaluate([]time.Time{date("2024-01-04")}, date("2024-01-10"), 6)
	assert.True(t, d.Allowed)
	assert.Equal(t, 6, d.ElapsedDays)
}

func TestEvaluate_SameDayDenied(t *testing.T) {
	d := Evaluate([]time.Time{date("2024-01-10")}, date("2024-01-10"), 6)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.ElapsedDays)
}

func TestEvaluate_ZeroIntervalAlwaysAllows(t *testing.T) {
	d := Evaluate([]time.Time{date("2024-01-10")}, date("2024-01-10"), 0)
	assert.True(t, d.Allowed)
}

func TestEvaluate_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := date("2023-01-01")

	for i := 0; i < 500; i++ {
		n := rng.Intn(5)
		dates := make([]time.Time, n)
		for j := range dates {
			dates[j] = base.AddDate(0, 0, rng.Intn(60))
		}
		today := base.AddDate(0, 0, 30+rng.Intn(60))
		minDays := rng.Intn(10)

		d := Evaluate(dates, today, minDays)

		if n == 0 {
			assert.True(t, d.Allowed)
			continue
		}
		last := dates[0]
		for _, dt := range dates {
			if dt.After(last) {
				last = dt
			}
		}
		elapsed := int(today.Sub(last).Hours() / 24)
		assert.Equal(t, elapsed >= minDays, d.Allowed, "dates=%v today=%v min=%d", dates, today, minDays)
		assert.Equal(t, elapsed, d.ElapsedDays)
	}
}

func TestCheckpoint(t *testing.T) {
	_, ok := Checkpoint(nil)
	assert.False(t, ok)

	history := []price.Observation{
		price.NewObservation("unley", date("2024-02-01"), decimal.NewFromInt(1)),
		price.NewObservation("glenelg", date("2024-03-01"), decimal.NewFromInt(1)),
		price.NewObservation("unley", date("2024-01-01"), decimal.NewFromInt(1)),
	}
	last, ok := Checkpoint(history)
	require.True(t, ok)
	assert.Equal(t, date("2024-03-01"), last)
}

func TestGate_CheckUsesClockTimezone(t *testing.T) {
	adelaide, err := time.LoadLocation(clock.DefaultTimezone)
	require.NoError(t, err)

	history := []price.Observation{
		price.NewObservation("unley", date("2024-01-04"), decimal.NewFromInt(500000)),
	}

	// 2024-01-09 20:00 UTC is 2024-01-10 06:30 in Adelaide: six days later there.
	c := clock.NewFixed(time.Date(2024, 1, 9, 20, 0, 0, 0, time.UTC).In(adelaide))
	g := New(6, c)

	d := g.Check(history)
	assert.True(t, d.Allowed)
	assert.Equal(t, 6, d.ElapsedDays)

	// The same instant read in UTC would still be the 9th.
	utc := New(6, clock.NewFixed(time.Date(2024, 1, 9, 20, 0, 0, 0, time.UTC)))
	assert.False(t, utc.Check(history).Allowed)
}

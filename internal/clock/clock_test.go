package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSystem_DefaultTimezone(t *testing.T) {
	c, err := NewSystem("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimezone, c.Location.String())
	assert.Equal(t, DefaultTimezone, c.Now().Location().String())
}

func TestNewSystem_UnknownTimezone(t *testing.T) {
	_, err := NewSystem("Mars/Olympus_Mons")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load timezone")
}

func TestToday_UsesClockLocation(t *testing.T) {
	adelaide, err := time.LoadLocation(DefaultTimezone)
	require.NoError(t, err)

	// 23:30 UTC on the 9th is already the 10th in Adelaide (UTC+10:30 in January).
	utc := time.Date(2024, 1, 9, 23, 30, 0, 0, time.UTC)
	c := NewFixed(utc.In(adelaide))

	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Today(c))
}

func TestFixed_SetAndAdvance(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewFixed(start)
	assert.Equal(t, start, c.Now())

	c.AdvanceDays(6)
	assert.Equal(t, time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC), c.Now())

	later := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	c.Set(later)
	assert.Equal(t, later, c.Now())
}

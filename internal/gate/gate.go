// Package gate enforces a minimum cadence between ingestion runs.
//
// A run may write only if no data exists yet, or if at least MinDays
// calendar days have passed since the most recent stored date. Denial is an
// expected outcome, not an error.
package gate

import (
	"time"

	"github.com/roach88/suburbprice/internal/clock"
	"github.com/roach88/suburbprice/internal/price"
)

// DefaultMinDays is the default minimum interval between ingestion runs.
const DefaultMinDays = 6

// Decision is the outcome of a gate check.
type Decision struct {
	Allowed bool `json:"allowed"`

	// Bootstrap is true when the history was empty.
	Bootstrap bool `json:"bootstrap"`

	// LastDate is the ingestion checkpoint. Zero when Bootstrap is true.
	LastDate time.Time `json:"last_date"`

	// ElapsedDays is today minus LastDate in calendar days. Zero when Bootstrap is true.
	ElapsedDays int `json:"elapsed_days"`

	MinDays int `json:"min_days"`
}

// Checkpoint returns the latest date in history.
func Checkpoint(history []price.Observation) (time.Time, bool) {
	var last time.Time
	found := false
	for _, obs := range history {
		if !found || obs.Date.After(last) {
			last = obs.Date
			found = true
		}
	}
	return last, found
}

// Evaluate applies the cadence rule to a set of stored dates.
// The boundary is inclusive: ElapsedDays == minDays is allowed.
func Evaluate(dates []time.Time, today time.Time, minDays int) Decision {
	d := Decision{MinDays: minDays}
	if len(dates) == 0 {
		d.Allowed = true
		d.Bootstrap = true
		return d
	}

	last := dates[0]
	for _, date := range dates[1:] {
		if date.After(last) {
			last = date
		}
	}

	d.LastDate = price.Day(last)
	d.ElapsedDays = price.DaysBetween(last, today)
	d.Allowed = d.ElapsedDays >= minDays
	return d
}

// Gate evaluates the cadence rule against a clock.
type Gate struct {
	MinDays int
	Clock   clock.Clock
}

// New returns a gate. A non-positive minDays is kept as given so that a
// zero interval disables the cadence check.
func New(minDays int, c clock.Clock) Gate {
	return Gate{MinDays: minDays, Clock: c}
}

// Check evaluates the gate for a full history scan, using today's date in
// the clock's location.
func (g Gate) Check(history []price.Observation) Decision {
	var dates []time.Time
	if last, ok := Checkpoint(history); ok {
		dates = append(dates, last)
	}
	return Evaluate(dates, clock.Today(g.Clock), g.MinDays)
}

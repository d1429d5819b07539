// Package clock provides wall-clock access pinned to a reference timezone.
//
// All calendar decisions (what "today" is, the export file date) are made in
// one fixed location so that a run straddling UTC midnight still sees a
// single date.
package clock

import (
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/roach88/suburbprice/internal/price"
)

// DefaultTimezone is the reference location for calendar dates.
const DefaultTimezone = "Australia/Adelaide"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// System is the real clock, reporting time in a fixed location.
type System struct {
	Location *time.Location
}

// NewSystem loads the named location and returns a system clock for it.
// An empty name selects DefaultTimezone.
func NewSystem(name string) (System, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return System{}, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return System{Location: loc}, nil
}

// Now returns the current time in the clock's location.
func (s System) Now() time.Time {
	if s.Location == nil {
		return time.Now()
	}
	return time.Now().In(s.Location)
}

// Today returns the current calendar date of c as midnight UTC.
func Today(c Clock) time.Time {
	return price.Day(c.Now())
}

// Fixed is a settable clock for tests.
//
// Thread-safety: all methods are safe for concurrent use.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixed returns a clock stopped at t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{now: t}
}

// Now returns the stopped time.
func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

// AdvanceDays moves the clock forward by n calendar days.
func (f *Fixed) AdvanceDays(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.AddDate(0, 0, n)
}

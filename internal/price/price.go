package price

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// DateLayout is the ISO calendar date format used at every storage and
// export boundary.
const DateLayout = "2006-01-02"

// Observation is a single price reading for one suburb on one date.
type Observation struct {
	Suburb string
	Date   time.Time
	Price  decimal.Decimal

	// RunID identifies the ingestion run that wrote the observation.
	// Empty when the writer did not record one.
	RunID string
}

// Key returns the store key for the observation: normalized suburb and ISO date.
func (o Observation) Key() string {
	return o.Suburb + "|" + FormatDate(o.Date)
}

// Listing is one raw row produced by an observation source.
// The date is assigned by the ingester, not the source.
type Listing struct {
	Suburb string
	Price  decimal.Decimal
}

var lower = cases.Lower(language.Und)

// NormalizeSuburb returns the canonical partition key for a suburb name:
// NFC-normalized, trimmed, inner whitespace collapsed, lower-cased.
func NormalizeSuburb(name string) string {
	name = norm.NFC.String(name)
	name = strings.Join(strings.Fields(name), " ")
	return lower.String(name)
}

// Day returns the calendar date of t, evaluated in t's own location,
// as midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b.
// Both arguments are reduced to dates first.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// ParseDate parses an ISO date (2006-01-02).
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats t as an ISO date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NewObservation builds an observation with a normalized suburb and a
// day-resolution date.
func NewObservation(suburb string, date time.Time, amount decimal.Decimal) Observation {
	return Observation{
		Suburb: NormalizeSuburb(suburb),
		Date:   Day(date),
		Price:  amount,
	}
}

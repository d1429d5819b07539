package change

import (
	"time"

	"github.com/roach88/suburbprice/internal/price"
)

// Range selects two positions in each suburb's series.
//
// Indices may be negative to count from the end (-1 is the last
// observation). A nil Upper means -1. MaxRange overrides both indices to
// (0, -1), comparing the first and last available observations.
type Range struct {
	Lower    int  `json:"lower_index"`
	Upper    *int `json:"upper_index"`
	MaxRange bool `json:"max_range"`
}

// RangeRecord is one range-mode row.
//
// LowerDate, UpperDate and PctChange are nil when the suburb's series does
// not contain both requested positions. PctChange alone is nil when the
// lower price is zero.
type RangeRecord struct {
	Suburb    string     `json:"suburb"`
	LowerDate *time.Time `json:"lower_date"`
	UpperDate *time.Time `json:"upper_date"`
	PctChange *float64   `json:"pct_change"`
}

// Resolve maps a possibly negative index onto a series of the given length.
// Returns false when the index falls outside the series.
func Resolve(index, length int) (int, bool) {
	if index < 0 {
		index += length
	}
	if index < 0 || index >= length {
		return 0, false
	}
	return index, true
}

// Indices returns the effective (lower, upper) indices before resolution.
func (r Range) Indices() (int, int) {
	if r.MaxRange {
		return 0, -1
	}
	upper := -1
	if r.Upper != nil {
		upper = *r.Upper
	}
	return r.Lower, upper
}

// Resolve returns the positions selected in a series of the given length.
// Returns false unless both indices are in bounds and lower < upper.
func (r Range) Resolve(length int) (lower, upper int, ok bool) {
	lo, hi := r.Indices()
	lower, okLower := Resolve(lo, length)
	upper, okUpper := Resolve(hi, length)
	if !okLower || !okUpper || lower >= upper {
		return 0, 0, false
	}
	return lower, upper, true
}

// Compute returns one record per series, in series order.
func (r Range) Compute(series []price.Series) []RangeRecord {
	records := make([]RangeRecord, 0, len(series))
	for _, s := range series {
		rec := RangeRecord{Suburb: s.Suburb()}

		lower, upper, ok := r.Resolve(s.Len())
		if ok {
			from, to := s.At(lower), s.At(upper)
			lowerDate, upperDate := from.Date, to.Date
			rec.LowerDate = &lowerDate
			rec.UpperDate = &upperDate
			rec.PctChange = Percent(from.Price, to.Price)
		}

		records = append(records, rec)
	}
	return records
}

// Window returns the first complete (lower, upper) date pair among records.
func Window(records []RangeRecord) (lower, upper time.Time, ok bool) {
	for _, rec := range records {
		if rec.LowerDate != nil && rec.UpperDate != nil {
			return *rec.LowerDate, *rec.UpperDate, true
		}
	}
	return time.Time{}, time.Time{}, false
}

package price

import (
	"slices"
	"sort"
	"time"
)

// Series is the chronologically ordered history of one suburb.
//
// Dates are strictly increasing. The zero value is an empty series.
type Series struct {
	suburb       string
	observations []Observation
}

// NewSeries builds a series from observations in write order.
//
// Observations are stable-sorted by date; when several share a date, the
// last one in input order wins. Observations for other suburbs are not
// filtered out here, callers group first (see Build).
func NewSeries(suburb string, observations []Observation) Series {
	sorted := slices.Clone(observations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	deduped := make([]Observation, 0, len(sorted))
	for _, obs := range sorted {
		n := len(deduped)
		if n > 0 && deduped[n-1].Date.Equal(obs.Date) {
			deduped[n-1] = obs
			continue
		}
		deduped = append(deduped, obs)
	}

	return Series{suburb: NormalizeSuburb(suburb), observations: deduped}
}

// Suburb returns the normalized suburb name.
func (s Series) Suburb() string {
	return s.suburb
}

// Len returns the number of observations.
func (s Series) Len() int {
	return len(s.observations)
}

// At returns the i-th observation. Panics if i is out of range.
func (s Series) At(i int) Observation {
	return s.observations[i]
}

// Observations returns a copy of the ordered observations.
func (s Series) Observations() []Observation {
	return slices.Clone(s.observations)
}

// First returns the earliest observation, if any.
func (s Series) First() (Observation, bool) {
	if len(s.observations) == 0 {
		return Observation{}, false
	}
	return s.observations[0], true
}

// Last returns the latest observation, if any.
func (s Series) Last() (Observation, bool) {
	if len(s.observations) == 0 {
		return Observation{}, false
	}
	return s.observations[len(s.observations)-1], true
}

// Dates returns the ordered dates of the series.
func (s Series) Dates() []time.Time {
	dates := make([]time.Time, len(s.observations))
	for i, obs := range s.observations {
		dates[i] = obs.Date
	}
	return dates
}

// Build groups a full history scan into one series per suburb.
//
// The history is expected in write order, which decides same-date
// duplicates. Suburb names are re-normalized so that records written with
// different casing land in the same series. The result is ordered by
// normalized suburb name.
func Build(history []Observation) []Series {
	groups := make(map[string][]Observation)
	for _, obs := range history {
		key := NormalizeSuburb(obs.Suburb)
		obs.Suburb = key
		groups[key] = append(groups[key], obs)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	slices.Sort(names)

	series := make([]Series, len(names))
	for i, name := range names {
		series[i] = NewSeries(name, groups[name])
	}
	return series
}

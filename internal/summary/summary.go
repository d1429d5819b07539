// Package summary computes descriptive statistics over a price snapshot.
package summary

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/roach88/suburbprice/internal/change"
)

// SuburbStats describes one suburb's prices in a snapshot.
type SuburbStats struct {
	Suburb       string          `json:"suburb"`
	Observations int             `json:"observations"`
	Min          decimal.Decimal `json:"min_price"`
	Max          decimal.Decimal `json:"max_price"`
	Mean         decimal.Decimal `json:"mean_price"`
	Median       decimal.Decimal `json:"median_price"`

	// MeanPctChange averages the non-nil step changes. Nil when there are none.
	MeanPctChange *float64 `json:"mean_pct_change"`
}

// Aggregate summarizes per-suburb statistics across all suburbs.
type Aggregate struct {
	Suburbs int             `json:"suburbs"`
	Min     decimal.Decimal `json:"min"`
	Max     decimal.Decimal `json:"max"`
	Mean    decimal.Decimal `json:"mean"`
	Median  decimal.Decimal `json:"median"`
}

// BySuburb groups steps by suburb and returns statistics sorted by suburb.
func BySuburb(steps []change.Step) []SuburbStats {
	groups := make(map[string][]change.Step)
	for _, s := range steps {
		groups[s.Suburb] = append(groups[s.Suburb], s)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	stats := make([]SuburbStats, 0, len(names))
	for _, name := range names {
		group := groups[name]

		prices := make([]decimal.Decimal, len(group))
		var pcts []float64
		for i, s := range group {
			prices[i] = s.Price
			if s.PctChange != nil {
				pcts = append(pcts, *s.PctChange)
			}
		}

		st := SuburbStats{
			Suburb:       name,
			Observations: len(group),
			Min:          decimal.Min(prices[0], prices[1:]...),
			Max:          decimal.Max(prices[0], prices[1:]...),
			Mean:         mean(prices),
			Median:       median(prices),
		}
		if len(pcts) > 0 {
			var sum float64
			for _, p := range pcts {
				sum += p
			}
			m := sum / float64(len(pcts))
			st.MeanPctChange = &m
		}
		stats = append(stats, st)
	}
	return stats
}

// Overall returns the minimum of minimums, maximum of maximums, mean of
// means and median of medians. The zero Aggregate is returned for no input.
func Overall(stats []SuburbStats) Aggregate {
	if len(stats) == 0 {
		return Aggregate{}
	}

	mins := make([]decimal.Decimal, len(stats))
	maxs := make([]decimal.Decimal, len(stats))
	means := make([]decimal.Decimal, len(stats))
	medians := make([]decimal.Decimal, len(stats))
	for i, st := range stats {
		mins[i], maxs[i], means[i], medians[i] = st.Min, st.Max, st.Mean, st.Median
	}

	return Aggregate{
		Suburbs: len(stats),
		Min:     decimal.Min(mins[0], mins[1:]...),
		Max:     decimal.Max(maxs[0], maxs[1:]...),
		Mean:    mean(means),
		Median:  median(medians),
	}
}

// TopByMeanPrice returns the n suburbs with the highest mean price,
// ties broken by suburb name. A non-positive n returns all suburbs.
func TopByMeanPrice(stats []SuburbStats, n int) []SuburbStats {
	sorted := append([]SuburbStats(nil), stats...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].Mean.Cmp(sorted[j].Mean); c != 0 {
			return c > 0
		}
		return sorted[i].Suburb < sorted[j].Suburb
	})
	if n > 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// FormatPct renders a percentage with an explicit sign for positive values,
// e.g. "+1.23%" or "-0.50%". Nil renders as an empty string.
func FormatPct(v *float64) string {
	if v == nil {
		return ""
	}
	if *v > 0 {
		return fmt.Sprintf("+%.2f%%", *v)
	}
	return fmt.Sprintf("%.2f%%", *v)
}

// Quantile returns the q-th quantile of values using linear interpolation
// between closest ranks. Returns false for empty input or q outside [0, 1].
func Quantile(values []float64, q float64) (float64, bool) {
	if len(values) == 0 || q < 0 || q > 1 || math.IsNaN(q) {
		return 0, false
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo], true
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac, true
}

// ClipQuantiles keeps the records whose change lies within the lo and hi
// quantiles of all non-nil changes. Records without a change are dropped.
func ClipQuantiles(records []change.RangeRecord, lo, hi float64) []change.RangeRecord {
	var values []float64
	for _, r := range records {
		if r.PctChange != nil {
			values = append(values, *r.PctChange)
		}
	}

	kept := []change.RangeRecord{}
	qlo, okLo := Quantile(values, lo)
	qhi, okHi := Quantile(values, hi)
	if !okLo || !okHi {
		return kept
	}

	for _, r := range records {
		if r.PctChange == nil {
			continue
		}
		if *r.PctChange >= qlo && *r.PctChange <= qhi {
			kept = append(kept, r)
		}
	}
	return kept
}

func mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(values[0], values[1:]...).Div(decimal.NewFromInt(int64(len(values))))
}

func median(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sorted := append([]decimal.Decimal(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
}

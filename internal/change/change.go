// Package change computes percentage price changes over suburb series.
//
// Two modes are supported: Consecutive (one change per observation,
// relative to the previous one) and Range (one change per suburb between two
// selected positions). Gaps in the data are represented as nil values, never
// as errors, and every suburb is always present in the output.
package change

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/suburbprice/internal/price"
)

var hundred = decimal.NewFromInt(100)

// Percent returns (to-from)/from*100.
// Returns nil when from is zero.
func Percent(from, to decimal.Decimal) *float64 {
	if from.IsZero() {
		return nil
	}
	pct, _ := to.Sub(from).Div(from).Mul(hundred).Float64()
	return &pct
}

// Step is one consecutive-mode row: an observation and its change from the
// previous observation of the same suburb.
type Step struct {
	Suburb string          `json:"suburb"`
	Date   time.Time       `json:"timestamp"`
	Price  decimal.Decimal `json:"price"`

	// PctChange is nil for the first observation of a suburb and when the
	// previous price is zero.
	PctChange *float64 `json:"pct_change"`
}

// Consecutive returns one Step per observation, in series order.
func Consecutive(series []price.Series) []Step {
	var steps []Step
	for _, s := range series {
		for i := 0; i < s.Len(); i++ {
			cur := s.At(i)
			step := Step{
				Suburb: s.Suburb(),
				Date:   cur.Date,
				Price:  cur.Price,
			}
			if i > 0 {
				step.PctChange = Percent(s.At(i-1).Price, cur.Price)
			}
			steps = append(steps, step)
		}
	}
	if steps == nil {
		steps = []Step{}
	}
	return steps
}

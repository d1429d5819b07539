package testutil

import (
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"

	"github.com/roach88/suburbprice/internal/price"
)

// Date parses an ISO date and panics on error.
func Date(s string) time.Time {
	d, err := price.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Obs builds an observation from literals.
func Obs(suburb, date string, amount int64) price.Observation {
	return price.NewObservation(suburb, Date(date), decimal.NewFromInt(amount))
}

// Listing builds a listing from literals.
func Listing(suburb string, amount int64) price.Listing {
	return price.Listing{Suburb: suburb, Price: decimal.NewFromInt(amount)}
}

// Adelaide returns noon on the given ISO date in Australia/Adelaide.
func Adelaide(date string) time.Time {
	loc, err := time.LoadLocation("Australia/Adelaide")
	if err != nil {
		panic(err)
	}
	d := Date(date)
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc)
}

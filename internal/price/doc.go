// Package price provides the observation and series types shared by every
// other package in suburbprice.
//
// This package imports nothing internal. Key constraints:
//   - Suburb names are normalized once, at construction (NormalizeSuburb)
//   - Dates have day resolution and are held as midnight UTC
//   - Prices are decimal amounts, never float64
//   - A Series is only built through NewSeries, which enforces ascending,
//     duplicate-free dates
package price

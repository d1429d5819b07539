package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/suburbprice/internal/price"
)

// ErrEmptySuburb is returned when an observation has no suburb key.
var ErrEmptySuburb = errors.New("observation has empty suburb")

// Put writes an observation.
//
// Uses INSERT OR REPLACE keyed on (suburb, observed_on): writing the same key
// again replaces the row, so the last write wins and the row takes a new seq.
// The suburb is normalized before writing.
func (s *Store) Put(ctx context.Context, obs price.Observation) error {
	suburb := price.NormalizeSuburb(obs.Suburb)
	if suburb == "" {
		return fmt.Errorf("put observation: %w", ErrEmptySuburb)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO observations
		(suburb, observed_on, price, run_id)
		VALUES (?, ?, ?, ?)
	`,
		suburb,
		price.FormatDate(obs.Date),
		obs.Price.String(),
		obs.RunID,
	)
	if err != nil {
		return fmt.Errorf("put observation %s: %w", obs.Key(), err)
	}

	return nil
}

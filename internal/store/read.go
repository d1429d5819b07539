package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/suburbprice/internal/price"
)

// Scan returns the full history in write order (seq ASC).
//
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) Scan(ctx context.Context) ([]price.Observation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT suburb, observed_on, price, run_id
		FROM observations
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	return collect(rows)
}

// History returns one suburb's observations ordered by date.
// The suburb name is normalized before lookup.
func (s *Store) History(ctx context.Context, suburb string) ([]price.Observation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT suburb, observed_on, price, run_id
		FROM observations
		WHERE suburb = ?
		ORDER BY observed_on ASC, seq ASC
	`, price.NormalizeSuburb(suburb))
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	return collect(rows)
}

// LatestDate returns the most recent observed_on across all suburbs.
// Returns false if the store is empty.
func (s *Store) LatestDate(ctx context.Context) (time.Time, bool, error) {
	var latest sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT MAX(observed_on) FROM observations`).Scan(&latest)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query latest date: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, false, nil
	}

	date, err := price.ParseDate(latest.String)
	if err != nil {
		return time.Time{}, false, err
	}
	return date, true, nil
}

// Count returns the number of stored observations.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM observations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count observations: %w", err)
	}
	return n, nil
}

func collect(rows *sql.Rows) ([]price.Observation, error) {
	var observations []price.Observation
	for rows.Next() {
		obs, err := scanObservation(rows)
		if err != nil {
			return nil, err
		}
		observations = append(observations, obs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observations: %w", err)
	}

	if observations == nil {
		observations = []price.Observation{}
	}

	return observations, nil
}

func scanObservation(rows *sql.Rows) (price.Observation, error) {
	var obs price.Observation
	var observedOn, amount string

	if err := rows.Scan(&obs.Suburb, &observedOn, &amount, &obs.RunID); err != nil {
		return price.Observation{}, fmt.Errorf("scan observation: %w", err)
	}

	date, err := price.ParseDate(observedOn)
	if err != nil {
		return price.Observation{}, fmt.Errorf("scan observation: %w", err)
	}
	obs.Date = date

	obs.Price, err = decimal.NewFromString(amount)
	if err != nil {
		return price.Observation{}, fmt.Errorf("scan observation %s: parse price %q: %w", obs.Suburb, amount, err)
	}

	return obs, nil
}

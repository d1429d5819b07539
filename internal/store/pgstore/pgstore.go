// Package pgstore stores price observations in PostgreSQL.
//
// It offers the same contract as the SQLite store: Put is keyed on
// (suburb, date) with last-write-wins, and Scan returns write order.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/roach88/suburbprice/internal/price"
)

// ErrEmptySuburb is returned when an observation has no suburb key.
var ErrEmptySuburb = errors.New("observation has empty suburb")

const schemaSQL = `
CREATE SEQUENCE IF NOT EXISTS observation_seq;

CREATE TABLE IF NOT EXISTS observations (
	seq         BIGINT  NOT NULL DEFAULT nextval('observation_seq'),
	suburb      TEXT    NOT NULL,
	observed_on DATE    NOT NULL,
	price       NUMERIC NOT NULL,
	run_id      TEXT    NOT NULL DEFAULT '',
	PRIMARY KEY (suburb, observed_on)
);

CREATE INDEX IF NOT EXISTS idx_observations_seq ON observations(seq);
`

// Store is a PostgreSQL-backed observation store.
type Store struct {
	db *sql.DB
}

// Open connects to PostgreSQL and creates the schema if needed.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put writes an observation. A rewrite of the same key replaces the
// price and takes a new seq.
func (s *Store) Put(ctx context.Context, obs price.Observation) error {
	suburb := price.NormalizeSuburb(obs.Suburb)
	if suburb == "" {
		return fmt.Errorf("put observation: %w", ErrEmptySuburb)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO observations (suburb, observed_on, price, run_id)
		VALUES ($1, $2::date, $3::numeric, $4)
		ON CONFLICT (suburb, observed_on) DO UPDATE
		SET price = EXCLUDED.price,
		    run_id = EXCLUDED.run_id,
		    seq = nextval('observation_seq')
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

const selectColumns = `SELECT suburb, to_char(observed_on, 'YYYY-MM-DD'), price::text, run_id FROM observations`

// Scan returns the full history in write order.
func (s *Store) Scan(ctx context.Context) ([]price.Observation, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

// History returns one suburb's observations ordered by date.
func (s *Store) History(ctx context.Context, suburb string) ([]price.Observation, error) {
	rows, err := s.db.QueryContext(ctx,
		selectColumns+` WHERE suburb = $1 ORDER BY observed_on ASC, seq ASC`,
		price.NormalizeSuburb(suburb))
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

// LatestDate returns the most recent observation date.
// Returns false if the store is empty.
func (s *Store) LatestDate(ctx context.Context) (time.Time, bool, error) {
	var latest sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT to_char(MAX(observed_on), 'YYYY-MM-DD') FROM observations`).Scan(&latest)
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
	observations := []price.Observation{}
	for rows.Next() {
		var obs price.Observation
		var observedOn, amount string
		if err := rows.Scan(&obs.Suburb, &observedOn, &amount, &obs.RunID); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}

		date, err := price.ParseDate(observedOn)
		if err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		obs.Date = date

		obs.Price, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("scan observation %s: parse price %q: %w", obs.Suburb, amount, err)
		}
		observations = append(observations, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observations: %w", err)
	}
	return observations, nil
}

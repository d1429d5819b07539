package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/suburbprice/internal/clock"
	"github.com/roach88/suburbprice/internal/gate"
	"github.com/roach88/suburbprice/internal/price"
)

var (
	// ErrSourceUnavailable is returned when the source fails or yields no rows.
	ErrSourceUnavailable = errors.New("observation source unavailable")

	// ErrInvalidListing marks a listing that cannot be stored.
	ErrInvalidListing = errors.New("invalid listing")
)

// Source produces the current listings.
type Source interface {
	Fetch(ctx context.Context) ([]price.Listing, error)
}

// Store is the append-only observation store.
type Store interface {
	Put(ctx context.Context, obs price.Observation) error
	Scan(ctx context.Context) ([]price.Observation, error)
}

// RunIDFunc returns a fresh ingestion run id.
type RunIDFunc func() (string, error)

// NewV7RunID returns a time-ordered UUIDv7 string.
func NewV7RunID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// WriteResult is the outcome of writing one observation.
type WriteResult struct {
	Observation price.Observation
	Err         error
}

// Summary reports what an ingestion run did.
type Summary struct {
	RunID    string        `json:"run_id"`
	Date     time.Time     `json:"date"`
	Decision gate.Decision `json:"decision"`
	Fetched  int           `json:"fetched"`
	Written  int           `json:"written"`
	Failures []WriteResult `json:"-"`

	// Deferred is true when the gate denied the run. Nothing was written.
	Deferred bool `json:"deferred"`
}

// Failed returns the number of failed writes.
func (s *Summary) Failed() int {
	return len(s.Failures)
}

// Ingester runs ingestion against a source and store.
type Ingester struct {
	Source Source
	Store  Store
	Gate   gate.Gate

	// Clock supplies today's date. Defaults to the gate's clock.
	Clock clock.Clock

	// NewRunID defaults to NewV7RunID.
	NewRunID RunIDFunc
}

// Run performs one ingestion run.
//
// Returns ErrSourceUnavailable (wrapped) if the fetch fails or is empty,
// and a wrapped store error if history cannot be read. A gate denial is
// reported through Summary.Deferred with a nil error.
func (in *Ingester) Run(ctx context.Context) (*Summary, error) {
	listings, err := in.Source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w: %w", ErrSourceUnavailable, err)
	}
	if len(listings) == 0 {
		return nil, fmt.Errorf("fetch listings: %w: no rows", ErrSourceUnavailable)
	}

	history, err := in.Store.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan history: %w", err)
	}

	decision := in.Gate.Check(history)
	summary := &Summary{
		Date:     clock.Today(in.clock()),
		Decision: decision,
		Fetched:  len(listings),
	}

	if !decision.Allowed {
		summary.Deferred = true
		slog.InfoContext(ctx, "ingestion deferred",
			"last_date", price.FormatDate(decision.LastDate),
			"elapsed_days", decision.ElapsedDays,
			"min_days", decision.MinDays)
		return summary, nil
	}

	newID := in.NewRunID
	if newID == nil {
		newID = NewV7RunID
	}
	summary.RunID, err = newID()
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}

	for _, result := range in.write(ctx, listings, summary.Date, summary.RunID) {
		if result.Err != nil {
			slog.WarnContext(ctx, "write failed",
				"suburb", result.Observation.Suburb, "error", result.Err)
			summary.Failures = append(summary.Failures, result)
			continue
		}
		summary.Written++
	}

	slog.InfoContext(ctx, "ingestion complete",
		"run_id", summary.RunID,
		"date", price.FormatDate(summary.Date),
		"fetched", summary.Fetched,
		"written", summary.Written,
		"failed", summary.Failed())

	return summary, nil
}

func (in *Ingester) clock() clock.Clock {
	if in.Clock != nil {
		return in.Clock
	}
	return in.Gate.Clock
}

func (in *Ingester) write(ctx context.Context, listings []price.Listing, date time.Time, runID string) []WriteResult {
	results := make([]WriteResult, 0, len(listings))
	for _, l := range listings {
		obs := price.NewObservation(l.Suburb, date, l.Price)
		obs.RunID = runID

		if err := validate(obs); err != nil {
			results = append(results, WriteResult{Observation: obs, Err: err})
			continue
		}

		results = append(results, WriteResult{
			Observation: obs,
			Err:         in.Store.Put(ctx, obs),
		})
	}
	return results
}

func validate(obs price.Observation) error {
	if obs.Suburb == "" {
		return fmt.Errorf("%w: empty suburb", ErrInvalidListing)
	}
	if obs.Price.IsNegative() {
		return fmt.Errorf("%w: %s has negative price %s", ErrInvalidListing, obs.Suburb, obs.Price)
	}
	return nil
}

// LoadSeries reads the full history and groups it into per-suburb series.
func LoadSeries(ctx context.Context, store Store) ([]price.Series, error) {
	history, err := store.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan history: %w", err)
	}
	return price.Build(history), nil
}

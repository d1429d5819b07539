package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/roach88/suburbprice/internal/price"
)

// ErrInjected is the error returned by injected store failures.
var ErrInjected = errors.New("injected store failure")

// MemoryStore is an in-memory observation store.
//
// It keeps the same contract as the SQLite store: writes are keyed on
// (suburb, date), a rewrite replaces the record and moves it to the end of
// the write order.
//
// Thread-safety: all methods are safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	records []price.Observation
	failOn  map[string]bool
	scanErr error
	puts    int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(seed ...price.Observation) *MemoryStore {
	s := &MemoryStore{failOn: make(map[string]bool)}
	for _, obs := range seed {
		_ = s.Put(context.Background(), obs)
	}
	return s
}

// FailOn makes every Put for the given suburb return ErrInjected.
func (s *MemoryStore) FailOn(suburb string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[price.NormalizeSuburb(suburb)] = true
}

// FailScan makes Scan return err. Pass nil to clear.
func (s *MemoryStore) FailScan(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scanErr = err
}

// Puts returns the number of Put calls, including failed ones.
func (s *MemoryStore) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

// Put writes an observation.
func (s *MemoryStore) Put(_ context.Context, obs price.Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++

	obs.Suburb = price.NormalizeSuburb(obs.Suburb)
	obs.Date = price.Day(obs.Date)
	if obs.Suburb == "" {
		return errors.New("observation has empty suburb")
	}
	if s.failOn[obs.Suburb] {
		return fmt.Errorf("put observation %s: %w", obs.Key(), ErrInjected)
	}

	key := obs.Key()
	kept := s.records[:0]
	for _, r := range s.records {
		if r.Key() != key {
			kept = append(kept, r)
		}
	}
	s.records = append(kept, obs)
	return nil
}

// Scan returns every observation in write order.
func (s *MemoryStore) Scan(_ context.Context) ([]price.Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	return append([]price.Observation{}, s.records...), nil
}

// History returns one suburb's observations ordered by date.
func (s *MemoryStore) History(ctx context.Context, suburb string) ([]price.Observation, error) {
	all, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}
	name := price.NormalizeSuburb(suburb)
	out := []price.Observation{}
	for _, obs := range all {
		if obs.Suburb == name {
			out = append(out, obs)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// LatestDate returns the most recent observation date.
func (s *MemoryStore) LatestDate(ctx context.Context) (time.Time, bool, error) {
	all, err := s.Scan(ctx)
	if err != nil {
		return time.Time{}, false, err
	}
	var latest time.Time
	for _, obs := range all {
		if obs.Date.After(latest) {
			latest = obs.Date
		}
	}
	return latest, len(all) > 0, nil
}

// Count returns the number of stored observations.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records), nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

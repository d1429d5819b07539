package testutil

import (
	"context"
	"sync"

	"github.com/roach88/suburbprice/internal/price"
)

// StaticSource returns canned listings, or Err when set.
type StaticSource struct {
	Listings []price.Listing
	Err      error

	mu    sync.Mutex
	calls int
}

// Fetch returns a copy of the canned listings.
func (s *StaticSource) Fetch(_ context.Context) ([]price.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]price.Listing(nil), s.Listings...), nil
}

// Calls returns the number of Fetch calls.
func (s *StaticSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Package store provides SQLite-backed durable storage for suburb price
// observations.
//
// The store is an append-only history keyed by (suburb, observed_on):
//   - Put is an upsert. Writing the same key twice leaves one row, holding
//     the last write, and moves it to the end of the write order
//   - Scan returns the full history ordered by seq (write order)
//   - Nothing is ever deleted by the application
//
// Ordering never depends on dates stored as text: callers that need
// chronological order build a price.Series from the scan.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - Single connection: the application is a single writer
//
// PostgreSQL and Redis adapters with the same contract live in the pgstore
// and redisstore subpackages.
package store

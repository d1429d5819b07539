// Package redisstore stores price observations in Redis.
//
// Layout under a configurable key prefix:
//
//	<prefix>:seq              counter, one increment per write
//	<prefix>:suburbs          set of suburb names
//	<prefix>:suburb:<name>    hash of ISO date -> JSON record
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/roach88/suburbprice/internal/price"
)

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "suburbprice"

// ErrEmptySuburb is returned when an observation has no suburb key.
var ErrEmptySuburb = errors.New("observation has empty suburb")

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Store is a Redis-backed observation store.
type Store struct {
	client *redis.Client
	prefix string
}

type record struct {
	Price decimal.Decimal `json:"price"`
	RunID string          `json:"run_id,omitempty"`
	Seq   int64           `json:"seq"`
}

// Open connects to Redis and verifies the connection.
func Open(ctx context.Context, opts Options) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}, nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) seqKey() string     { return s.prefix + ":seq" }
func (s *Store) suburbsKey() string { return s.prefix + ":suburbs" }
func (s *Store) suburbKey(name string) string {
	return s.prefix + ":suburb:" + name
}

// Put writes an observation. A rewrite of the same (suburb, date)
// overwrites the hash field and takes a new seq.
func (s *Store) Put(ctx context.Context, obs price.Observation) error {
	suburb := price.NormalizeSuburb(obs.Suburb)
	if suburb == "" {
		return fmt.Errorf("put observation: %w", ErrEmptySuburb)
	}

	seq, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return fmt.Errorf("put observation %s: next seq: %w", obs.Key(), err)
	}

	data, err := json.Marshal(record{Price: obs.Price, RunID: obs.RunID, Seq: seq})
	if err != nil {
		return fmt.Errorf("put observation %s: marshal: %w", obs.Key(), err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.suburbKey(suburb), price.FormatDate(obs.Date), data)
		pipe.SAdd(ctx, s.suburbsKey(), suburb)
		return nil
	})
	if err != nil {
		return fmt.Errorf("put observation %s: %w", obs.Key(), err)
	}
	return nil
}

type sequenced struct {
	obs price.Observation
	seq int64
}

// Scan returns the full history in write order.
func (s *Store) Scan(ctx context.Context) ([]price.Observation, error) {
	suburbs, err := s.client.SMembers(ctx, s.suburbsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list suburbs: %w", err)
	}

	var all []sequenced
	for _, suburb := range suburbs {
		entries, err := s.load(ctx, suburb)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].seq < all[j].seq })
	return unwrap(all), nil
}

// History returns one suburb's observations ordered by date.
func (s *Store) History(ctx context.Context, suburb string) ([]price.Observation, error) {
	entries, err := s.load(ctx, price.NormalizeSuburb(suburb))
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].obs.Date.Before(entries[j].obs.Date)
	})
	return unwrap(entries), nil
}

// LatestDate returns the most recent observation date.
// Returns false if the store is empty.
func (s *Store) LatestDate(ctx context.Context) (time.Time, bool, error) {
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
func (s *Store) Count(ctx context.Context) (int, error) {
	suburbs, err := s.client.SMembers(ctx, s.suburbsKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("list suburbs: %w", err)
	}
	total := 0
	for _, suburb := range suburbs {
		n, err := s.client.HLen(ctx, s.suburbKey(suburb)).Result()
		if err != nil {
			return 0, fmt.Errorf("count %s: %w", suburb, err)
		}
		total += int(n)
	}
	return total, nil
}

func (s *Store) load(ctx context.Context, suburb string) ([]sequenced, error) {
	fields, err := s.client.HGetAll(ctx, s.suburbKey(suburb)).Result()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", suburb, err)
	}

	entries := make([]sequenced, 0, len(fields))
	for date, raw := range fields {
		d, err := price.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", suburb, err)
		}
		var rec record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("load %s|%s: unmarshal: %w", suburb, date, err)
		}
		entries = append(entries, sequenced{
			obs: price.Observation{Suburb: suburb, Date: d, Price: rec.Price, RunID: rec.RunID},
			seq: rec.Seq,
		})
	}
	return entries, nil
}

func unwrap(entries []sequenced) []price.Observation {
	out := make([]price.Observation, len(entries))
	for i, e := range entries {
		out[i] = e.obs
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"
)

// Validate checks cross-field rules the schema cannot express.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}

	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.Path == "" {
			return errors.New("store.path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return errors.New("store.postgres_dsn is required for the postgres driver")
		}
	case DriverRedis:
		if c.Store.Redis.Addr == "" {
			return errors.New("store.redis.addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("store.driver must be one of sqlite, postgres, redis, got %q", c.Store.Driver)
	}

	if c.MinIntervalDays() < 0 {
		return fmt.Errorf("ingest.min_interval_days must be >= 0, got %d", c.MinIntervalDays())
	}
	if c.Source.Pages < 1 {
		return fmt.Errorf("source.pages must be >= 1, got %d", c.Source.Pages)
	}
	if c.TableIndex() < 0 {
		return fmt.Errorf("source.table_index must be >= 0, got %d", c.TableIndex())
	}
	if c.Source.Timeout <= 0 {
		return errors.New("source.timeout must be positive")
	}

	return nil
}

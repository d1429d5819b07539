package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultTimezone        = "Australia/Adelaide"
	DefaultDriver          = DriverSQLite
	DefaultStorePath       = "data/suburbprice.db"
	DefaultRedisAddr       = "localhost:6379"
	DefaultRedisPrefix     = "suburbprice"
	DefaultMinIntervalDays = 6
	DefaultBaseURL         = "http://house.speakingsame.com/suburbtop.php?sta=sa&cat=HomePrice&name=&page="
	DefaultPages           = 15
	DefaultTableIndex      = 7
	DefaultUserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	DefaultTimeout         = 30 * time.Second
	DefaultExportDir       = "data"
	DefaultExportPrefix    = "realestatedata"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

func (c *Config) applyDefaults() {
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}

	// Store defaults
	if c.Store.Driver == "" {
		c.Store.Driver = DefaultDriver
	}
	if c.Store.Driver == DriverSQLite && c.Store.Path == "" {
		c.Store.Path = DefaultStorePath
	}
	if c.Store.Driver == DriverRedis {
		if c.Store.Redis.Addr == "" {
			c.Store.Redis.Addr = DefaultRedisAddr
		}
		if c.Store.Redis.Prefix == "" {
			c.Store.Redis.Prefix = DefaultRedisPrefix
		}
	}

	if c.Ingest.MinIntervalDays == nil {
		days := DefaultMinIntervalDays
		c.Ingest.MinIntervalDays = &days
	}

	// Source defaults
	if c.Source.BaseURL == "" {
		c.Source.BaseURL = DefaultBaseURL
	}
	if c.Source.Pages == 0 {
		c.Source.Pages = DefaultPages
	}
	if c.Source.TableIndex == nil {
		idx := DefaultTableIndex
		c.Source.TableIndex = &idx
	}
	if c.Source.UserAgent == "" {
		c.Source.UserAgent = DefaultUserAgent
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = DefaultTimeout
	}

	// Export defaults
	if c.Export.Dir == "" {
		c.Export.Dir = DefaultExportDir
	}
	if c.Export.Prefix == "" {
		c.Export.Prefix = DefaultExportPrefix
	}
}

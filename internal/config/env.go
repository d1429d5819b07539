package config

import (
	"os"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SUBURBPRICE_"

// applyEnvOverrides applies SUBURBPRICE_* variables over file values.
// Unparsable numeric values are ignored.
func applyEnvOverrides(c *Config) {
	if v := getenv("TIMEZONE"); v != "" {
		c.Timezone = v
	}

	// Store
	if v := getenv("STORE_DRIVER"); v != "" {
		c.Store.Driver = strings.ToLower(v)
	}
	if v := getenv("STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := getenv("POSTGRES_DSN"); v != "" {
		c.Store.PostgresDSN = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Store.Redis.Addr = v
	}
	if v := getenv("REDIS_PASSWORD"); v != "" {
		c.Store.Redis.Password = v
	}
	if v := getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Store.Redis.DB = db
		}
	}

	if v := getenv("MIN_INTERVAL_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			c.Ingest.MinIntervalDays = &days
		}
	}

	if v := getenv("SOURCE_BASE_URL"); v != "" {
		c.Source.BaseURL = v
	}

	if v := getenv("EXPORT_DIR"); v != "" {
		c.Export.Dir = v
	}
}

func getenv(name string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + name))
}

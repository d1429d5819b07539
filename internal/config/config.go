package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Timezone string       `yaml:"timezone" json:"timezone"`
	Store    StoreConfig  `yaml:"store" json:"store"`
	Ingest   IngestConfig `yaml:"ingest" json:"ingest"`
	Source   SourceConfig `yaml:"source" json:"source"`
	Export   ExportConfig `yaml:"export" json:"export"`
	Range    RangeConfig  `yaml:"range" json:"range"`
}

// StoreConfig selects and configures the observation store.
type StoreConfig struct {
	Driver      string      `yaml:"driver" json:"driver"`
	Path        string      `yaml:"path" json:"path,omitempty"`
	PostgresDSN string      `yaml:"postgres_dsn" json:"postgres_dsn,omitempty"`
	Redis       RedisConfig `yaml:"redis" json:"redis"`
}

// RedisConfig configures the Redis store.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr,omitempty"`
	Password string `yaml:"password" json:"password,omitempty"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix,omitempty"`
}

// IngestConfig configures the cadence gate.
type IngestConfig struct {
	// MinIntervalDays is nil until defaults apply; zero disables the gate.
	MinIntervalDays *int `yaml:"min_interval_days" json:"min_interval_days,omitempty"`
}

// SourceConfig configures the scraper.
type SourceConfig struct {
	BaseURL    string        `yaml:"base_url" json:"base_url"`
	Pages      int           `yaml:"pages" json:"pages"`
	TableIndex *int          `yaml:"table_index" json:"table_index,omitempty"`
	UserAgent  string        `yaml:"user_agent" json:"user_agent"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
}

// ExportConfig configures snapshot output.
type ExportConfig struct {
	Dir    string `yaml:"dir" json:"dir"`
	Prefix string `yaml:"prefix" json:"prefix"`
}

// RangeConfig holds the default range-mode indices.
type RangeConfig struct {
	LowerIndex int  `yaml:"lower_index" json:"lower_index"`
	UpperIndex *int `yaml:"upper_index" json:"upper_index,omitempty"`
	MaxRange   bool `yaml:"max_range" json:"max_range"`
}

// Load reads the config file at path (optional when empty), the .env file
// in the working directory if present, and the environment.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, ".env")
}

// LoadWithEnv is Load with an explicit .env path. A missing env file is
// not an error.
func LoadWithEnv(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := CheckSchema(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// MinIntervalDays returns the configured gate interval.
func (c *Config) MinIntervalDays() int {
	if c.Ingest.MinIntervalDays == nil {
		return DefaultMinIntervalDays
	}
	return *c.Ingest.MinIntervalDays
}

// TableIndex returns the configured listing table index.
func (c *Config) TableIndex() int {
	if c.Source.TableIndex == nil {
		return DefaultTableIndex
	}
	return *c.Source.TableIndex
}

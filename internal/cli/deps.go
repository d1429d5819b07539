package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/suburbprice/internal/clock"
	"github.com/roach88/suburbprice/internal/config"
	"github.com/roach88/suburbprice/internal/pipeline"
	"github.com/roach88/suburbprice/internal/price"
	"github.com/roach88/suburbprice/internal/scraper"
	"github.com/roach88/suburbprice/internal/store"
	"github.com/roach88/suburbprice/internal/store/pgstore"
	"github.com/roach88/suburbprice/internal/store/redisstore"
)

// ObservationStore is the store surface the commands use. Implemented by
// the sqlite, postgres and redis stores.
type ObservationStore interface {
	pipeline.Store
	History(ctx context.Context, suburb string) ([]price.Observation, error)
	LatestDate(ctx context.Context) (time.Time, bool, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// setupLogging installs a text slog handler on w at Info, or Debug when verbose.
func setupLogging(opts *RootOptions, w io.Writer) {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func loadConfig(opts *RootOptions) (*config.Config, error) {
	if opts.Config != nil {
		return opts.Config, nil
	}
	return config.Load(opts.ConfigPath)
}

func clockFor(opts *RootOptions, cfg *config.Config) (clock.Clock, error) {
	if opts.Clock != nil {
		return opts.Clock, nil
	}
	return clock.NewSystem(cfg.Timezone)
}

func sourceFor(opts *RootOptions, cfg *config.Config) pipeline.Source {
	if opts.Source != nil {
		return opts.Source
	}
	return scraper.NewClient(scraper.Options{
		BaseURL:    cfg.Source.BaseURL,
		Pages:      cfg.Source.Pages,
		TableIndex: cfg.TableIndex(),
		UserAgent:  cfg.Source.UserAgent,
		Timeout:    cfg.Source.Timeout,
	})
}

func openStore(ctx context.Context, opts *RootOptions, cfg *config.Config) (ObservationStore, error) {
	if opts.OpenStore != nil {
		return opts.OpenStore(ctx, cfg)
	}

	switch cfg.Store.Driver {
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
		slog.Debug("opening sqlite store", "path", cfg.Store.Path)
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		return st, nil

	case config.DriverPostgres:
		slog.Debug("opening postgres store")
		st, err := pgstore.Open(ctx, cfg.Store.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return st, nil

	case config.DriverRedis:
		slog.Debug("opening redis store", "addr", cfg.Store.Redis.Addr)
		st, err := redisstore.Open(ctx, redisstore.Options{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
			Prefix:   cfg.Store.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return st, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// env bundles what every store-backed command needs.
type env struct {
	cfg   *config.Config
	clock clock.Clock
	store ObservationStore
}

func (e *env) close() {
	if e.store == nil {
		return
	}
	if err := e.store.Close(); err != nil {
		slog.Error("error closing store", "error", err)
	}
}

// prepare loads config, clock and store, reporting failures through formatter.
func prepare(ctx context.Context, opts *RootOptions, formatter *OutputFormatter) (*env, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, formatter.fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}
	c, err := clockFor(opts, cfg)
	if err != nil {
		return nil, formatter.fail(ExitCommandError, ErrCodeConfig, "failed to load timezone", err)
	}
	st, err := openStore(ctx, opts, cfg)
	if err != nil {
		return nil, formatter.fail(ExitCommandError, ErrCodeStore, "failed to open store", err)
	}
	return &env{cfg: cfg, clock: c, store: st}, nil
}

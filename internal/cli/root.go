package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/suburbprice/internal/clock"
	"github.com/roach88/suburbprice/internal/config"
	"github.com/roach88/suburbprice/internal/pipeline"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Config overrides loading from ConfigPath (for testing).
	Config *config.Config

	// Clock overrides the configured timezone clock (for testing).
	Clock clock.Clock

	// Source overrides the HTTP scraper (for testing).
	Source pipeline.Source

	// OpenStore overrides store construction (for testing).
	OpenStore func(ctx context.Context, cfg *config.Config) (ObservationStore, error)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the suburbprice CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suburbprice",
		Short: "Track suburb median house prices",
		Long: `Scrape suburb median house prices on a weekly cadence, keep an
append-only history, and export percentage changes as dated CSV snapshots.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")

	cmd.AddCommand(NewIngestCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewGateCommand(opts))
	cmd.AddCommand(NewSummaryCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

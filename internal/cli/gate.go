package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/suburbprice/internal/clock"
	"github.com/roach88/suburbprice/internal/gate"
	"github.com/roach88/suburbprice/internal/price"
)

// GateResult is the JSON payload of the gate command.
type GateResult struct {
	gate.Decision
	Today        string `json:"today"`
	Observations int    `json:"observations"`
	NextAllowed  string `json:"next_allowed"`
}

// NewGateCommand creates the gate command.
func NewGateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Report whether an ingestion run would be allowed today",
		Long: `Evaluate the ingestion cadence rule against the store without
fetching or writing anything.

Exit code is 0 whether the run would be allowed or deferred.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGate(rootOpts, cmd)
		},
	}

	return cmd
}

func runGate(opts *RootOptions, cmd *cobra.Command) error {
	setupLogging(opts, cmd.ErrOrStderr())
	formatter := newFormatter(opts, cmd)
	ctx := commandContext(cmd)

	e, err := prepare(ctx, opts, formatter)
	if err != nil {
		return err
	}
	defer e.close()

	latest, ok, err := e.store.LatestDate(ctx)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, "failed to read latest date", err)
	}
	count, err := e.store.Count(ctx)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, "failed to count observations", err)
	}

	var dates []time.Time
	if ok {
		dates = append(dates, latest)
	}
	today := clock.Today(e.clock)
	decision := gate.Evaluate(dates, today, e.cfg.MinIntervalDays())

	next := today
	if !decision.Bootstrap && !decision.Allowed {
		next = decision.LastDate.AddDate(0, 0, decision.MinDays)
	}

	result := GateResult{
		Decision:     decision,
		Today:        price.FormatDate(today),
		Observations: count,
		NextAllowed:  price.FormatDate(next),
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	switch {
	case decision.Bootstrap:
		fmt.Fprintln(formatter.Writer, "✓ Allowed: store is empty")
	case decision.Allowed:
		fmt.Fprintf(formatter.Writer, "✓ Allowed: %d day(s) since %s (minimum %d)\n",
			decision.ElapsedDays, price.FormatDate(decision.LastDate), decision.MinDays)
	default:
		fmt.Fprintf(formatter.Writer, "✗ Deferred: %d day(s) since %s (minimum %d)\n",
			decision.ElapsedDays, price.FormatDate(decision.LastDate), decision.MinDays)
		fmt.Fprintf(formatter.Writer, "  next run allowed on %s\n", result.NextAllowed)
	}
	fmt.Fprintf(formatter.Writer, "  observations: %d\n", count)
	return nil
}

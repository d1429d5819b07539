package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/suburbprice/internal/clock"
	"github.com/roach88/suburbprice/internal/config"
	"github.com/roach88/suburbprice/internal/pipeline"
	"github.com/roach88/suburbprice/internal/testutil"
)

// testEnv wires a root command to an in-memory store and a fixed clock.
type testEnv struct {
	opts  *RootOptions
	store *testutil.MemoryStore
	clock *clock.Fixed
	dir   string
}

func newTestEnv(t *testing.T, today string, source pipeline.Source) *testEnv {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Store.Path = filepath.Join(dir, "suburbprice.db")
	cfg.Export.Dir = dir

	st := testutil.NewMemoryStore()
	te := &testEnv{store: st, clock: clock.NewFixed(testutil.Adelaide(today)), dir: dir}
	te.opts = &RootOptions{
		Config: cfg,
		Clock:  te.clock,
		Source: source,
		OpenStore: func(context.Context, *config.Config) (ObservationStore, error) {
			return st, nil
		},
	}
	return te
}

// run executes the command line and returns stdout, stderr and the error.
func (te *testEnv) run(args ...string) (string, string, error) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	cmd := newRootCommand(te.opts)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

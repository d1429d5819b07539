package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/suburbprice/internal/change"
	"github.com/roach88/suburbprice/internal/clock"
	"github.com/roach88/suburbprice/internal/price"
	"github.com/roach88/suburbprice/internal/testutil"
)

func fixtureSeries() []price.Series {
	return price.Build([]price.Observation{
		testutil.Obs("unley", "2024-01-01", 500000),
		testutil.Obs("glenelg", "2024-01-01", 800000),
		testutil.Obs("norwood", "2024-01-01", 400000),
		testutil.Obs("stirling", "2024-01-01", 700000),
		testutil.Obs("unley", "2024-01-08", 550000),
		testutil.Obs("glenelg", "2024-01-08", 0),
		testutil.Obs("norwood", "2024-01-08", 410000),
		testutil.Obs("unley", "2024-01-15", 495000),
		testutil.Obs("glenelg", "2024-01-15", 1000000),
	})
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestWriteSteps_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSteps(&buf, change.Consecutive(fixtureSeries())))

	newGoldie(t).Assert(t, "steps", buf.Bytes())
}

func TestWriteRanges_MaxRangeGolden(t *testing.T) {
	var buf bytes.Buffer
	records := change.Range{MaxRange: true}.Compute(fixtureSeries())
	require.NoError(t, WriteRanges(&buf, records))

	newGoldie(t).Assert(t, "ranges_max", buf.Bytes())
}

func TestWriteRanges_ZeroLowerPriceGolden(t *testing.T) {
	var buf bytes.Buffer
	records := change.Range{Lower: 1}.Compute(fixtureSeries())
	require.NoError(t, WriteRanges(&buf, records))

	newGoldie(t).Assert(t, "ranges_zero_lower", buf.Bytes())
}

func TestWrite_EmptyInputHasHeader(t *testing.T) {
	var steps, ranges bytes.Buffer
	require.NoError(t, WriteSteps(&steps, nil))
	require.NoError(t, WriteRanges(&ranges, nil))

	assert.Equal(t, "suburb,price,timestamp,pct_change\n", steps.String())
	assert.Equal(t, "suburb,lower_date,upper_date,pct_change\n", ranges.String())
}

func TestFileName(t *testing.T) {
	d := testutil.Date("2024-05-24")
	assert.Equal(t, "realestatedata_24MAY2024.csv", FileName("realestatedata", d))
	assert.Equal(t, "x_01JAN2025.csv", FileName("x", testutil.Date("2025-01-01")))
}

func TestExporter_UsesConfiguredTimezone(t *testing.T) {
	// 2024-05-23 23:00 UTC is already 24 May in Adelaide.
	loc, err := time.LoadLocation("Australia/Adelaide")
	require.NoError(t, err)
	now := time.Date(2024, 5, 23, 23, 0, 0, 0, time.UTC).In(loc)

	e := &Exporter{Dir: t.TempDir(), Clock: clock.NewFixed(now)}
	assert.Equal(t, "realestatedata_24MAY2024.csv", filepath.Base(e.Path()))
}

func TestExporter_ExportSteps(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	e := &Exporter{Dir: dir, Prefix: "snap", Clock: clock.NewFixed(testutil.Adelaide("2024-05-24"))}

	steps := change.Consecutive(fixtureSeries())
	path, err := e.ExportSteps(steps)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "snap_24MAY2024.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	expected, err := os.ReadFile("testdata/golden/steps.golden")
	require.NoError(t, err)
	assert.Equal(t, string(expected), string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExporter_OverwritesSameDay(t *testing.T) {
	dir := t.TempDir()
	e := &Exporter{Dir: dir, Clock: clock.NewFixed(testutil.Adelaide("2024-05-24"))}

	_, err := e.ExportRanges(change.Range{MaxRange: true}.Compute(fixtureSeries()))
	require.NoError(t, err)
	path, err := e.ExportRanges([]change.RangeRecord{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "suburb,lower_date,upper_date,pct_change\n", string(data))
}

func TestExporter_FailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	// A directory occupying the destination path makes the rename fail.
	e := &Exporter{Dir: dir, Clock: clock.NewFixed(testutil.Adelaide("2024-05-24"))}
	require.NoError(t, os.Mkdir(e.Path(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.Path(), "keep"), []byte("x"), 0o644))

	_, err := e.ExportSteps(change.Consecutive(fixtureSeries()))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsDir())
}

func TestReadSteps_RoundTripsGolden(t *testing.T) {
	f, err := os.Open("testdata/golden/steps.golden")
	require.NoError(t, err)
	defer f.Close()

	steps, err := ReadSteps(f)
	require.NoError(t, err)
	require.Len(t, steps, 9)

	assert.Equal(t, "glenelg", steps[0].Suburb)
	assert.Nil(t, steps[0].PctChange)
	require.NotNil(t, steps[1].PctChange)
	assert.InDelta(t, -100.0, *steps[1].PctChange, 1e-9)
	assert.Equal(t, "1000000", steps[2].Price.String())
	assert.Equal(t, testutil.Date("2024-01-15"), steps[8].Date)
}

func TestReadSteps_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		isBad bool
	}{
		{"empty", "", true},
		{"wrong header", "suburb,lower_date,upper_date,pct_change\n", true},
		{"bad price", "suburb,price,timestamp,pct_change\nunley,abc,2024-01-01,\n", false},
		{"bad date", "suburb,price,timestamp,pct_change\nunley,1,01/01/2024,\n", false},
		{"bad pct", "suburb,price,timestamp,pct_change\nunley,1,2024-01-01,x\n", false},
		{"short row", "suburb,price,timestamp,pct_change\nunley,1\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSteps(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Equal(t, tt.isBad, errors.Is(err, ErrBadHeader))
		})
	}
}

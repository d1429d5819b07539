package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/suburbprice/internal/change"
	"github.com/roach88/suburbprice/internal/price"
)

// Column headers for the two snapshot kinds.
var (
	StepsHeader  = []string{"suburb", "price", "timestamp", "pct_change"}
	RangesHeader = []string{"suburb", "lower_date", "upper_date", "pct_change"}
)

// ErrBadHeader is returned by ReadSteps when the header row does not match.
var ErrBadHeader = errors.New("unexpected snapshot header")

// FileName returns "<prefix>_<DDMONYYYY>.csv", e.g. realestatedata_24MAY2024.csv.
func FileName(prefix string, date time.Time) string {
	return fmt.Sprintf("%s_%s.csv", prefix, strings.ToUpper(date.Format("02Jan2006")))
}

// WriteSteps writes a consecutive-mode snapshot.
func WriteSteps(w io.Writer, steps []change.Step) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(StepsHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range steps {
		row := []string{
			s.Suburb,
			s.Price.String(),
			price.FormatDate(s.Date),
			formatFixed(s.PctChange),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", s.Suburb, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRanges writes a range-mode snapshot.
func WriteRanges(w io.Writer, records []change.RangeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RangesHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Suburb,
			formatDate(r.LowerDate),
			formatDate(r.UpperDate),
			formatShortest(r.PctChange),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", r.Suburb, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadSteps parses a consecutive-mode snapshot.
func ReadSteps(r io.Reader) ([]change.Step, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(StepsHeader)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read snapshot: %w: empty file", ErrBadHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}
	for i, name := range StepsHeader {
		if strings.TrimSpace(header[i]) != name {
			return nil, fmt.Errorf("read snapshot: %w: column %d is %q, want %q", ErrBadHeader, i, header[i], name)
		}
	}

	steps := []change.Step{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read snapshot line %d: %w", line, err)
		}

		step, err := parseStep(rec)
		if err != nil {
			return nil, fmt.Errorf("read snapshot line %d: %w", line, err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func parseStep(rec []string) (change.Step, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(rec[1]))
	if err != nil {
		return change.Step{}, fmt.Errorf("parse price %q: %w", rec[1], err)
	}
	date, err := price.ParseDate(rec[2])
	if err != nil {
		return change.Step{}, err
	}

	step := change.Step{
		Suburb: price.NormalizeSuburb(rec[0]),
		Date:   date,
		Price:  amount,
	}
	if raw := strings.TrimSpace(rec[3]); raw != "" {
		pct, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return change.Step{}, fmt.Errorf("parse pct_change %q: %w", raw, err)
		}
		step.PctChange = &pct
	}
	return step, nil
}

func formatFixed(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}

func formatShortest(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return price.FormatDate(*t)
}

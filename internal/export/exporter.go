package export

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/suburbprice/internal/change"
	"github.com/roach88/suburbprice/internal/clock"
)

// DefaultPrefix is the snapshot file name prefix.
const DefaultPrefix = "realestatedata"

// Exporter writes dated snapshots into a directory.
type Exporter struct {
	Dir    string
	Prefix string

	// Clock dates the snapshot file name.
	Clock clock.Clock
}

// Path returns the destination path for today's snapshot.
func (e *Exporter) Path() string {
	prefix := e.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return filepath.Join(e.Dir, FileName(prefix, clock.Today(e.Clock)))
}

// ExportSteps writes a consecutive-mode snapshot and returns its path.
func (e *Exporter) ExportSteps(steps []change.Step) (string, error) {
	return e.export(func(w io.Writer) error { return WriteSteps(w, steps) }, len(steps))
}

// ExportRanges writes a range-mode snapshot and returns its path.
func (e *Exporter) ExportRanges(records []change.RangeRecord) (string, error) {
	return e.export(func(w io.Writer) error { return WriteRanges(w, records) }, len(records))
}

func (e *Exporter) export(render func(io.Writer) error, rows int) (string, error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return "", fmt.Errorf("render snapshot: %w", err)
	}

	path := e.Path()
	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return "", fmt.Errorf("export %s: %w", path, err)
	}

	slog.Info("snapshot written", "path", path, "rows", rows)
	return path, nil
}

// writeAtomic writes data to a temp file in path's directory, syncs it and
// renames it over path. The temp file is removed on any failure.
func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/roach88/suburbprice/internal/price"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestObservation creates an observation from literal values.
func createTestObservation(suburb, date, amount, runID string) price.Observation {
	d, err := price.ParseDate(date)
	if err != nil {
		panic(err)
	}
	obs := price.NewObservation(suburb, d, decimal.RequireFromString(amount))
	obs.RunID = runID
	return obs
}

func getTableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("failed to get table info for %q: %v", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			t.Fatalf("failed to scan column info: %v", err)
		}
		columns = append(columns, name)
	}
	return columns
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

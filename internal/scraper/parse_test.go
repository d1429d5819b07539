package scraper

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"dollars with commas", "$1,234,567", "1234567", false},
		{"surrounding whitespace", "  $850,500 ", "850500", false},
		{"cents", "$512,345.50", "512345.5", false},
		{"bare number", "700000", "700000", false},
		{"empty", "", "", true},
		{"not available", "N/A", "", true},
		{"dollar only", "$", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestParsePage_Fixture(t *testing.T) {
	f, err := os.Open("testdata/page.html")
	require.NoError(t, err)
	defer f.Close()

	listings, err := ParsePage(context.Background(), f, DefaultTableIndex)
	require.NoError(t, err)

	// Header row and the N/A row are skipped.
	require.Len(t, listings, 3)
	assert.Equal(t, "Unley", listings[0].Suburb)
	assert.Equal(t, "1234567", listings[0].Price.String())
	assert.Equal(t, "Glen  Osmond", listings[1].Suburb)
	assert.Equal(t, "Mitcham", listings[2].Suburb)
	assert.Equal(t, "850500", listings[2].Price.String())
}

func TestParsePage_MissingTable(t *testing.T) {
	html := `<html><body><table><tbody><tr><td>only</td></tr></tbody></table></body></html>`

	_, err := ParsePage(context.Background(), strings.NewReader(html), DefaultTableIndex)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestParsePage_HeaderOnly(t *testing.T) {
	html := `<table><tbody><tr><td>Rank</td><td>Suburb</td><td>Price</td></tr></tbody></table>`

	listings, err := ParsePage(context.Background(), strings.NewReader(html), 0)
	require.NoError(t, err)
	assert.NotNil(t, listings)
	assert.Empty(t, listings)
}

func TestParsePage_SuburbWithoutLink(t *testing.T) {
	html := `<table><tbody>
<tr><td>Rank</td><td>Suburb</td><td>Price</td></tr>
<tr><td>1</td><td> Norwood </td><td>$1,000</td></tr>
</tbody></table>`

	listings, err := ParsePage(context.Background(), strings.NewReader(html), 0)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Norwood", listings[0].Suburb)
}

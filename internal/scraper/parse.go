package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/roach88/suburbprice/internal/price"
)

// ErrTableNotFound is returned when a page has fewer tbody elements than
// the configured table index.
var ErrTableNotFound = errors.New("listing table not found")

var priceReplacer = strings.NewReplacer("$", "", ",", "", " ", "", "\u00a0", "")

// ParsePrice parses a display price such as "$1,234,567".
func ParsePrice(s string) (decimal.Decimal, error) {
	cleaned := priceReplacer.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("parse price %q: empty", s)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse price %q: %w", s, err)
	}
	return d, nil
}

// ParsePage extracts listings from one ranking page.
//
// The listing table is the tableIndex-th tbody in the document. Its first
// row is a header. Column 1 holds the suburb (as link text) and column 2
// the median price. Rows without a parsable price are skipped.
func ParsePage(ctx context.Context, r io.Reader, tableIndex int) ([]price.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	tbody := doc.Find("tbody").Eq(tableIndex)
	if tbody.Length() == 0 {
		return nil, fmt.Errorf("parse page: tbody %d: %w", tableIndex, ErrTableNotFound)
	}

	listings := []price.Listing{}
	tbody.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}

		cells := row.Find("td")
		if cells.Length() < 3 {
			slog.DebugContext(ctx, "skipping short row", "row", i, "cells", cells.Length())
			return
		}

		suburb := strings.TrimSpace(cells.Eq(1).Find("a").First().Text())
		if suburb == "" {
			suburb = strings.TrimSpace(cells.Eq(1).Text())
		}

		rawPrice := cells.Eq(2).Text()
		amount, err := ParsePrice(rawPrice)
		if err != nil {
			slog.WarnContext(ctx, "skipping row with unparsable price",
				"row", i, "suburb", suburb, "price", strings.TrimSpace(rawPrice))
			return
		}

		listings = append(listings, price.Listing{Suburb: suburb, Price: amount})
	})

	return listings, nil
}

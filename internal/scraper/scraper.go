// Package scraper fetches suburb median prices from the ranking site.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/roach88/suburbprice/internal/price"
)

// Defaults for the South Australian median home price ranking.
const (
	DefaultBaseURL    = "http://house.speakingsame.com/suburbtop.php?sta=sa&cat=HomePrice&name=&page="
	DefaultPages      = 15
	DefaultTableIndex = 7
	DefaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	DefaultTimeout    = 30 * time.Second
)

// Options configures a Client.
type Options struct {
	BaseURL string
	Pages   int

	// TableIndex is the zero-based tbody holding the listings.
	// Negative selects DefaultTableIndex.
	TableIndex int

	UserAgent  string
	Timeout    time.Duration
}

func (o *Options) applyDefaults() {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.Pages <= 0 {
		o.Pages = DefaultPages
	}
	if o.TableIndex < 0 {
		o.TableIndex = DefaultTableIndex
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
}

// Client scrapes listing pages over HTTP.
type Client struct {
	http *resty.Client
	opts Options
}

// NewClient creates a scraper client.
func NewClient(opts Options) *Client {
	opts.applyDefaults()

	client := resty.New()
	client.SetHeader("user-agent", opts.UserAgent)
	client.SetTimeout(opts.Timeout)

	return &Client{http: client, opts: opts}
}

// Fetch retrieves every configured page in order and returns the combined
// listings. Any page failure aborts the fetch.
func (c *Client) Fetch(ctx context.Context) ([]price.Listing, error) {
	var all []price.Listing
	for page := 0; page < c.opts.Pages; page++ {
		listings, err := c.FetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		slog.DebugContext(ctx, "fetched page", "page", page, "listings", len(listings))
		all = append(all, listings...)
	}
	slog.InfoContext(ctx, "fetch complete", "pages", c.opts.Pages, "listings", len(all))
	return all, nil
}

// FetchPage retrieves and parses a single page.
func (c *Client) FetchPage(ctx context.Context, page int) ([]price.Listing, error) {
	url := c.opts.BaseURL + strconv.Itoa(page)

	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("fetch page %d: unexpected status %s", page, res.Status())
	}

	listings, err := ParsePage(ctx, bytes.NewReader(res.Body()), c.opts.TableIndex)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	return listings, nil
}

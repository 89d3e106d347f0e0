package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"forex_bot/internal/models"

	"github.com/pkg/errors"
)

// Provider returns a raw candle payload for pair/interval. The payload shape
// is not fixed; Normalize deals with it.
type Provider interface {
	FetchCandles(ctx context.Context, pair, interval string, limit int) ([]byte, error)
}

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to an FCS-style REST endpoint: GET {base}/market/candles.
type Client struct {
	base   string
	apiKey string
	http   *http.Client
}

var _ Provider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:   strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey: cfg.APIKey,
		http:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) FetchCandles(ctx context.Context, pair, interval string, limit int) ([]byte, error) {
	if limit <= 0 {
		limit = 200
	}
	q := url.Values{}
	q.Set("symbol", pair)
	q.Set("resolution", interval)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("api_key", c.apiKey)

	u := c.base + "/market/candles?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build candles request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch candles %s %s", pair, interval)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read candles %s %s", pair, interval)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("candles %s %s: http %d: %s", pair, interval, resp.StatusCode, truncate(string(b), 256))
	}
	return b, nil
}

// Source pairs a Provider with the normalizer.
type Source struct {
	p Provider
}

func NewSource(p Provider) *Source {
	return &Source{p: p}
}

// Candles fetches and normalizes. Transport errors are returned; shape
// problems only shrink the series.
func (s *Source) Candles(ctx context.Context, pair, interval string, limit int) (models.Candles, error) {
	payload, err := s.p.FetchCandles(ctx, pair, interval, limit)
	if err != nil {
		return nil, err
	}
	return Normalize(payload), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"costs/internal/core"
)

// DefaultURL is the rates route of the companion stub server.
const DefaultURL = "http://localhost:3000/rates"

const maxBodyBytes = 1 << 20

// ErrInvalidFormat is returned for payloads that match neither the direct
// nor the {"rates": {...}} shape.
var ErrInvalidFormat = errors.New("invalid exchange rate format")

// NetworkError reports a failed or unusable rate fetch.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch exchange rates from %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Client reads rate tables over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
}

var _ Source = (*Client)(nil)

func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// URL returns the endpoint the client reads from.
func (c *Client) URL() string { return c.url }

// Fetch performs GET <url> and normalizes the payload.
func (c *Client) Fetch(ctx context.Context) (RateTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return RateTable{}, &NetworkError{URL: c.url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return RateTable{}, &NetworkError{URL: c.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return RateTable{}, &NetworkError{URL: c.url, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return RateTable{}, &NetworkError{URL: c.url, Err: fmt.Errorf("read body: %w", err)}
	}

	rates, err := parseRates(body)
	if err != nil {
		return RateTable{}, &NetworkError{URL: c.url, Err: err}
	}

	slog.DebugContext(ctx, "Fetched exchange rates", "url", c.url, "currencies", len(rates))
	return RateTable{Rates: rates, Source: c.url, FetchedAt: time.Now()}, nil
}

type ratesPayload struct {
	USD   *float64           `json:"USD"`
	GBP   *float64           `json:"GBP"`
	EURO  *float64           `json:"EURO"`
	ILS   *float64           `json:"ILS"`
	Rates map[string]float64 `json:"rates"`
}

// parseRates accepts {"USD":1,"GBP":0.6,"EURO":0.7,"ILS":3.4} as is, and
// maps the exchangerate-api style {"rates":{"EUR":...}} onto the supported
// codes with USD pinned to 1.
func parseRates(body []byte) (map[core.Currency]float64, error) {
	var p ratesPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	if p.USD != nil && p.GBP != nil && p.EURO != nil && p.ILS != nil {
		return map[core.Currency]float64{
			core.USD:  *p.USD,
			core.GBP:  *p.GBP,
			core.EURO: *p.EURO,
			core.ILS:  *p.ILS,
		}, nil
	}

	if p.Rates != nil {
		return map[core.Currency]float64{
			core.USD:  1,
			core.ILS:  orDefault(p.Rates["ILS"], defaultILS),
			core.GBP:  orDefault(p.Rates["GBP"], defaultGBP),
			core.EURO: orDefault(p.Rates["EUR"], defaultEURO),
		}, nil
	}

	return nil, ErrInvalidFormat
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

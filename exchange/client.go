// Package exchange provides a minimal client for currency exchange-rate
// provider APIs.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// KeyedBaseURL is the provider endpoint used when an API key is configured.
	KeyedBaseURL = "https://api.exchangerate.host/latest"

	// OpenBaseURL is the free provider endpoint used without an API key.
	OpenBaseURL = "https://open.er-api.com/v6/latest"
)

// BaseURLFor returns the provider endpoint appropriate for the given API key.
func BaseURLFor(apiKey string) string {
	if strings.TrimSpace(apiKey) != "" {
		return KeyedBaseURL
	}
	return OpenBaseURL
}

// Client is a minimal HTTP client for exchange-rate lookups.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// New returns a new client. If httpClient is nil, a default with a 10s
// timeout is used.
func New(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), APIKey: apiKey, HTTP: httpClient}
}

// Rates is the normalized provider payload: the base currency, the quote
// date, and a mapping of currency code to rate.
type Rates struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// ratesEnvelope tolerates the field-name variations across providers.
// exchangerate.host uses base/date; open.er-api.com uses base_code and has
// no date field at all.
type ratesEnvelope struct {
	Base     string             `json:"base"`
	BaseCode string             `json:"base_code"`
	Date     string             `json:"date"`
	Rates    map[string]float64 `json:"rates"`
	Error    interface{}        `json:"error"`
}

// Latest fetches current rates for the base currency, optionally restricted
// to the given symbols. A single attempt is made; any transport, status, or
// decode failure is returned to the caller.
func (c *Client) Latest(ctx context.Context, base string, symbols []string) (Rates, error) {
	reqURL, err := c.buildURL(base, symbols)
	if err != nil {
		return Rates{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Rates{}, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Rates{}, fmt.Errorf("fetching exchange rates: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Rates{}, fmt.Errorf("exchange api status %d", resp.StatusCode)
	}

	var body ratesEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Rates{}, fmt.Errorf("decoding exchange rates: %w", err)
	}
	return normalize(body, base)
}

func (c *Client) buildURL(base string, symbols []string) (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("base", base)
	if c.APIKey != "" {
		q.Set("access_key", c.APIKey)
	}
	if len(symbols) > 0 {
		q.Set("symbols", strings.Join(symbols, ","))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// normalize maps provider variations onto Rates. A payload without a rates
// mapping is an error when the provider reported one, and an empty result
// dated today otherwise.
func normalize(body ratesEnvelope, requestedBase string) (Rates, error) {
	if body.Rates == nil {
		if body.Error != nil {
			return Rates{}, fmt.Errorf("exchange api error: %v", body.Error)
		}
		return Rates{
			Base:  requestedBase,
			Date:  time.Now().UTC().Format("2006-01-02"),
			Rates: map[string]float64{},
		}, nil
	}
	return Rates{
		Base:  firstNonEmpty(body.Base, body.BaseCode, requestedBase),
		Date:  firstNonEmpty(body.Date, time.Now().UTC().Format("2006-01-02")),
		Rates: body.Rates,
	}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

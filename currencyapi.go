package avoir

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
)

// client for the fawazahmed0 currency-api, a free CDN-hosted dataset of
// daily fiat exchange rates. See https://github.com/fawazahmed0/exchange-api

const (
	currencyapiURL       = "https://cdn.jsdelivr.net/npm/@fawazahmed0/currency-api@latest/v1/currencies/%s.json"
	currencyapiMirrorURL = "https://latest.currency-api.pages.dev/v1/currencies/%s.json"
)

// currencyapiMemoTTL bounds how often the CDN is asked again. The dataset
// only changes daily, so a complete matrix is reused for a while even when
// the caller's own cache has expired.
const currencyapiMemoTTL = 2 * time.Hour

// CurrencyAPI fetches the fiat rate matrix, one request per base currency.
type CurrencyAPI struct {
	client *http.Client
	bases  []string

	mu        sync.Mutex
	memo      RawRates
	fetchedAt time.Time
}

// NewCurrencyAPI returns a provider quoting the given base currencies.
func NewCurrencyAPI(bases []string) *CurrencyAPI {
	return &CurrencyAPI{client: http.DefaultClient, bases: bases}
}

// Matrix implements BaseRateProvider. Quote symbols are uppercased; values
// are returned raw and validated downstream.
func (c *CurrencyAPI) Matrix(ctx context.Context) (RawRates, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.memo != nil && time.Since(c.fetchedAt) < currencyapiMemoTTL {
		return c.memo, nil
	}

	raw := make(RawRates, len(c.bases))
	var errs error
	for _, base := range c.bases {
		row, err := c.row(ctx, base)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("fetching %s rates: %w", base, err))
			continue
		}
		raw[base] = row
	}
	if len(raw) == 0 {
		return nil, errs
	}
	// A partial matrix is still useful, missing bases keep their cached rows.
	if errs != nil {
		log.Printf("partial base rate refresh: %v", errs)
	}
	// Only a complete matrix is worth memoizing.
	if errs == nil && len(raw) == len(c.bases) {
		c.memo = raw
		c.fetchedAt = time.Now()
	}
	return raw, nil
}

func (c *CurrencyAPI) row(ctx context.Context, base string) (map[string]any, error) {
	lower := strings.ToLower(base)

	// The response nests the quotes under the lowercased base code:
	// {"date": "2026-08-28", "eur": {"usd": 1.08, ...}}
	var payload map[string]any
	err := jwget(ctx, c.client, fmt.Sprintf(currencyapiURL, lower), &payload)
	if err != nil {
		// The dataset is mirrored off jsdelivr for when the CDN acts up.
		err = jwget(ctx, c.client, fmt.Sprintf(currencyapiMirrorURL, lower), &payload)
	}
	if err != nil {
		return nil, err
	}

	quotes, ok := payload[lower].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected response shape for base %q", base)
	}
	row := make(map[string]any, len(quotes))
	for code, value := range quotes {
		row[strings.ToUpper(code)] = value
	}
	return row, nil
}

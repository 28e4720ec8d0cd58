package avoir

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// client for the CryptoCompare min-api, used when CoinGecko is down or rate
// limited. Symbol lookups only, it has no contract address endpoint.

const cryptocompareURL = "https://min-api.cryptocompare.com/data/pricemulti?fsyms=%s&tsyms=%s"

type CryptoCompare struct {
	client *http.Client
}

func NewCryptoCompare() *CryptoCompare {
	return &CryptoCompare{client: http.DefaultClient}
}

func (c *CryptoCompare) Price(ctx context.Context, symbol, fiat string) (Rate, error) {
	prices, err := c.PricesBySymbols(ctx, []string{symbol}, []string{fiat})
	if err != nil {
		return Rate{}, err
	}
	rate, ok := prices[strings.ToUpper(symbol)][strings.ToUpper(fiat)]
	if !ok {
		return Rate{}, fmt.Errorf("no %s price for %s", fiat, symbol)
	}
	return rate, nil
}

/*
	pricemulti response:
	{
	    "BTC": {"EUR": 60321.5, "USD": 65210.1},
	    "ETH": {"EUR": 3012.7, "USD": 3258.4}
	}
*/
func (c *CryptoCompare) PricesBySymbols(ctx context.Context, symbols, fiats []string) (map[string]map[string]Rate, error) {
	if len(symbols) == 0 {
		return map[string]map[string]Rate{}, nil
	}
	upper := make([]string, 0, len(symbols))
	for _, s := range symbols {
		upper = append(upper, strings.ToUpper(s))
	}
	tsyms := make([]string, 0, len(fiats))
	for _, f := range fiats {
		tsyms = append(tsyms, strings.ToUpper(f))
	}
	addr := fmt.Sprintf(cryptocompareURL,
		url.QueryEscape(strings.Join(upper, ",")), url.QueryEscape(strings.Join(tsyms, ",")))

	var payload map[string]map[string]any
	if err := jwget(ctx, c.client, addr, &payload); err != nil {
		return nil, fmt.Errorf("cryptocompare pricemulti: %w", err)
	}

	out := make(map[string]map[string]Rate, len(payload))
	for symbol, quotes := range payload {
		out[strings.ToUpper(symbol)] = parseQuotes(quotes)
	}
	return out, nil
}

// PricesByAddresses is unsupported; CryptoCompare indexes by symbol only.
func (c *CryptoCompare) PricesByAddresses(ctx context.Context, addresses, fiats []string) (map[string]map[string]Rate, error) {
	return nil, fmt.Errorf("cryptocompare does not price by contract address")
}

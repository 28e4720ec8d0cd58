package avoir

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// client for the CoinGecko public API. Symbol lookups go through the
// coin id registry; token lookups go straight by contract address.
// See https://docs.coingecko.com/reference/introduction

const (
	coingeckoPriceURL = "https://api.coingecko.com/api/v3/simple/price?ids=%s&vs_currencies=%s"
	coingeckoTokenURL = "https://api.coingecko.com/api/v3/simple/token_price/%s?contract_addresses=%s&vs_currencies=%s"
	coingeckoListURL  = "https://api.coingecko.com/api/v3/coins/list"
)

// defaultAssetPlatform identifies the chain contract addresses are resolved
// on. Ethereum hosts the ERC-20 tokens the tracker cares about.
const defaultAssetPlatform = "ethereum"

// coingeckoIDs maps the major ticker symbols to their CoinGecko coin ids.
// The full registry has thousands of coins reusing these symbols, so the
// majors are pinned rather than resolved through the list endpoint.
var coingeckoIDs = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"LTC":  "litecoin",
	"TRX":  "tron",
	"BNB":  "binancecoin",
	"USDT": "tether",
	"USDC": "usd-coin",
}

// CoinGecko implements CryptoPriceProvider against the CoinGecko API.
type CoinGecko struct {
	client *http.Client
	// cached serves the coin id registry, which only changes when coins are
	// listed, so a day-expiring cache is plenty.
	cached   *http.Client
	platform string

	mu  sync.Mutex
	ids map[string]string // symbol -> id, lazily extended from the registry
}

func NewCoinGecko() *CoinGecko {
	ids := make(map[string]string, len(coingeckoIDs))
	for s, id := range coingeckoIDs {
		ids[s] = id
	}
	return &CoinGecko{
		client:   http.DefaultClient,
		cached:   daily(),
		platform: defaultAssetPlatform,
		ids:      ids,
	}
}

func (g *CoinGecko) Price(ctx context.Context, symbol, fiat string) (Rate, error) {
	prices, err := g.PricesBySymbols(ctx, []string{symbol}, []string{fiat})
	if err != nil {
		return Rate{}, err
	}
	rate, ok := prices[strings.ToUpper(symbol)][strings.ToUpper(fiat)]
	if !ok {
		return Rate{}, fmt.Errorf("no %s price for %s", fiat, symbol)
	}
	return rate, nil
}

// PricesBySymbols returns prices keyed by uppercase symbol then uppercase
// fiat. Symbols with no known coin id are skipped with a log line.
func (g *CoinGecko) PricesBySymbols(ctx context.Context, symbols, fiats []string) (map[string]map[string]Rate, error) {
	byID := make(map[string]string, len(symbols)) // id -> symbol
	for _, s := range symbols {
		s = strings.ToUpper(s)
		id, err := g.coinID(ctx, s)
		if err != nil {
			log.Printf("no coingecko id for %q, skipping: %v", s, err)
			continue
		}
		byID[id] = s
	}
	if len(byID) == 0 {
		return map[string]map[string]Rate{}, nil
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	addr := fmt.Sprintf(coingeckoPriceURL, url.QueryEscape(strings.Join(ids, ",")), vsCurrencies(fiats))

	var payload map[string]map[string]any
	if err := jwget(ctx, g.client, addr, &payload); err != nil {
		return nil, fmt.Errorf("coingecko price query: %w", err)
	}

	out := make(map[string]map[string]Rate, len(payload))
	for id, quotes := range payload {
		symbol, ok := byID[id]
		if !ok {
			continue
		}
		out[symbol] = parseQuotes(quotes)
	}
	return out, nil
}

// PricesByAddresses returns token prices keyed by lowercase contract address
// then uppercase fiat.
func (g *CoinGecko) PricesByAddresses(ctx context.Context, addresses, fiats []string) (map[string]map[string]Rate, error) {
	if len(addresses) == 0 {
		return map[string]map[string]Rate{}, nil
	}
	lower := make([]string, 0, len(addresses))
	for _, a := range addresses {
		lower = append(lower, strings.ToLower(a))
	}
	addr := fmt.Sprintf(coingeckoTokenURL, g.platform, url.QueryEscape(strings.Join(lower, ",")), vsCurrencies(fiats))

	var payload map[string]map[string]any
	if err := jwget(ctx, g.client, addr, &payload); err != nil {
		return nil, fmt.Errorf("coingecko token query: %w", err)
	}

	out := make(map[string]map[string]Rate, len(payload))
	for address, quotes := range payload {
		out[strings.ToLower(address)] = parseQuotes(quotes)
	}
	return out, nil
}

// coinID resolves a ticker symbol to a CoinGecko coin id, consulting the
// registry once per unknown symbol.
func (g *CoinGecko) coinID(ctx context.Context, symbol string) (string, error) {
	g.mu.Lock()
	id, ok := g.ids[symbol]
	g.mu.Unlock()
	if ok {
		return id, nil
	}

	var coins []struct {
		ID     string `json:"id"`
		Symbol string `json:"symbol"`
	}
	if err := jwget(ctx, g.cached, coingeckoListURL, &coins); err != nil {
		return "", fmt.Errorf("coingecko coin list: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for _, c := range coins {
		s := strings.ToUpper(c.Symbol)
		// first listing wins, the majors are pinned above anyway
		if _, exists := g.ids[s]; !exists {
			g.ids[s] = c.ID
		}
	}
	id, ok = g.ids[symbol]
	if !ok {
		return "", fmt.Errorf("symbol %q not listed", symbol)
	}
	return id, nil
}

// parseQuotes normalizes one coin's quote map, dropping invalid values.
func parseQuotes(quotes map[string]any) map[string]Rate {
	out := make(map[string]Rate, len(quotes))
	for fiat, value := range quotes {
		rate, err := ParseRate(value)
		if err != nil || rate.IsZero() {
			continue
		}
		out[strings.ToUpper(fiat)] = rate
	}
	return out
}

func vsCurrencies(fiats []string) string {
	lower := make([]string, 0, len(fiats))
	for _, f := range fiats {
		lower = append(lower, strings.ToLower(f))
	}
	return strings.Join(lower, ",")
}

package avoir

import (
	"context"
	"log"
)

// CryptoDesk chains two crypto price providers: CoinGecko first, then
// CryptoCompare for whatever symbols the first leg missed. Contract address
// lookups have no fallback, only CoinGecko serves them.
type CryptoDesk struct {
	primary  CryptoPriceProvider
	fallback CryptoPriceProvider
}

// NewCryptoDesk wires the default CoinGecko/CryptoCompare pair.
func NewCryptoDesk() *CryptoDesk {
	return &CryptoDesk{primary: NewCoinGecko(), fallback: NewCryptoCompare()}
}

func (d *CryptoDesk) Price(ctx context.Context, symbol, fiat string) (Rate, error) {
	rate, err := d.primary.Price(ctx, symbol, fiat)
	if err == nil {
		return rate, nil
	}
	log.Printf("primary crypto price for %s/%s failed, trying fallback: %v", symbol, fiat, err)
	return d.fallback.Price(ctx, symbol, fiat)
}

func (d *CryptoDesk) PricesBySymbols(ctx context.Context, symbols, fiats []string) (map[string]map[string]Rate, error) {
	prices, err := d.primary.PricesBySymbols(ctx, symbols, fiats)
	if err != nil {
		log.Printf("primary crypto batch failed, trying fallback: %v", err)
		return d.fallback.PricesBySymbols(ctx, symbols, fiats)
	}

	// The primary can answer partially (unlisted symbol, rate limit on a
	// page). Re-ask the fallback only for what is still missing.
	var missing []string
	for _, s := range symbols {
		if len(prices[QuoteKey(s)]) == 0 {
			missing = append(missing, s)
		}
	}
	if len(missing) == 0 {
		return prices, nil
	}
	rescued, err := d.fallback.PricesBySymbols(ctx, missing, fiats)
	if err != nil {
		log.Printf("crypto fallback for %d missing symbols failed: %v", len(missing), err)
		return prices, nil
	}
	for symbol, quotes := range rescued {
		if len(quotes) > 0 {
			prices[symbol] = quotes
		}
	}
	return prices, nil
}

func (d *CryptoDesk) PricesByAddresses(ctx context.Context, addresses, fiats []string) (map[string]map[string]Rate, error) {
	return d.primary.PricesByAddresses(ctx, addresses, fiats)
}

package avoir

import (
	"context"
	"time"
)

// This file declares the collaborator ports of the rate aggregation engine.
// Every call takes a context carrying the cycle deadline: a provider that
// honors cancellation stops working as soon as the engine stops waiting.

// RawRates is a fiat matrix as returned by a base rate provider, before
// normalization: values are whatever the provider's JSON decoded to and may
// be malformed. The merger drops anything ParseRate rejects.
type RawRates map[string]map[string]any

// BaseRateProvider returns the full fiat exchange rate matrix.
type BaseRateProvider interface {
	Matrix(ctx context.Context) (RawRates, error)
}

// CommodityPriceProvider returns the spot price of one unit of a commodity.
type CommodityPriceProvider interface {
	Price(ctx context.Context, c Commodity) (CommodityPrice, error)
}

// CryptoPriceProvider prices crypto assets, individually by ticker symbol or
// batched by symbols and contract addresses.
type CryptoPriceProvider interface {
	Price(ctx context.Context, symbol, fiat string) (Rate, error)
	PricesBySymbols(ctx context.Context, symbols, fiats []string) (map[string]map[string]Rate, error)
	PricesByAddresses(ctx context.Context, addresses, fiats []string) (map[string]map[string]Rate, error)
}

// RateStorage persists the rate matrix between runs. It is a non-authoritative
// cache: read and write failures degrade freshness, never correctness.
type RateStorage interface {
	Get(ctx context.Context) (RateMatrix, error)
	// LastSaved returns the time of the last durable save, or the zero time
	// when the matrix was never saved.
	LastSaved(ctx context.Context) (time.Time, error)
	Save(ctx context.Context, m RateMatrix) error
}

// PositionReader yields the crypto assets currently held, so the engine
// knows which crypto prices matter beyond the baseline set.
type PositionReader interface {
	HeldCryptoAssets(ctx context.Context) ([]CryptoAssetKey, error)
}

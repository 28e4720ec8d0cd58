package avoir

import "strings"

// SupportedCurrencies are the base currencies the rate matrix is built for.
var SupportedCurrencies = []string{"EUR", "USD"}

// BaselineCryptoSymbols are fetched for every supported currency on the
// very first refresh after application start, so the most common crypto
// assets are priced even before any position is recorded.
var BaselineCryptoSymbols = []string{"BTC", "ETH", "LTC", "TRX", "BNB", "USDT", "USDC"}

// RateMatrix maps a base currency (ISO fiat code) to the quantity of each
// quote symbol obtained for exactly 1 unit of that base. Quote symbols are
// ISO fiat codes, commodity tickers (e.g. "XAU"), uppercase crypto tickers
// (e.g. "BTC"), or contract-address keys produced by AddressKey.
type RateMatrix map[string]map[string]Rate

// NewRateMatrix returns an empty matrix with one row per supported currency.
func NewRateMatrix() RateMatrix {
	m := make(RateMatrix, len(SupportedCurrencies))
	for _, c := range SupportedCurrencies {
		m[c] = make(map[string]Rate)
	}
	return m
}

// Get returns the rate from base to quote, and whether it is known.
func (m RateMatrix) Get(base, quote string) (Rate, bool) {
	quotes, ok := m[base]
	if !ok {
		return Rate{}, false
	}
	r, ok := quotes[quote]
	return r, ok
}

// Set writes a single entry, creating the base row if needed.
func (m RateMatrix) Set(base, quote string, r Rate) {
	quotes, ok := m[base]
	if !ok {
		quotes = make(map[string]Rate)
		m[base] = quotes
	}
	quotes[quote] = r
}

// IsEmpty reports whether the matrix holds no entry at all.
func (m RateMatrix) IsEmpty() bool {
	for _, quotes := range m {
		if len(quotes) > 0 {
			return false
		}
	}
	return true
}

// Snapshot returns a deep copy of the matrix. The engine mutates its live
// matrix in place across refresh cycles, so callers always receive a copy.
func (m RateMatrix) Snapshot() RateMatrix {
	out := make(RateMatrix, len(m))
	for base, quotes := range m {
		row := make(map[string]Rate, len(quotes))
		for quote, r := range quotes {
			row[quote] = r
		}
		out[base] = row
	}
	return out
}

// AddressKey returns the matrix quote key for a contract address.
func AddressKey(contractAddress string) string {
	return "addr:" + strings.ToLower(contractAddress)
}

// QuoteKey normalizes a quote symbol the way the matrix stores it:
// address keys are lower-cased, everything else upper-cased.
func QuoteKey(symbol string) string {
	if strings.HasPrefix(strings.ToLower(symbol), "addr:") {
		return strings.ToLower(symbol)
	}
	return strings.ToUpper(symbol)
}

// Commodity identifies a commodity whose spot price is tracked.
type Commodity string

const (
	Gold      Commodity = "GOLD"
	Silver    Commodity = "SILVER"
	Platinum  Commodity = "PLATINUM"
	Palladium Commodity = "PALLADIUM"
)

// CommoditySymbols maps every tracked commodity to its matrix ticker.
var CommoditySymbols = map[Commodity]string{
	Gold:      "XAU",
	Silver:    "XAG",
	Platinum:  "XPT",
	Palladium: "XPD",
}

// Ticker returns the quote symbol for the commodity ("XAU" for gold).
func (c Commodity) Ticker() string { return CommoditySymbols[c] }

// WeightUnit is the unit a commodity spot price is quoted in.
type WeightUnit string

const (
	TroyOunce WeightUnit = "TROY_OUNCE"
	Gram      WeightUnit = "GRAM"
)

// CommodityPrice is the spot price of one unit of a commodity,
// denominated in Currency.
type CommodityPrice struct {
	Price    Rate
	Currency string
	Unit     WeightUnit
}

// CryptoPrices is the result of a batched crypto price lookup:
// symbol (or contract address) to fiat currency to price of 1 unit of the
// asset in that fiat currency.
type CryptoPrices struct {
	BySymbol  map[string]map[string]Rate
	ByAddress map[string]map[string]Rate
}

// CryptoAssetKey identifies a held crypto asset: by ticker symbol, and by
// contract address when the asset is a token.
type CryptoAssetKey struct {
	Symbol          string
	ContractAddress string // empty for native coins
}

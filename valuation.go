package avoir

import (
	"github.com/shopspring/decimal"
)

// gramsPerTroyOunce converts commodity weights recorded in grams to the
// troy ounces the spot tickers are quoted in.
var gramsPerTroyOunce = decimal.RequireFromString("31.1034768")

// Position is one holding valued in the report's target currency.
type Position struct {
	Holding Holding
	Value   Money
	// Priced is false when no rate was available to value the holding this
	// time; the holding is reported but excluded from the total.
	Priced bool
}

// Valuation is the result of valuing a set of holdings through a rate
// matrix, in a single target currency.
type Valuation struct {
	Currency  string
	Positions []Position
	Total     Money
}

// Value converts every holding into the target currency through the rate
// matrix. A holding whose rate is unknown is kept in the report unpriced
// rather than failing the whole valuation.
func Value(hs *Holdings, matrix RateMatrix, currency string) Valuation {
	v := Valuation{Currency: currency, Total: M(0, currency)}

	for _, h := range hs.Entries() {
		pos := Position{Holding: h}
		if amount, ok := value(h, matrix, currency); ok {
			pos.Value = amount
			pos.Priced = true
			v.Total = v.Total.Add(amount)
		}
		v.Positions = append(v.Positions, pos)
	}
	return v
}

// value converts one holding. The matrix convention is quote-per-base:
// matrix[currency][quote] is the quantity of quote obtained for 1 unit of
// the target currency, so an amount denominated in quote divides by it.
func value(h Holding, matrix RateMatrix, currency string) (Money, bool) {
	quote := quoteKeyFor(h)
	if quote == "" {
		return Money{}, false
	}

	amount := h.Amount
	if h.Product == ProductCommodity && h.Unit == Gram {
		amount = Quantity{value: amount.value.Div(gramsPerTroyOunce)}
	}
	if h.Product == ProductLoan {
		amount = amount.Neg()
	}

	if quote == currency {
		return M(amount.value, currency), true
	}

	rate, ok := matrix.Get(currency, quote)
	if !ok || rate.IsZero() {
		// Rate currently unknown: skip the valuation, not the holding.
		return Money{}, false
	}
	return M(amount.DivRate(rate).value, currency), true
}

// quoteKeyFor returns the matrix quote symbol the holding is denominated in.
func quoteKeyFor(h Holding) string {
	switch h.Product {
	case ProductAccount, ProductFund, ProductLoan, ProductRealEstate:
		return h.Currency
	case ProductCrypto:
		if h.ContractAddress != "" {
			return AddressKey(h.ContractAddress)
		}
		return QuoteKey(h.Symbol)
	case ProductCommodity:
		return h.Commodity.Ticker()
	}
	return ""
}

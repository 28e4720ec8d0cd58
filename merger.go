package avoir

import "log"

// cycleMerger folds the task results of one refresh cycle into the live
// rate matrix. Results are consumed in completion order as the scheduler
// streams them; apply folds everything collected so far into the matrix,
// base fiat legs first so commodity and crypto inversion can use the
// freshest fiat rates.
type cycleMerger struct {
	matrix RateMatrix

	base        map[string]map[string]Rate // normalized refreshed fiat matrix
	commodities map[Commodity]CommodityPrice
	crypto      map[string]map[string]Rate // fiat -> quote key -> price

	baseRefreshed  bool
	gotCryptoBatch bool
}

func newCycleMerger(matrix RateMatrix) *cycleMerger {
	return &cycleMerger{
		matrix:      matrix,
		commodities: make(map[Commodity]CommodityPrice),
		crypto:      make(map[string]map[string]Rate),
	}
}

// consume routes one task result. A failed task is logged and contributes
// nothing: the previous matrix entries stay untouched.
func (g *cycleMerger) consume(r taskResult) {
	if !r.ok() {
		switch r.kind {
		case taskBase:
			log.Printf("failed base fiat matrix fetch: %v", r.err)
		case taskCommodity:
			log.Printf("failed %s price fetch: %v", r.meta.commodity, r.err)
		case taskCrypto:
			log.Printf("failed %s price fetch in %s: %v", r.meta.symbol, r.meta.base, r.err)
		case taskCryptoBatch:
			log.Printf("failed batched crypto price fetch (%d assets): %v", r.meta.assets, r.err)
		}
		return
	}

	switch r.kind {
	case taskBase:
		raw, ok := r.value.(RawRates)
		if !ok || raw == nil {
			return
		}
		g.base = normalizeRates(raw)
		g.baseRefreshed = true

	case taskCommodity:
		price, ok := r.value.(CommodityPrice)
		if !ok {
			return
		}
		g.commodities[r.meta.commodity] = price

	case taskCrypto:
		price, ok := r.value.(Rate)
		if !ok {
			return
		}
		g.stageCrypto(r.meta.base, r.meta.symbol, price)

	case taskCryptoBatch:
		prices, ok := r.value.(CryptoPrices)
		if !ok {
			return
		}
		for symbol, byFiat := range prices.BySymbol {
			for fiat, price := range byFiat {
				g.stageCrypto(fiat, symbol, price)
			}
		}
		for addr, byFiat := range prices.ByAddress {
			for fiat, price := range byFiat {
				g.stageCrypto(fiat, AddressKey(addr), price)
			}
		}
		g.gotCryptoBatch = true
	}
}

func (g *cycleMerger) stageCrypto(fiat, key string, price Rate) {
	byKey, ok := g.crypto[fiat]
	if !ok {
		byKey = make(map[string]Rate)
		g.crypto[fiat] = byKey
	}
	byKey[QuoteKey(key)] = price
}

// normalizeRates converts every raw value to an exact Rate, dropping
// entries that are non-numeric or non-finite so they never reach the matrix.
func normalizeRates(raw RawRates) map[string]map[string]Rate {
	out := make(map[string]map[string]Rate, len(raw))
	for base, quotes := range raw {
		row := make(map[string]Rate, len(quotes))
		for quote, value := range quotes {
			rate, err := ParseRate(value)
			if err != nil {
				log.Printf("dropping invalid rate %s->%s: %v", base, quote, err)
				continue
			}
			row[QuoteKey(quote)] = rate
		}
		out[QuoteKey(base)] = row
	}
	return out
}

// apply merges everything consumed so far into the live matrix and reports
// whether the base fiat matrix was refreshed this cycle.
func (g *cycleMerger) apply() (baseRefreshed bool) {
	for base, quotes := range g.base {
		for quote, rate := range quotes {
			g.matrix.Set(base, quote, rate)
		}
	}

	for _, base := range SupportedCurrencies {
		g.applyCommodities(base)
		g.applyCrypto(base)
	}
	return g.baseRefreshed
}

// applyCommodities derives matrix[base][ticker] for every commodity price
// collected this cycle, using directional inversion: 1/price when the spot
// price is already quoted in base, matrix[base][cur]/price otherwise. When
// the fiat leg is unknown or a denominator is zero the entry is skipped, to
// be filled in on a later cycle.
func (g *cycleMerger) applyCommodities(base string) {
	for commodity, spot := range g.commodities {
		if spot.Price.IsZero() {
			log.Printf("skipping %s for %s: zero spot price", commodity, base)
			continue
		}

		var rate Rate
		if base == spot.Currency {
			rate = spot.Price.Inv()
		} else {
			leg, ok := g.matrix.Get(base, spot.Currency)
			if !ok || leg.IsZero() {
				// Degraded entry: fiat leg not known yet this cycle.
				continue
			}
			rate = leg.Div(spot.Price)
		}
		g.matrix.Set(base, commodity.Ticker(), rate)
	}
}

// applyCrypto writes matrix[base][key] = 1/price for every crypto price
// collected for that base currency.
func (g *cycleMerger) applyCrypto(base string) {
	for key, price := range g.crypto[base] {
		if price.IsZero() {
			log.Printf("skipping %s for %s: zero price", key, base)
			continue
		}
		g.matrix.Set(base, key, price.Inv())
	}
}

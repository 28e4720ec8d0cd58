package avoir

import (
	"errors"
	"testing"
)

func baseResult(raw RawRates) taskResult {
	return taskResult{kind: taskBase, value: raw}
}

func commodityResult(c Commodity, price CommodityPrice) taskResult {
	return taskResult{kind: taskCommodity, meta: taskMeta{commodity: c}, value: price}
}

func cryptoResult(base, symbol string, price Rate) taskResult {
	return taskResult{kind: taskCrypto, meta: taskMeta{symbol: symbol, base: base}, value: price}
}

func TestMergerBaseRates(t *testing.T) {
	m := NewRateMatrix()
	g := newCycleMerger(m)

	g.consume(baseResult(RawRates{
		"EUR": {"usd": "1.08", "gbp": 0.85},
		"USD": {"eur": "0.9259"},
	}))

	if !g.apply() {
		t.Fatal("apply() = false after a successful base fetch")
	}
	for _, tc := range []struct{ base, quote, want string }{
		{"EUR", "USD", "1.08"},
		{"EUR", "GBP", "0.85"},
		{"USD", "EUR", "0.9259"},
	} {
		got, ok := m.Get(tc.base, tc.quote)
		if !ok || got.String() != tc.want {
			t.Errorf("matrix[%s][%s] = %v (ok=%v), want %s", tc.base, tc.quote, got, ok, tc.want)
		}
	}
}

func TestMergerDropsInvalidRates(t *testing.T) {
	m := NewRateMatrix()
	g := newCycleMerger(m)

	g.consume(baseResult(RawRates{
		"EUR": {"USD": "1.08", "XXX": "garbage", "YYY": nil, "ZZZ": true},
	}))
	g.apply()

	if _, ok := m.Get("EUR", "USD"); !ok {
		t.Error("valid rate was dropped")
	}
	for _, quote := range []string{"XXX", "YYY", "ZZZ"} {
		if _, ok := m.Get("EUR", quote); ok {
			t.Errorf("invalid rate %s reached the matrix", quote)
		}
	}
}

// Commodity inversion: given EUR->USD and a gold spot in USD, the matrix
// gets EUR->XAU = (EUR->USD)/spot and USD->XAU = 1/spot.
func TestMergerCommodityInversion(t *testing.T) {
	m := NewRateMatrix()
	g := newCycleMerger(m)

	g.consume(baseResult(RawRates{"EUR": {"USD": "1.08"}}))
	g.consume(commodityResult(Gold, CommodityPrice{Price: R(2000), Currency: "USD", Unit: TroyOunce}))
	g.apply()

	if got, ok := m.Get("EUR", "XAU"); !ok || got.String() != "0.00054" {
		t.Errorf("matrix[EUR][XAU] = %v (ok=%v), want 0.00054", got, ok)
	}
	if got, ok := m.Get("USD", "XAU"); !ok || got.String() != "0.0005" {
		t.Errorf("matrix[USD][XAU] = %v (ok=%v), want 0.0005", got, ok)
	}
}

func TestMergerCommodityMissingFiatLeg(t *testing.T) {
	m := NewRateMatrix()
	g := newCycleMerger(m)

	// no base fetch this cycle, and the matrix has no EUR->USD leg
	g.consume(commodityResult(Silver, CommodityPrice{Price: R(25), Currency: "USD", Unit: TroyOunce}))
	g.apply()

	if _, ok := m.Get("EUR", "XAG"); ok {
		t.Error("matrix[EUR][XAG] derived without a EUR->USD leg")
	}
	// the USD row needs no leg
	if got, ok := m.Get("USD", "XAG"); !ok || got.String() != "0.04" {
		t.Errorf("matrix[USD][XAG] = %v (ok=%v), want 0.04", got, ok)
	}
}

func TestMergerZeroSpotSkipped(t *testing.T) {
	m := NewRateMatrix()
	g := newCycleMerger(m)

	g.consume(commodityResult(Gold, CommodityPrice{Price: R(0), Currency: "USD", Unit: TroyOunce}))
	g.apply()

	if _, ok := m.Get("USD", "XAU"); ok {
		t.Error("zero spot price was inverted into the matrix")
	}
}

// Crypto prices arrive as price-of-1-coin in fiat and are stored inverted:
// coins per 1 unit of fiat.
func TestMergerCryptoInversion(t *testing.T) {
	m := NewRateMatrix()
	g := newCycleMerger(m)

	g.consume(cryptoResult("EUR", "btc", R(50000)))
	g.apply()

	if got, ok := m.Get("EUR", "BTC"); !ok || got.String() != "0.00002" {
		t.Errorf("matrix[EUR][BTC] = %v (ok=%v), want 0.00002", got, ok)
	}
}

func TestMergerCryptoBatch(t *testing.T) {
	m := NewRateMatrix()
	g := newCycleMerger(m)

	g.consume(taskResult{kind: taskCryptoBatch, meta: taskMeta{assets: 2}, value: CryptoPrices{
		BySymbol: map[string]map[string]Rate{
			"ETH": {"EUR": R(2500), "USD": R(2700)},
		},
		ByAddress: map[string]map[string]Rate{
			"0xabc": {"EUR": R(10)},
		},
	}})
	g.apply()

	if !g.gotCryptoBatch {
		t.Error("gotCryptoBatch not set after a successful batch")
	}
	if got, ok := m.Get("EUR", "ETH"); !ok || got.String() != "0.0004" {
		t.Errorf("matrix[EUR][ETH] = %v (ok=%v), want 0.0004", got, ok)
	}
	if got, ok := m.Get("USD", "ETH"); !ok {
		t.Errorf("matrix[USD][ETH] missing, got %v", got)
	}
	if got, ok := m.Get("EUR", "addr:0xabc"); !ok || got.String() != "0.1" {
		t.Errorf("matrix[EUR][addr:0xabc] = %v (ok=%v), want 0.1", got, ok)
	}
}

// A failed task contributes nothing: previous matrix entries survive.
func TestMergerFailedTaskKeepsPreviousEntries(t *testing.T) {
	m := NewRateMatrix()
	m.Set("EUR", "USD", R(1.07))
	g := newCycleMerger(m)

	g.consume(taskResult{kind: taskBase, err: errors.New("boom")})
	g.consume(taskResult{kind: taskCommodity, meta: taskMeta{commodity: Gold}, err: errors.New("boom")})

	if g.apply() {
		t.Error("apply() = true without a successful base fetch")
	}
	if got, ok := m.Get("EUR", "USD"); !ok || got.String() != "1.07" {
		t.Errorf("previous entry lost: matrix[EUR][USD] = %v (ok=%v)", got, ok)
	}
}

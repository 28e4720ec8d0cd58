package avoir

import (
	"testing"

	"github.com/avoir-app/avoir/date"
)

func valuationFixture(t *testing.T) (*Holdings, RateMatrix) {
	t.Helper()
	on := date.New(2026, 8, 28)
	hs := NewHoldings()
	for _, h := range []Holding{
		{Product: ProductAccount, Name: "Checking", Date: on, Currency: "EUR", Amount: Q(1500)},
		{Product: ProductAccount, Name: "Dollar account", Date: on, Currency: "USD", Amount: Q(108)},
		{Product: ProductLoan, Name: "Mortgage", Date: on, Currency: "EUR", Amount: Q(1000)},
		{Product: ProductCrypto, Name: "Wallet", Date: on, Symbol: "BTC", Amount: Q(0.5)},
		{Product: ProductCommodity, Name: "Bars", Date: on, Commodity: Gold, Unit: Gram, Amount: Q(62.2069536)}, // exactly 2 ozt
		{Product: ProductCrypto, Name: "Obscure token", Date: on, Symbol: "NOPECOIN", Amount: Q(100)},
	} {
		if err := hs.Append(h); err != nil {
			t.Fatal(err)
		}
	}

	m := seededMatrix(t, map[string]map[string]string{
		"EUR": {"USD": "1.08", "BTC": "0.00002", "XAU": "0.00054"},
	})
	return hs, m
}

func TestValue(t *testing.T) {
	hs, m := valuationFixture(t)
	v := Value(hs, m, "EUR")

	if v.Currency != "EUR" {
		t.Fatalf("Currency = %s", v.Currency)
	}
	if len(v.Positions) != hs.Len() {
		t.Fatalf("report has %d positions, want %d", len(v.Positions), hs.Len())
	}

	want := map[string]string{
		"Checking":       "1500",                  // passthrough
		"Dollar account": "100",                   // 108 / 1.08
		"Mortgage":       "-1000",                 // loans count against the total
		"Wallet":         "25000",                 // 0.5 / 0.00002
		"Bars":           "3703.7037037037037037", // 2 ozt / 0.00054
	}
	total := Q(0)
	for _, p := range v.Positions {
		expected, priced := want[p.Holding.Name]
		if p.Priced != priced {
			t.Errorf("%s: priced = %v, want %v", p.Holding.Name, p.Priced, priced)
			continue
		}
		if !priced {
			continue
		}
		if p.Value.Currency() != "EUR" {
			t.Errorf("%s valued in %s", p.Holding.Name, p.Value.Currency())
		}
		if got := p.Value.value.String(); got != expected {
			t.Errorf("%s = %s, want %s", p.Holding.Name, got, expected)
		}
		total = total.Add(Quantity{value: p.Value.value})
	}

	if !v.Total.Equal(M(total.value, "EUR")) {
		t.Errorf("Total = %v, want %v", v.Total, total)
	}
}

func TestValueMissingRateSkipsHolding(t *testing.T) {
	hs, m := valuationFixture(t)
	v := Value(hs, m, "EUR")

	for _, p := range v.Positions {
		if p.Holding.Name == "Obscure token" {
			if p.Priced {
				t.Errorf("unpriceable holding was priced: %+v", p)
			}
			return
		}
	}
	t.Error("unpriceable holding missing from the report")
}

func TestValueEmptyLedger(t *testing.T) {
	v := Value(NewHoldings(), NewRateMatrix(), "USD")
	if len(v.Positions) != 0 {
		t.Errorf("positions = %v", v.Positions)
	}
	if !v.Total.IsZero() || v.Total.Currency() != "USD" {
		t.Errorf("Total = %v, want a zero USD total", v.Total)
	}
}

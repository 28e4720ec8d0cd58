package avoir

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/avoir-app/avoir/date"
)

func TestHoldingValidate(t *testing.T) {
	on := date.New(2026, 8, 28)
	tests := []struct {
		name string
		h    Holding
		err  bool
	}{
		{name: "account", h: Holding{Product: ProductAccount, Name: "Checking", Date: on, Currency: "EUR", Amount: Q(1500)}},
		{name: "loan", h: Holding{Product: ProductLoan, Name: "Mortgage", Date: on, Currency: "USD", Amount: Q(200000)}},
		{name: "crypto by symbol", h: Holding{Product: ProductCrypto, Name: "Wallet", Date: on, Symbol: "BTC", Amount: Q(0.5)}},
		{name: "crypto by address", h: Holding{Product: ProductCrypto, Name: "Token", Date: on, ContractAddress: "0xabc", Amount: Q(10)}},
		{name: "commodity", h: Holding{Product: ProductCommodity, Name: "Coins", Date: on, Commodity: Gold, Unit: TroyOunce, Amount: Q(2)}},
		{name: "missing name", h: Holding{Product: ProductAccount, Date: on, Currency: "EUR"}, err: true},
		{name: "unknown currency", h: Holding{Product: ProductAccount, Name: "X", Date: on, Currency: "NOPE"}, err: true},
		{name: "fiat without currency", h: Holding{Product: ProductFund, Name: "X", Date: on}, err: true},
		{name: "crypto without id", h: Holding{Product: ProductCrypto, Name: "X", Date: on}, err: true},
		{name: "unknown commodity", h: Holding{Product: ProductCommodity, Name: "X", Date: on, Commodity: "URANIUM", Unit: Gram}, err: true},
		{name: "bad unit", h: Holding{Product: ProductCommodity, Name: "X", Date: on, Commodity: Gold, Unit: "KILO"}, err: true},
		{name: "unknown product", h: Holding{Product: "YACHT", Name: "X", Date: on}, err: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.h.Validate()
			if tc.err && err == nil {
				t.Errorf("Validate() = nil, want error")
			}
			if !tc.err && err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestHoldingsJSONLRoundTrip(t *testing.T) {
	on := date.New(2026, 8, 28)
	hs := NewHoldings()
	entries := []Holding{
		{Product: ProductAccount, Name: "Checking", Date: on, Currency: "EUR", Amount: Q(1500.50)},
		{Product: ProductCrypto, Name: "Wallet", Date: on, Symbol: "BTC", Amount: Q(0.5)},
		{Product: ProductCommodity, Name: "Coins", Date: on, Commodity: Gold, Unit: Gram, Amount: Q(62.2)},
	}
	for _, h := range entries {
		if err := hs.Append(h); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := EncodeHoldings(&buf, hs); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), "\n"); got != len(entries) {
		t.Fatalf("encoded %d lines, want %d:\n%s", got, len(entries), buf.String())
	}
	// amounts are plain JSON numbers
	if !strings.Contains(buf.String(), `"amount":1500.5`) {
		t.Errorf("amount not encoded as a number:\n%s", buf.String())
	}

	back, err := DecodeHoldings(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if back.Len() != len(entries) {
		t.Fatalf("decoded %d holdings, want %d", back.Len(), len(entries))
	}
	for i, h := range back.Entries() {
		want := entries[i]
		if h.Product != want.Product || h.Name != want.Name || !h.Amount.Equal(want.Amount) || h.Date != want.Date {
			t.Errorf("entry %d = %+v, want %+v", i, h, want)
		}
	}
}

func TestDecodeHoldingsRejectsBadLines(t *testing.T) {
	input := `{"product":"ACCOUNT","name":"OK","date":"2026-08-28","currency":"EUR","amount":1}
{"product":"ACCOUNT","name":"","date":"2026-08-28","currency":"EUR","amount":1}`
	_, err := DecodeHoldings(strings.NewReader(input))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("DecodeHoldings error = %v, want a line 2 failure", err)
	}
}

func TestCryptoAssetsDedup(t *testing.T) {
	on := date.New(2026, 8, 28)
	hs := NewHoldings()
	for _, h := range []Holding{
		{Product: ProductCrypto, Name: "A", Date: on, Symbol: "btc", Amount: Q(1)},
		{Product: ProductCrypto, Name: "B", Date: on, Symbol: "BTC", Amount: Q(2)},
		{Product: ProductCrypto, Name: "C", Date: on, Symbol: "LINK", ContractAddress: "0xAbC", Amount: Q(3)},
		{Product: ProductAccount, Name: "D", Date: on, Currency: "EUR", Amount: Q(4)},
	} {
		if err := hs.Append(h); err != nil {
			t.Fatal(err)
		}
	}

	assets := hs.CryptoAssets()
	if len(assets) != 2 {
		t.Fatalf("CryptoAssets() = %v, want 2 distinct assets", assets)
	}
	if assets[0] != (CryptoAssetKey{Symbol: "BTC"}) {
		t.Errorf("assets[0] = %+v, want normalized BTC", assets[0])
	}
	if assets[1] != (CryptoAssetKey{Symbol: "LINK", ContractAddress: "0xabc"}) {
		t.Errorf("assets[1] = %+v, want lowercased address", assets[1])
	}
}

func TestLoadAppendHoldings(t *testing.T) {
	dir := t.TempDir()
	on := date.New(2026, 8, 28)

	// fresh install
	hs, err := LoadHoldings(dir)
	if err != nil {
		t.Fatal(err)
	}
	if hs.Len() != 0 {
		t.Fatalf("fresh install has %d holdings", hs.Len())
	}

	if err := AppendHolding(dir, Holding{Product: ProductAccount, Name: "Checking", Date: on, Currency: "EUR", Amount: Q(100)}); err != nil {
		t.Fatal(err)
	}
	if err := AppendHolding(dir, Holding{Product: ProductCrypto, Name: "Wallet", Date: on, Symbol: "ETH", Amount: Q(3)}); err != nil {
		t.Fatal(err)
	}
	// invalid entries never reach the file
	if err := AppendHolding(dir, Holding{Product: ProductAccount, Name: "", Date: on, Currency: "EUR"}); err == nil {
		t.Fatal("invalid holding appended")
	}

	hs, err = LoadHoldings(dir)
	if err != nil {
		t.Fatal(err)
	}
	if hs.Len() != 2 {
		t.Fatalf("loaded %d holdings, want 2", hs.Len())
	}

	// the reader picks the assets straight from the file
	assets, err := HoldingsReader{DataPath: dir}.HeldCryptoAssets(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(assets) != 1 || assets[0].Symbol != "ETH" {
		t.Errorf("HeldCryptoAssets() = %v, want [ETH]", assets)
	}
}

func TestRemoveHolding(t *testing.T) {
	on := date.New(2026, 8, 28)
	hs := NewHoldings()
	for _, h := range []Holding{
		{Product: ProductAccount, Name: "Checking", Date: on, Currency: "EUR", Amount: Q(100)},
		{Product: ProductAccount, Name: "Savings", Date: on, Currency: "EUR", Amount: Q(200)},
		{Product: ProductAccount, Name: "Checking", Date: on, Currency: "USD", Amount: Q(50)},
	} {
		if err := hs.Append(h); err != nil {
			t.Fatal(err)
		}
	}

	if !hs.Remove("Checking") {
		t.Fatal("Remove(Checking) = false, want true")
	}
	if hs.Len() != 1 || hs.Entries()[0].Name != "Savings" {
		t.Errorf("after removal got %+v, want only Savings", hs.Entries())
	}
	if hs.Remove("Checking") {
		t.Error("second Remove(Checking) = true, want false")
	}
}

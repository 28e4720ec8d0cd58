package avoir

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/avoir-app/avoir/date"
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are numbers in the ledger file, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ProductType classifies a holding.
type ProductType string

const (
	ProductAccount    ProductType = "ACCOUNT"
	ProductFund       ProductType = "FUND"
	ProductLoan       ProductType = "LOAN"
	ProductCrypto     ProductType = "CRYPTO"
	ProductCommodity  ProductType = "COMMODITY"
	ProductRealEstate ProductType = "REAL_ESTATE"
)

// Holding is one recorded position. Depending on the product type, a subset
// of the fields is meaningful: fiat products carry a currency and an amount
// in that currency, crypto carries a symbol (and a contract address for
// tokens), commodities carry a commodity type, a weight and its unit.
type Holding struct {
	Product         ProductType `json:"product"`
	Name            string      `json:"name"`
	Date            date.Date   `json:"date"`
	Currency        string      `json:"currency,omitempty"`
	Amount          Quantity    `json:"amount"`
	Symbol          string      `json:"symbol,omitempty"`
	ContractAddress string      `json:"contractAddress,omitempty"`
	Commodity       Commodity   `json:"commodity,omitempty"`
	Unit            WeightUnit  `json:"unit,omitempty"`
}

// Validate checks the holding for internal consistency.
func (h Holding) Validate() error {
	if h.Name == "" {
		return errors.New("holding needs a name")
	}
	switch h.Product {
	case ProductAccount, ProductFund, ProductLoan, ProductRealEstate:
		if h.Currency == "" {
			return fmt.Errorf("%s %q needs a currency", h.Product, h.Name)
		}
		if err := ValidateCurrency(h.Currency); err != nil {
			return fmt.Errorf("%s %q: %w", h.Product, h.Name, err)
		}
	case ProductCrypto:
		if h.Symbol == "" && h.ContractAddress == "" {
			return fmt.Errorf("crypto holding %q needs a symbol or a contract address", h.Name)
		}
	case ProductCommodity:
		if _, ok := CommoditySymbols[h.Commodity]; !ok {
			return fmt.Errorf("commodity holding %q has unknown commodity %q", h.Name, h.Commodity)
		}
		if h.Unit != TroyOunce && h.Unit != Gram {
			return fmt.Errorf("commodity holding %q has unknown unit %q", h.Name, h.Unit)
		}
	default:
		return fmt.Errorf("unknown product type %q", h.Product)
	}
	return nil
}

// Holdings is the set of recorded positions.
type Holdings struct {
	entries []Holding
}

func NewHoldings() *Holdings { return &Holdings{} }

// Append adds a validated holding.
func (hs *Holdings) Append(h Holding) error {
	if err := h.Validate(); err != nil {
		return err
	}
	hs.entries = append(hs.entries, h)
	return nil
}

// Entries returns the recorded holdings in recording order.
func (hs *Holdings) Entries() []Holding { return hs.entries }

func (hs *Holdings) Len() int { return len(hs.entries) }

// Remove deletes every holding with the given name and reports whether any
// entry was removed.
func (hs *Holdings) Remove(name string) bool {
	kept := hs.entries[:0]
	for _, h := range hs.entries {
		if h.Name != name {
			kept = append(kept, h)
		}
	}
	removed := len(kept) != len(hs.entries)
	hs.entries = kept
	return removed
}

// CryptoAssets returns the deduplicated set of crypto asset keys currently
// held, for the rate engine to price.
func (hs *Holdings) CryptoAssets() []CryptoAssetKey {
	seen := make(map[CryptoAssetKey]bool)
	var out []CryptoAssetKey
	for _, h := range hs.entries {
		if h.Product != ProductCrypto {
			continue
		}
		key := CryptoAssetKey{
			Symbol:          strings.ToUpper(strings.TrimSpace(h.Symbol)),
			ContractAddress: strings.ToLower(strings.TrimSpace(h.ContractAddress)),
		}
		if key.Symbol == "" && key.ContractAddress == "" {
			continue
		}
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}

// DecodeHoldings decodes holdings from a stream of JSONL data, one holding
// per line, and validates each.
func DecodeHoldings(r io.Reader) (*Holdings, error) {
	hs := NewHoldings()
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var h Holding
		if err := json.Unmarshal(raw, &h); err != nil {
			return nil, fmt.Errorf("could not decode holding on line %d: %w", line, err)
		}
		if err := hs.Append(h); err != nil {
			return nil, fmt.Errorf("invalid holding on line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return hs, nil
}

// EncodeHolding appends a single holding as one JSONL line.
func EncodeHolding(w io.Writer, h Holding) error {
	raw, err := json.Marshal(h)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", raw)
	return err
}

// EncodeHoldings writes the whole set in canonical JSONL form.
func EncodeHoldings(w io.Writer, hs *Holdings) error {
	for _, h := range hs.entries {
		if err := EncodeHolding(w, h); err != nil {
			return err
		}
	}
	return nil
}

// holdingsFilename is the name of the holdings file inside the data path.
const holdingsFilename = "holdings.jsonl"

// LoadHoldings reads the holdings file under the data path. A missing file
// yields an empty set, like a fresh install.
func LoadHoldings(dataPath string) (*Holdings, error) {
	f, err := os.Open(filepath.Join(dataPath, holdingsFilename))
	if errors.Is(err, fs.ErrNotExist) {
		return NewHoldings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open holdings file: %w", err)
	}
	defer f.Close()
	return DecodeHoldings(f)
}

// SaveHoldings writes the whole set back to the data path.
func SaveHoldings(dataPath string, hs *Holdings) error {
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return fmt.Errorf("could not create data directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dataPath, holdingsFilename))
	if err != nil {
		return fmt.Errorf("could not create holdings file: %w", err)
	}
	defer f.Close()
	return EncodeHoldings(f, hs)
}

// AppendHolding appends one holding to the holdings file, creating it if
// needed.
func AppendHolding(dataPath string, h Holding) error {
	if err := h.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return fmt.Errorf("could not create data directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dataPath, holdingsFilename), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open holdings file: %w", err)
	}
	defer f.Close()
	return EncodeHolding(f, h)
}

// HoldingsReader reads the held crypto assets from the holdings file at
// call time, so positions recorded between refresh cycles are picked up.
// It implements PositionReader.
type HoldingsReader struct {
	DataPath string
}

func (r HoldingsReader) HeldCryptoAssets(_ context.Context) ([]CryptoAssetKey, error) {
	hs, err := LoadHoldings(r.DataPath)
	if err != nil {
		return nil, err
	}
	return hs.CryptoAssets(), nil
}

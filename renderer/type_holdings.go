package renderer

import (
	"github.com/avoir-app/avoir"
)

// Holdings is the view of the holdings ledger for rendering.
type Holdings struct {
	Rows []HoldingRow `json:"rows"`
}

// HoldingRow is a single holding line.
type HoldingRow struct {
	Product string         `json:"product"`
	Name    string         `json:"name"`
	Date    string         `json:"date"`
	Amount  avoir.Quantity `json:"amount"`
	// Asset identifies what the amount is denominated in: a currency code,
	// a crypto symbol or contract address, or a commodity with its unit.
	Asset string `json:"asset"`
}

// NewHoldings builds the holdings view from a ledger.
func NewHoldings(hs *avoir.Holdings) *Holdings {
	v := &Holdings{}
	for _, h := range hs.Entries() {
		v.Rows = append(v.Rows, HoldingRow{
			Product: string(h.Product),
			Name:    h.Name,
			Date:    h.Date.String(),
			Amount:  h.Amount,
			Asset:   assetLabel(h),
		})
	}
	return v
}

func assetLabel(h avoir.Holding) string {
	switch h.Product {
	case avoir.ProductCrypto:
		if h.ContractAddress != "" {
			return h.ContractAddress
		}
		return h.Symbol
	case avoir.ProductCommodity:
		return string(h.Commodity) + " (" + string(h.Unit) + ")"
	default:
		return h.Currency
	}
}

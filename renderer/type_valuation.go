package renderer

import (
	"github.com/avoir-app/avoir"
)

// Valuation is the view of a valuation report for rendering.
type Valuation struct {
	Currency string         `json:"currency"`
	Rows     []ValuationRow `json:"rows"`
	Total    avoir.Money    `json:"total"`
	// Unpriced counts the holdings that had no usable rate this time.
	Unpriced int `json:"unpriced,omitempty"`
}

// ValuationRow is one valued holding line.
type ValuationRow struct {
	Product string `json:"product"`
	Name    string `json:"name"`
	Asset   string `json:"asset"`
	// Value is the formatted value in the target currency, or "-" when the
	// holding could not be priced.
	Value string `json:"value"`
}

// NewValuation builds the valuation view from a valuation result.
func NewValuation(v avoir.Valuation) *Valuation {
	view := &Valuation{Currency: v.Currency, Total: v.Total}
	for _, p := range v.Positions {
		row := ValuationRow{
			Product: string(p.Holding.Product),
			Name:    p.Holding.Name,
			Asset:   assetLabel(p.Holding),
			Value:   "-",
		}
		if p.Priced {
			row.Value = p.Value.String()
		} else {
			view.Unpriced++
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

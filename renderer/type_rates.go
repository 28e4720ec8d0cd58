package renderer

import (
	"sort"
	"time"

	"github.com/avoir-app/avoir"
)

// Rates is the view of the exchange rate matrix for rendering.
type Rates struct {
	// LastSaved is the formatted time of the last durable save, empty when
	// the matrix was never persisted.
	LastSaved string      `json:"lastSaved,omitempty"`
	Bases     []RatesBase `json:"bases"`
}

// RatesBase is one base currency row group of the matrix.
type RatesBase struct {
	Base string     `json:"base"`
	Rows []RatesRow `json:"rows"`
}

// RatesRow is a single quote against a base currency.
type RatesRow struct {
	Quote string     `json:"quote"`
	Rate  avoir.Rate `json:"rate"`
}

// NewRates builds the rates view from a matrix snapshot, with bases and
// quotes in stable sorted order.
func NewRates(m avoir.RateMatrix, lastSaved time.Time) *Rates {
	r := &Rates{}
	if !lastSaved.IsZero() {
		r.LastSaved = lastSaved.Format(time.RFC3339)
	}

	bases := make([]string, 0, len(m))
	for base := range m {
		bases = append(bases, base)
	}
	sort.Strings(bases)

	for _, base := range bases {
		group := RatesBase{Base: base}
		quotes := make([]string, 0, len(m[base]))
		for quote := range m[base] {
			quotes = append(quotes, quote)
		}
		sort.Strings(quotes)
		for _, quote := range quotes {
			group.Rows = append(group.Rows, RatesRow{Quote: quote, Rate: m[base][quote]})
		}
		r.Bases = append(r.Bases, group)
	}
	return r
}

package avoir

import "github.com/shopspring/decimal"

// Quantity is an exact amount of something held: account balance units,
// fund shares, crypto units, or a commodity weight.
type Quantity struct {
	value decimal.Decimal
}

// Q is a convenient factory for Quantity from common numeric types.
func Q[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Quantity {
	return Quantity{value: newDecimal(value)}
}

func (q Quantity) Equal(p Quantity) bool       { return q.value.Equal(p.value) }
func (q Quantity) LessThan(p Quantity) bool    { return q.value.LessThan(p.value) }
func (q Quantity) GreaterThan(p Quantity) bool { return q.value.GreaterThan(p.value) }
func (q Quantity) Add(p Quantity) Quantity     { return Quantity{value: q.value.Add(p.value)} }
func (q Quantity) Sub(p Quantity) Quantity     { return Quantity{value: q.value.Sub(p.value)} }
func (q Quantity) Mul(p Quantity) Quantity     { return Quantity{value: q.value.Mul(p.value)} }
func (q Quantity) Div(p Quantity) Quantity     { return Quantity{value: q.value.Div(p.value)} }
func (q Quantity) Neg() Quantity               { return Quantity{value: q.value.Neg()} }
func (q Quantity) IsZero() bool                { return q.value.IsZero() }
func (q Quantity) IsNegative() bool            { return q.value.IsNegative() }
func (q Quantity) IsPositive() bool            { return q.value.IsPositive() }
func (q Quantity) String() string              { return q.value.String() }

// DivRate converts the quantity through an exchange rate expressed as
// quote-per-base, yielding the equivalent base-denominated quantity.
func (q Quantity) DivRate(r Rate) Quantity { return Quantity{value: q.value.Div(r.Decimal())} }

// MulRate converts the quantity through an exchange rate expressed as
// quote-per-base, yielding the equivalent quote-denominated quantity.
func (q Quantity) MulRate(r Rate) Quantity { return Quantity{value: q.value.Mul(r.Decimal())} }

// MarshalJSON implements the json.Marshaler interface.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return q.value.MarshalJSON()
}

func (q *Quantity) UnmarshalJSON(decimalBytes []byte) error {
	return q.value.UnmarshalJSON(decimalBytes)
}

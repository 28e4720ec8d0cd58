package avoir

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Rate is an exact exchange rate: the quantity of a quote symbol obtained
// for exactly 1 unit of a base currency. It wraps an arbitrary-precision
// decimal so that rate arithmetic never goes through floating point.
type Rate struct {
	value decimal.Decimal
}

// R is a convenient factory for Rate from common numeric types.
func R[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Rate {
	return Rate{value: newDecimal(value)}
}

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// ParseRate converts a raw value as decoded from a provider payload (string,
// json.Number, float, integer, or an existing Rate) into an exact Rate.
// Non-numeric, NaN and infinite values are rejected so they can never reach
// the rate matrix.
func ParseRate(raw any) (Rate, error) {
	switch v := raw.(type) {
	case nil:
		return Rate{}, fmt.Errorf("nil rate value")
	case Rate:
		return v, nil
	case decimal.Decimal:
		return Rate{value: v}, nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return Rate{}, fmt.Errorf("invalid rate %q: %w", v, err)
		}
		return Rate{value: d}, nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return Rate{}, fmt.Errorf("invalid rate %q: %w", v, err)
		}
		return Rate{value: d}, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Rate{}, fmt.Errorf("non-finite rate value %v", v)
		}
		return Rate{value: decimal.NewFromFloat(v)}, nil
	case float32:
		return ParseRate(float64(v))
	case int:
		return Rate{value: decimal.NewFromInt(int64(v))}, nil
	case int64:
		return Rate{value: decimal.NewFromInt(v)}, nil
	default:
		return Rate{}, fmt.Errorf("unsupported rate value %v (%T)", raw, raw)
	}
}

func (r Rate) IsZero() bool             { return r.value.IsZero() }
func (r Rate) Equal(s Rate) bool        { return r.value.Equal(s.value) }
func (r Rate) Mul(s Rate) Rate          { return Rate{value: r.value.Mul(s.value)} }
func (r Rate) Div(s Rate) Rate          { return Rate{value: r.value.Div(s.value)} }
func (r Rate) Decimal() decimal.Decimal { return r.value }
func (r Rate) String() string           { return r.value.String() }

// Inv returns 1/r. Callers must check IsZero first, a zero denominator
// must be skipped rather than inverted.
func (r Rate) Inv() Rate { return Rate{value: decimal.NewFromInt(1).Div(r.value)} }

// MarshalJSON implements the json.Marshaler interface.
func (r Rate) MarshalJSON() ([]byte, error) {
	return r.value.MarshalJSON()
}

func (r *Rate) UnmarshalJSON(decimalBytes []byte) error {
	return r.value.UnmarshalJSON(decimalBytes)
}

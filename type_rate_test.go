package avoir

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParseRate(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
		err  bool
	}{
		{name: "string", in: "1.08", want: "1.08"},
		{name: "small string", in: "0.00002", want: "0.00002"},
		{name: "json number", in: json.Number("2000.5"), want: "2000.5"},
		{name: "float64", in: 1.08, want: "1.08"},
		{name: "int", in: 42, want: "42"},
		{name: "int64", in: int64(-3), want: "-3"},
		{name: "rate passthrough", in: R(7), want: "7"},
		{name: "nil", in: nil, err: true},
		{name: "garbage string", in: "not-a-number", err: true},
		{name: "NaN", in: math.NaN(), err: true},
		{name: "positive infinity", in: math.Inf(1), err: true},
		{name: "negative infinity", in: math.Inf(-1), err: true},
		{name: "bool", in: true, err: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRate(tc.in)
			if tc.err {
				if err == nil {
					t.Fatalf("ParseRate(%v): want error, got %v", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRate(%v): %v", tc.in, err)
			}
			if got.String() != tc.want {
				t.Errorf("ParseRate(%v) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestRateInv(t *testing.T) {
	r := R(50000)
	if got := r.Inv().String(); got != "0.00002" {
		t.Errorf("Inv(50000) = %s, want 0.00002", got)
	}
	// inverting twice is identity for exact divisions
	if !r.Inv().Inv().Equal(r) {
		t.Errorf("Inv(Inv(50000)) = %s, want 50000", r.Inv().Inv())
	}
}

func TestRateDiv(t *testing.T) {
	// the directional inversion: EUR->USD=1.08, gold at 2000 USD/ozt
	leg := R(1.08)
	spot := R(2000)
	if got := leg.Div(spot).String(); got != "0.00054" {
		t.Errorf("1.08/2000 = %s, want 0.00054", got)
	}
}

func TestRateJSONRoundTrip(t *testing.T) {
	r, err := ParseRate("0.000000123456789")
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var back Rate
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(r) {
		t.Errorf("round trip = %s, want %s", back, r)
	}
}

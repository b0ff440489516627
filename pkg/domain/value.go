package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Value is a numeric result flowing through a chain.
//
// NaN and ±Inf are ordinary outcomes (division by zero, invalid powers), but encoding/json
// refuses them, so Value encodes them as the strings "NaN", "+Inf" and "-Inf". Finite
// values encode as plain JSON numbers.
type Value float64

// Float returns v as a float64.
func (v Value) Float() float64 {
	return float64(v)
}

// IsFinite reports whether v is neither NaN nor infinite.
func (v Value) IsFinite() bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (v Value) String() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 64)
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.IsFinite() {
		return []byte(strconv.Quote(strconv.FormatFloat(float64(v), 'g', -1, 64))), nil
	}
	return json.Marshal(float64(v))
}

// UnmarshalJSON implements json.Unmarshaler. It accepts numbers and the string forms
// produced by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = Value(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("value must be a number or string: %w", err)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", s, err)
	}
	*v = Value(f)
	return nil
}

package encode

import (
	"math"
	"strconv"
)

// Number is a float64 that serializes NaN and infinities as null, so an
// undefined ratio survives JSON/YAML export as "no data" instead of failing.
type Number float64

// Defined reports whether the number carries a finite value.
func (n Number) Defined() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Defined() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(n), 'f', -1, 64), nil
}

func (n Number) MarshalYAML() (any, error) {
	if !n.Defined() {
		return nil, nil
	}
	return float64(n), nil
}

// Numbers converts a metric map for export.
func Numbers(m map[string]float64) map[string]Number {
	out := make(map[string]Number, len(m))
	for k, v := range m {
		out[k] = Number(v)
	}
	return out
}

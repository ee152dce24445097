package dataset

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// magnitudeRe matches "-12.5k" style values after separators are stripped.
var magnitudeRe = regexp.MustCompile(`(?i)^(-?\d+(?:\.\d+)?)([kmb])?$`)

var suffixMultiplier = map[string]float64{
	"":  1,
	"k": 1e3,
	"m": 1e6,
	"b": 1e9,
}

// ParseNumber coerces a cell value into a finite float64.
// It accepts already-typed numbers, plain numeric text, text with thousands
// separators ("1,234") and a single magnitude suffix ("2.5k", "-1.2M").
// nil, empty text, booleans and non-finite values report ok=false; a literal
// "0" is numeric. ParseNumber never panics.
func ParseNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case string:
		return parseNumericText(x)
	case json.Number:
		return parseNumericText(string(x))
	case []byte:
		return parseNumericText(string(x))
	}
	if f, ok := typedNumber(v); ok {
		return f, finite(f)
	}
	return 0, false
}

// IsStrictNumber reports whether v is numeric without any separator or suffix
// heuristics: either a typed Go number or text strconv accepts as-is.
func IsStrictNumber(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return err == nil && finite(f)
	case json.Number:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
		return err == nil && finite(f)
	}
	f, ok := typedNumber(v)
	return ok && finite(f)
}

func parseNumericText(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	raw = strings.ReplaceAll(raw, ",", "")
	if m := magnitudeRe.FindStringSubmatch(raw); m != nil {
		base, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		f := base * suffixMultiplier[strings.ToLower(m[2])]
		return f, finite(f)
	}
	// permissive fallback: ".5", "+3", "1e6"
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || !finite(f) {
		return 0, false
	}
	return f, true
}

func typedNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

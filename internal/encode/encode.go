// Package encode turns aggregated buckets into chart-ready records with a
// display color and short label relative to the other buckets on screen.
package encode

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/drilldown-cli/internal/aggregate"
	"github.com/KaramelBytes/drilldown-cli/internal/dataset"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"
)

// Scheme holds the colors and placeholder used by Encode.
type Scheme struct {
	Positive     string `mapstructure:"positive" yaml:"positive"`
	Negative     string `mapstructure:"negative" yaml:"negative"`
	Neutral      string `mapstructure:"neutral" yaml:"neutral"`
	GradientLow  string `mapstructure:"gradient_low" yaml:"gradient_low"`
	GradientHigh string `mapstructure:"gradient_high" yaml:"gradient_high"`
	Undefined    string `mapstructure:"undefined_label" yaml:"undefined_label"`
}

// DefaultScheme is green/red/gray for ratios and light-to-dark blue for magnitudes.
func DefaultScheme() Scheme {
	return Scheme{
		Positive:     "#16a34a",
		Negative:     "#dc2626",
		Neutral:      "#9ca3af",
		GradientLow:  "#bfdbfe",
		GradientHigh: "#1e3a8a",
		Undefined:    "n/a",
	}
}

// WithDefaults fills blank fields from DefaultScheme.
func (s Scheme) WithDefaults() Scheme {
	d := DefaultScheme()
	s.Positive = orDefault(s.Positive, d.Positive)
	s.Negative = orDefault(s.Negative, d.Negative)
	s.Neutral = orDefault(s.Neutral, d.Neutral)
	s.GradientLow = orDefault(s.GradientLow, d.GradientLow)
	s.GradientHigh = orDefault(s.GradientHigh, d.GradientHigh)
	s.Undefined = orDefault(s.Undefined, d.Undefined)
	return s
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// Record is one bar as handed to a renderer.
type Record struct {
	Name    string            `json:"name" yaml:"name"`
	Value   Number            `json:"value" yaml:"value"`
	Color   string            `json:"color" yaml:"color"`
	Label   string            `json:"label" yaml:"label"`
	Rows    int               `json:"rows" yaml:"rows"`
	Metrics map[string]Number `json:"metrics" yaml:"metrics"`
}

// Encode assigns a color and label to every bucket for the selected metric.
// Ratio metrics use a signed three-way scheme; other metrics use a min-max
// gradient across the buckets passed in.
func Encode(buckets []aggregate.Bucket, metric dataset.Metric, scheme Scheme) []Record {
	scheme = scheme.WithDefaults()
	values := make([]float64, len(buckets))
	for i, b := range buckets {
		values[i] = b.Value(metric)
	}

	out := make([]Record, len(buckets))
	var g gradient
	if !metric.IsRatio() {
		g = newGradient(values, scheme)
	}
	for i, b := range buckets {
		v := values[i]
		rec := Record{
			Name:    b.Name,
			Value:   Number(v),
			Rows:    b.Rows,
			Metrics: Numbers(b.Metrics()),
		}
		if metric.IsRatio() {
			rec.Color = polarityColor(v, scheme)
			rec.Label = PercentLabel(v, scheme.Undefined)
		} else {
			rec.Color = g.at(v)
			rec.Label = CompactLabel(v, scheme.Undefined)
		}
		out[i] = rec
	}
	return out
}

func polarityColor(v float64, s Scheme) string {
	switch {
	case math.IsNaN(v):
		return s.Neutral
	case v > 0:
		return s.Positive
	case v < 0:
		return s.Negative
	}
	return s.Neutral
}

type gradient struct {
	min, width float64
	low, high  drawing.Color
}

func newGradient(values []float64, s Scheme) gradient {
	finiteVals := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finiteVals = append(finiteVals, v)
		}
	}
	g := gradient{width: 1, low: parseHex(s.GradientLow), high: parseHex(s.GradientHigh)}
	if len(finiteVals) == 0 {
		return g
	}
	g.min = floats.Min(finiteVals)
	if w := floats.Max(finiteVals) - g.min; w > 0 {
		g.width = w
	}
	return g
}

// at maps v onto the gradient; the position is clamped to [0,1].
func (g gradient) at(v float64) string {
	if math.IsNaN(v) {
		return Hex(g.low)
	}
	t := (v - g.min) / g.width
	t = math.Max(0, math.Min(1, t))
	return Hex(Lerp(g.low, g.high, t))
}

// Lerp interpolates each channel between a and b.
func Lerp(a, b drawing.Color, t float64) drawing.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// Hex renders a color as #rrggbb.
func Hex(c drawing.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func parseHex(s string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(strings.TrimSpace(s), "#"))
}

// ParseColor converts a #rrggbb scheme color for renderers.
func ParseColor(s string) drawing.Color { return parseHex(s) }

// PercentLabel formats a ratio with one decimal and a percent sign.
func PercentLabel(v float64, undefined string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return undefined
	}
	return fmt.Sprintf("%.1f%%", v)
}

// CompactLabel abbreviates magnitudes to K/M/B with one decimal, or rounds to
// the nearest integer below 1000. The unit is picked after rounding, so
// 999.6 is 1.0K and 999 950 is 1.0M.
func CompactLabel(v float64, undefined string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return undefined
	}
	a := math.Abs(v)
	if math.Round(a) < 1e3 {
		r := math.Round(v)
		if r == 0 {
			r = 0 // drop the sign of -0
		}
		return fmt.Sprintf("%.0f", r)
	}
	sign := ""
	if v < 0 {
		sign = "-"
	}
	scaled, unit := a/1e3, "K"
	for _, next := range []string{"M", "B"} {
		if math.Round(scaled*10)/10 < 1e3 {
			break
		}
		scaled, unit = scaled/1e3, next
	}
	return fmt.Sprintf("%s%.1f%s", sign, math.Round(scaled*10)/10, unit)
}

// Package chart renders encoded records as a PNG bar chart.
package chart

import (
	"errors"
	"fmt"
	"io"

	"github.com/KaramelBytes/drilldown-cli/internal/encode"
	gochart "github.com/wcharczuk/go-chart/v2"
)

// ErrNoBars is returned when there is nothing to draw.
var ErrNoBars = errors.New("no bars to render")

// Options controls the rendered image.
type Options struct {
	Title  string
	Width  int
	Height int
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 1024
	}
	if h <= 0 {
		h = 512
	}
	return w, h
}

// WritePNG draws one bar per record in the record's color. Undefined values
// are drawn as zero-height bars so the label is still visible.
func WritePNG(w io.Writer, records []encode.Record, opt Options) error {
	if len(records) == 0 {
		return ErrNoBars
	}
	width, height := opt.size()

	lo, hi := 0.0, 0.0
	bars := make([]gochart.Value, len(records))
	for i, r := range records {
		v := 0.0
		if r.Value.Defined() {
			v = float64(r.Value)
		}
		lo, hi = min(lo, v), max(hi, v)
		color := encode.ParseColor(r.Color)
		bars[i] = gochart.Value{
			Value: v,
			Label: fmt.Sprintf("%s (%s)", r.Name, r.Label),
			Style: gochart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1},
		}
	}
	if hi <= lo {
		hi = lo + 1
	}

	barWidth := (width - 80) / len(records) * 2 / 3
	barWidth = max(4, min(barWidth, 80))

	bc := gochart.BarChart{
		Title:        opt.Title,
		Width:        width,
		Height:       height,
		BarWidth:     barWidth,
		UseBaseValue: true,
		BaseValue:    0,
		Background:   gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		XAxis:        gochart.Style{FontSize: 8},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}
	if err := bc.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// Package aggregate groups canonical rows at the current drill level and sums
// every base measure per group, deriving ratio metrics from those sums.
package aggregate

import (
	"math"
	"sort"

	"github.com/KaramelBytes/drilldown-cli/internal/dataset"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// LeafDepth is the path length at which rows are listed instead of grouped.
const LeafDepth = 3

// hierarchy lists the grouping field for each path depth.
var hierarchy = []dataset.Field{
	dataset.FieldCategory,
	dataset.FieldSubCategory,
	dataset.FieldItem,
}

var hundred = decimal.NewFromInt(100)

// Bucket is one group at the current level.
type Bucket struct {
	Name   string             `json:"name" yaml:"name"`
	Rows   int                `json:"rows" yaml:"rows"`
	Sums   map[string]float64 `json:"sums" yaml:"sums"`
	Ratios map[string]float64 `json:"ratios" yaml:"ratios"`
}

// Value returns the bucket's value for a metric. Unknown metrics and ratios
// with a zero denominator are NaN.
func (b Bucket) Value(m dataset.Metric) float64 {
	if m.IsRatio() {
		if v, ok := b.Ratios[m.Name]; ok {
			return v
		}
		return math.NaN()
	}
	if v, ok := b.Sums[m.Name]; ok {
		return v
	}
	return math.NaN()
}

// Metrics merges sums and ratios into one map for detail display.
func (b Bucket) Metrics() map[string]float64 {
	out := make(map[string]float64, len(b.Sums)+len(b.Ratios))
	for k, v := range b.Sums {
		out[k] = v
	}
	for k, v := range b.Ratios {
		out[k] = v
	}
	return out
}

// Result is one aggregation pass. Exactly one of Buckets or Leaf is meaningful,
// depending on Leaf mode.
type Result struct {
	Depth int           `json:"depth" yaml:"depth"`
	Field dataset.Field `json:"field,omitempty" yaml:"field,omitempty"`
	// Filtered is the number of rows inside the drill scope.
	Filtered int           `json:"filtered" yaml:"filtered"`
	Buckets  []Bucket      `json:"buckets,omitempty" yaml:"buckets,omitempty"`
	Leaf     []dataset.Row `json:"leaf,omitempty" yaml:"leaf,omitempty"`
	// Totals sums the same measures over the whole filtered set.
	Totals Bucket `json:"totals" yaml:"totals"`
}

// IsLeaf reports whether the result lists rows instead of buckets.
func (r Result) IsLeaf() bool { return r.Depth >= LeafDepth }

// GroupingField returns the field grouped at a path depth, or false at leaf depth.
func GroupingField(depth int) (dataset.Field, bool) {
	if depth < 0 || depth >= len(hierarchy) {
		return "", false
	}
	return hierarchy[depth], true
}

// Filter keeps rows whose fixed dimensions equal the path values. Matching is
// exact and case-sensitive at every level.
func Filter(rows []dataset.Row, path []string) []dataset.Row {
	if len(path) == 0 {
		return rows
	}
	out := make([]dataset.Row, 0, len(rows))
	for _, r := range rows {
		if matches(r, path) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r dataset.Row, path []string) bool {
	for i, want := range path {
		if i >= len(hierarchy) {
			break
		}
		if r.Dimension(hierarchy[i]) != want {
			return false
		}
	}
	return true
}

// Aggregate produces the buckets for the level below path. At leaf depth it
// returns the filtered rows instead. It never fails; no rows means no buckets.
func Aggregate(rows []dataset.Row, path []string, cat dataset.Catalog) Result {
	filtered := Filter(rows, path)
	base := cat.Base()
	ratios := cat.Ratios()

	res := Result{Depth: len(path), Filtered: len(filtered)}
	res.Totals = newAccumulator("Total", base).addAll(filtered).bucket(ratios)

	field, ok := GroupingField(len(path))
	if !ok {
		res.Leaf = filtered
		return res
	}
	res.Field = field

	groups := map[string]*accumulator{}
	for _, r := range filtered {
		name := r.Dimension(field)
		if name == "" {
			continue
		}
		acc, exists := groups[name]
		if !exists {
			acc = newAccumulator(name, base)
			groups[name] = acc
		}
		acc.add(r)
	}

	res.Buckets = make([]Bucket, 0, len(groups))
	for _, acc := range groups {
		res.Buckets = append(res.Buckets, acc.bucket(ratios))
	}
	SortByName(res.Buckets)
	return res
}

// Summarize folds rows into a single named bucket with the catalog's sums and
// ratios. Leaf views use it to treat each row as a one-row bucket.
func Summarize(name string, rows []dataset.Row, cat dataset.Catalog) Bucket {
	return newAccumulator(name, cat.Base()).addAll(rows).bucket(cat.Ratios())
}

// SortByName orders buckets case-insensitively using a locale-aware collator.
// Names that collate equal fall back to byte order so output is stable.
func SortByName(buckets []Bucket) {
	col := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(buckets, func(i, j int) bool {
		if c := col.CompareString(buckets[i].Name, buckets[j].Name); c != 0 {
			return c < 0
		}
		return buckets[i].Name < buckets[j].Name
	})
}

type accumulator struct {
	name string
	rows int
	base []dataset.Metric
	sums map[string]decimal.Decimal
}

func newAccumulator(name string, base []dataset.Metric) *accumulator {
	sums := make(map[string]decimal.Decimal, len(base))
	for _, m := range base {
		sums[m.Name] = decimal.Zero
	}
	return &accumulator{name: name, base: base, sums: sums}
}

func (a *accumulator) add(r dataset.Row) {
	a.rows++
	for _, m := range a.base {
		// absent measures contribute zero
		if v, ok := r.Measures[m.Name]; ok {
			a.sums[m.Name] = a.sums[m.Name].Add(decimal.NewFromFloat(v))
		}
	}
}

func (a *accumulator) addAll(rows []dataset.Row) *accumulator {
	for _, r := range rows {
		a.add(r)
	}
	return a
}

func (a *accumulator) bucket(ratios []dataset.Metric) Bucket {
	b := Bucket{
		Name:   a.name,
		Rows:   a.rows,
		Sums:   make(map[string]float64, len(a.sums)),
		Ratios: make(map[string]float64, len(ratios)),
	}
	for name, d := range a.sums {
		b.Sums[name] = d.InexactFloat64()
	}
	for _, m := range ratios {
		b.Ratios[m.Name] = ratio(a.sums[m.Numerator], a.sums[m.Denominator])
	}
	return b
}

// ratio divides summed components; a zero denominator is undefined (NaN), not 0.
func ratio(num, den decimal.Decimal) float64 {
	if den.IsZero() {
		return math.NaN()
	}
	return num.Mul(hundred).Div(den).InexactFloat64()
}

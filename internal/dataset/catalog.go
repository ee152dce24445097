package dataset

// MetricKind separates summable measures from derived ratios.
type MetricKind string

const (
	KindBase  MetricKind = "base"
	KindRatio MetricKind = "ratio"
)

// Metric is one selectable entry of the catalog.
type Metric struct {
	Name        string     `json:"name" yaml:"name"`
	Kind        MetricKind `json:"kind" yaml:"kind"`
	Numerator   string     `json:"numerator,omitempty" yaml:"numerator,omitempty"`
	Denominator string     `json:"denominator,omitempty" yaml:"denominator,omitempty"`
}

// IsRatio reports whether the metric is derived from two summed measures.
func (m Metric) IsRatio() bool { return m.Kind == KindRatio }

// RatioDef declares a derived percentage: Numerator / Denominator * 100.
type RatioDef struct {
	Name        string `mapstructure:"name" yaml:"name"`
	Numerator   string `mapstructure:"numerator" yaml:"numerator"`
	Denominator string `mapstructure:"denominator" yaml:"denominator"`
}

// DefaultRatios are always considered when building a catalog.
var DefaultRatios = []RatioDef{
	{Name: "Margin %", Numerator: MeasureMargin, Denominator: MeasureRevenue},
}

// Catalog is the ordered, duplicate-free list of metrics for a working set.
// Base measures come first in first-seen order, then ratios in definition order.
type Catalog struct {
	metrics []Metric
	index   map[string]int
}

// BuildCatalog derives the catalog from retained rows. A ratio is included only
// when both its numerator and denominator appear in at least one row.
func BuildCatalog(rows []Row, order []string, ratios []RatioDef) Catalog {
	present := map[string]bool{}
	for _, r := range rows {
		for name := range r.Measures {
			present[name] = true
		}
	}
	c := Catalog{index: map[string]int{}}
	for _, name := range order {
		if present[name] {
			c.add(Metric{Name: name, Kind: KindBase})
		}
	}
	// measures missing from order (rows built by hand) are appended sorted
	for _, name := range sortedKeys(present) {
		c.add(Metric{Name: name, Kind: KindBase})
	}
	for _, def := range ratios {
		if def.Name == "" || !present[def.Numerator] || !present[def.Denominator] {
			continue
		}
		c.add(Metric{Name: def.Name, Kind: KindRatio, Numerator: def.Numerator, Denominator: def.Denominator})
	}
	return c
}

func (c *Catalog) add(m Metric) {
	if _, dup := c.index[m.Name]; dup {
		return
	}
	c.index[m.Name] = len(c.metrics)
	c.metrics = append(c.metrics, m)
}

// Metrics returns a copy of every metric in catalog order.
func (c Catalog) Metrics() []Metric {
	return append([]Metric(nil), c.metrics...)
}

// Names lists metric names in catalog order.
func (c Catalog) Names() []string {
	out := make([]string, len(c.metrics))
	for i, m := range c.metrics {
		out[i] = m.Name
	}
	return out
}

// Base lists the summable measures.
func (c Catalog) Base() []Metric { return c.filter(KindBase) }

// Ratios lists the derived metrics.
func (c Catalog) Ratios() []Metric { return c.filter(KindRatio) }

func (c Catalog) filter(k MetricKind) []Metric {
	var out []Metric
	for _, m := range c.metrics {
		if m.Kind == k {
			out = append(out, m)
		}
	}
	return out
}

// Lookup finds a metric by exact name.
func (c Catalog) Lookup(name string) (Metric, bool) {
	i, ok := c.index[name]
	if !ok {
		return Metric{}, false
	}
	return c.metrics[i], true
}

// Has reports whether name is selectable.
func (c Catalog) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Len is the number of metrics.
func (c Catalog) Len() int { return len(c.metrics) }

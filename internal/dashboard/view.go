package dashboard

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/drilldown-cli/internal/aggregate"
	"github.com/KaramelBytes/drilldown-cli/internal/dataset"
	"github.com/KaramelBytes/drilldown-cli/internal/drill"
	"github.com/KaramelBytes/drilldown-cli/internal/encode"
)

// View is everything a renderer needs for one screen. It is rebuilt from the
// State on every call and serializes cleanly to JSON and YAML.
type View struct {
	DatasetID   string        `json:"dataset_id" yaml:"dataset_id"`
	Name        string        `json:"name" yaml:"name"`
	State       string        `json:"state" yaml:"state"`
	Path        []string      `json:"path" yaml:"path"`
	Breadcrumbs []drill.Crumb `json:"breadcrumbs" yaml:"breadcrumbs"`
	// Field is the grouping field; empty at leaf level.
	Field   string          `json:"field,omitempty" yaml:"field,omitempty"`
	Metric  string          `json:"metric" yaml:"metric"`
	Metrics []string        `json:"metrics" yaml:"metrics"`
	Records []encode.Record `json:"records" yaml:"records"`
	// Leaf carries row detail, index-aligned with Records, at leaf level.
	Leaf     []LeafRow                `json:"leaf,omitempty" yaml:"leaf,omitempty"`
	Totals   map[string]encode.Number `json:"totals" yaml:"totals"`
	Filtered int                      `json:"filtered" yaml:"filtered"`
	Dropped  int                      `json:"dropped" yaml:"dropped"`

	scheme  encode.Scheme
	catalog dataset.Catalog
}

// LeafRow is one source row shown at the leaf level.
type LeafRow struct {
	SKUCode        string                   `json:"sku_code,omitempty" yaml:"sku_code,omitempty"`
	SKUDescription string                   `json:"sku_description,omitempty" yaml:"sku_description,omitempty"`
	Item           string                   `json:"item" yaml:"item"`
	Measures       map[string]encode.Number `json:"measures" yaml:"measures"`
}

// IsLeaf reports whether the view lists rows rather than groups.
func (v View) IsLeaf() bool { return len(v.Path) >= drill.MaxDepth }

// View aggregates the current level and encodes it for the selected metric.
func (s State) View() View {
	res := s.aggregate()
	v := View{
		DatasetID:   s.ds.ID,
		Name:        s.ds.Name,
		State:       s.path.State().String(),
		Path:        s.path.Values(),
		Breadcrumbs: s.path.Breadcrumbs(),
		Field:       string(res.Field),
		Metric:      s.metric,
		Metrics:     s.ds.Catalog.Names(),
		Totals:      encode.Numbers(res.Totals.Metrics()),
		Filtered:    res.Filtered,
		Dropped:     s.ds.Dropped,
		scheme:      s.scheme,
		catalog:     s.ds.Catalog,
	}
	metric, ok := s.ds.Catalog.Lookup(s.metric)
	if !ok {
		metric = dataset.Metric{Name: s.metric, Kind: dataset.KindBase}
	}

	buckets := res.Buckets
	if res.IsLeaf() {
		buckets = make([]aggregate.Bucket, len(res.Leaf))
		v.Leaf = make([]LeafRow, len(res.Leaf))
		for i, r := range res.Leaf {
			buckets[i] = aggregate.Summarize(rowLabel(r), []dataset.Row{r}, s.ds.Catalog)
			v.Leaf[i] = LeafRow{
				SKUCode:        r.SKUCode,
				SKUDescription: r.SKUDescription,
				Item:           r.Item,
				Measures:       encode.Numbers(r.Measures),
			}
		}
	}
	v.Records = encode.Encode(buckets, metric, s.scheme)
	return v
}

func rowLabel(r dataset.Row) string {
	switch {
	case r.SKUCode != "" && r.SKUDescription != "":
		return r.SKUCode + " " + r.SKUDescription
	case r.SKUDescription != "":
		return r.SKUDescription
	case r.SKUCode != "":
		return r.SKUCode
	}
	return r.Item
}

// Markdown renders the view as a compact report.
func (v View) Markdown() string {
	var b strings.Builder
	b.WriteString("[DRILL VIEW]\n")
	if v.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", v.Name))
	}
	b.WriteString(fmt.Sprintf("Path: %s\n", crumbs(v.Breadcrumbs)))
	if v.Field != "" {
		b.WriteString(fmt.Sprintf("Level: %s (%d groups, %d rows)\n", v.Field, len(v.Records), v.Filtered))
	} else {
		b.WriteString(fmt.Sprintf("Level: rows (%d)\n", v.Filtered))
	}
	if v.Metric == "" {
		b.WriteString("Metric: none (no numeric columns)\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Metric: %s\n\n", v.Metric))

	if len(v.Records) == 0 {
		b.WriteString("(no data)\n")
		return b.String()
	}
	head := v.Field
	if head == "" {
		head = "row"
	}
	b.WriteString(fmt.Sprintf("| %s | %s | rows | color |\n", head, safeName(v.Metric)))
	b.WriteString("|---|---:|---:|---|\n")
	for _, r := range v.Records {
		b.WriteString(fmt.Sprintf("| %s | %s | %d | %s |\n", safeName(r.Name), r.Label, r.Rows, r.Color))
	}

	b.WriteString("\n[TOTALS]\n")
	for _, m := range v.catalog.Metrics() {
		val := float64(v.Totals[m.Name])
		label := encode.CompactLabel(val, v.scheme.Undefined)
		if m.IsRatio() {
			label = encode.PercentLabel(val, v.scheme.Undefined)
		}
		b.WriteString(fmt.Sprintf("- %s: %s\n", m.Name, label))
	}
	if v.Dropped > 0 {
		b.WriteString(fmt.Sprintf("\nNote: %d rows skipped (missing category, sub_category or item)\n", v.Dropped))
	}
	return b.String()
}

func crumbs(cs []drill.Crumb) string {
	labels := make([]string, len(cs))
	for i, c := range cs {
		labels[i] = c.Label
	}
	return strings.Join(labels, " > ")
}

func safeName(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

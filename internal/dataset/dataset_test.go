package dataset

import (
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func raw(pairs ...any) RawRow {
	var r RawRow
	for i := 0; i+1 < len(pairs); i += 2 {
		r = append(r, RawCell{Header: pairs[i].(string), Value: pairs[i+1]})
	}
	return r
}

func TestNormalizeKey(t *testing.T) {
	cases := []struct{ in, want string }{
		{" Sub-Category ", "sub_category"},
		{"SUB_CATEGORY", "sub_category"},
		{"sub   category", "sub_category"},
		{"Transaction -_ Count", "transaction_count"},
		{"SubCategory", "subcategory"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeKey(tc.in); got != tc.want {
			t.Fatalf("NormalizeKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizerResolvesAliases(t *testing.T) {
	n := NewNormalizer(nil)
	cases := map[string]string{
		"Category":        "category",
		"sub-category":    "sub_category",
		"Sub Category":    "sub_category",
		"subcategory":     "sub_category",
		"Item Name":       "item",
		"SKU":             "sku_code",
		"SKU Description": "sku_description",
		"Net Sales":       MeasureRevenue,
		"gross-margin":    MeasureMargin,
		"COGS":            MeasureCost,
		"Transactions":    MeasureTransactionCount,
	}
	for header, want := range cases {
		a, ok := n.Resolve(header)
		if !ok || a.Canonical != want {
			t.Fatalf("Resolve(%q) = %+v,%v want %s", header, a, ok, want)
		}
	}
	if _, ok := n.Resolve("Region"); ok {
		t.Fatalf("Region should not resolve")
	}
}

func TestNormalizerExtraAliases(t *testing.T) {
	n := NewNormalizer(map[string][]string{
		"category": {"Dept Group"},
		"Units":    {"qty", "quantity"},
	})
	if a, ok := n.Resolve("dept-group"); !ok || a.Canonical != "category" || a.Kind != DimensionAlias {
		t.Fatalf("extra dimension alias not applied: %+v %v", a, ok)
	}
	if a, ok := n.Resolve("QTY"); !ok || a.Canonical != "Units" || a.Kind != MeasureAlias {
		t.Fatalf("extra measure alias not applied: %+v %v", a, ok)
	}
}

func TestNormalizeDuplicateMeasureColumns(t *testing.T) {
	n := NewNormalizer(nil)
	row, _ := n.Normalize(raw(
		"Category", "Snacks",
		"Sub Category", "Chips",
		"Item", "Salted",
		"Revenue", "100",
		"Sales", "100",
		"Net Sales", "7",
	))
	if got := row.Measures[MeasureRevenue]; got != 100 {
		t.Fatalf("revenue = %v, want the first column only", got)
	}

	// a blank leftmost column still owns the measure
	row, _ = n.Normalize(raw(
		"Category", "Snacks",
		"Sub Category", "Chips",
		"Item", "Salted",
		"Revenue", "",
		"Sales", "40",
	))
	if _, ok := row.Measures[MeasureRevenue]; ok {
		t.Fatalf("revenue should stay absent: %v", row.Measures)
	}
}

func TestNormalizeRow(t *testing.T) {
	n := NewNormalizer(nil)
	row, heuristic := n.Normalize(raw(
		" Category ", "Snacks",
		"Sub-Category", "Chips",
		"item", "Salted",
		"SKU", 1001,
		"Revenue", "1,200",
		"Margin", "0.25k",
		"Region", "North",
		"Store Count", "4",
		"Notes", "",
	))
	if row.Category != "Snacks" || row.SubCategory != "Chips" || row.Item != "Salted" {
		t.Fatalf("dimensions not mapped: %+v", row)
	}
	if row.SKUCode != "1001" {
		t.Fatalf("numeric sku should render as text, got %q", row.SKUCode)
	}
	want := map[string]float64{MeasureRevenue: 1200, MeasureMargin: 250, "Store Count": 4}
	if !reflect.DeepEqual(row.Measures, want) {
		t.Fatalf("measures = %v, want %v", row.Measures, want)
	}
	if heuristic != 2 {
		t.Fatalf("heuristic cells = %d, want 2", heuristic)
	}
}

func TestLoadDropsIncompleteRowsAndBuildsCatalog(t *testing.T) {
	raws := []RawRow{
		raw("Category", "A", "Sub Category", "X", "Item", "I1", "Revenue", 100, "Margin", 20, "Units", "3"),
		raw("Category", "A", "Sub Category", "", "Item", "I2", "Revenue", 50),
		raw("Category", "B", "Sub Category", "Y", "Item", "I3", "Revenue", "", "Margin", "x"),
		raw("Category", "", "Sub Category", "Y", "Item", "I4", "Revenue", 5),
	}
	ds := Load("sales.csv", raws, WithLogger(zap.NewNop()))
	if len(ds.Rows) != 2 || ds.Dropped != 2 {
		t.Fatalf("rows=%d dropped=%d, want 2/2", len(ds.Rows), ds.Dropped)
	}
	if ds.ID == "" || ds.Name != "sales.csv" {
		t.Fatalf("missing identity: %+v", ds)
	}
	got := ds.Catalog.Names()
	want := []string{MeasureRevenue, MeasureMargin, "Units", "Margin %"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("catalog = %v, want %v", got, want)
	}
	m, ok := ds.Catalog.Lookup("Margin %")
	if !ok || !m.IsRatio() || m.Numerator != MeasureMargin || m.Denominator != MeasureRevenue {
		t.Fatalf("ratio metric = %+v", m)
	}
}

func TestLoadRatioRequiresBothComponents(t *testing.T) {
	ds := Load("t", []RawRow{
		raw("category", "A", "sub_category", "X", "item", "I", "Revenue", 10),
	}, WithRatios([]RatioDef{{Name: "Cost %", Numerator: MeasureCost, Denominator: MeasureRevenue}}))
	if ds.Catalog.Has("Margin %") || ds.Catalog.Has("Cost %") {
		t.Fatalf("ratios without numerator must be excluded: %v", ds.Catalog.Names())
	}
}

func TestLoadZeroRows(t *testing.T) {
	ds := Load("empty", nil)
	if len(ds.Rows) != 0 || ds.Catalog.Len() != 0 {
		t.Fatalf("expected empty dataset, got %+v", ds)
	}
}

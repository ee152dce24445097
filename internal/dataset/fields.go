package dataset

import (
	"regexp"
	"strconv"
	"strings"
)

// Field names a canonical dimension column.
type Field string

const (
	FieldCategory       Field = "category"
	FieldSubCategory    Field = "sub_category"
	FieldItem           Field = "item"
	FieldSKUCode        Field = "sku_code"
	FieldSKUDescription Field = "sku_description"
)

// Canonical measure names.
const (
	MeasureRevenue          = "Revenue"
	MeasureMargin           = "Margin"
	MeasureCost             = "Cost"
	MeasureTransactionCount = "Transaction Count"
)

// AliasKind distinguishes dimension aliases from measure aliases.
type AliasKind int

const (
	DimensionAlias AliasKind = iota
	MeasureAlias
)

// Alias maps one canonical field or measure to its accepted normalized spellings.
type Alias struct {
	Canonical string
	Kind      AliasKind
	Spellings []string
}

// DefaultAliases is matched in order; the first alias listing a key wins.
var DefaultAliases = []Alias{
	{Canonical: string(FieldCategory), Kind: DimensionAlias, Spellings: []string{"category", "cat", "category_name", "product_category", "department"}},
	{Canonical: string(FieldSubCategory), Kind: DimensionAlias, Spellings: []string{"sub_category", "subcategory", "sub_cat", "subcat", "sub_category_name"}},
	{Canonical: string(FieldItem), Kind: DimensionAlias, Spellings: []string{"item", "item_name", "product", "product_name"}},
	{Canonical: string(FieldSKUCode), Kind: DimensionAlias, Spellings: []string{"sku_code", "sku", "sku_id", "sku_no", "sku_number", "item_code"}},
	{Canonical: string(FieldSKUDescription), Kind: DimensionAlias, Spellings: []string{"sku_description", "sku_desc", "sku_name", "description"}},
	{Canonical: MeasureRevenue, Kind: MeasureAlias, Spellings: []string{"revenue", "sales", "net_sales", "total_revenue", "revenue_amount"}},
	{Canonical: MeasureMargin, Kind: MeasureAlias, Spellings: []string{"margin", "gross_margin", "profit", "gross_profit", "margin_amount"}},
	{Canonical: MeasureCost, Kind: MeasureAlias, Spellings: []string{"cost", "cogs", "total_cost", "cost_amount"}},
	{Canonical: MeasureTransactionCount, Kind: MeasureAlias, Spellings: []string{"transaction_count", "transactions", "txn_count", "trans_count", "num_transactions"}},
}

var separatorRun = regexp.MustCompile(`[\s_\-]+`)

// NormalizeKey lower-cases a header and collapses whitespace, underscores and
// hyphens into a single underscore: " Sub-Category " -> "sub_category".
func NormalizeKey(header string) string {
	k := strings.ToLower(strings.TrimSpace(header))
	k = separatorRun.ReplaceAllString(k, "_")
	return strings.Trim(k, "_")
}

// Normalizer maps raw headers onto canonical fields and measures.
type Normalizer struct {
	index map[string]Alias
}

// NewNormalizer builds a Normalizer from DefaultAliases plus optional extra
// spellings keyed by canonical name. Extra spellings for an unknown canonical
// name are registered as a new measure alias.
func NewNormalizer(extra map[string][]string) *Normalizer {
	aliases := make([]Alias, 0, len(DefaultAliases)+len(extra))
	known := map[string]int{}
	for _, a := range DefaultAliases {
		a.Spellings = append([]string(nil), a.Spellings...)
		known[strings.ToLower(a.Canonical)] = len(aliases)
		aliases = append(aliases, a)
	}
	for _, name := range sortedKeys(extra) {
		spellings := extra[name]
		if i, ok := known[strings.ToLower(name)]; ok {
			aliases[i].Spellings = append(aliases[i].Spellings, spellings...)
			continue
		}
		known[strings.ToLower(name)] = len(aliases)
		aliases = append(aliases, Alias{Canonical: name, Kind: MeasureAlias, Spellings: spellings})
	}
	n := &Normalizer{index: make(map[string]Alias)}
	for _, a := range aliases {
		for _, s := range a.Spellings {
			key := NormalizeKey(s)
			if _, taken := n.index[key]; taken || key == "" {
				continue
			}
			n.index[key] = a
		}
	}
	return n
}

// Resolve returns the alias a raw header maps to, if any.
func (n *Normalizer) Resolve(header string) (Alias, bool) {
	a, ok := n.index[NormalizeKey(header)]
	return a, ok
}

// Normalize converts a raw row into a canonical row. Headers that are not
// dimensions become candidate measures; only cells the coercer accepts are kept.
// When several columns map to one measure the leftmost column owns it.
// The second result counts cells that needed separator or suffix handling.
func (n *Normalizer) Normalize(raw RawRow) (Row, int) {
	row := Row{Measures: make(map[string]float64)}
	heuristic := 0
	claimed := make(map[string]bool)
	for _, c := range raw {
		a, ok := n.Resolve(c.Header)
		if ok && a.Kind == DimensionAlias {
			row.setDimension(Field(a.Canonical), cellText(c.Value))
			continue
		}
		name := strings.TrimSpace(c.Header)
		if ok {
			name = a.Canonical
		}
		if name == "" || claimed[name] {
			continue
		}
		claimed[name] = true
		f, isNum := ParseNumber(c.Value)
		if !isNum {
			continue
		}
		if !IsStrictNumber(c.Value) {
			heuristic++
		}
		row.Measures[name] = f
	}
	return row, heuristic
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	}
	if f, ok := typedNumber(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

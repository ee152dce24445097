package dataset

import "sort"

// RawCell is one header/value pair as found in the source table. Value is nil,
// a string, or an already-typed number.
type RawCell struct {
	Header string
	Value  any
}

// RawRow keeps cells in source column order.
type RawRow []RawCell

// Row is a canonical record: fixed dimensions plus finite measures.
type Row struct {
	Category       string             `json:"category" yaml:"category"`
	SubCategory    string             `json:"sub_category" yaml:"sub_category"`
	Item           string             `json:"item" yaml:"item"`
	SKUCode        string             `json:"sku_code,omitempty" yaml:"sku_code,omitempty"`
	SKUDescription string             `json:"sku_description,omitempty" yaml:"sku_description,omitempty"`
	Measures       map[string]float64 `json:"measures" yaml:"measures"`
}

// Dimension returns the value of a canonical dimension field.
func (r Row) Dimension(f Field) string {
	switch f {
	case FieldCategory:
		return r.Category
	case FieldSubCategory:
		return r.SubCategory
	case FieldItem:
		return r.Item
	case FieldSKUCode:
		return r.SKUCode
	case FieldSKUDescription:
		return r.SKUDescription
	}
	return ""
}

// Complete reports whether the row carries all three hierarchy dimensions.
func (r Row) Complete() bool {
	return r.Category != "" && r.SubCategory != "" && r.Item != ""
}

// setDimension keeps the first non-empty value seen for a field.
func (r *Row) setDimension(f Field, v string) {
	if v == "" || r.Dimension(f) != "" {
		return
	}
	switch f {
	case FieldCategory:
		r.Category = v
	case FieldSubCategory:
		r.SubCategory = v
	case FieldItem:
		r.Item = v
	case FieldSKUCode:
		r.SKUCode = v
	case FieldSKUDescription:
		r.SKUDescription = v
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

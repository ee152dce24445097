package source_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/drilldown-cli/internal/dataset"
	"github.com/KaramelBytes/drilldown-cli/internal/source"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestReadFileCSV(t *testing.T) {
	p := writeFile(t, "sales.csv", "Category,Sub Category,Item,SKU,Revenue\n"+
		"Produce,Fruit,Apple,1001,\"1,200\"\n"+
		"\n"+
		"Produce,Fruit,Pear\n")
	tbl, err := source.ReadFile(p, source.Options{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if tbl.Name != "sales.csv" || len(tbl.Headers) != 5 {
		t.Fatalf("unexpected table: %+v", tbl)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("want 2 rows (blank line skipped), got %d", len(tbl.Rows))
	}
	if got := tbl.Rows[0][4].Value; got != "1,200" {
		t.Fatalf("quoted cell = %v", got)
	}
	if tbl.Rows[1][4].Header != "Revenue" || tbl.Rows[1][4].Value != nil {
		t.Fatalf("short row should be padded: %+v", tbl.Rows[1])
	}
}

func TestReadSniffsDelimiter(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"semi.csv", "category;item;revenue\nA;x;1\n"},
		{"tabs.tsv", "category\titem\trevenue\nA\tx\t1\n"},
		{"pipes.txt", "category|item|revenue\nA|x|1\n"},
	}
	for _, tc := range cases {
		tbl, err := source.Read(tc.name, strings.NewReader(tc.content), source.Options{})
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if len(tbl.Headers) != 3 || tbl.Headers[2] != "revenue" {
			t.Fatalf("%s: headers = %q", tc.name, tbl.Headers)
		}
	}
}

func TestReadTSVKeepsEmptyCells(t *testing.T) {
	content := "category\tsub_category\titem\tsku_description\trevenue\n" +
		"A\tX\tI1\t\t100\n" +
		"\tY\tI2\tdesc\t5\n"
	tbl, err := source.Read("t.tsv", strings.NewReader(content), source.Options{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d", len(tbl.Rows))
	}
	first := tbl.Rows[0]
	if first[3].Value != "" || first[4].Header != "revenue" || first[4].Value != "100" {
		t.Fatalf("empty middle cell shifted values: %+v", first)
	}
	second := tbl.Rows[1]
	if second[0].Value != "" || second[1].Value != "Y" || second[4].Value != "5" {
		t.Fatalf("empty leading cell shifted values: %+v", second)
	}

	ds := dataset.Load(tbl.Name, tbl.Rows)
	if ds.Dropped != 1 || len(ds.Rows) != 1 || ds.Rows[0].Measures[dataset.MeasureRevenue] != 100 {
		t.Fatalf("dropped=%d rows=%+v", ds.Dropped, ds.Rows)
	}
}

func TestReadCleansHeaders(t *testing.T) {
	tbl, err := source.Read("x.csv", strings.NewReader("\ufeffcategory, ,revenue\nA,b,1\n"), source.Options{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if tbl.Headers[0] != "category" || tbl.Headers[1] != "Column 2" {
		t.Fatalf("headers = %q", tbl.Headers)
	}
}

func TestReadMaxRows(t *testing.T) {
	tbl, err := source.Read("x.csv", strings.NewReader("a,b\n1,2\n3,4\n5,6\n"), source.Options{MaxRows: 2})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(tbl.Rows) != 2 || !tbl.Truncated {
		t.Fatalf("rows=%d truncated=%v", len(tbl.Rows), tbl.Truncated)
	}
}

func TestReadUnsupported(t *testing.T) {
	_, err := source.Read("notes.pdf", strings.NewReader(""), source.Options{})
	if !errors.Is(err, source.ErrUnsupported) {
		t.Fatalf("want ErrUnsupported, got %v", err)
	}
	var re *source.ReadError
	if !errors.As(err, &re) || re.Name != "notes.pdf" {
		t.Fatalf("want ReadError naming the file, got %v", err)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := source.ReadFile(filepath.Join(t.TempDir(), "nope.csv"), source.Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want not-exist, got %v", err)
	}
}

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet("Sales"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	if err := f.SetSheetRow("Sheet1", "A1", &[]any{"ignored"}); err != nil {
		t.Fatalf("row: %v", err)
	}
	rows := [][]any{
		{"Category", "Sub Category", "Item", "Revenue"},
		{"Produce", "Fruit", "Apple", 1200},
		{"Produce", "Fruit", "Pear", 80.5},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatalf("cell: %v", err)
		}
		if err := f.SetSheetRow("Sales", cell, &r); err != nil {
			t.Fatalf("row: %v", err)
		}
	}
	p := filepath.Join(t.TempDir(), "book.xlsx")
	if err := f.SaveAs(p); err != nil {
		t.Fatalf("save: %v", err)
	}
	return p
}

func TestReadFileXLSX(t *testing.T) {
	p := writeWorkbook(t)
	tbl, err := source.ReadFile(p, source.Options{SheetName: "sales"})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if tbl.Sheet != "Sales" {
		t.Fatalf("sheet = %q", tbl.Sheet)
	}
	if len(tbl.Headers) != 4 || tbl.Headers[3] != "Revenue" {
		t.Fatalf("header should skip the leading blank row: %q", tbl.Headers)
	}
	if len(tbl.Rows) != 2 || tbl.Rows[1][3].Value != "80.5" {
		t.Fatalf("rows = %+v", tbl.Rows)
	}

	byIndex, err := source.ReadFile(p, source.Options{SheetIndex: 2})
	if err != nil || byIndex.Sheet != "Sales" {
		t.Fatalf("index 2 should select Sales: %v %+v", err, byIndex)
	}
}

func TestReadFileXLSXMissingSheet(t *testing.T) {
	p := writeWorkbook(t)
	_, err := source.ReadFile(p, source.Options{SheetName: "Nope"})
	if !errors.Is(err, source.ErrSheetNotFound) {
		t.Fatalf("want ErrSheetNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "Sheet1, Sales") {
		t.Fatalf("error should list available sheets: %v", err)
	}
	if _, err := source.ReadFile(p, source.Options{SheetIndex: 5}); !errors.Is(err, source.ErrSheetNotFound) {
		t.Fatalf("want ErrSheetNotFound for index, got %v", err)
	}
}

// Package source tokenizes tabular files into raw rows for the dataset loader.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/drilldown-cli/internal/dataset"
)

// Options controls how a source table is read.
type Options struct {
	// Delimiter for CSV-like files. If 0, sniffs among ',', ';', '\t', '|'.
	Delimiter rune
	// SheetName selects an XLSX sheet; empty falls back to SheetIndex.
	SheetName string
	// SheetIndex is 1-based; <= 0 means the first sheet.
	SheetIndex int
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
}

// Table is a tokenized source: headers plus one raw row per data line.
type Table struct {
	Name    string
	Sheet   string
	Headers []string
	Rows    []dataset.RawRow
	// Truncated is set when MaxRows stopped the read early.
	Truncated bool
}

// Reader tokenizes one file format.
type Reader interface {
	CanRead(name string) bool
	Read(r io.Reader, opt Options) (*Table, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// ErrUnsupported indicates a format no registered reader accepts.
var ErrUnsupported = errors.New("unsupported table format")

// ErrSheetNotFound indicates the requested XLSX sheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// ReadError wraps a failure while reading a named source.
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Name, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// ReadFile opens path and tokenizes it with the first matching reader.
// A path of "-" reads CSV from stdin.
func ReadFile(path string, opt Options) (*Table, error) {
	if path == "-" {
		return Read("stdin.csv", os.Stdin, opt)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Name: path, Err: err}
	}
	defer f.Close()
	t, err := Read(filepath.Base(path), f, opt)
	if err != nil {
		var re *ReadError
		if errors.As(err, &re) {
			re.Name = path
		}
		return nil, err
	}
	return t, nil
}

// Read tokenizes r, choosing a reader by the file name's extension.
func Read(name string, r io.Reader, opt Options) (*Table, error) {
	for _, rd := range registry {
		if !rd.CanRead(name) {
			continue
		}
		t, err := rd.Read(r, opt)
		if err != nil {
			return nil, &ReadError{Name: name, Err: err}
		}
		t.Name = name
		return t, nil
	}
	return nil, &ReadError{Name: name, Err: ErrUnsupported}
}

// rowsFromRecords pairs each record with the header; short records are padded
// with nil cells and extra trailing cells are ignored.
func rowsFromRecords(header []string, records [][]string, maxRows int) ([]dataset.RawRow, bool) {
	rows := make([]dataset.RawRow, 0, len(records))
	for _, rec := range records {
		if maxRows > 0 && len(rows) >= maxRows {
			return rows, true
		}
		if blank(rec) {
			continue
		}
		row := make(dataset.RawRow, len(header))
		for i, h := range header {
			row[i].Header = h
			if i < len(rec) {
				row[i].Value = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, false
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Column %d", i+1)
		}
		out[i] = h
	}
	return out
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}

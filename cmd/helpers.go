package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/drilldown-cli/internal/bookmark"
	"github.com/KaramelBytes/drilldown-cli/internal/dashboard"
	"github.com/KaramelBytes/drilldown-cli/internal/dataset"
	"github.com/KaramelBytes/drilldown-cli/internal/encode"
	"github.com/KaramelBytes/drilldown-cli/internal/logging"
	"github.com/KaramelBytes/drilldown-cli/internal/source"
	"github.com/KaramelBytes/drilldown-cli/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// inputFlags are the source options shared by every command that reads a table.
type inputFlags struct {
	sheetName  string
	sheetIndex int
	delimiter  string
	maxRows    int
}

func addInputFlags(c *cobra.Command, f *inputFlags) {
	c.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	c.Flags().IntVar(&f.sheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (default from config)")
	c.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (default: sniff)")
	c.Flags().IntVar(&f.maxRows, "max-rows", 0, "stop after N data rows (0 = config default, unlimited)")
}

func (f inputFlags) options() (source.Options, error) {
	opt := source.Options{SheetName: f.sheetName, SheetIndex: f.sheetIndex, MaxRows: f.maxRows}
	if cfg != nil {
		if opt.SheetIndex == 0 {
			opt.SheetIndex = cfg.SheetIndex
		}
		if opt.MaxRows == 0 {
			opt.MaxRows = cfg.MaxRows
		}
	}
	d, err := parseDelimiter(f.delimiter)
	if err != nil {
		return opt, err
	}
	opt.Delimiter = d
	return opt, nil
}

func parseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	case "\t", "tab":
		return '\t', nil
	}
	return 0, fmt.Errorf("unsupported --delimiter: %s", s)
}

// loadDataset reads and normalizes a table using configured aliases and ratios.
func loadDataset(path string, opt source.Options) (*dataset.Dataset, error) {
	tbl, err := source.ReadFile(path, opt)
	if err != nil {
		return nil, err
	}
	var opts []dataset.Option
	opts = append(opts, dataset.WithLogger(logging.L()))
	if cfg != nil {
		opts = append(opts, dataset.WithAliases(cfg.Aliases), dataset.WithRatios(cfg.RatioMetrics))
	}
	ds := dataset.Load(tbl.Name, tbl.Rows, opts...)
	if tbl.Truncated {
		logging.L().Warn("input truncated", zap.String("file", path), zap.Int("max_rows", opt.MaxRows))
	}
	if ds.Dropped > 0 {
		logging.L().Info("rows skipped without category, sub_category or item",
			zap.String("file", path), zap.Int("dropped", ds.Dropped))
	}
	return ds, nil
}

// newState opens a session, applying a requested metric. An unknown metric is
// logged and the configured default stays selected.
func newState(ds *dataset.Dataset, metric string) dashboard.State {
	var s dashboard.State
	if cfg != nil {
		s = dashboard.New(ds, cfg.DefaultMetric, cfg.Colors)
	} else {
		s = dashboard.New(ds, dataset.MeasureRevenue, encode.DefaultScheme())
	}
	if metric == "" {
		return s
	}
	next, err := s.SelectMetric(metric)
	if err != nil {
		logging.L().Warn("metric ignored", zap.String("metric", metric), zap.Error(err))
		return s
	}
	return next
}

// openPosition loads a file and moves to path, the shared start of view/chart.
func openPosition(path string, in inputFlags, drillPath []string, metric string) (dashboard.State, error) {
	opt, err := in.options()
	if err != nil {
		return dashboard.State{}, err
	}
	ds, err := loadDataset(path, opt)
	if err != nil {
		return dashboard.State{}, err
	}
	s := newState(ds, metric)
	if len(drillPath) > 0 {
		s, err = s.Goto(drillPath...)
		if err != nil {
			return dashboard.State{}, fmt.Errorf("path %s: %w", strings.Join(drillPath, " > "), err)
		}
	}
	return s, nil
}

// applyBookmark fills empty position arguments from a saved bookmark.
func applyBookmark(ref string, file *string, in *inputFlags, drillPath *[]string, metric *string) error {
	store, err := openBookmarks()
	if err != nil {
		return err
	}
	b, err := store.Get(ref)
	if err != nil {
		return err
	}
	if *file == "" {
		*file = b.File
	}
	if in.sheetName == "" {
		in.sheetName = b.Sheet
	}
	if in.sheetIndex == 0 {
		in.sheetIndex = b.SheetIndex
	}
	if len(*drillPath) == 0 {
		*drillPath = b.Path
	}
	if *metric == "" {
		*metric = b.Metric
	}
	return nil
}

func openBookmarks() (*bookmark.Store, error) {
	p := ""
	if cfg != nil {
		p = cfg.BookmarksFile
	}
	if p == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		p = filepath.Join(home, ".drilldown", "bookmarks.json")
	}
	p, err := utils.ExpandHome(p)
	if err != nil {
		return nil, err
	}
	return bookmark.Open(p)
}

// saveBookmarks persists the store and logs where it went.
func saveBookmarks(store *bookmark.Store) error {
	if err := store.Save(); err != nil {
		return err
	}
	logging.L().Debug("bookmarks saved", zap.String("file", store.Path()), zap.Int("count", len(store.Bookmarks)))
	return nil
}

// writeView renders v as markdown, json or yaml.
func writeView(w io.Writer, v dashboard.View, format string) error {
	switch strings.ToLower(format) {
	case "", "markdown", "md":
		_, err := io.WriteString(w, v.Markdown())
		return err
	case "json":
		b, err := utils.PrettyJSON(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported --format: %s (use markdown|json|yaml)", format)
}

// errorLine prints a non-fatal error in the interactive shell.
func errorLine(w io.Writer, err error) {
	var ume *dashboard.UnknownMetricError
	if errors.As(err, &ume) {
		logging.L().Warn("metric ignored", zap.String("metric", ume.Name))
	}
	fmt.Fprintln(w, "✗", err)
}

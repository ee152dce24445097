package dataset

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dataset is an immutable working set produced by one load. A new source table
// always produces a new Dataset; rows are never patched in place.
type Dataset struct {
	ID       string
	Name     string
	LoadedAt time.Time
	Rows     []Row
	Catalog  Catalog
	// Dropped counts raw rows missing category, sub_category or item.
	Dropped int
	// Heuristic counts cells that were only numeric after separator/suffix handling.
	Heuristic int
}

// Option configures Load.
type Option func(*loadConfig)

type loadConfig struct {
	aliases map[string][]string
	ratios  []RatioDef
	logger  *zap.Logger
}

// WithAliases adds header spellings on top of DefaultAliases.
func WithAliases(extra map[string][]string) Option {
	return func(c *loadConfig) { c.aliases = extra }
}

// WithRatios appends ratio definitions after DefaultRatios.
func WithRatios(defs []RatioDef) Option {
	return func(c *loadConfig) { c.ratios = append(c.ratios, defs...) }
}

// WithLogger routes load diagnostics to l.
func WithLogger(l *zap.Logger) Option {
	return func(c *loadConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Load normalizes raw rows into a Dataset. Incomplete rows are dropped
// silently; zero rows yield an empty Dataset with an empty catalog.
func Load(name string, raws []RawRow, opts ...Option) *Dataset {
	cfg := &loadConfig{
		ratios: append([]RatioDef(nil), DefaultRatios...),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	norm := NewNormalizer(cfg.aliases)

	ds := &Dataset{
		ID:       uuid.NewString(),
		Name:     name,
		LoadedAt: time.Now(),
		Rows:     make([]Row, 0, len(raws)),
	}
	var order []string
	seen := map[string]bool{}
	for _, raw := range raws {
		row, heuristic := norm.Normalize(raw)
		if !row.Complete() {
			ds.Dropped++
			continue
		}
		ds.Heuristic += heuristic
		for _, c := range raw {
			m := measureName(norm, c.Header)
			if _, ok := row.Measures[m]; ok && !seen[m] {
				seen[m] = true
				order = append(order, m)
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	ds.Catalog = BuildCatalog(ds.Rows, order, cfg.ratios)

	cfg.logger.Debug("dataset loaded",
		zap.String("id", ds.ID),
		zap.String("name", name),
		zap.Int("rows", len(ds.Rows)),
		zap.Int("dropped", ds.Dropped),
		zap.Int("heuristic_cells", ds.Heuristic),
		zap.Strings("metrics", ds.Catalog.Names()),
	)
	return ds
}

func measureName(n *Normalizer, header string) string {
	if a, ok := n.Resolve(header); ok {
		return a.Canonical
	}
	return strings.TrimSpace(header)
}

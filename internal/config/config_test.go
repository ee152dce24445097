package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DefaultMetric != "Revenue" || c.SheetIndex != 1 || c.LogLevel != "warn" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.Colors.Positive == "" || c.Colors.Undefined != "n/a" {
		t.Fatalf("color defaults not applied: %+v", c.Colors)
	}
	if want := filepath.Join(home, ".drilldown", "bookmarks.json"); c.BookmarksFile != want {
		t.Fatalf("bookmarks file = %q, want %q", c.BookmarksFile, want)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	content := `default_metric: Margin
aliases:
  category:
    - dept group
ratio_metrics:
  - name: Cost %
    numerator: Cost
    denominator: Revenue
colors:
  positive: "#00ff00"
`
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("DRILLDOWN_LOG_LEVEL", "debug")

	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DefaultMetric != "Margin" {
		t.Fatalf("file value lost: %q", c.DefaultMetric)
	}
	if c.LogLevel != "debug" {
		t.Fatalf("env should override: %q", c.LogLevel)
	}
	if len(c.Aliases["category"]) != 1 || c.Aliases["category"][0] != "dept group" {
		t.Fatalf("aliases = %+v", c.Aliases)
	}
	if len(c.RatioMetrics) != 1 || c.RatioMetrics[0].Numerator != "Cost" {
		t.Fatalf("ratios = %+v", c.RatioMetrics)
	}
	if c.Colors.Positive != "#00ff00" {
		t.Fatalf("colors = %+v", c.Colors)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "out.yaml")
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c.DefaultMetric = "Cost"
	c.MaxRows = 50
	if err := Save(c, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(p)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.DefaultMetric != "Cost" || got.MaxRows != 50 {
		t.Fatalf("round trip lost values: %+v", got)
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/drilldown-cli/internal/dataset"
	"github.com/KaramelBytes/drilldown-cli/internal/encode"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DefaultMetric string `mapstructure:"default_metric" yaml:"default_metric"`
	// RatioMetrics are derived on top of the built-in Margin %.
	RatioMetrics []dataset.RatioDef `mapstructure:"ratio_metrics" yaml:"ratio_metrics"`
	// Aliases maps a canonical field or measure to extra header spellings.
	Aliases map[string][]string `mapstructure:"aliases" yaml:"aliases"`
	Colors  encode.Scheme       `mapstructure:"colors" yaml:"colors"`

	// Input defaults
	SheetIndex int `mapstructure:"sheet_index" yaml:"sheet_index"`
	MaxRows    int `mapstructure:"max_rows" yaml:"max_rows"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	BookmarksFile string `mapstructure:"bookmarks_file" yaml:"bookmarks_file"`
}

// Keys lists the scalar settings accepted by `config set`.
var Keys = []string{"default_metric", "sheet_index", "max_rows", "log_level", "log_format", "bookmarks_file"}

// Dir returns ~/.drilldown.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".drilldown"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.drilldown/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DRILLDOWN")
	v.AutomaticEnv()

	def := encode.DefaultScheme()
	v.SetDefault("default_metric", dataset.MeasureRevenue)
	v.SetDefault("sheet_index", 1)
	v.SetDefault("max_rows", 0)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")
	v.SetDefault("colors.positive", def.Positive)
	v.SetDefault("colors.negative", def.Negative)
	v.SetDefault("colors.neutral", def.Neutral)
	v.SetDefault("colors.gradient_low", def.GradientLow)
	v.SetDefault("colors.gradient_high", def.GradientHigh)
	v.SetDefault("colors.undefined_label", def.Undefined)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve bookmarks_file default: ~/.drilldown/bookmarks.json
	if c.BookmarksFile == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.BookmarksFile = filepath.Join(dir, "bookmarks.json")
	}
	return &c, nil
}

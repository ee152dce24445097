package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/drilldown-cli/internal/config"
	"github.com/KaramelBytes/drilldown-cli/internal/dataset"
	"github.com/KaramelBytes/drilldown-cli/internal/encode"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Drilldown configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "default_metric: %s\n", cfg.DefaultMetric)
		fmt.Fprintf(out, "sheet_index: %d\n", cfg.SheetIndex)
		if cfg.MaxRows > 0 {
			fmt.Fprintf(out, "max_rows: %d\n", cfg.MaxRows)
		}
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		fmt.Fprintf(out, "bookmarks_file: %s\n", cfg.BookmarksFile)
		c := cfg.Colors.WithDefaults()
		fmt.Fprintf(out, "colors: positive=%s negative=%s neutral=%s gradient=%s..%s undefined=%q\n",
			c.Positive, c.Negative, c.Neutral, c.GradientLow, c.GradientHigh, c.Undefined)
		for _, r := range append(append([]dataset.RatioDef(nil), dataset.DefaultRatios...), cfg.RatioMetrics...) {
			fmt.Fprintf(out, "ratio: %s = %s / %s\n", r.Name, r.Numerator, r.Denominator)
		}
		keys := make([]string, 0, len(cfg.Aliases))
		for k := range cfg.Aliases {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "alias: %s <- %s\n", k, strings.Join(cfg.Aliases[k], ", "))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long:  "Keys: " + strings.Join(cfgpkg.Keys, ", ") + ", colors.<positive|negative|neutral|gradient_low|gradient_high|undefined_label>",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if err := ensureConfig(); err != nil {
			return err
		}
		switch key {
		case "default_metric":
			cfg.DefaultMetric = val
		case "sheet_index":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for sheet_index: %v", val)
			}
			cfg.SheetIndex = i
		case "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_rows: %v", val)
			}
			cfg.MaxRows = i
		case "log_level":
			switch val {
			case "debug", "info", "warn", "error":
				cfg.LogLevel = val
			default:
				return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
			}
		case "log_format":
			switch val {
			case "console", "json":
				cfg.LogFormat = val
			default:
				return fmt.Errorf("invalid log_format: %s (use console or json)", val)
			}
		case "bookmarks_file":
			cfg.BookmarksFile = val
		default:
			color, ok := strings.CutPrefix(key, "colors.")
			if !ok {
				return fmt.Errorf("unknown key: %s", key)
			}
			if err := setColor(&cfg.Colors, color, val); err != nil {
				return err
			}
		}
		return saveConfig(cmd)
	},
}

var configAliasCmd = &cobra.Command{
	Use:   "add-alias <canonical> <spelling>...",
	Short: "Map extra header spellings to a field or measure",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfig(); err != nil {
			return err
		}
		if cfg.Aliases == nil {
			cfg.Aliases = map[string][]string{}
		}
		cfg.Aliases[args[0]] = append(cfg.Aliases[args[0]], args[1:]...)
		return saveConfig(cmd)
	},
}

var configRatioCmd = &cobra.Command{
	Use:   "add-ratio <name> <numerator> <denominator>",
	Short: "Define a ratio metric as numerator / denominator x 100",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfig(); err != nil {
			return err
		}
		for _, r := range cfg.RatioMetrics {
			if strings.EqualFold(r.Name, args[0]) {
				return fmt.Errorf("ratio %q already defined", args[0])
			}
		}
		cfg.RatioMetrics = append(cfg.RatioMetrics, dataset.RatioDef{Name: args[0], Numerator: args[1], Denominator: args[2]})
		return saveConfig(cmd)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetCmd, configAliasCmd, configRatioCmd)
}

func ensureConfig() error {
	if cfg != nil {
		return nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

func saveConfig(cmd *cobra.Command) error {
	if err := cfgpkg.Save(cfg, cfgFile); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
	return nil
}

func setColor(s *encode.Scheme, name, val string) error {
	if name != "undefined_label" && !strings.HasPrefix(val, "#") {
		return fmt.Errorf("invalid color %q (use #rrggbb)", val)
	}
	switch name {
	case "positive":
		s.Positive = val
	case "negative":
		s.Negative = val
	case "neutral":
		s.Neutral = val
	case "gradient_low":
		s.GradientLow = val
	case "gradient_high":
		s.GradientHigh = val
	case "undefined_label":
		s.Undefined = val
	default:
		return fmt.Errorf("unknown color key: %s", name)
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/drilldown-cli/internal/config"
	"github.com/KaramelBytes/drilldown-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "drilldown",
	Short: "Drilldown CLI: explore sales tables category by category",
	Long: `Drilldown loads a CSV/TSV/XLSX sales table, normalizes its headers and numbers,
and lets you walk the category > sub-category > item hierarchy with every level
summed and color-encoded for the metric you choose.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.drilldown/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{}
	}
	cfg = c

	lc := logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: "stderr"}
	if debug {
		lc.Level = "debug"
	}
	if rootCmd.PersistentFlags().Changed("log-format") {
		lc.Format = logFormat
	}
	if err := logging.Initialize(lc); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: logging setup failed: %v\n", err)
		_ = logging.Initialize(logging.DefaultConfig())
	}
}

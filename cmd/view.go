package cmd

import (
	"bytes"
	"fmt"

	"github.com/KaramelBytes/drilldown-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	viewInput    inputFlags
	viewPath     []string
	viewMetric   string
	viewFormat   string
	viewOutput   string
	viewBookmark string
)

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Show one drill level of a table, summed and color-encoded",
	Example: `  drilldown view sales.csv
  drilldown view sales.xlsx --sheet-name Q1 --path Produce --path Fruit --metric "Margin %"
  drilldown view --bookmark fruit --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := ""
		if len(args) == 1 {
			file = args[0]
		}
		in, path, metric := viewInput, viewPath, viewMetric
		if viewBookmark != "" {
			if err := applyBookmark(viewBookmark, &file, &in, &path, &metric); err != nil {
				return err
			}
		}
		if file == "" {
			return fmt.Errorf("a file argument or --bookmark is required")
		}
		s, err := openPosition(file, in, path, metric)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := writeView(&buf, s.View(), viewFormat); err != nil {
			return err
		}
		if viewOutput != "" {
			out, err := utils.ExpandHome(viewOutput)
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(out, buf.Bytes()); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote view to %s\n", out)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
	addInputFlags(viewCmd, &viewInput)
	viewCmd.Flags().StringArrayVar(&viewPath, "path", nil, "drill value, repeat per level: category, sub-category, item")
	viewCmd.Flags().StringVarP(&viewMetric, "metric", "m", "", "metric to encode (default from config)")
	viewCmd.Flags().StringVarP(&viewFormat, "format", "f", "markdown", "output format: markdown|json|yaml")
	viewCmd.Flags().StringVarP(&viewOutput, "output", "o", "", "write to file instead of stdout")
	viewCmd.Flags().StringVar(&viewBookmark, "bookmark", "", "start from a saved bookmark (name or id)")
}

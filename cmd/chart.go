package cmd

import (
	"bytes"
	"fmt"

	"github.com/KaramelBytes/drilldown-cli/internal/chart"
	"github.com/KaramelBytes/drilldown-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	chartInput    inputFlags
	chartPath     []string
	chartMetric   string
	chartOut      string
	chartBookmark string
	chartWidth    int
	chartHeight   int
)

var chartCmd = &cobra.Command{
	Use:   "chart [file]",
	Short: "Render the current drill level as a PNG bar chart",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := ""
		if len(args) == 1 {
			file = args[0]
		}
		in, path, metric := chartInput, chartPath, chartMetric
		if chartBookmark != "" {
			if err := applyBookmark(chartBookmark, &file, &in, &path, &metric); err != nil {
				return err
			}
		}
		if file == "" {
			return fmt.Errorf("a file argument or --bookmark is required")
		}
		if chartOut == "" {
			return fmt.Errorf("--out is required")
		}
		s, err := openPosition(file, in, path, metric)
		if err != nil {
			return err
		}
		v := s.View()
		title := fmt.Sprintf("%s by %s", v.Metric, v.Field)
		if v.IsLeaf() {
			title = fmt.Sprintf("%s: %s", v.Metric, s.Path().String())
		}

		var buf bytes.Buffer
		if err := chart.WritePNG(&buf, v.Records, chart.Options{Title: title, Width: chartWidth, Height: chartHeight}); err != nil {
			return err
		}
		out, err := utils.ExpandHome(chartOut)
		if err != nil {
			return err
		}
		if err := utils.SafeWriteFile(out, buf.Bytes()); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote chart to %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	addInputFlags(chartCmd, &chartInput)
	chartCmd.Flags().StringArrayVar(&chartPath, "path", nil, "drill value, repeat per level")
	chartCmd.Flags().StringVarP(&chartMetric, "metric", "m", "", "metric to chart (default from config)")
	chartCmd.Flags().StringVar(&chartOut, "out", "", "PNG output path")
	chartCmd.Flags().StringVar(&chartBookmark, "bookmark", "", "start from a saved bookmark (name or id)")
	chartCmd.Flags().IntVar(&chartWidth, "width", 1024, "image width in pixels")
	chartCmd.Flags().IntVar(&chartHeight, "height", 512, "image height in pixels")
}

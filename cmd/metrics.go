package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var metricsInput inputFlags

var metricsCmd = &cobra.Command{
	Use:   "metrics <file>",
	Short: "List the metrics available in a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := metricsInput.options()
		if err != nil {
			return err
		}
		ds, err := loadDataset(args[0], opt)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d rows", ds.Name, len(ds.Rows))
		if ds.Dropped > 0 {
			fmt.Fprintf(out, " (%d skipped)", ds.Dropped)
		}
		fmt.Fprintln(out)
		if ds.Catalog.Len() == 0 {
			fmt.Fprintln(out, "(no metrics)")
			return nil
		}
		for _, m := range ds.Catalog.Metrics() {
			if m.IsRatio() {
				fmt.Fprintf(out, "- %s (ratio: %s / %s)\n", m.Name, m.Numerator, m.Denominator)
				continue
			}
			fmt.Fprintf(out, "- %s\n", m.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
	addInputFlags(metricsCmd, &metricsInput)
}

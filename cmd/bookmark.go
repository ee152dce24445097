package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/drilldown-cli/internal/bookmark"
	"github.com/spf13/cobra"
)

var (
	bmInput  inputFlags
	bmPath   []string
	bmMetric string
)

var bookmarkCmd = &cobra.Command{
	Use:     "bookmark",
	Aliases: []string{"bm"},
	Short:   "Save and manage drill positions",
}

var bookmarkAddCmd = &cobra.Command{
	Use:   "add <name> <file>",
	Short: "Bookmark a file position (validated against the data)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, file := args[0], args[1]
		s, err := openPosition(file, bmInput, bmPath, bmMetric)
		if err != nil {
			return err
		}
		store, err := openBookmarks()
		if err != nil {
			return err
		}
		b, err := store.Add(bookmark.Bookmark{
			Name:       name,
			File:       absPath(file),
			Sheet:      bmInput.sheetName,
			SheetIndex: bmInput.sheetIndex,
			Path:       s.Path().Values(),
			Metric:     s.Metric(),
		})
		if err != nil {
			return err
		}
		if err := saveBookmarks(store); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved bookmark %s (%s)\n", b.Name, b.ID)
		return nil
	},
}

var bookmarkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarks",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openBookmarks()
		if err != nil {
			return err
		}
		list := store.List()
		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "(no bookmarks)")
			return nil
		}
		for _, b := range list {
			where := strings.Join(append([]string{"All"}, b.Path...), " > ")
			fmt.Fprintf(out, "- %s [%s]: %s @ %s", b.Name, b.ShortID(), filepath.Base(b.File), where)
			if b.Metric != "" {
				fmt.Fprintf(out, " (%s)", b.Metric)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

var bookmarkRemoveCmd = &cobra.Command{
	Use:     "remove <name|id>",
	Aliases: []string{"rm"},
	Short:   "Delete a bookmark",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openBookmarks()
		if err != nil {
			return err
		}
		if err := store.Remove(args[0]); err != nil {
			return err
		}
		if err := saveBookmarks(store); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed bookmark %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bookmarkCmd)
	bookmarkCmd.AddCommand(bookmarkAddCmd, bookmarkListCmd, bookmarkRemoveCmd)
	addInputFlags(bookmarkAddCmd, &bmInput)
	bookmarkAddCmd.Flags().StringArrayVar(&bmPath, "path", nil, "drill value, repeat per level")
	bookmarkAddCmd.Flags().StringVarP(&bmMetric, "metric", "m", "", "metric to store with the bookmark")
}

func absPath(p string) string {
	if p == "-" {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

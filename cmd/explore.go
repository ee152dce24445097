package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KaramelBytes/drilldown-cli/internal/bookmark"
	"github.com/KaramelBytes/drilldown-cli/internal/dashboard"
	"github.com/spf13/cobra"
)

var (
	exploreInput    inputFlags
	exploreMetric   string
	exploreBookmark string
)

const exploreHelp = `commands:
  ls                 show the current level
  cd <name>          drill into a group
  up                 go back one level
  top                jump to the root
  jump <k>           jump to breadcrumb k (0 = All)
  metric <name>      encode a different metric
  metrics            list metrics
  open <file>        load another table (returns to the root)
  save <name>        bookmark the current position
  quit               leave`

var exploreCmd = &cobra.Command{
	Use:   "explore [file]",
	Short: "Walk the hierarchy interactively",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := ""
		if len(args) == 1 {
			file = args[0]
		}
		in, metric := exploreInput, exploreMetric
		var path []string
		if exploreBookmark != "" {
			if err := applyBookmark(exploreBookmark, &file, &in, &path, &metric); err != nil {
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
		sh := &shell{state: s, file: file, input: in, out: cmd.OutOrStdout()}
		return sh.run(cmd.InOrStdin())
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	addInputFlags(exploreCmd, &exploreInput)
	exploreCmd.Flags().StringVarP(&exploreMetric, "metric", "m", "", "initial metric (default from config)")
	exploreCmd.Flags().StringVar(&exploreBookmark, "bookmark", "", "start from a saved bookmark (name or id)")
}

// shell is the explore loop. Every command replaces state with a new value;
// failed commands leave it as it was.
type shell struct {
	state dashboard.State
	file  string
	input inputFlags
	out   io.Writer
}

func (sh *shell) run(r io.Reader) error {
	sh.show()
	sc := bufio.NewScanner(r)
	for {
		fmt.Fprint(sh.out, "drilldown> ")
		if !sc.Scan() {
			fmt.Fprintln(sh.out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		verb, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		if verb == "quit" || verb == "exit" || verb == "q" {
			return nil
		}
		if err := sh.exec(verb, arg); err != nil {
			errorLine(sh.out, err)
		}
	}
}

func (sh *shell) exec(verb, arg string) error {
	var (
		next dashboard.State
		err  error
	)
	switch verb {
	case "ls", "show":
		sh.show()
		return nil
	case "help", "?":
		fmt.Fprintln(sh.out, exploreHelp)
		return nil
	case "cd":
		if arg == ".." {
			next, err = sh.state.Ascend()
		} else {
			next, err = sh.state.Descend(arg)
		}
	case "up", "..":
		next, err = sh.state.Ascend()
	case "top", "root":
		next = sh.state.ResetToRoot()
	case "jump":
		k, convErr := strconv.Atoi(arg)
		if convErr != nil {
			return fmt.Errorf("jump needs a breadcrumb number, got %q", arg)
		}
		next, err = sh.state.ResetToDepth(k)
	case "metric":
		next, err = sh.state.SelectMetric(arg)
	case "metrics":
		for _, m := range sh.state.Dataset().Catalog.Names() {
			marker := " "
			if m == sh.state.Metric() {
				marker = "*"
			}
			fmt.Fprintf(sh.out, "%s %s\n", marker, m)
		}
		return nil
	case "open":
		if arg == "" {
			return fmt.Errorf("open needs a file")
		}
		opt, optErr := sh.input.options()
		if optErr != nil {
			return optErr
		}
		ds, loadErr := loadDataset(arg, opt)
		if loadErr != nil {
			return loadErr
		}
		sh.file = arg
		next = sh.state.Load(ds)
	case "save":
		return sh.save(arg)
	default:
		return fmt.Errorf("unknown command %q (try help)", verb)
	}
	if err != nil {
		return err
	}
	sh.state = next
	sh.show()
	return nil
}

func (sh *shell) show() {
	v := sh.state.View()
	if err := writeView(sh.out, v, "markdown"); err != nil {
		errorLine(sh.out, err)
		return
	}
	var crumbs []string
	for _, c := range v.Breadcrumbs {
		crumbs = append(crumbs, fmt.Sprintf("[%d] %s", c.Depth, c.Label))
	}
	fmt.Fprintf(sh.out, "\n%s\n", strings.Join(crumbs, "  "))
}

func (sh *shell) save(name string) error {
	store, err := openBookmarks()
	if err != nil {
		return err
	}
	b, err := store.Add(bookmark.Bookmark{
		Name:       name,
		File:       absPath(sh.file),
		Sheet:      sh.input.sheetName,
		SheetIndex: sh.input.sheetIndex,
		Path:       sh.state.Path().Values(),
		Metric:     sh.state.Metric(),
	})
	if err != nil {
		return err
	}
	if err := saveBookmarks(store); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "✓ Saved bookmark %s (%s)\n", b.Name, b.ShortID())
	return nil
}

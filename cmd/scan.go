package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yeisme/codescope/pkg/configs"
	"github.com/yeisme/codescope/pkg/project"
	"github.com/yeisme/codescope/pkg/utils/count"
)

var scanCmd = &cobra.Command{
	Use:   "scan [root...]",
	Short: "Scan source roots and print per-file metrics",
	Long: strings.TrimSpace(`
Scan one or more source roots, compute per-file metrics and keyword snippets,
and print a sorted report. Without arguments the roots from the config file
(default ".") are scanned.

Examples:
  # Scan the current directory for C# files containing TODO
  codescope scan

  # Scan two roots for FIXME, largest files first
  codescope scan ./Assets ./Packages -k FIXME --sort size --desc

  # Go and TypeScript sources, honoring .gitignore, 8 workers
  codescope scan -e go -e ts --gitignore -j 8

  # Only files whose name fuzzily matches "plyr", top 10 by complexity
  codescope scan --match plyr --sort complexity --desc --top 10

  # Machine readable output
  codescope scan --json
  codescope scan --format yaml

  # Render a Markdown report in the terminal
  codescope scan --markdown

  # Pick a snippet interactively and open it in $EDITOR at its line
  codescope scan --pick

Notes:
  - Missing roots and unreadable files are reported as diagnostics; the scan continues.
  - Files that could not be read still count toward the total file count.
  - --match and --top only affect the table and Markdown views.`),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := scanOptionsFromFlags(cmd, args)
		if err != nil {
			return err
		}
		_, err = project.ExecuteScanCommand(scopeCtx, opts, project.Stdio{
			In:  os.Stdin,
			Out: cmd.OutOrStdout(),
			Err: cmd.ErrOrStderr(),
		})
		return err
	},
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the supported sort keys",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, k := range count.SortKeys() {
			fmt.Fprintln(cmd.OutOrStdout(), k)
		}
	},
}

func init() {
	rootCmd.AddCommand(scanCmd, keysCmd)
	addScanFlags(scanCmd)
	scanCmd.Flags().BoolP("pick", "p", false, "pick a snippet interactively and open it in the editor")
}

// addScanFlags 注册 scan 与 watch 共用的标志
// 标志的零值不会覆盖配置文件，只有显式设置的标志才生效
func addScanFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("keyword", "k", "", "keyword to count and extract snippets for (default from config: TODO)")
	f.StringSliceP("ext", "e", nil, "file extensions to scan, repeatable (default from config: .cs)")
	f.StringSlice("include", nil, "only scan paths matching these globs")
	f.StringSlice("exclude", nil, "skip paths matching these globs")
	f.Bool("gitignore", false, "honor .gitignore and skip .git directories")
	f.Bool("skip-symlinks", false, "skip symbolic links")
	f.String("max-size", "", "skip files larger than this size, e.g. 2MB")
	f.IntP("concurrency", "j", 0, "number of files analyzed in parallel, 0 uses all CPUs (default from config: 1)")
	f.Bool("block-comments", false, "count lines inside multi-line block comments as comments")

	f.StringP("sort", "s", "", fmt.Sprintf("sort key (%s)", joinSortKeys()))
	f.Bool("desc", false, "sort descending")
	f.Bool("asc", false, "sort ascending")

	f.StringP("format", "f", "", fmt.Sprintf("output format (%s)", strings.Join(configs.ValidFormats(), ", ")))
	f.Bool("json", false, "output in JSON format")
	f.Bool("yaml", false, "output in YAML format")
	f.Bool("toml", false, "output in TOML format")
	f.Bool("text", false, "output in plain text format")
	f.Bool("markdown", false, "render a Markdown report")

	f.StringP("match", "m", "", "fuzzy filter shown files by name or path")
	f.IntP("top", "n", 0, "show only the first N files")
	f.Bool("no-snippets", false, "do not print keyword snippets")
	f.Int("width", 0, "table width, 0 detects the terminal width")
	f.String("theme", "", "Markdown theme (auto, dark, light, dracula, notty)")
	f.String("editor", "", "editor used by --pick (default $VISUAL or $EDITOR)")
}

func joinSortKeys() string {
	keys := make([]string, 0, len(count.SortKeys()))
	for _, k := range count.SortKeys() {
		keys = append(keys, string(k))
	}
	return strings.Join(keys, ", ")
}

// scanOptionsFromFlags 以配置为基础，应用显式设置的命令行标志
func scanOptionsFromFlags(cmd *cobra.Command, args []string) (project.ScanOptions, error) {
	opts := project.OptionsFromConfig(scopeCtx.Config)
	f := cmd.Flags()

	if len(args) > 0 {
		opts.Roots = args
	}
	if f.Changed("keyword") {
		opts.Keyword, _ = f.GetString("keyword")
	}
	if f.Changed("ext") {
		opts.Extensions, _ = f.GetStringSlice("ext")
	}
	if f.Changed("include") {
		opts.Include, _ = f.GetStringSlice("include")
	}
	if f.Changed("exclude") {
		opts.Exclude, _ = f.GetStringSlice("exclude")
	}
	if f.Changed("gitignore") {
		opts.GitIgnore, _ = f.GetBool("gitignore")
	}
	if f.Changed("skip-symlinks") {
		opts.SkipSymlinks, _ = f.GetBool("skip-symlinks")
	}
	if f.Changed("max-size") {
		opts.MaxFileSize, _ = f.GetString("max-size")
	}
	if f.Changed("concurrency") {
		n, _ := f.GetInt("concurrency")
		opts.Concurrency = count.WorkerCount(n)
	}
	if f.Changed("block-comments") {
		opts.TrackBlockComments, _ = f.GetBool("block-comments")
	}
	if f.Changed("sort") {
		opts.Sort, _ = f.GetString("sort")
	}
	desc, _ := f.GetBool("desc")
	asc, _ := f.GetBool("asc")
	if desc && asc {
		return opts, fmt.Errorf("--asc and --desc are mutually exclusive")
	}
	if desc {
		opts.Ascending = false
	}
	if asc {
		opts.Ascending = true
	}

	if formatFlag, _ := f.GetString("format"); formatFlag != "" {
		if _, err := configs.ParseOutputFormat(formatFlag); err != nil {
			return opts, err
		}
	}
	opts.Format = configs.GetOutputFormatFromFlags(cmd, opts.Format)

	if f.Changed("match") {
		opts.Match, _ = f.GetString("match")
	}
	if f.Changed("top") {
		opts.Top, _ = f.GetInt("top")
	}
	if noSnippets, _ := f.GetBool("no-snippets"); noSnippets {
		opts.Snippets = false
	}
	if f.Changed("width") {
		opts.Width, _ = f.GetInt("width")
	}
	if f.Changed("theme") {
		opts.Theme, _ = f.GetString("theme")
	}
	if f.Changed("editor") {
		opts.Editor, _ = f.GetString("editor")
	}
	if f.Lookup("pick") != nil {
		opts.Pick, _ = f.GetBool("pick")
	}

	if _, err := count.ParseSortKey(opts.Sort); err != nil {
		return opts, err
	}
	return opts, nil
}

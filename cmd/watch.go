package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/yeisme/codescope/pkg/project"
)

var watchCmd = &cobra.Command{
	Use:   "watch [root...]",
	Short: "Rescan and refresh the report whenever source files change",
	Long: strings.TrimSpace(`
Run a scan, then watch the roots and run a full rescan after every change to
a relevant source file. Changes are debounced (watch.debounce in the config,
milliseconds). Press Ctrl+C to exit.

Examples:
  codescope watch
  codescope watch ./Assets -k HACK --sort complexity --desc --top 20`),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := scanOptionsFromFlags(cmd, args)
		if err != nil {
			return err
		}
		return project.ExecuteWatchCommand(scopeCtx, opts, scopeCtx.Config.Watch, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addScanFlags(watchCmd)
	watchCmd.Flags().Int("debounce", 0, "debounce in milliseconds (default from config: 300)")
	watchCmd.PreRun = func(cmd *cobra.Command, _ []string) {
		if cmd.Flags().Changed("debounce") {
			scopeCtx.Config.Watch.Debounce, _ = cmd.Flags().GetInt("debounce")
		}
	}
}

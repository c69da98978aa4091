// Package cmd provides command-line interface commands for codescope
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"runtime/trace"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	appctx "github.com/yeisme/codescope/pkg/context"
	log2 "github.com/yeisme/codescope/pkg/utils/log"
	"github.com/yeisme/codescope/pkg/utils/version"
)

var (
	scopeCtx *appctx.AppContext
	log      log2.Logger

	// Global flags
	globalFlags = appctx.GlobalFlags{}

	stopSignals context.CancelFunc
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "codescope",
	Short: "codescope measures source files and finds keyword snippets",
	Long: `codescope scans one or more source roots, computes per-file metrics
(lines, characters, comment lines, branch complexity, keyword occurrences),
extracts the lines containing a keyword and prints a sortable report.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		if globalFlags.VersionEnable {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetShortVersionString())
			return
		}
		if len(args) == 0 {
			_ = cmd.Help()
		}
	},
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if globalFlags.CPUProfile != "" {
			f, err := os.Create(globalFlags.CPUProfile)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
		}
		if globalFlags.Trace != "" {
			f, err := os.Create(globalFlags.Trace)
			if err != nil {
				return fmt.Errorf("could not create trace file: %w", err)
			}
			if err := trace.Start(f); err != nil {
				return fmt.Errorf("could not start trace: %w", err)
			}
		}

		// Ctrl+C 取消正在进行的扫描，已完成的结果不受影响
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		stopSignals = stop

		c, err := appctx.InitAppContext(ctx, globalFlags)
		if err != nil {
			return err
		}
		scopeCtx = c
		log = c.Logger

		log.Debug().Msgf("Execute Command: %s %s", "codescope", strings.Join(os.Args[1:], " "))
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if globalFlags.CPUProfile != "" {
			pprof.StopCPUProfile()
		}
		if globalFlags.Trace != "" {
			trace.Stop()
		}
		if stopSignals != nil {
			stopSignals()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigPath, "config", "c", "", "config file")
	rootCmd.PersistentFlags().StringVar(&globalFlags.CPUProfile, "cpu-profile", "", "write cpu profile to `file`")
	rootCmd.PersistentFlags().StringVar(&globalFlags.Trace, "trace", "", "write execution trace to `file`")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Debug, "debug", false, "enable debug mode (prints additional information)")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "V", false, "enable verbose output (prints more detailed information)")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Quiet, "quiet", false, "suppress all log output except errors")
	rootCmd.Flags().BoolVarP(&globalFlags.VersionEnable, "version", "v", false, "show version information")
}

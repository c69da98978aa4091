package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yeisme/codescope/pkg/configs"
)

var (
	configCmd = &cobra.Command{
		Use:     "config",
		Short:   "Manage codescope configuration",
		Long:    `codescope config allows you to view, validate and create codescope configuration files.`,
		Aliases: []string{"c"},
	}

	configValidateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Validate codescope configuration",
		Long:  `codescope config validate loads the configuration file and environment variables and checks every value.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := scopeCtx.Config.Validate(); err != nil {
				return fmt.Errorf("invalid configuration:\n%w", err)
			}

			fileUsed := scopeCtx.Viper.ConfigFileUsed()
			if fileUsed == "" {
				fileUsed = "(none, defaults and environment only)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config OK: %s\n", fileUsed)
			return nil
		},
		Aliases: []string{"check", "verify"},
	}

	configListCmd = &cobra.Command{
		Use:   "list [section]",
		Short: "List codescope configuration",
		Long: `codescope config list displays the current configuration settings.

You can specify a section to display only that part of the configuration:
  - app:     Application settings
  - log:     Logging settings
  - scan:    Scan defaults (roots, keyword, extensions, sort, ...)
  - watch:   Watch mode settings
  - display: Report rendering settings

Examples:
  codescope config list                    # Show all configuration (viper raw data)
  codescope config list --all              # Show all configuration with defaults
  codescope config list scan               # Show only scan settings
  codescope config list --format json      # Output in JSON format
  codescope config list scan --all --toml  # Show scan config with defaults in TOML`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			section := ""
			if len(args) > 0 {
				section = args[0]
			}

			format := configs.GetOutputFormatFromFlags(cmd, configs.FormatYAML)
			if format == configs.FormatTable || format == configs.FormatMarkdown {
				format = configs.FormatYAML
			}
			showAll, _ := cmd.Flags().GetBool("all")

			data, err := configs.GetConfigSection(scopeCtx.Viper, section, showAll)
			if err != nil {
				return fmt.Errorf("error getting config section: %w", err)
			}
			return configs.OutputData(data, format, cmd.OutOrStdout())
		},
		Aliases: []string{"ls"},
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Initialize codescope configuration",
		Long: `codescope config init creates a new configuration file with default settings.

Examples:
  codescope config init                                  # Create .codescope.yaml in current directory
  codescope config init --path ~/.config/codescope/codescope.yaml
  codescope config init --format toml                    # Create .codescope.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("path")
			formatStr, _ := cmd.Flags().GetString("format")

			format, err := configs.ParseOutputFormat(formatStr)
			if err != nil {
				return err
			}
			if path == "" {
				path = configs.DefaultConfigPath(format)
			}

			if err := configs.CreateDefaultConfig(path, format); err != nil {
				return fmt.Errorf("failed to create config file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Config file created: %s\n", path)
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(
		configListCmd,
		configValidateCmd,
		configInitCmd,
	)

	configListCmd.Flags().StringP("format", "f", "", fmt.Sprintf("Output format (%s)", strings.Join(configs.DataFormats(), ", ")))
	configListCmd.Flags().Bool("yaml", false, "Output in YAML format")
	configListCmd.Flags().Bool("json", false, "Output in JSON format")
	configListCmd.Flags().Bool("toml", false, "Output in TOML format")
	configListCmd.Flags().Bool("text", false, "Output in plain text format")
	configListCmd.Flags().BoolP("all", "a", false, "Show complete configuration with defaults (processed struct)")

	configInitCmd.Flags().StringP("path", "p", "", "Path to the config file")
	configInitCmd.Flags().StringP("format", "f", "yaml", fmt.Sprintf("Format of the config file (%s)", strings.Join(configs.DataFormats(), ", ")))
}

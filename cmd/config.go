package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/xvierd/tempo-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings in ~/.tempo/config.toml",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every setting",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting, for example:

  tempo config set focus.focus_minutes 25
  tempo config set notifications.sound false`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.Keys(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		cfg, err := config.Set(app.configPath, key, value)
		if err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
		app.config = cfg
		app.logger.Info("config updated")

		if jsonOutput {
			return printJSON(cmd, map[string]interface{}{"key": key, "value": value})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s = %s\n", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	settings, err := config.Settings(app.configPath)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, settings)
	}

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", app.configPath)
	for _, k := range keys {
		fmt.Fprintf(out, "%-32s %v\n", k, settings[k])
	}
	return nil
}

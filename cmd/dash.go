package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/tempo-cli/internal/adapters/tui"
)

// dashCmd represents the dash command
var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Show today's dashboard",
	Long:  `Show habits done today, weekly habit progress, tasks due today and note counts.`,
	Args:  cobra.NoArgs,
	RunE:  runDash,
}

func runDash(cmd *cobra.Command, args []string) error {
	d, err := app.dashboard.Summary(cmd.Context(), time.Now())
	if err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd, dashboardData(d))
	}

	fmt.Fprintln(cmd.OutOrStdout(), tui.NewRenderer(&app.config.Theme, terminalWidth()).Dashboard(d))
	return nil
}

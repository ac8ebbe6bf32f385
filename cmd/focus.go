package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xvierd/tempo-cli/internal/adapters/clock"
	"github.com/xvierd/tempo-cli/internal/adapters/tui"
	"github.com/xvierd/tempo-cli/internal/domain"
	"github.com/xvierd/tempo-cli/internal/focus"
)

var (
	focusMinutes int
	breakMinutes int
)

// focusCmd represents the focus command
var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Run the Focus/Break interval timer",
	Long: `Open the interval timer. Durations default to the focus section of the
config file and can be changed while the timer is open.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl := focus.New(focusSettings(cmd),
			focus.WithClock(clock.System()),
			focus.WithCue(app.notifier),
			focus.WithLogger(app.logger.Named("focus")),
		)
		return tui.RunFocus(ctrl, &app.config.Theme)
	},
}

func init() {
	focusCmd.Flags().IntVar(&focusMinutes, "focus", domain.DefaultFocusMinutes, "Focus duration in minutes")
	focusCmd.Flags().IntVar(&breakMinutes, "break", domain.DefaultBreakMinutes, "Break duration in minutes")
}

// focusSettings applies the --focus and --break flags over the config.
func focusSettings(cmd *cobra.Command) domain.DurationSettings {
	settings := app.config.Focus.Durations()
	if cmd.Flags().Changed("focus") {
		settings = settings.With(domain.PhaseFocus, focusMinutes)
	}
	if cmd.Flags().Changed("break") {
		settings = settings.With(domain.PhaseBreak, breakMinutes)
	}
	return settings
}

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/tempo-cli/internal/adapters/tui"
	"github.com/xvierd/tempo-cli/internal/domain"
	"github.com/xvierd/tempo-cli/internal/services"
)

var (
	habitFrequency string
	habitDays      string
	habitTitle     string
	habitDate      string
	habitYes       bool
)

// habitCmd groups the habit subcommands
var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Track habits over the last 7 days",
}

var habitAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new habit",
	Long: `Add a habit. Daily habits are scheduled every day; custom habits need
--days, for example --days mon,wed,fri.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := habitRequest(joinArgs(args), habitFrequency, habitDays)
		if err != nil {
			return err
		}

		habit, err := app.habits.AddHabit(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("failed to add habit: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd, habitData(habit, app.habits.Today()))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Habit added: %s (ID: %s)\n", habit.Title, shortID(habit.ID))
		return nil
	},
}

var habitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits with their week grid",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		habits, err := app.habits.ListHabits(cmd.Context())
		if err != nil {
			return err
		}

		today := app.habits.Today()
		if jsonOutput {
			list := make([]map[string]interface{}, 0, len(habits))
			for _, h := range habits {
				list = append(list, habitData(h, today))
			}
			return printJSON(cmd, map[string]interface{}{
				"habits": list,
				"count":  len(list),
			})
		}

		fmt.Fprintln(cmd.OutOrStdout(), tui.NewRenderer(&app.config.Theme, terminalWidth()).Habits(habits, today))
		return nil
	},
}

var habitCheckCmd = &cobra.Command{
	Use:   "check [habit-id]",
	Short: "Toggle a habit for today or another day in the last week",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := resolveHabitID(ctx, args[0])
		if err != nil {
			return err
		}

		habit, err := app.habits.CheckHabit(ctx, id, habitDate)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd, habitData(habit, app.habits.Today()))
		}

		date := habitDate
		if date == "" {
			date = domain.Today(app.habits.Today())
		}
		state := "not done"
		if habit.CompletedOn(date) {
			state = "done"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🔁 %s marked %s on %s (streak %d)\n", habit.Title, state, date, habit.Streak)
		return nil
	},
}

var habitEditCmd = &cobra.Command{
	Use:   "edit [habit-id]",
	Short: "Edit a habit's title or schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := resolveHabitID(ctx, args[0])
		if err != nil {
			return err
		}

		habit, err := app.habits.GetHabit(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get habit: %w", err)
		}

		req := services.HabitRequest{Title: habit.Title, Frequency: habit.Frequency, Days: habit.Days}
		flags := cmd.Flags()
		if flags.Changed("title") {
			req.Title = habitTitle
		}
		if flags.Changed("freq") {
			if req.Frequency, err = domain.ParseFrequency(habitFrequency); err != nil {
				return err
			}
		}
		if flags.Changed("days") {
			if req.Days, err = domain.ParseWeekdays(habitDays); err != nil {
				return err
			}
			if !flags.Changed("freq") {
				req.Frequency = domain.FrequencyCustom
			}
		}

		habit, err = app.habits.UpdateHabit(ctx, id, req)
		if err != nil {
			return fmt.Errorf("failed to edit habit: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd, habitData(habit, app.habits.Today()))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✏️  Habit updated: %s\n", habit.Title)
		return nil
	},
}

var habitRmCmd = &cobra.Command{
	Use:     "rm [habit-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a habit and its history",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := resolveHabitID(ctx, args[0])
		if err != nil {
			return err
		}

		habit, err := app.habits.GetHabit(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get habit: %w", err)
		}

		if !jsonOutput && !habitYes {
			if !confirm(cmd, fmt.Sprintf("Delete habit '%s' and its history?", habit.Title)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled.")
				return nil
			}
		}

		if err := app.habits.DeleteHabit(ctx, id); err != nil {
			return fmt.Errorf("failed to delete habit: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd, map[string]interface{}{"deleted": true, "habit_id": id})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑  Habit '%s' deleted.\n", habit.Title)
		return nil
	},
}

func init() {
	habitAddCmd.Flags().StringVar(&habitFrequency, "freq", string(domain.FrequencyDaily), "Frequency: Daily or Custom")
	habitAddCmd.Flags().StringVar(&habitDays, "days", "", "Days for custom habits, e.g. mon,wed,fri")

	habitEditCmd.Flags().StringVar(&habitTitle, "title", "", "New title")
	habitEditCmd.Flags().StringVar(&habitFrequency, "freq", "", "Frequency: Daily or Custom")
	habitEditCmd.Flags().StringVar(&habitDays, "days", "", "Days for custom habits, e.g. mon,wed,fri")

	habitCheckCmd.Flags().StringVar(&habitDate, "date", "", "Day to toggle as YYYY-MM-DD (default: today)")
	habitRmCmd.Flags().BoolVarP(&habitYes, "yes", "y", false, "Delete without asking")

	habitCmd.AddCommand(habitAddCmd, habitListCmd, habitCheckCmd, habitEditCmd, habitRmCmd)
}

// habitRequest builds a request from flag values. Giving days implies Custom.
func habitRequest(title, frequency, days string) (services.HabitRequest, error) {
	req := services.HabitRequest{Title: title, Frequency: domain.FrequencyDaily}

	if days != "" {
		parsed, err := domain.ParseWeekdays(days)
		if err != nil {
			return req, err
		}
		req.Days = parsed
		req.Frequency = domain.FrequencyCustom
	}
	if frequency != "" {
		f, err := domain.ParseFrequency(frequency)
		if err != nil {
			return req, err
		}
		if f == domain.FrequencyCustom || days == "" {
			req.Frequency = f
		}
	}
	return req, nil
}

func resolveHabitID(ctx context.Context, prefix string) (string, error) {
	habits, err := app.habits.ListHabits(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
	}
	return resolveID(prefix, ids, domain.ErrHabitNotFound)
}

// weekdayList formats days as "Mon, Wed".
func weekdayList(days []time.Weekday) string {
	out := ""
	for i, d := range days {
		if i > 0 {
			out += ", "
		}
		out += d.String()[:3]
	}
	return out
}

package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/xvierd/tempo-cli/internal/domain"
)

// ErrAmbiguousID is returned when an ID prefix matches more than one entry.
var ErrAmbiguousID = errors.New("id prefix matches more than one entry")

const defaultTerminalWidth = 80

func printJSON(cmd *cobra.Command, v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
	return nil
}

func terminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return defaultTerminalWidth
	}
	return w
}

// resolveID expands an ID prefix to the single full ID it matches.
func resolveID(prefix string, ids []string, notFound error) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", notFound
	}

	var match string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
			}
			match = id
		}
	}
	if match == "" {
		return "", notFound
	}
	return match, nil
}

// confirm asks a yes/no question on the command's input. Anything but y is no.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func taskData(task *domain.Task) map[string]interface{} {
	data := map[string]interface{}{
		"id":          task.ID,
		"title":       task.Title,
		"description": task.Description,
		"due_date":    task.DueDate,
		"priority":    string(task.Priority),
		"status":      string(task.Status),
		"tags":        task.Tags,
		"git_branch":  task.GitBranch,
		"created_at":  task.CreatedAt.Format("2006-01-02T15:04:05"),
	}
	if task.CompletedAt != nil {
		data["completed_at"] = task.CompletedAt.Format("2006-01-02T15:04:05")
	}
	return data
}

func habitData(h *domain.Habit, today time.Time) map[string]interface{} {
	days := make([]string, len(h.Days))
	for i, d := range h.Days {
		days[i] = d.String()
	}

	week := make([]map[string]interface{}, 0, domain.WindowDays)
	for _, cell := range h.WeekGrid(today) {
		week = append(week, map[string]interface{}{
			"date":      cell.Date,
			"weekday":   cell.Weekday.String(),
			"scheduled": cell.Scheduled,
			"done":      cell.Done,
		})
	}

	done, total := h.WeeklyProgress(today)
	return map[string]interface{}{
		"id":         h.ID,
		"title":      h.Title,
		"frequency":  string(h.Frequency),
		"days":       days,
		"streak":     h.Streak,
		"week":       week,
		"done":       done,
		"total":      total,
		"created_at": h.CreatedAt.Format("2006-01-02T15:04:05"),
	}
}

func noteData(n *domain.Note) map[string]interface{} {
	return map[string]interface{}{
		"id":         n.ID,
		"title":      n.Title,
		"content":    n.Content,
		"tags":       n.Tags,
		"favorite":   n.Favorite,
		"created_at": n.CreatedAt.Format("2006-01-02T15:04:05"),
		"updated_at": n.UpdatedAt.Format("2006-01-02T15:04:05"),
	}
}

func dashboardData(d *domain.Dashboard) map[string]interface{} {
	progress := make([]map[string]interface{}, 0, len(d.WeeklyProgress))
	for _, p := range d.WeeklyProgress {
		progress = append(progress, map[string]interface{}{
			"habit_id": p.HabitID,
			"title":    p.Title,
			"done":     p.Done,
			"total":    p.Total,
			"streak":   p.Streak,
		})
	}

	due := make([]map[string]interface{}, 0, len(d.TasksDueToday))
	for _, t := range d.TasksDueToday {
		due = append(due, taskData(t))
	}

	return map[string]interface{}{
		"date":                   d.Date,
		"habits_total":           d.HabitsTotal,
		"habits_completed_today": d.HabitsCompletedToday,
		"weekly_progress":        progress,
		"tasks_due_today":        due,
		"tasks_total":            d.TasksTotal,
		"tasks_completed":        d.TasksCompleted,
		"completion_rate":        d.CompletionRate(),
		"notes_total":            d.NotesTotal,
		"notes_favorite":         d.NotesFavorite,
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

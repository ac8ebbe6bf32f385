package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/tempo-cli/internal/config"
	"github.com/xvierd/tempo-cli/internal/domain"
)

const minPanelWidth = 30

// Renderer draws the non-interactive screens printed by the CLI.
type Renderer struct {
	theme config.ThemeConfig
	width int
}

// NewRenderer returns a renderer for a terminal of the given width.
func NewRenderer(theme *config.ThemeConfig, width int) *Renderer {
	return &Renderer{theme: resolveTheme(theme), width: width}
}

func (r *Renderer) panel(title, body string) string {
	width := max(r.width-2, minPanelWidth)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(r.theme.ColorFocus))
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(r.theme.ColorPaused)).
		Padding(0, 1).
		Width(width - 2)
	return box.Render(titleStyle.Render(title) + "\n" + body)
}

// Dashboard renders today's overview.
func (r *Renderer) Dashboard(d *domain.Dashboard) string {
	help := lipgloss.NewStyle().Foreground(lipgloss.Color(r.theme.ColorHelp))
	done := lipgloss.NewStyle().Foreground(lipgloss.Color(r.theme.ColorDone))

	var habits strings.Builder
	fmt.Fprintf(&habits, "%d of %d done today\n", len(d.HabitsCompletedToday), d.HabitsTotal)
	for _, title := range d.HabitsCompletedToday {
		habits.WriteString(done.Render("✓ "+title) + "\n")
	}
	for _, p := range d.WeeklyProgress {
		line := fmt.Sprintf("%-30s %d/%d", p.Title, p.Done, p.Total)
		if p.Streak > 0 {
			line += fmt.Sprintf("  streak %d", p.Streak)
		}
		habits.WriteString(help.Render(line) + "\n")
	}

	var tasks strings.Builder
	fmt.Fprintf(&tasks, "%d completed of %d (%d%%)\n", d.TasksCompleted, d.TasksTotal, d.CompletionRate())
	if len(d.TasksDueToday) == 0 {
		tasks.WriteString(help.Render("Nothing due today"))
	}
	for _, t := range d.TasksDueToday {
		tasks.WriteString(fmt.Sprintf("• %s %s\n", t.Title, help.Render("["+string(t.Priority)+"]")))
	}

	notes := fmt.Sprintf("%d notes, %d favorites", d.NotesTotal, d.NotesFavorite)

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(r.theme.ColorTitle)).
		Render(fmt.Sprintf("%s Tempo · %s", r.theme.IconApp, d.Date))

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		r.panel(r.theme.IconHabit+" Habits", strings.TrimRight(habits.String(), "\n")),
		r.panel(r.theme.IconTask+" Tasks", strings.TrimRight(tasks.String(), "\n")),
		r.panel(r.theme.IconNote+" Notes", notes),
	)
}

// Habits renders each habit with its seven-day grid.
func (r *Renderer) Habits(habits []*domain.Habit, today time.Time) string {
	if len(habits) == 0 {
		return "No habits yet."
	}

	help := lipgloss.NewStyle().Foreground(lipgloss.Color(r.theme.ColorHelp))
	done := lipgloss.NewStyle().Foreground(lipgloss.Color(r.theme.ColorDone))
	off := lipgloss.NewStyle().Foreground(lipgloss.Color(r.theme.ColorPaused))

	var b strings.Builder
	header := fmt.Sprintf("%-*s", domain.MaxHabitTitleLength+2, "")
	for _, cell := range habits[0].WeekGrid(today) {
		header += cell.Weekday.String()[:2] + " "
	}
	b.WriteString(help.Render(header) + "\n")

	for _, h := range habits {
		fmt.Fprintf(&b, "%-*s", domain.MaxHabitTitleLength+2, h.Title)
		for _, cell := range h.WeekGrid(today) {
			switch {
			case !cell.Scheduled:
				b.WriteString("   ")
			case cell.Done:
				b.WriteString(done.Render("■") + "  ")
			default:
				b.WriteString(off.Render("□") + "  ")
			}
		}
		d, total := h.WeeklyProgress(today)
		b.WriteString(help.Render(fmt.Sprintf("%d/%d  streak %d  (%s)", d, total, h.Streak, shortID(h.ID))))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Tasks renders the grouped task list.
func (r *Renderer) Tasks(groups domain.TaskGroups) string {
	section := func(title string, tasks []*domain.Task) string {
		if len(tasks) == 0 {
			return ""
		}
		var b strings.Builder
		for _, t := range tasks {
			b.WriteString(taskLine(t) + "\n")
		}
		return r.panel(fmt.Sprintf("%s (%d)", title, len(tasks)), strings.TrimRight(b.String(), "\n"))
	}

	var parts []string
	for _, s := range []string{
		section("Today", groups.Today),
		section("Upcoming", groups.Upcoming),
		section("Completed", groups.Completed),
	} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "No tasks found."
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func taskLine(t *domain.Task) string {
	mark := "○"
	if t.IsCompleted() {
		mark = "●"
	}
	line := fmt.Sprintf("%s %s  %s [%s]", mark, t.Title, t.DueDate, t.Priority)
	if len(t.Tags) > 0 {
		line += " #" + strings.Join(t.Tags, " #")
	}
	return line + fmt.Sprintf("  (%s)", shortID(t.ID))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

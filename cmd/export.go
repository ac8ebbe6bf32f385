package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xvierd/tempo-cli/internal/domain"
	"github.com/xvierd/tempo-cli/internal/services"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tasks, habits and notes",
	Long:  "Export everything in markdown, CSV or YAML format.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := loadExport(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			defer f.Close()
			w = f
		}

		if err := writeExport(w, exportFormat, data); err != nil {
			return err
		}
		if exportOutput != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "📦 Exported to %s\n", exportOutput)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "md", "Output format: md, csv or yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
}

// exportData is everything in the database at one instant.
type exportData struct {
	GeneratedAt time.Time
	Today       time.Time
	Tasks       []*domain.Task
	Habits      []*domain.Habit
	Notes       []*domain.Note
}

func loadExport(ctx context.Context) (*exportData, error) {
	tasks, err := app.tasks.ListTasks(ctx, services.ListTasksRequest{Sort: domain.SortDueDate})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	habits, err := app.habits.ListHabits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch habits: %w", err)
	}
	notes, err := app.notes.ListNotes(ctx, domain.SortNewest)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notes: %w", err)
	}

	now := time.Now()
	return &exportData{GeneratedAt: now, Today: app.habits.Today(), Tasks: tasks, Habits: habits, Notes: notes}, nil
}

func writeExport(w io.Writer, format string, data *exportData) error {
	switch strings.ToLower(format) {
	case "md", "markdown":
		return exportMarkdown(w, data)
	case "csv":
		return exportCSV(w, data)
	case "yaml", "yml":
		return exportYAML(w, data)
	default:
		return fmt.Errorf("unknown export format %q (want md, csv or yaml)", format)
	}
}

func exportMarkdown(w io.Writer, data *exportData) error {
	fmt.Fprintf(w, "# Tempo Export\n\n")
	fmt.Fprintf(w, "Generated: %s\n\n", data.GeneratedAt.Format("2006-01-02 15:04"))

	fmt.Fprintf(w, "## Tasks\n\n")
	for _, t := range data.Tasks {
		box := " "
		if t.IsCompleted() {
			box = "x"
		}
		fmt.Fprintf(w, "- [%s] %s (due %s, %s)\n", box, t.Title, t.DueDate, t.Priority)
		if t.Description != "" {
			fmt.Fprintf(w, "  - %s\n", t.Description)
		}
		if len(t.Tags) > 0 {
			fmt.Fprintf(w, "  - Tags: %s\n", strings.Join(t.Tags, ", "))
		}
	}

	fmt.Fprintf(w, "\n## Habits\n\n")
	for _, h := range data.Habits {
		schedule := "every day"
		if h.Frequency == domain.FrequencyCustom {
			schedule = weekdayList(h.Days)
		}
		done, total := h.WeeklyProgress(data.Today)
		fmt.Fprintf(w, "- %s (%s): %d/%d this week, streak %d\n", h.Title, schedule, done, total, h.Streak)
	}

	fmt.Fprintf(w, "\n## Notes\n\n")
	for _, n := range data.Notes {
		title := n.Title
		if n.Favorite {
			title += " ⭐"
		}
		fmt.Fprintf(w, "### %s\n\n", title)
		if n.Content != "" {
			fmt.Fprintf(w, "%s\n\n", n.Content)
		}
		if len(n.Tags) > 0 {
			fmt.Fprintf(w, "Tags: %s\n\n", strings.Join(n.Tags, ", "))
		}
	}
	return nil
}

func exportCSV(w io.Writer, data *exportData) error {
	cw := csv.NewWriter(w)

	_ = cw.Write([]string{"type", "id", "title", "body", "date", "priority", "status", "tags", "favorite", "streak"})

	for _, t := range data.Tasks {
		_ = cw.Write([]string{
			"task", t.ID, t.Title, t.Description, t.DueDate,
			string(t.Priority), string(t.Status), strings.Join(t.Tags, ";"), "", "",
		})
	}
	for _, h := range data.Habits {
		days := make([]string, len(h.Days))
		for i, d := range h.Days {
			days[i] = d.String()[:3]
		}
		_ = cw.Write([]string{
			"habit", h.ID, h.Title, strings.Join(days, ";"), h.CreatedAt.Format(domain.DateLayout),
			"", string(h.Frequency), "", "", strconv.Itoa(h.Streak),
		})
	}
	for _, n := range data.Notes {
		_ = cw.Write([]string{
			"note", n.ID, n.Title, n.Content, n.CreatedAt.Format(domain.DateLayout),
			"", "", strings.Join(n.Tags, ";"), strconv.FormatBool(n.Favorite), "",
		})
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

type yamlTask struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description,omitempty"`
	DueDate     string   `yaml:"due_date"`
	Priority    string   `yaml:"priority"`
	Status      string   `yaml:"status"`
	Tags        []string `yaml:"tags,omitempty"`
	GitBranch   string   `yaml:"git_branch,omitempty"`
}

type yamlHabit struct {
	ID        string   `yaml:"id"`
	Title     string   `yaml:"title"`
	Frequency string   `yaml:"frequency"`
	Days      []string `yaml:"days,omitempty"`
	Streak    int      `yaml:"streak"`
	Checked   []string `yaml:"checked,omitempty"`
}

type yamlNote struct {
	ID       string   `yaml:"id"`
	Title    string   `yaml:"title"`
	Content  string   `yaml:"content,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
	Favorite bool     `yaml:"favorite"`
	Created  string   `yaml:"created_at"`
}

type yamlExport struct {
	GeneratedAt string      `yaml:"generated_at"`
	Tasks       []yamlTask  `yaml:"tasks"`
	Habits      []yamlHabit `yaml:"habits"`
	Notes       []yamlNote  `yaml:"notes"`
}

func exportYAML(w io.Writer, data *exportData) error {
	doc := yamlExport{
		GeneratedAt: data.GeneratedAt.Format(time.RFC3339),
		Tasks:       make([]yamlTask, 0, len(data.Tasks)),
		Habits:      make([]yamlHabit, 0, len(data.Habits)),
		Notes:       make([]yamlNote, 0, len(data.Notes)),
	}

	for _, t := range data.Tasks {
		doc.Tasks = append(doc.Tasks, yamlTask{
			ID: t.ID, Title: t.Title, Description: t.Description, DueDate: t.DueDate,
			Priority: string(t.Priority), Status: string(t.Status), Tags: t.Tags, GitBranch: t.GitBranch,
		})
	}
	for _, h := range data.Habits {
		days := make([]string, len(h.Days))
		for i, d := range h.Days {
			days[i] = d.String()
		}
		var checked []string
		for _, cell := range h.WeekGrid(data.Today) {
			if cell.Done {
				checked = append(checked, cell.Date)
			}
		}
		doc.Habits = append(doc.Habits, yamlHabit{
			ID: h.ID, Title: h.Title, Frequency: string(h.Frequency), Days: days, Streak: h.Streak, Checked: checked,
		})
	}
	for _, n := range data.Notes {
		doc.Notes = append(doc.Notes, yamlNote{
			ID: n.ID, Title: n.Title, Content: n.Content, Tags: n.Tags, Favorite: n.Favorite,
			Created: n.CreatedAt.Format(time.RFC3339),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write yaml: %w", err)
	}
	return enc.Close()
}

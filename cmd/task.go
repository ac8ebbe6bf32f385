package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xvierd/tempo-cli/internal/adapters/tui"
	"github.com/xvierd/tempo-cli/internal/domain"
	"github.com/xvierd/tempo-cli/internal/services"
)

var (
	taskDescription string
	taskDue         string
	taskPriority    string
	taskTags        string
	taskTitle       string
	taskFilter      string
	taskSort        string
	taskGrouped     bool
	taskYes         bool
)

// taskCmd groups the task subcommands
var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long:  `Add a new task. It is due today with Medium priority unless told otherwise.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workingDir, _ := os.Getwd()

		task, err := app.tasks.AddTask(cmd.Context(), services.AddTaskRequest{
			Title:       joinArgs(args),
			Description: taskDescription,
			DueDate:     taskDue,
			Priority:    taskPriority,
			Tags:        domain.ParseTags(taskTags),
			WorkingDir:  workingDir,
		})
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd, taskData(task))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Task added: %s (ID: %s)\n", task.Title, shortID(task.ID))
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long:  `List tasks, optionally filtered (all, today, completed) and sorted (dueDate, priority).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if taskGrouped && !jsonOutput {
			groups, err := app.tasks.GroupTasks(ctx)
			if err != nil {
				return fmt.Errorf("failed to group tasks: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.NewRenderer(&app.config.Theme, terminalWidth()).Tasks(groups))
			return nil
		}

		tasks, err := app.tasks.ListTasks(ctx, services.ListTasksRequest{
			Filter: domain.TaskFilter(taskFilter),
			Sort:   domain.TaskSort(taskSort),
		})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if jsonOutput {
			taskList := make([]map[string]interface{}, 0, len(tasks))
			for _, task := range tasks {
				taskList = append(taskList, taskData(task))
			}
			return printJSON(cmd, map[string]interface{}{
				"tasks": taskList,
				"count": len(taskList),
			})
		}

		out := cmd.OutOrStdout()
		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}

		fmt.Fprintf(out, "📋 Tasks (%d):\n\n", len(tasks))
		for _, task := range tasks {
			fmt.Fprintf(out, "%s %s  %s [%s] (ID: %s)\n",
				getStatusIcon(task.Status), task.Title, task.DueDate, task.Priority, shortID(task.ID))
			if len(task.Tags) > 0 {
				fmt.Fprintf(out, "   Tags: %v\n", task.Tags)
			}
		}
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Complete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := resolveTaskID(ctx, args[0])
		if err != nil {
			return err
		}

		task, err := app.tasks.CompleteTask(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd, taskData(task))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Task completed: %s\n", task.Title)
		return nil
	},
}

var taskEditCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Edit a task",
	Long:  `Change a task's title, description, due date, priority or tags. Only the flags given are changed.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := resolveTaskID(ctx, args[0])
		if err != nil {
			return err
		}

		var req services.UpdateTaskRequest
		flags := cmd.Flags()
		if flags.Changed("title") {
			req.Title = &taskTitle
		}
		if flags.Changed("desc") {
			req.Description = &taskDescription
		}
		if flags.Changed("due") {
			req.DueDate = &taskDue
		}
		if flags.Changed("priority") {
			req.Priority = &taskPriority
		}
		if flags.Changed("tags") {
			req.Tags = &taskTags
		}

		task, err := app.tasks.UpdateTask(ctx, id, req)
		if err != nil {
			return fmt.Errorf("failed to edit task: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd, taskData(task))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✏️  Task updated: %s\n", task.Title)
		return nil
	},
}

var taskRmCmd = &cobra.Command{
	Use:     "rm [task-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Long:    `Delete a task by its ID. Use with caution - this cannot be undone.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := resolveTaskID(ctx, args[0])
		if err != nil {
			return err
		}

		task, err := app.tasks.GetTask(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get task: %w", err)
		}

		if !jsonOutput && !taskYes {
			if !confirm(cmd, fmt.Sprintf("Delete task '%s' (%s)?", task.Title, shortID(task.ID))) {
				fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled.")
				return nil
			}
		}

		if err := app.tasks.DeleteTask(ctx, id); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd, map[string]interface{}{"deleted": true, "task_id": id})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑  Task '%s' deleted.\n", task.Title)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{taskAddCmd, taskEditCmd} {
		c.Flags().StringVarP(&taskDescription, "desc", "d", "", "Task description")
		c.Flags().StringVar(&taskDue, "due", "", "Due date as YYYY-MM-DD (default: today)")
		c.Flags().StringVarP(&taskPriority, "priority", "p", "", "Priority: Low, Medium or High")
		c.Flags().StringVarP(&taskTags, "tags", "t", "", "Comma-separated tags")
	}
	taskEditCmd.Flags().StringVar(&taskTitle, "title", "", "New title")

	taskListCmd.Flags().StringVarP(&taskFilter, "filter", "f", string(domain.FilterAll), "Filter: all, today or completed")
	taskListCmd.Flags().StringVarP(&taskSort, "sort", "s", string(domain.SortDueDate), "Sort: dueDate or priority")
	taskListCmd.Flags().BoolVarP(&taskGrouped, "group", "g", false, "Group into Today, Upcoming and Completed")

	taskRmCmd.Flags().BoolVarP(&taskYes, "yes", "y", false, "Delete without asking")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskDoneCmd, taskEditCmd, taskRmCmd)
}

func resolveTaskID(ctx context.Context, prefix string) (string, error) {
	tasks, err := app.tasks.ListTasks(ctx, services.ListTasksRequest{})
	if err != nil {
		return "", fmt.Errorf("failed to list tasks: %w", err)
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return resolveID(prefix, ids, domain.ErrTaskNotFound)
}

func getStatusIcon(status domain.TaskStatus) string {
	switch status {
	case domain.StatusPending:
		return "⏳"
	case domain.StatusCompleted:
		return "✅"
	default:
		return "❓"
	}
}

package domain

// HabitProgress is one habit's weekly completion.
type HabitProgress struct {
	HabitID string
	Title   string
	Done    int
	Total   int
	Streak  int
}

// Dashboard is the aggregated overview shown by `tempo dash`.
type Dashboard struct {
	Date                 string
	HabitsTotal          int
	HabitsCompletedToday []string
	WeeklyProgress       []HabitProgress
	TasksDueToday        []*Task
	TasksTotal           int
	TasksCompleted       int
	NotesTotal           int
	NotesFavorite        int
}

// CompletionRate returns the share of completed tasks as a whole percentage.
func (d Dashboard) CompletionRate() int {
	if d.TasksTotal == 0 {
		return 0
	}
	return d.TasksCompleted * 100 / d.TasksTotal
}

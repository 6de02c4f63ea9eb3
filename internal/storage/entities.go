package storage

import "time"

type Task struct {
	ID          string
	Title       string
	Description string
	Priority    string
	Status      string
	Completed   bool
	DueAt       *time.Time
	CreatedAt   time.Time
}

type Subtask struct {
	ID        string
	TaskID    string
	Title     string
	Completed bool
	CreatedAt time.Time
}

type TaskListFilter struct {
	Status string
	Limit  int
	Offset int
}

// SubtaskListFilter with an empty TaskID lists subtasks of every task.
type SubtaskListFilter struct {
	TaskID string
	Limit  int
	Offset int
}

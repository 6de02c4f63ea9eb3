package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	CreateTask(ctx context.Context, in Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, in Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error)

	CreateSubtask(ctx context.Context, in Subtask) error
	GetSubtask(ctx context.Context, id string) (Subtask, error)
	UpdateSubtask(ctx context.Context, in Subtask) error
	DeleteSubtask(ctx context.Context, id string) error
	ListSubtasks(ctx context.Context, filter SubtaskListFilter) ([]Subtask, error)
}

// Store is a Repository with an owned connection.
type Store interface {
	Repository
	Close() error
}

// Package service owns task and subtask semantics on top of a storage
// repository. The REST API and the board's local mode both go through it.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/storage"
)

var ErrNotFound = errors.New("service: not found")

// ValidationError carries per-field messages for a rejected create or update.
type ValidationError struct {
	Fields model.FormErrors
}

func (e *ValidationError) Error() string {
	return "service: " + strings.TrimPrefix(e.Fields.Error(), "model: ")
}

// MissingRequired reports whether any field failed only for being absent.
func (e *ValidationError) MissingRequired() bool {
	for _, msg := range e.Fields {
		if strings.HasSuffix(msg, "is required") {
			return true
		}
	}
	return false
}

type Service interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	GetTask(ctx context.Context, id string) (model.Task, error)
	CreateTask(ctx context.Context, form model.TaskForm) (model.Task, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error

	ListSubtasks(ctx context.Context, taskID string) ([]model.Subtask, error)
	CreateSubtask(ctx context.Context, taskID, title string) (model.Subtask, error)
	UpdateSubtask(ctx context.Context, id string, patch model.SubtaskPatch) (model.Subtask, error)
	DeleteSubtask(ctx context.Context, id string) error
}

var _ Service = (*TaskService)(nil)

type TaskService struct {
	repo  storage.Repository
	now   func() time.Time
	newID func() string
}

type Option func(*TaskService)

func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(s *TaskService) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func New(repo storage.Repository, opts ...Option) *TaskService {
	s := &TaskService{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListTasks returns every task in insertion order with its subtasks attached.
func (s *TaskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.repo.ListTasks(ctx, storage.TaskListFilter{})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	subs, err := s.repo.ListSubtasks(ctx, storage.SubtaskListFilter{})
	if err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}
	byTask := make(map[string][]model.Subtask, len(rows))
	for _, sub := range subs {
		byTask[sub.TaskID] = append(byTask[sub.TaskID], toModelSubtask(sub))
	}

	out := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, toModelTask(row, byTask[row.ID]))
	}
	return out, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (model.Task, error) {
	row, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, wrapNotFound(err, "get task %s", id)
	}
	subs, err := s.ListSubtasks(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	return toModelTask(row, subs), nil
}

// CreateTask validates form and stores a new open task in the todo column.
func (s *TaskService) CreateTask(ctx context.Context, form model.TaskForm) (model.Task, error) {
	if errs := model.ValidateForm(form, s.now()); errs.HasErrors() {
		return model.Task{}, &ValidationError{Fields: errs}
	}
	task := model.Task{
		ID:          s.newID(),
		Title:       strings.TrimSpace(form.Title),
		Description: strings.TrimSpace(form.Description),
		Priority:    form.Priority,
		DueDate:     form.DueDate,
		Status:      model.StatusTodo,
		Completed:   false,
		CreatedAt:   s.now().UTC(),
		Subtasks:    []model.Subtask{},
	}
	if err := s.repo.CreateTask(ctx, toStorageTask(task)); err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// UpdateTask applies patch and keeps completed in step with status.
func (s *TaskService) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	if err := patch.Validate(); err != nil {
		return model.Task{}, &ValidationError{Fields: patchErrors(err)}
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return model.Task{}, &ValidationError{Fields: model.FormErrors{"title": "Title is required"}}
	}
	current, err := s.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	next := patch.Apply(current)
	if err := s.repo.UpdateTask(ctx, toStorageTask(next)); err != nil {
		return model.Task{}, wrapNotFound(err, "update task %s", id)
	}
	return next, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return wrapNotFound(err, "delete task %s", id)
	}
	return nil
}

func (s *TaskService) ListSubtasks(ctx context.Context, taskID string) ([]model.Subtask, error) {
	rows, err := s.repo.ListSubtasks(ctx, storage.SubtaskListFilter{TaskID: taskID})
	if err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}
	out := make([]model.Subtask, 0, len(rows))
	for _, row := range rows {
		out = append(out, toModelSubtask(row))
	}
	return out, nil
}

func (s *TaskService) CreateSubtask(ctx context.Context, taskID, title string) (model.Subtask, error) {
	errs := model.FormErrors{}
	if strings.TrimSpace(taskID) == "" {
		errs["taskId"] = "Task id is required"
	}
	if strings.TrimSpace(title) == "" {
		errs["title"] = "Title is required"
	}
	if errs.HasErrors() {
		return model.Subtask{}, &ValidationError{Fields: errs}
	}
	if _, err := s.repo.GetTask(ctx, taskID); err != nil {
		return model.Subtask{}, wrapNotFound(err, "get task %s", taskID)
	}

	sub := model.Subtask{
		ID:     s.newID(),
		Title:  strings.TrimSpace(title),
		TaskID: taskID,
	}
	row := toStorageSubtask(sub)
	row.CreatedAt = s.now().UTC()
	if err := s.repo.CreateSubtask(ctx, row); err != nil {
		return model.Subtask{}, fmt.Errorf("create subtask: %w", err)
	}
	return sub, nil
}

func (s *TaskService) UpdateSubtask(ctx context.Context, id string, patch model.SubtaskPatch) (model.Subtask, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return model.Subtask{}, &ValidationError{Fields: model.FormErrors{"title": "Title is required"}}
	}
	row, err := s.repo.GetSubtask(ctx, id)
	if err != nil {
		return model.Subtask{}, wrapNotFound(err, "get subtask %s", id)
	}
	next := patch.Apply(toModelSubtask(row))
	updated := toStorageSubtask(next)
	updated.CreatedAt = row.CreatedAt
	if err := s.repo.UpdateSubtask(ctx, updated); err != nil {
		return model.Subtask{}, wrapNotFound(err, "update subtask %s", id)
	}
	return next, nil
}

func (s *TaskService) DeleteSubtask(ctx context.Context, id string) error {
	if err := s.repo.DeleteSubtask(ctx, id); err != nil {
		return wrapNotFound(err, "delete subtask %s", id)
	}
	return nil
}

func wrapNotFound(err error, format string, args ...any) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

func patchErrors(err error) model.FormErrors {
	switch {
	case errors.Is(err, model.ErrInvalidStatus):
		return model.FormErrors{"status": err.Error()}
	case errors.Is(err, model.ErrInvalidPriority):
		return model.FormErrors{"priority": err.Error()}
	default:
		return model.FormErrors{"completed": err.Error()}
	}
}

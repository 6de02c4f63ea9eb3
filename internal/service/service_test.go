package service

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/storage"
)

func setupService(t *testing.T) *TaskService {
	t.Helper()
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "service.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	return New(repo,
		WithClock(func() time.Time {
			now = now.Add(time.Second)
			return now
		}),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func validForm(title string) model.TaskForm {
	return model.TaskForm{
		Title:       title,
		Description: "details",
		Priority:    model.PriorityMedium,
		DueDate:     time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateTaskDefaults(t *testing.T) {
	svc := setupService(t)
	task, err := svc.CreateTask(t.Context(), validForm("Write report"))
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.ID != "id-1" || task.Status != model.StatusTodo || task.Completed {
		t.Fatalf("unexpected created task: %#v", task)
	}
	if task.Subtasks == nil {
		t.Fatal("expected empty subtask slice, got nil")
	}

	got, err := svc.GetTask(t.Context(), task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if !got.DueDate.Equal(task.DueDate) || got.Title != "Write report" {
		t.Fatalf("unexpected stored task: %#v", got)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	svc := setupService(t)
	_, err := svc.CreateTask(t.Context(), model.TaskForm{Title: "ab"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields["title"] != "Title must be at least 3 characters long" {
		t.Fatalf("unexpected title message: %q", verr.Fields["title"])
	}
	if !verr.MissingRequired() {
		t.Fatal("expected missing required fields")
	}

	past := validForm("Old task")
	past.DueDate = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.CreateTask(t.Context(), past)
	if !errors.As(err, &verr) || verr.Fields["dueDate"] != "Due date cannot be in the past" {
		t.Fatalf("expected past due date error, got %v", err)
	}
	if verr.MissingRequired() {
		t.Fatal("past due date is not a missing field")
	}
}

func TestUpdateTaskKeepsCompletedInStep(t *testing.T) {
	svc := setupService(t)
	task, err := svc.CreateTask(t.Context(), validForm("Ship it"))
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	updated, err := svc.UpdateTask(t.Context(), task.ID, model.StatusPatch(model.StatusDone))
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if updated.Status != model.StatusDone || !updated.Completed {
		t.Fatalf("unexpected updated task: %#v", updated)
	}

	reopened := false
	updated, err = svc.UpdateTask(t.Context(), task.ID, model.TaskPatch{Completed: &reopened})
	if err != nil {
		t.Fatalf("reopen task: %v", err)
	}
	if updated.Status != model.StatusTodo || updated.Completed {
		t.Fatalf("unexpected reopened task: %#v", updated)
	}

	bad := model.Status("archived")
	if _, err := svc.UpdateTask(t.Context(), task.ID, model.TaskPatch{Status: &bad}); err == nil {
		t.Fatal("expected invalid status error")
	}
	if _, err := svc.UpdateTask(t.Context(), "missing", model.StatusPatch(model.StatusDone)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListTasksAttachesSubtasks(t *testing.T) {
	svc := setupService(t)
	first, err := svc.CreateTask(t.Context(), validForm("First task"))
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	second, err := svc.CreateTask(t.Context(), validForm("Second task"))
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	sub, err := svc.CreateSubtask(t.Context(), second.ID, "Check numbers")
	if err != nil {
		t.Fatalf("create subtask: %v", err)
	}

	tasks, err := svc.ListTasks(t.Context())
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != first.ID || tasks[1].ID != second.ID {
		t.Fatalf("unexpected task order: %#v", tasks)
	}
	if len(tasks[0].Subtasks) != 0 || len(tasks[1].Subtasks) != 1 || tasks[1].Subtasks[0].ID != sub.ID {
		t.Fatalf("unexpected subtasks: %#v", tasks)
	}
}

func TestSubtaskLifecycle(t *testing.T) {
	svc := setupService(t)
	task, err := svc.CreateTask(t.Context(), validForm("Parent task"))
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if _, err := svc.CreateSubtask(t.Context(), "missing", "orphan"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing parent, got %v", err)
	}
	var verr *ValidationError
	if _, err := svc.CreateSubtask(t.Context(), task.ID, " "); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	sub, err := svc.CreateSubtask(t.Context(), task.ID, "Step one")
	if err != nil {
		t.Fatalf("create subtask: %v", err)
	}
	done := true
	sub, err = svc.UpdateSubtask(t.Context(), sub.ID, model.SubtaskPatch{Completed: &done})
	if err != nil {
		t.Fatalf("update subtask: %v", err)
	}
	if !sub.Completed || sub.Title != "Step one" {
		t.Fatalf("unexpected subtask: %#v", sub)
	}

	if err := svc.DeleteTask(t.Context(), task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	subs, err := svc.ListSubtasks(t.Context(), task.ID)
	if err != nil {
		t.Fatalf("list subtasks: %v", err)
	}
	if len(subs) != 0 {
		t.Fatalf("expected subtasks removed with task, got %#v", subs)
	}
	if err := svc.DeleteSubtask(t.Context(), sub.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

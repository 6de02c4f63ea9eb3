package model

import (
	"errors"
	"testing"
	"time"
)

func TestTaskValidateSuccess(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Title:     "Implement board sync",
		Status:    StatusInProgress,
		Priority:  PriorityHigh,
		CreatedAt: now,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateCompletedMismatch(t *testing.T) {
	task := Task{
		ID:       "task-1",
		Title:    "Done task",
		Status:   StatusDone,
		Priority: PriorityMedium,
	}
	err := task.Validate()
	if err == nil || !errors.Is(err, ErrCompletedMismatch) {
		t.Fatalf("expected ErrCompletedMismatch, got: %v", err)
	}

	task.Completed = true
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid done task, got: %v", err)
	}
}

func TestTaskValidateInvalidEnums(t *testing.T) {
	task := Task{
		ID:       "task-1",
		Title:    "Bad status",
		Status:   Status("blocked"),
		Priority: PriorityLow,
	}
	err := task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got: %v", err)
	}

	task.Status = StatusTodo
	task.Priority = Priority("urgent")
	err = task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got: %v", err)
	}
}

func TestWithStatusKeepsCompletedInStep(t *testing.T) {
	task := Task{ID: "1", Status: StatusTodo, Subtasks: []Subtask{{ID: "s1", TaskID: "1"}}}

	done := task.WithStatus(StatusDone)
	if done.Status != StatusDone || !done.Completed {
		t.Fatalf("expected done+completed, got %+v", done)
	}
	back := done.WithStatus(StatusInProgress)
	if back.Completed {
		t.Fatalf("expected completed=false after leaving done, got %+v", back)
	}

	done.Subtasks[0].Title = "changed"
	if task.Subtasks[0].Title != "" {
		t.Fatal("expected WithStatus to copy subtasks")
	}
}

func TestPriorityRankAndParse(t *testing.T) {
	if PriorityHigh.Rank() != 3 || PriorityMedium.Rank() != 2 || PriorityLow.Rank() != 1 {
		t.Fatal("unexpected priority ranks")
	}
	if Priority("x").Rank() != 0 {
		t.Fatal("expected unknown priority rank 0")
	}
	p, err := ParsePriority(" HIGH ")
	if err != nil || p != PriorityHigh {
		t.Fatalf("unexpected parse result: %q %v", p, err)
	}
	if _, err := ParseStatus("blocked"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := Task{DueDate: time.Date(2026, 2, 8, 23, 0, 0, 0, time.UTC)}
	if !task.IsOverdue(now) {
		t.Fatal("expected task due yesterday to be overdue")
	}
	task.DueDate = time.Date(2026, 2, 9, 1, 0, 0, 0, time.UTC)
	if task.IsOverdue(now) {
		t.Fatal("expected task due today to not be overdue")
	}
	task.DueDate = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	task.Completed = true
	if task.IsOverdue(now) {
		t.Fatal("expected completed task to never be overdue")
	}
}

func TestSubtaskProgress(t *testing.T) {
	task := Task{Subtasks: []Subtask{{Completed: true}, {}, {Completed: true}}}
	done, total := task.SubtaskProgress()
	if done != 2 || total != 3 {
		t.Fatalf("unexpected progress %d/%d", done, total)
	}
}

package model

import (
	"fmt"
	"time"
)

// TaskPatch is a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
}

// StatusPatch is the update issued for a board move.
func StatusPatch(s Status) TaskPatch {
	completed := s == StatusDone
	return TaskPatch{Status: &s, Completed: &completed}
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.DueDate == nil && p.Status == nil && p.Completed == nil
}

func (p TaskPatch) Validate() error {
	if p.Status != nil && !p.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, *p.Status)
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, *p.Priority)
	}
	if p.Status != nil && p.Completed != nil && *p.Completed != (*p.Status == StatusDone) {
		return fmt.Errorf("%w: status=%s completed=%t", ErrCompletedMismatch, *p.Status, *p.Completed)
	}
	return nil
}

// Apply returns t with the patch applied. Status wins over Completed when both
// are set; a lone Completed maps to done or todo.
func (p TaskPatch) Apply(t Task) Task {
	out := t.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.DueDate != nil {
		out.DueDate = *p.DueDate
	}
	switch {
	case p.Status != nil:
		out.Status = *p.Status
		out.Completed = out.Status == StatusDone
	case p.Completed != nil:
		out.Completed = *p.Completed
		if out.Completed {
			out.Status = StatusDone
		} else {
			out.Status = StatusTodo
		}
	}
	return out
}

type SubtaskPatch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func (p SubtaskPatch) Apply(s Subtask) Subtask {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Completed != nil {
		s.Completed = *p.Completed
	}
	return s
}

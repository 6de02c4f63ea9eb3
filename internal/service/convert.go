package service

import (
	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/storage"
)

func toStorageTask(t model.Task) storage.Task {
	out := storage.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
	}
	if !t.DueDate.IsZero() {
		due := t.DueDate
		out.DueAt = &due
	}
	return out
}

func toModelTask(row storage.Task, subs []model.Subtask) model.Task {
	if subs == nil {
		subs = []model.Subtask{}
	}
	out := model.Task{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Priority:    model.Priority(row.Priority),
		Status:      model.Status(row.Status),
		Completed:   row.Completed,
		CreatedAt:   row.CreatedAt,
		Subtasks:    subs,
	}
	if row.DueAt != nil {
		out.DueDate = *row.DueAt
	}
	return out
}

func toStorageSubtask(s model.Subtask) storage.Subtask {
	return storage.Subtask{
		ID:        s.ID,
		TaskID:    s.TaskID,
		Title:     s.Title,
		Completed: s.Completed,
	}
}

func toModelSubtask(row storage.Subtask) model.Subtask {
	return model.Subtask{
		ID:        row.ID,
		Title:     row.Title,
		Completed: row.Completed,
		TaskID:    row.TaskID,
	}
}

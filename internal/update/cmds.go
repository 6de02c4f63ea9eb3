package update

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskboard/internal/board"
	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/scheduler"
	"github.com/sandeepkv93/taskboard/internal/service"
)

var errNoService = errors.New("no task service configured")

func fetchTasksCmd(svc service.Service, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if svc == nil {
			return TasksLoadedMsg{Err: errNoService}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		tasks, err := svc.ListTasks(ctx)
		return TasksLoadedMsg{Tasks: tasks, Err: err}
	}
}

// runMoveCmd persists an optimistic move off the event loop.
func runMoveCmd(p board.Pending, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return MoveResolvedMsg{Result: p.Run(ctx)}
	}
}

func createTaskCmd(svc service.Service, form model.TaskForm, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if svc == nil {
			return TaskCreatedMsg{Err: errNoService}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		task, err := svc.CreateTask(ctx, form)
		return TaskCreatedMsg{Task: task, Err: err}
	}
}

func deleteTaskCmd(svc service.Service, id string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if svc == nil {
			return TaskDeletedMsg{ID: id, Err: errNoService}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return TaskDeletedMsg{ID: id, Err: svc.DeleteTask(ctx, id)}
	}
}

func createSubtaskCmd(svc service.Service, taskID, title string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if svc == nil {
			return SubtaskCreatedMsg{TaskID: taskID, Err: errNoService}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		st, err := svc.CreateSubtask(ctx, taskID, title)
		return SubtaskCreatedMsg{TaskID: taskID, Subtask: st, Err: err}
	}
}

func refreshTickCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg { return RefreshTickMsg{} })
}

func waitForAlertCmd(ch <-chan scheduler.DueAlert) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		alert, ok := <-ch
		if !ok {
			return nil
		}
		return DueAlertMsg{Alert: alert}
	}
}

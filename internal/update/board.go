package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskboard/internal/board"
	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/views"
)

func (m Model) handleBoardKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		m.moveColumn(-1)
	case "l", "right":
		m.moveColumn(1)
	case "j", "down":
		m.moveRow(1)
	case "k", "up":
		m.moveRow(-1)
	case " ":
		m.beginDrag()
	case "x":
		if task, ok := m.selectedBoardTask(); ok {
			return m.toggleTask(task.ID)
		}
		m.Status = StatusBar{Text: "no card selected", IsError: true}
	case "d":
		if task, ok := m.selectedBoardTask(); ok {
			return m.deleteTask(task.ID)
		}
		m.Status = StatusBar{Text: "no card selected", IsError: true}
	}
	return m, nil
}

// handleDragKey owns the keyboard while a card is lifted: h/l move the
// pointer between columns, enter or space drops, esc cancels.
func (m Model) handleDragKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		if m.Cursor.Hover > 0 {
			m.Cursor.Hover--
		}
	case "l", "right":
		if m.Cursor.Hover < len(model.Statuses)-1 {
			m.Cursor.Hover++
		}
	case "enter", " ":
		return m.drop()
	case "esc":
		m.Engine.DragCancel()
		m.settleDeferred()
		m.followBoardSelection()
		m.Status = StatusBar{Text: "drag cancelled"}
	case m.Keys.Quit:
		m.Engine.DragCancel()
		m.Quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) beginDrag() {
	task, ok := m.selectedBoardTask()
	if !ok {
		m.Status = StatusBar{Text: "no card selected", IsError: true}
		return
	}
	if !m.Engine.DragStart(task.ID, board.CardPayload(task)) {
		m.Status = StatusBar{Text: fmt.Sprintf("cannot drag %q", task.Title), IsError: true}
		return
	}
	m.Cursor.Hover = m.Cursor.Column
	m.Status = StatusBar{Text: fmt.Sprintf("dragging %q: h/l choose a column, enter drops, esc cancels", task.Title)}
}

func (m Model) drop() (Model, tea.Cmd) {
	state, ok := m.Engine.Dragging()
	if !ok {
		return m, nil
	}
	target := model.Statuses[m.Cursor.Hover]
	pending, moved := m.Engine.DragEnd(state.TaskID, string(target), board.ColumnPayload(target))
	m.settleDeferred()
	m.followBoardSelection()
	if !moved {
		m.Status = StatusBar{Text: fmt.Sprintf("%q stays in %s", state.Task.Title, state.Origin.Title())}
		return m, nil
	}
	m.Status = StatusBar{Text: fmt.Sprintf("moving %q to %s...", state.Task.Title, target.Title())}
	m.logger.Infof("board: move %s %s->%s", pending.Move.TaskID, pending.Move.From, pending.Move.To)
	return m, runMoveCmd(pending, m.runtime.RequestTimeout)
}

// settleDeferred applies a snapshot or rollback that arrived mid-drag.
func (m *Model) settleDeferred() {
	if m.Engine.Deferred() {
		m.Engine.Sync()
	}
}

// toggleTask moves a task to done, or back to todo when it is already
// completed. It goes through the engine like any other drop.
func (m Model) toggleTask(id string) (Model, tea.Cmd) {
	task, ok := m.Engine.Columns().Task(id)
	if !ok {
		task, ok = m.Engine.Store().Get(id)
	}
	if !ok {
		m.Status = StatusBar{Text: fmt.Sprintf("unknown task %s", id), IsError: true}
		return m, nil
	}
	target := model.StatusDone
	if task.Completed || task.Status == model.StatusDone {
		target = model.StatusTodo
	}
	return m.moveTask(task, target)
}

func (m Model) moveTask(task model.Task, target model.Status) (Model, tea.Cmd) {
	pending, ok := m.Engine.MoveTo(task.ID, target)
	m.settleDeferred()
	if !ok {
		m.Status = StatusBar{Text: fmt.Sprintf("%q is already in %s", task.Title, target.Title())}
		return m, nil
	}
	m.SelectedTaskID = task.ID
	m.afterStoreChange()
	m.Status = StatusBar{Text: fmt.Sprintf("moving %q to %s...", task.Title, target.Title())}
	m.logger.Infof("board: move %s %s->%s", pending.Move.TaskID, pending.Move.From, pending.Move.To)
	return m, runMoveCmd(pending, m.runtime.RequestTimeout)
}

func (m Model) deleteTask(id string) (Model, tea.Cmd) {
	m.Status = StatusBar{Text: fmt.Sprintf("deleting %q...", m.taskTitle(id))}
	return m, deleteTaskCmd(m.svc, id, m.runtime.RequestTimeout)
}

func (m Model) applyMoveResult(res board.Result) Model {
	title := m.taskTitle(res.Move.TaskID)
	if !m.Engine.Resolve(res) {
		m.LastError = res.Err
		text := fmt.Sprintf("could not move %q to %s: %s", title, res.Move.To.Title(), describeError(res.Err))
		m.Status = StatusBar{Text: text, IsError: true}
		m.notify("Move failed", text, "error")
		m.afterStoreChange()
		return m
	}
	m.afterStoreChange()
	m.Status = StatusBar{Text: fmt.Sprintf("moved %q to %s", title, res.Move.To.Title())}
	return m
}

func (m Model) boardBucket(col int) []model.Task {
	if col < 0 || col >= len(model.Statuses) {
		return nil
	}
	return m.Engine.Columns().Bucket(model.Statuses[col])
}

func (m Model) selectedBoardTask() (model.Task, bool) {
	bucket := m.boardBucket(m.Cursor.Column)
	if m.Cursor.Row < 0 || m.Cursor.Row >= len(bucket) {
		return model.Task{}, false
	}
	return bucket[m.Cursor.Row], true
}

func (m *Model) moveColumn(delta int) {
	m.Cursor.Column = clamp(m.Cursor.Column+delta, 0, len(model.Statuses)-1)
	m.Cursor.Row = clamp(m.Cursor.Row, 0, len(m.boardBucket(m.Cursor.Column))-1)
	m.selectBoardCursor()
}

func (m *Model) moveRow(delta int) {
	m.Cursor.Row = clamp(m.Cursor.Row+delta, 0, len(m.boardBucket(m.Cursor.Column))-1)
	m.selectBoardCursor()
}

func (m *Model) selectBoardCursor() {
	if task, ok := m.selectedBoardTask(); ok {
		m.SelectedTaskID = task.ID
		return
	}
	m.SelectedTaskID = ""
}

// followBoardSelection moves the cursor to wherever the selected task now
// sits, or clamps it when the task is gone.
func (m *Model) followBoardSelection() {
	if m.SelectedTaskID != "" {
		if status, idx, ok := m.Engine.Columns().Find(m.SelectedTaskID); ok {
			for col, s := range model.Statuses {
				if s == status {
					m.Cursor.Column = col
					m.Cursor.Row = idx
					return
				}
			}
		}
	}
	m.Cursor.Column = clamp(m.Cursor.Column, 0, len(model.Statuses)-1)
	m.Cursor.Row = clamp(m.Cursor.Row, 0, len(m.boardBucket(m.Cursor.Column))-1)
	m.selectBoardCursor()
}

func (m Model) renderBoardView() string {
	drag, dragging := m.Engine.Dragging()
	now := m.now()

	cols := make([]views.ColumnData, 0, len(model.Statuses))
	for i, status := range model.Statuses {
		col := views.ColumnData{
			Title:   status.Title(),
			Focused: !dragging && i == m.Cursor.Column,
			Hovered: dragging && i == m.Cursor.Hover,
		}
		for row, task := range m.boardBucket(i) {
			// The store may hold newer fields (subtasks) than the view.
			if fresh, ok := m.Engine.Store().Get(task.ID); ok {
				task = fresh.WithStatus(task.Status)
			}
			col.Cards = append(col.Cards, cardData(task, now, i == m.Cursor.Column && row == m.Cursor.Row, dragging && task.ID == drag.TaskID))
		}
		cols = append(cols, col)
	}

	data := views.BoardPanelData{Columns: cols, Width: m.width - 48}
	if dragging {
		data.Preview = &views.DragPreviewData{
			Title: drag.Task.Title,
			From:  drag.Origin.Title(),
			To:    model.Statuses[m.Cursor.Hover].Title(),
		}
	}
	return views.RenderBoardPanel(data)
}

func cardData(task model.Task, now time.Time, selected, dragged bool) views.CardData {
	done, total := task.SubtaskProgress()
	return views.CardData{
		ID:            task.ID,
		Title:         task.Title,
		Priority:      string(task.Priority),
		Due:           formatDate(task.DueDate),
		Overdue:       task.IsOverdue(now),
		Completed:     task.Completed,
		Selected:      selected,
		Dragged:       dragged,
		SubtasksDone:  done,
		SubtasksTotal: total,
	}
}

package update

import (
	"fmt"

	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/views"
)

// syncBubbleData pushes model state into the bubbles components after every
// update.
func (m *Model) syncBubbleData() {
	page, _ := m.listPage()
	m.listTable.SetRows(m.listRows(page.Items))
	m.listTable.SetHeight(max(m.List.PageSize, 1) + 1)
	if len(page.Items) > 0 {
		m.listTable.SetCursor(clamp(m.List.Cursor, 0, len(page.Items)-1))
	}
	m.refreshDetail()
}

// refreshDetail re-renders the detail pane only when the selected task's
// content changes, since markdown rendering is not cheap.
func (m *Model) refreshDetail() {
	task, ok := m.selectedTask()
	key := ""
	if ok {
		done, total := task.SubtaskProgress()
		key = fmt.Sprintf("%s|%s|%s|%s|%s|%s|%d/%d", task.ID, task.Status, task.Priority, task.Title, task.Description, formatDate(task.DueDate), done, total)
	}
	if key == m.detailKey && m.detailKey != "" {
		return
	}
	m.detailKey = key
	if !ok {
		m.detailViewport.SetContent(views.RenderDetailPanel(views.DetailPanelData{}))
		return
	}

	subtasks := make([]views.SubtaskData, 0, len(task.Subtasks))
	for _, st := range task.Subtasks {
		subtasks = append(subtasks, views.SubtaskData{Title: st.Title, Completed: st.Completed})
	}
	m.detailViewport.SetContent(views.RenderDetailPanel(views.DetailPanelData{
		ID:              task.ID,
		Title:           task.Title,
		Status:          task.Status.Title(),
		Priority:        string(task.Priority),
		Due:             formatDate(task.DueDate),
		Created:         task.CreatedAt.Local().Format("2006-01-02 15:04"),
		Overdue:         task.IsOverdue(m.now()),
		DescriptionView: views.RenderMarkdown(task.Description, m.detailViewport.Width-2),
		Subtasks:        subtasks,
	}))
	m.detailViewport.GotoTop()
}

// selectedTask returns the selected task with its optimistic board status.
func (m Model) selectedTask() (model.Task, bool) {
	if m.SelectedTaskID == "" {
		return model.Task{}, false
	}
	task, ok := m.Engine.Store().Get(m.SelectedTaskID)
	if view, inView := m.Engine.Columns().Task(m.SelectedTaskID); inView {
		if !ok {
			return view, true
		}
		return task.WithStatus(view.Status), true
	}
	return task, ok
}

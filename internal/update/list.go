package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/pipeline"
	"github.com/sandeepkv93/taskboard/internal/views"
)

var priorityFilters = []model.Priority{pipeline.PriorityAll, model.PriorityLow, model.PriorityMedium, model.PriorityHigh}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	page, _ := m.listPage()
	switch msg.String() {
	case "j", "down":
		m.List.Cursor = clamp(m.List.Cursor+1, 0, len(page.Items)-1)
		m.selectListCursor()
	case "k", "up":
		m.List.Cursor = clamp(m.List.Cursor-1, 0, len(page.Items)-1)
		m.selectListCursor()
	case "f":
		m.List.Filter.Status = pipeline.Next(pipeline.FilterStatuses, m.List.Filter.Status)
		m.resetListPage()
	case "p":
		m.List.Filter.Priority = pipeline.Next(priorityFilters, m.List.Filter.Priority)
		m.resetListPage()
	case "s":
		m.List.Sort.Field = pipeline.Next(pipeline.SortFields, m.List.Sort.Field)
		m.resetListPage()
	case "o":
		if m.List.Sort.Order == pipeline.OrderAsc {
			m.List.Sort.Order = pipeline.OrderDesc
		} else {
			m.List.Sort.Order = pipeline.OrderAsc
		}
		m.resetListPage()
	case "n":
		if page.HasNext {
			m.List.Page++
			m.List.Cursor = 0
			m.selectListCursor()
		}
	case "b":
		if page.HasPrevious {
			m.List.Page--
			m.List.Cursor = 0
			m.selectListCursor()
		}
	case "x":
		if task, ok := m.selectedListTask(); ok {
			return m.toggleTask(task.ID)
		}
		m.Status = StatusBar{Text: "no task selected", IsError: true}
	case "d":
		if task, ok := m.selectedListTask(); ok {
			return m.deleteTask(task.ID)
		}
		m.Status = StatusBar{Text: "no task selected", IsError: true}
	}
	return m, nil
}

// listPage runs the pipeline over the snapshot store. Unlike the board, the
// list keeps tasks whose status is not a known column.
func (m Model) listPage() (pipeline.Page[model.Task], int) {
	items := pipeline.Apply(m.Engine.Store().Tasks(), m.List.Filter, m.List.Sort)
	return pipeline.Paginate(items, m.List.PageSize, m.List.Page), len(items)
}

func (m Model) selectedListTask() (model.Task, bool) {
	page, _ := m.listPage()
	if m.List.Cursor < 0 || m.List.Cursor >= len(page.Items) {
		return model.Task{}, false
	}
	return page.Items[m.List.Cursor], true
}

func (m *Model) resetListPage() {
	m.List.Page = 1
	m.List.Cursor = 0
	m.selectListCursor()
}

func (m *Model) selectListCursor() {
	if task, ok := m.selectedListTask(); ok {
		m.SelectedTaskID = task.ID
		return
	}
	m.SelectedTaskID = ""
}

// followListSelection keeps the selected task under the cursor when it is
// still on the current page. Otherwise the cursor is clamped.
func (m *Model) followListSelection() {
	page, _ := m.listPage()
	if m.List.Page > 1 && len(page.Items) == 0 && page.TotalPages > 0 {
		m.List.Page = page.TotalPages
		page, _ = m.listPage()
	}
	for i, task := range page.Items {
		if task.ID == m.SelectedTaskID {
			m.List.Cursor = i
			return
		}
	}
	m.List.Cursor = clamp(m.List.Cursor, 0, len(page.Items)-1)
	m.selectListCursor()
}

func (m Model) listRows(items []model.Task) []table.Row {
	rows := make([]table.Row, 0, len(items))
	for _, task := range items {
		done, total := task.SubtaskProgress()
		sub := ""
		if total > 0 {
			sub = fmt.Sprintf("%d/%d", done, total)
		}
		rows = append(rows, table.Row{
			shortID(task.ID),
			task.Title,
			string(task.Status),
			string(task.Priority),
			formatDate(task.DueDate),
			sub,
		})
	}
	return rows
}

func (m Model) renderListView() string {
	page, total := m.listPage()
	return views.RenderListPanel(views.ListPanelData{
		FilterLabel: fmt.Sprintf("status=%s priority=%s", m.List.Filter.Status, m.List.Filter.Priority),
		SortLabel:   fmt.Sprintf("%s %s", m.List.Sort.Field, m.List.Sort.Order),
		TableView:   m.listTable.View(),
		Page:        page.Page,
		TotalPages:  page.TotalPages,
		Total:       total,
		HasNext:     page.HasNext,
		HasPrevious: page.HasPrevious,
	})
}

package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskboard/internal/commands"
	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/pipeline"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		case tea.KeySpace:
			m.commandInput.SetValue(m.commandInput.Value() + " ")
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
	return m, nil
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()

	parsed, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var next tea.Cmd
	res, err := commands.Execute(parsed, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			form := model.TaskForm{
				Title:       a.Title,
				Description: a.Description,
				Priority:    a.Priority,
				DueDate:     a.Due,
			}
			// The palette is a quick-add: fill what the form requires.
			if strings.TrimSpace(form.Description) == "" {
				form.Description = a.Title
			}
			if form.DueDate.IsZero() {
				form.DueDate = model.StartOfDay(m.now())
			}
			if errs := model.ValidateForm(form, m.now()); errs.HasErrors() {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: strings.TrimPrefix(errs.Error(), "model: ")}
			}
			next = createTaskCmd(m.svc, form, m.runtime.RequestTimeout)
			return commands.Result{Message: fmt.Sprintf("adding %q...", form.Title)}, nil
		},
		Subtask: func(s commands.SubtaskArgs) (commands.Result, error) {
			id, err := m.resolveRef(s.Ref)
			if err != nil {
				return commands.Result{}, err
			}
			next = createSubtaskCmd(m.svc, id, s.Title, m.runtime.RequestTimeout)
			return commands.Result{Message: fmt.Sprintf("adding subtask to %q...", m.taskTitle(id))}, nil
		},
		Filter: func(f commands.FilterArgs) (commands.Result, error) {
			if f.Status == "" && f.Priority == "" {
				m.List.Filter = pipeline.DefaultFilter()
			}
			if f.Status != "" {
				m.List.Filter.Status = f.Status
			}
			if f.Priority != "" {
				m.List.Filter.Priority = f.Priority
			}
			m.CurrentView = ViewList
			m.resetListPage()
			return commands.Result{Message: fmt.Sprintf("filter: status=%s priority=%s", m.List.Filter.Status, m.List.Filter.Priority)}, nil
		},
		Sort: func(s commands.SortArgs) (commands.Result, error) {
			m.List.Sort.Field = s.Field
			if s.Order != "" {
				m.List.Sort.Order = s.Order
			}
			m.CurrentView = ViewList
			m.resetListPage()
			return commands.Result{Message: fmt.Sprintf("sort: %s %s", m.List.Sort.Field, m.List.Sort.Order)}, nil
		},
		Page: func(p commands.PageArgs) (commands.Result, error) {
			m.List.Page = p.Page
			m.List.Cursor = 0
			m.CurrentView = ViewList
			m.selectListCursor()
			return commands.Result{Message: fmt.Sprintf("page %d", p.Page)}, nil
		},
		Move: func(a commands.MoveArgs) (commands.Result, error) {
			task, err := m.resolveTask(a.Ref)
			if err != nil {
				return commands.Result{}, err
			}
			m, next = m.moveTask(task, a.Status)
			return commands.Result{Message: m.Status.Text}, nil
		},
		Toggle: func(a commands.RefArgs) (commands.Result, error) {
			id, err := m.resolveRef(a.Ref)
			if err != nil {
				return commands.Result{}, err
			}
			m, next = m.toggleTask(id)
			return commands.Result{Message: m.Status.Text}, nil
		},
		Delete: func(a commands.RefArgs) (commands.Result, error) {
			id, err := m.resolveRef(a.Ref)
			if err != nil {
				return commands.Result{}, err
			}
			m, next = m.deleteTask(id)
			return commands.Result{Message: m.Status.Text}, nil
		},
		Refresh: func() (commands.Result, error) {
			m, next = m.startSync()
			return commands.Result{Message: m.Status.Text}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.logger.Warnf("palette: %q: %v", raw, err)
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message, IsError: m.Status.IsError}
	return m, next
}

func (m Model) resolveRef(ref string) (string, error) {
	tasks := m.Engine.Store().Tasks()
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return commands.ResolveRef(ref, ids)
}

func (m Model) resolveTask(ref string) (model.Task, error) {
	id, err := m.resolveRef(ref)
	if err != nil {
		return model.Task{}, err
	}
	if task, ok := m.Engine.Columns().Task(id); ok {
		return task, nil
	}
	task, _ := m.Engine.Store().Get(id)
	return task, nil
}

package update

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskboard/internal/scheduler"
	"github.com/sandeepkv93/taskboard/internal/service"
	"github.com/sandeepkv93/taskboard/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{refreshTickCmd(m.runtime.RefreshInterval)}
	if m.svc != nil {
		cmds = append(cmds, fetchTasksCmd(m.svc, m.runtime.RequestTimeout), m.syncSpinner.Tick)
	}
	if m.Scheduler != nil {
		cmds = append(cmds, waitForAlertCmd(m.Scheduler.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	case spinner.TickMsg:
		if !m.Syncing {
			return m, nil
		}
		var cmd tea.Cmd
		m.syncSpinner, cmd = m.syncSpinner.Update(typed)
		return m, cmd
	case RefreshTickMsg:
		tick := refreshTickCmd(m.runtime.RefreshInterval)
		if m.Syncing || m.svc == nil {
			return m, tick
		}
		next, cmd := m.startSync()
		return next, tea.Batch(cmd, tick)
	case TasksLoadedMsg:
		return m.applySnapshot(typed), nil
	case MoveResolvedMsg:
		return m.applyMoveResult(typed.Result), nil
	case TaskCreatedMsg:
		if typed.Err != nil {
			m.fail("add task", typed.Err)
			return m, nil
		}
		m.Engine.Store().Upsert(typed.Task)
		m.Engine.Sync()
		m.SelectedTaskID = typed.Task.ID
		m.afterStoreChange()
		m.Status = StatusBar{Text: fmt.Sprintf("added %q", typed.Task.Title)}
		return m, nil
	case TaskDeletedMsg:
		if typed.Err != nil {
			m.fail("delete task", typed.Err)
			return m, nil
		}
		title := m.taskTitle(typed.ID)
		m.Engine.Store().Remove(typed.ID)
		m.Engine.Sync()
		if m.SelectedTaskID == typed.ID {
			m.SelectedTaskID = ""
		}
		m.afterStoreChange()
		m.Status = StatusBar{Text: fmt.Sprintf("deleted %q", title)}
		return m, nil
	case SubtaskCreatedMsg:
		if typed.Err != nil {
			m.fail("add subtask", typed.Err)
			return m, nil
		}
		if task, ok := m.Engine.Store().Get(typed.TaskID); ok {
			task.Subtasks = append(task.Subtasks, typed.Subtask)
			m.Engine.Store().Upsert(task)
		}
		m.Status = StatusBar{Text: fmt.Sprintf("added subtask %q", typed.Subtask.Title)}
		return m, nil
	case DueAlertMsg:
		m.handleDueAlert(typed)
		if m.Scheduler != nil {
			return m, waitForAlertCmd(m.Scheduler.C())
		}
		return m, nil
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
			m.afterStoreChange()
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.Palette.Active {
		if keyStr == m.Keys.Help {
			m.HelpVisible = !m.HelpVisible
			return m, nil
		}
		return m.handlePaletteKey(msg)
	}
	if _, dragging := m.Engine.Dragging(); dragging {
		return m.handleDragKey(msg)
	}

	switch keyStr {
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.Focus()
		m.commandInput.SetValue("")
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	case m.Keys.Board:
		m.CurrentView = ViewBoard
		m.afterStoreChange()
		return m, nil
	case m.Keys.List:
		m.CurrentView = ViewList
		m.afterStoreChange()
		return m, nil
	case "tab":
		if m.CurrentView == ViewBoard {
			m.CurrentView = ViewList
		} else {
			m.CurrentView = ViewBoard
		}
		m.afterStoreChange()
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown"}
		} else {
			m.Status = StatusBar{Text: "help hidden"}
		}
		return m, nil
	case "r":
		return m.startSync()
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}

	if m.CurrentView == ViewList {
		return m.handleListKey(msg)
	}
	return m.handleBoardKey(msg)
}

func (m Model) startSync() (Model, tea.Cmd) {
	if m.svc == nil {
		m.Status = StatusBar{Text: errNoService.Error(), IsError: true}
		return m, nil
	}
	if m.Syncing {
		return m, nil
	}
	m.Syncing = true
	m.Status = StatusBar{Text: "syncing..."}
	return m, tea.Batch(fetchTasksCmd(m.svc, m.runtime.RequestTimeout), m.syncSpinner.Tick)
}

func (m Model) applySnapshot(msg TasksLoadedMsg) Model {
	m.Syncing = false
	if msg.Err != nil {
		m.fail("sync", msg.Err)
		return m
	}
	m.Engine.Store().Replace(msg.Tasks)
	m.Engine.Sync()
	m.LastSync = m.now()
	m.LastError = nil
	m.afterStoreChange()

	text := fmt.Sprintf("synced %d task(s)", len(msg.Tasks))
	if m.Engine.Deferred() {
		text += "; board update waits for the drop"
	}
	m.Status = StatusBar{Text: text}
	m.logger.Debugf("board: synced %d task(s)", len(msg.Tasks))
	return m
}

// afterStoreChange re-plans due alerts and puts the active view's cursor back
// on the selected task.
func (m *Model) afterStoreChange() {
	m.planAlerts()
	if m.CurrentView == ViewList {
		m.followListSelection()
		return
	}
	m.followBoardSelection()
}

func (m *Model) planAlerts() {
	if m.Scheduler == nil {
		return
	}
	if err := m.Scheduler.Replace(scheduler.PlanAlerts(m.Engine.Store().Tasks())); err != nil {
		m.logger.Warnf("board: plan due alerts: %v", err)
	}
}

func (m *Model) fail(action string, err error) {
	m.LastError = err
	text := fmt.Sprintf("%s failed: %s", action, describeError(err))
	m.Status = StatusBar{Text: text, IsError: true}
	m.notify("Error", text, "error")
	m.logger.Errorf("board: %s: %v", action, err)
}

func describeError(err error) string {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		parts := make([]string, 0, len(verr.Fields))
		fields := make([]string, 0, len(verr.Fields))
		for field := range verr.Fields {
			fields = append(fields, field)
		}
		slices.Sort(fields)
		for _, field := range fields {
			parts = append(parts, verr.Fields[field])
		}
		return strings.Join(parts, "; ")
	}
	return err.Error()
}

func (m Model) taskTitle(id string) string {
	if task, ok := m.Engine.Columns().Task(id); ok {
		return task.Title
	}
	if task, ok := m.Engine.Store().Get(id); ok {
		return task.Title
	}
	return id
}

func isKnownView(v View) bool {
	return v == ViewBoard || v == ViewList
}

func (m Model) View() string {
	if m.Quitting {
		return "bye\n"
	}

	left := m.renderBoardView()
	if m.CurrentView == ViewList {
		left = m.renderListView()
	}

	right := []string{m.detailViewport.View()}
	if palette := views.RenderCommandPalette(m.Palette.Active, m.Palette.Input); palette != "" {
		right = append(right, palette)
	}
	if m.HelpVisible {
		right = append(right, m.renderHelpView())
	}

	status := m.Status.Text
	if m.Syncing {
		status = m.syncSpinner.View() + " " + status
	}

	return views.RenderApp(views.AppData{
		Header:       m.renderHeader(),
		LeftPane:     left,
		RightPane:    strings.Join(right, "\n\n"),
		StatusLine:   "status: " + status,
		IsError:      m.Status.IsError,
		Footer:       "1 board | 2 list | tab switch | / palette | ? help | r refresh | q quit",
		Notification: m.renderLatestNotification(),
	})
}

func (m Model) renderHeader() string {
	header := fmt.Sprintf("taskboard | %s | %d task(s)", m.CurrentView, m.Engine.Store().Len())
	if n := m.Engine.InFlight(); n > 0 {
		header += fmt.Sprintf(" | %d move(s) pending", n)
	}
	if !m.LastSync.IsZero() {
		header += " | synced " + m.LastSync.Format("15:04:05")
	}
	return header
}

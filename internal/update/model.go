// Package update implements the board's bubbletea program: the Kanban board,
// the filtered task list, the command palette and due alerts.
package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/taskboard/internal/board"
	"github.com/sandeepkv93/taskboard/internal/logging"
	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/pipeline"
	"github.com/sandeepkv93/taskboard/internal/scheduler"
	"github.com/sandeepkv93/taskboard/internal/service"
)

type View string

const (
	ViewBoard View = "Board"
	ViewList  View = "List"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Board string
	List  string
	Help  string
	Quit  string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// BoardCursor addresses a card by column index and row. Hover is the column
// under the keyboard pointer while a drag is active.
type BoardCursor struct {
	Column int
	Row    int
	Hover  int
}

type ListState struct {
	Filter   pipeline.FilterOptions
	Sort     pipeline.SortOptions
	Page     int
	Cursor   int
	PageSize int
}

type RuntimeConfig struct {
	RefreshInterval time.Duration
	RequestTimeout  time.Duration
	PageSize        int
	DesktopAlerts   bool
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		RefreshInterval: 30 * time.Second,
		RequestTimeout:  10 * time.Second,
		PageSize:        10,
	}
}

type Model struct {
	CurrentView    View
	SelectedTaskID string
	Engine         *board.Engine
	Cursor         BoardCursor
	List           ListState
	Scheduler      *scheduler.Engine
	Palette        CommandPaletteState
	HelpVisible    bool
	Notifications  []Notification
	Status         StatusBar
	Keys           GlobalKeyMap
	Syncing        bool
	LastSync       time.Time
	Quitting       bool
	LastError      error

	svc      service.Service
	logger   *logging.Logger
	notifier Notifier
	runtime  RuntimeConfig
	now      func() time.Time

	listTable      table.Model
	commandInput   textinput.Model
	syncSpinner    spinner.Model
	helpModel      help.Model
	detailViewport viewport.Model
	detailKey      string
	width          int
}

type Option func(*Model)

func WithLogger(l *logging.Logger) Option {
	return func(m *Model) { m.logger = l }
}

func WithScheduler(s *scheduler.Engine) Option {
	return func(m *Model) { m.Scheduler = s }
}

func WithNotifier(n Notifier) Option {
	return func(m *Model) {
		if n != nil {
			m.notifier = n
		}
	}
}

func WithRuntime(cfg RuntimeConfig) Option {
	return func(m *Model) { m.runtime = cfg }
}

func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type RefreshTickMsg struct{}

type TasksLoadedMsg struct {
	Tasks []model.Task
	Err   error
}

type MoveResolvedMsg struct {
	Result board.Result
}

type TaskCreatedMsg struct {
	Task model.Task
	Err  error
}

type TaskDeletedMsg struct {
	ID  string
	Err error
}

type SubtaskCreatedMsg struct {
	TaskID  string
	Subtask model.Subtask
	Err     error
}

type DueAlertMsg struct {
	Alert scheduler.DueAlert
}

// NewModel builds the program state around svc, which serves both reads and
// the board engine's status updates. A nil svc leaves the board empty and
// every write fails.
func NewModel(svc service.Service, opts ...Option) Model {
	m := Model{
		CurrentView: ViewBoard,
		List: ListState{
			Filter: pipeline.DefaultFilter(),
			Sort:   pipeline.DefaultSort(),
			Page:   1,
		},
		Keys: GlobalKeyMap{
			Board: "1",
			List:  "2",
			Help:  "?",
			Quit:  "q",
		},
		svc:      svc,
		notifier: NoopNotifier{},
		runtime:  DefaultRuntimeConfig(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}

	defaults := DefaultRuntimeConfig()
	if m.runtime.RequestTimeout <= 0 {
		m.runtime.RequestTimeout = defaults.RequestTimeout
	}
	if m.runtime.PageSize <= 0 {
		m.runtime.PageSize = defaults.PageSize
	}
	m.List.PageSize = m.runtime.PageSize

	var updater board.Updater
	if svc != nil {
		updater = svc
	}
	m.Engine = board.NewEngine(board.NewSnapshotStore(nil), updater, board.WithLogger(m.logger))
	m.Syncing = svc != nil
	if m.Syncing {
		m.Status = StatusBar{Text: "loading tasks..."}
	}

	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	cols := []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Title", Width: 24},
		{Title: "Status", Width: 11},
		{Title: "Priority", Width: 8},
		{Title: "Due", Width: 10},
		{Title: "Sub", Width: 5},
	}
	m.listTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(m.runtime.PageSize+1))

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.syncSpinner = spinner.New()
	m.syncSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.detailViewport = viewport.New(42, 18)
}

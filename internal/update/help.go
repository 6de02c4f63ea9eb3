package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/taskboard/internal/commands"
	"github.com/sandeepkv93/taskboard/internal/views"
)

// helpKeyMap feeds the bubbles help component. The short view shows the
// bindings of the current mode, the full view adds the global ones.
type helpKeyMap struct {
	mode   []key.Binding
	global []key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.mode }
func (k helpKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.mode, k.global} }

func bind(keys, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(keys), key.WithHelp(keys, desc))
}

func (m Model) keyMap() helpKeyMap {
	return helpKeyMap{mode: m.modeBindings(), global: m.globalBindings()}
}

func (m Model) renderHelpView() string {
	km := m.keyMap()
	lines := make([]string, 0, len(km.mode)+len(commands.Types)+1)
	for _, b := range km.mode {
		lines = append(lines, fmt.Sprintf("- %s: %s", b.Help().Key, b.Help().Desc))
	}
	lines = append(lines, "commands:")
	for _, t := range commands.Types {
		lines = append(lines, "  /"+string(t))
	}

	hm := m.helpModel
	hm.ShowAll = true
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.mode()),
		Bindings:    lines,
		HelpView:    hm.View(km),
	})
}

// mode names what the keyboard currently drives.
func (m Model) mode() View {
	if _, dragging := m.Engine.Dragging(); dragging {
		return "Drag"
	}
	return m.CurrentView
}

func (m Model) globalBindings() []key.Binding {
	return []key.Binding{
		bind(m.Keys.Board, "board"),
		bind(m.Keys.List, "list"),
		bind("/", "palette"),
		bind("r", "refresh"),
		bind(m.Keys.Help, "help"),
		bind(m.Keys.Quit, "quit"),
	}
}

func (m Model) modeBindings() []key.Binding {
	switch m.mode() {
	case "Drag":
		return []key.Binding{
			bind("h/l", "choose target column"),
			bind("enter/space", "drop card"),
			bind("esc", "cancel drag"),
		}
	case ViewList:
		return []key.Binding{
			bind("j/k", "move cursor"),
			bind("f", "cycle status filter"),
			bind("p", "cycle priority filter"),
			bind("s/o", "sort field, flip order"),
			bind("n/b", "next or previous page"),
			bind("x", "toggle done"),
			bind("d", "delete task"),
		}
	}
	return []key.Binding{
		bind("h/l", "move between columns"),
		bind("j/k", "move between cards"),
		bind("space", "pick up card"),
		bind("x", "toggle done"),
		bind("d", "delete task"),
	}
}

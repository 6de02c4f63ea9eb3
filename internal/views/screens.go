package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type CardData struct {
	ID            string
	Title         string
	Priority      string
	Due           string
	Overdue       bool
	Completed     bool
	Selected      bool
	Dragged       bool
	SubtasksDone  int
	SubtasksTotal int
}

type ColumnData struct {
	Title   string
	Cards   []CardData
	Focused bool
	Hovered bool
}

type DragPreviewData struct {
	Title string
	From  string
	To    string
}

type BoardPanelData struct {
	Columns []ColumnData
	Preview *DragPreviewData
	Width   int
}

type ListPanelData struct {
	FilterLabel string
	SortLabel   string
	TableView   string
	Page        int
	TotalPages  int
	Total       int
	HasNext     bool
	HasPrevious bool
}

type SubtaskData struct {
	Title     string
	Completed bool
}

type DetailPanelData struct {
	ID              string
	Title           string
	Status          string
	Priority        string
	Due             string
	Created         string
	Overdue         bool
	DescriptionView string
	Subtasks        []SubtaskData
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

var (
	columnStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	hoveredStyle  = columnStyle.BorderForeground(lipgloss.Color("11"))
	focusedStyle  = columnStyle.BorderForeground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	draggedStyle  = lipgloss.NewStyle().Faint(true)
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	previewStyle  = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("11")).Padding(0, 1)
)

const minColumnWidth = 22

func RenderBoardPanel(data BoardPanelData) string {
	width := minColumnWidth
	if n := len(data.Columns); n > 0 && data.Width > 0 {
		width = max(minColumnWidth, data.Width/n-4)
	}

	cols := make([]string, 0, len(data.Columns))
	for _, col := range data.Columns {
		style := columnStyle
		switch {
		case col.Hovered:
			style = hoveredStyle
		case col.Focused:
			style = focusedStyle
		}
		cols = append(cols, style.Width(width).Render(renderColumn(col, width)))
	}

	out := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	if data.Preview != nil {
		out += "\n" + previewStyle.Render(fmt.Sprintf("dragging: %s\n%s -> %s", data.Preview.Title, data.Preview.From, data.Preview.To))
	}
	return out
}

func renderColumn(col ColumnData, width int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s (%d)\n", col.Title, len(col.Cards)))
	if len(col.Cards) == 0 {
		b.WriteString("  (empty)")
		return b.String()
	}
	for _, card := range col.Cards {
		line := cardLine(card, width)
		switch {
		case card.Dragged:
			line = draggedStyle.Render(line)
		case card.Selected:
			line = selectedStyle.Render(line)
		case card.Overdue:
			line = overdueStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func cardLine(card CardData, width int) string {
	marker := " "
	if card.Selected {
		marker = ">"
	}
	title := card.Title
	if card.Completed {
		title = "[x] " + title
	}
	meta := priorityBadge(card.Priority)
	if card.SubtasksTotal > 0 {
		meta += fmt.Sprintf(" %d/%d", card.SubtasksDone, card.SubtasksTotal)
	}
	if card.Due != "" {
		meta += " " + card.Due
	}
	return truncate(fmt.Sprintf("%s %s", marker, title), width) + "\n    " + meta
}

func priorityBadge(p string) string {
	switch p {
	case "high":
		return "[HIGH]"
	case "medium":
		return "[MED]"
	case "low":
		return "[LOW]"
	default:
		return "[" + strings.ToUpper(p) + "]"
	}
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 1 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "~"
}

func RenderListPanel(data ListPanelData) string {
	var b strings.Builder
	b.WriteString("list:\n")
	b.WriteString(fmt.Sprintf("filter: %s | sort: %s\n", data.FilterLabel, data.SortLabel))
	b.WriteString("actions: [f]status [p]priority [s]sort [o]order [n/b]page [x]toggle [d]delete\n")
	if data.Total == 0 {
		b.WriteString("(no tasks match)")
		return b.String()
	}
	b.WriteString(data.TableView + "\n")
	nav := fmt.Sprintf("page %d/%d | %d task(s)", data.Page, data.TotalPages, data.Total)
	if data.HasPrevious {
		nav = "< " + nav
	}
	if data.HasNext {
		nav += " >"
	}
	b.WriteString(nav)
	return b.String()
}

func RenderDetailPanel(data DetailPanelData) string {
	if strings.TrimSpace(data.ID) == "" {
		return "details:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString("details:\n")
	b.WriteString(data.Title + "\n")
	b.WriteString(fmt.Sprintf("id: %s\nstatus: %s\npriority: %s\n", data.ID, data.Status, data.Priority))
	due := data.Due
	if data.Overdue {
		due = overdueStyle.Render(due + " (overdue)")
	}
	b.WriteString(fmt.Sprintf("due: %s\ncreated: %s\n", due, data.Created))
	if data.DescriptionView != "" {
		b.WriteString("\n" + data.DescriptionView + "\n")
	}
	if len(data.Subtasks) > 0 {
		done := 0
		for _, st := range data.Subtasks {
			if st.Completed {
				done++
			}
		}
		b.WriteString(fmt.Sprintf("\nsubtasks %d/%d:\n", done, len(data.Subtasks)))
		for _, st := range data.Subtasks {
			box := "[ ]"
			if st.Completed {
				box = "[x]"
			}
			b.WriteString(fmt.Sprintf("%s %s\n", box, st.Title))
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

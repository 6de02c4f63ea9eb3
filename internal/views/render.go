package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// AppData is one frame of the board UI. Empty sections are left out.
type AppData struct {
	Header       string
	LeftPane     string
	RightPane    string
	StatusLine   string
	IsError      bool
	Footer       string
	Notification string
}

const sidebarWidth = 44

var (
	titleBar    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1)
	okLine      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failLine    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	boxed       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	sidebar     = boxed.Width(sidebarWidth).BorderForeground(lipgloss.Color("8"))
	toast       = boxed.BorderForeground(lipgloss.Color("11"))
	keyHintLine = lipgloss.NewStyle().Faint(true)
)

func RenderApp(data AppData) string {
	body := boxed.Render(data.LeftPane)
	if strings.TrimSpace(data.RightPane) != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, sidebar.Render(data.RightPane))
	}

	status := okLine
	if data.IsError {
		status = failLine
	}

	sections := []string{titleBar.Render(data.Header), body, status.Render(data.StatusLine)}
	if data.Notification != "" {
		sections = append(sections, toast.Render(data.Notification))
	}
	if data.Footer != "" {
		sections = append(sections, keyHintLine.Render(data.Footer))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// RenderMarkdown renders md for the terminal at width columns, falling back
// to the raw text when rendering fails.
func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if width <= 0 {
		width = 40
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

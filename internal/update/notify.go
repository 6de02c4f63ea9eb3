package update

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/sandeepkv93/taskboard/internal/views"
)

const maxNotifications = 40

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

// Notifier forwards due alerts outside the terminal.
type Notifier interface {
	Send(Notification) error
}

type NoopNotifier struct{}

func (NoopNotifier) Send(Notification) error { return nil }

// DesktopNotifier shells out to notify-send on Linux and osascript on macOS.
type DesktopNotifier struct{}

func (DesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	m.Notifications = append(m.Notifications, Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.now().UTC(),
	})
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
}

func (m *Model) handleDueAlert(msg DueAlertMsg) {
	alert := msg.Alert
	task, ok := m.Engine.Store().Get(alert.TaskID)
	if ok && task.Completed {
		return
	}
	title := alert.Title
	if ok {
		title = task.Title
	}
	n := Notification{
		Title: "Task due",
		Body:  fmt.Sprintf("%q is due %s", title, formatDate(alert.DueAt)),
		Level: "warn",
		At:    m.now().UTC(),
	}
	m.notify(n.Title, n.Body, n.Level)
	if m.runtime.DesktopAlerts {
		if err := m.notifier.Send(n); err != nil {
			m.logger.Warnf("board: desktop alert: %v", err)
		}
	}
}

func (m Model) renderLatestNotification() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	last := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(last.Level, last.Body)
}

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

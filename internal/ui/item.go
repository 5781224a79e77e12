package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nissyi-gh/duedeck/internal/render"
)

var (
	highPriorityStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mediumPriorityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	countdownStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	terminalStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// TaskItem wraps a rendered task to satisfy the list.DefaultItem interface.
type TaskItem struct {
	render.Item
	// Countdown is the latest countdown text for the task.
	Countdown string
	// Terminal is set once the countdown stopped updating.
	Terminal bool
}

func (i TaskItem) Title() string {
	check := "[ ]"
	if i.Task.Completed {
		check = "[x]"
	}
	name := i.Task.Name
	switch i.PriorityClass {
	case render.ClassHighPriority:
		name = highPriorityStyle.Render(name)
	case render.ClassMediumPriority:
		name = mediumPriorityStyle.Render(name)
	}
	timer := countdownStyle.Render(i.Countdown)
	if i.Terminal {
		timer = terminalStyle.Render(i.Countdown)
	}
	return fmt.Sprintf("%s %s %s  %s", check, name, i.CategoryLabel, timer)
}

func (i TaskItem) Description() string {
	parts := []string{"due " + i.Deadline}
	if d := strings.TrimSpace(i.Task.Description); d != "" {
		parts = append([]string{firstLine(d)}, parts...)
	}
	if i.FileLink != "" {
		parts = append(parts, i.FileLink)
	}
	return strings.Join(parts, " · ")
}

func (i TaskItem) FilterValue() string {
	return i.Task.Name + " " + i.Task.Category
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx] + "…"
	}
	return s
}

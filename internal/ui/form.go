package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nissyi-gh/duedeck/internal/model"
)

const (
	formName = iota
	formDescription
	formDeadline
	formPriority
	formCategory
	formFile
	formFieldCount
)

var formLabels = [formFieldCount]string{"Name", "Description", "Deadline", "Priority", "Category", "File"}

var (
	labelStyle        = lipgloss.NewStyle().Width(12).Foreground(lipgloss.Color("241"))
	focusedLabelStyle = labelStyle.Foreground(lipgloss.Color("170")).Bold(true)
)

// taskForm collects the values of a new task.
type taskForm struct {
	name        textinput.Model
	description textarea.Model
	deadline    deadlineInput
	priority    model.Priority
	category    textinput.Model
	file        textinput.Model
	focus       int
}

func newTaskForm(now func() time.Time) taskForm {
	name := textinput.New()
	name.Placeholder = "Task name..."
	name.CharLimit = 256

	desc := textarea.New()
	desc.Placeholder = "Task description..."
	desc.CharLimit = 4096
	desc.SetHeight(3)
	desc.ShowLineNumbers = false

	category := textinput.New()
	category.Placeholder = "work, home..."
	category.CharLimit = 64

	file := textinput.New()
	file.Placeholder = "report.pdf (name only)"
	file.CharLimit = 512

	return taskForm{
		name:        name,
		description: desc,
		deadline:    newDeadlineInput(now),
		priority:    model.PriorityLow,
		category:    category,
		file:        file,
	}
}

func (f *taskForm) SetWidth(w int) {
	if w < 20 {
		w = 20
	}
	f.name.Width = w
	f.category.Width = w
	f.file.Width = w
	f.description.SetWidth(w)
}

func (f *taskForm) Focus() tea.Cmd {
	return f.focusField(formName)
}

func (f *taskForm) focusField(idx int) tea.Cmd {
	f.focus = idx
	f.name.Blur()
	f.description.Blur()
	f.deadline.Blur()
	f.category.Blur()
	f.file.Blur()
	switch idx {
	case formName:
		return f.name.Focus()
	case formDescription:
		return f.description.Focus()
	case formDeadline:
		return f.deadline.Focus()
	case formCategory:
		return f.category.Focus()
	case formFile:
		return f.file.Focus()
	}
	return nil
}

func (f *taskForm) next() tea.Cmd {
	if f.focus == formDeadline {
		if cmd, ok := f.deadline.Next(); ok {
			return cmd
		}
	}
	return f.focusField((f.focus + 1) % formFieldCount)
}

func (f *taskForm) prev() tea.Cmd {
	if f.focus == formDeadline {
		if cmd, ok := f.deadline.Prev(); ok {
			return cmd
		}
	}
	return f.focusField((f.focus + formFieldCount - 1) % formFieldCount)
}

func (f *taskForm) cyclePriority(step int) {
	ps := model.Priorities()
	idx := 0
	for i, p := range ps {
		if p == f.priority {
			idx = i
		}
	}
	f.priority = ps[(idx+step+len(ps))%len(ps)]
}

// Value returns the form contents. An empty deadline is allowed.
func (f *taskForm) Value() (model.NewTask, error) {
	in := model.NewTask{
		Name:        strings.TrimSpace(f.name.Value()),
		Description: f.description.Value(),
		Priority:    f.priority,
		Category:    f.category.Value(),
		File:        f.file.Value(),
	}
	if !f.deadline.IsEmpty() {
		d, err := f.deadline.Value()
		if err != nil {
			return model.NewTask{}, err
		}
		in.Deadline = d
	}
	return in, in.Validate()
}

func (f taskForm) Update(msg tea.Msg) (taskForm, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab":
			return f, f.next()
		case "shift+tab":
			return f, f.prev()
		}
		if f.focus == formPriority {
			switch keyMsg.String() {
			case "right", "l", " ", "+":
				f.cyclePriority(1)
			case "left", "h", "-":
				f.cyclePriority(-1)
			}
			return f, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case formName:
		f.name, cmd = f.name.Update(msg)
	case formDescription:
		f.description, cmd = f.description.Update(msg)
	case formDeadline:
		f.deadline, cmd = f.deadline.Update(msg)
	case formCategory:
		f.category, cmd = f.category.Update(msg)
	case formFile:
		f.file, cmd = f.file.Update(msg)
	}
	return f, cmd
}

func (f taskForm) View() string {
	rows := [formFieldCount]string{
		f.name.View(),
		f.description.View(),
		f.deadline.View(),
		priorityPicker(f.priority),
		f.category.View(),
		f.file.View(),
	}
	var b strings.Builder
	for i, row := range rows {
		label := labelStyle.Render(formLabels[i])
		if i == f.focus {
			label = focusedLabelStyle.Render(formLabels[i])
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label, row))
		b.WriteString("\n")
	}
	return b.String()
}

func priorityPicker(current model.Priority) string {
	var parts []string
	for _, p := range model.Priorities() {
		if p == current {
			parts = append(parts, "["+string(p)+"]")
		} else {
			parts = append(parts, " "+string(p)+" ")
		}
	}
	return strings.Join(parts, " ")
}

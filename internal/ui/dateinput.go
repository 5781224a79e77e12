package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nissyi-gh/duedeck/internal/model"
)

const (
	fieldYear = iota
	fieldMonth
	fieldDay
	fieldHour
	fieldMinute
	deadlineFieldCount
)

type deadlineInput struct {
	fields [deadlineFieldCount]textinput.Model
	focus  int
	now    func() time.Time
}

func newDeadlineInput(now func() time.Time) deadlineInput {
	placeholders := [deadlineFieldCount]string{"YYYY", "MM", "DD", "hh", "mm"}
	charLimits := [deadlineFieldCount]int{4, 2, 2, 2, 2}

	var fields [deadlineFieldCount]textinput.Model
	for i := 0; i < deadlineFieldCount; i++ {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.CharLimit = charLimits[i]
		ti.Width = charLimits[i] + 1
		ti.Validate = func(s string) error {
			for _, r := range s {
				if !unicode.IsDigit(r) {
					return fmt.Errorf("digits only")
				}
			}
			return nil
		}
		fields[i] = ti
	}

	return deadlineInput{fields: fields, now: now}
}

func (d *deadlineInput) Focus() tea.Cmd {
	return d.focusField(fieldYear)
}

func (d *deadlineInput) Blur() {
	for i := range d.fields {
		d.fields[i].Blur()
	}
}

// Next moves to the following sub-field; false at the last one.
func (d *deadlineInput) Next() (tea.Cmd, bool) {
	if d.focus >= deadlineFieldCount-1 {
		return nil, false
	}
	return d.focusField(d.focus + 1), true
}

// Prev moves to the preceding sub-field; false at the first one.
func (d *deadlineInput) Prev() (tea.Cmd, bool) {
	if d.focus <= 0 {
		return nil, false
	}
	return d.focusField(d.focus - 1), true
}

func (d *deadlineInput) IsEmpty() bool {
	for _, f := range d.fields {
		if f.Value() != "" {
			return false
		}
	}
	return true
}

// Value returns the deadline in model.DeadlineLayout. Year and month default
// to the current ones, the time to 23:59. The day is required.
func (d *deadlineInput) Value() (string, error) {
	now := d.now()

	yyyy := strings.TrimSpace(d.fields[fieldYear].Value())
	mm := strings.TrimSpace(d.fields[fieldMonth].Value())
	dd := strings.TrimSpace(d.fields[fieldDay].Value())
	hh := strings.TrimSpace(d.fields[fieldHour].Value())
	mi := strings.TrimSpace(d.fields[fieldMinute].Value())

	if yyyy == "" {
		yyyy = fmt.Sprintf("%04d", now.Year())
	}
	if mm == "" {
		mm = fmt.Sprintf("%02d", int(now.Month()))
	}
	if dd == "" {
		return "", fmt.Errorf("day is required")
	}
	if hh == "" && mi == "" {
		hh, mi = "23", "59"
	}

	value := fmt.Sprintf("%s-%s-%sT%s:%s", yyyy, padLeft(mm, 2), padLeft(dd, 2), padLeft(hh, 2), padLeft(mi, 2))
	if _, err := time.Parse(model.DeadlineLayout, value); err != nil {
		return "", fmt.Errorf("invalid deadline: %s", value)
	}
	return value, nil
}

func padLeft(s string, length int) string {
	for len(s) < length {
		s = "0" + s
	}
	return s
}

func (d *deadlineInput) focusField(idx int) tea.Cmd {
	d.focus = idx
	var cmds []tea.Cmd
	for i := range d.fields {
		if i == idx {
			cmds = append(cmds, d.fields[i].Focus())
		} else {
			d.fields[i].Blur()
		}
	}
	return tea.Batch(cmds...)
}

func (d deadlineInput) Update(msg tea.Msg) (deadlineInput, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "right":
			cmd, _ := d.Next()
			return d, cmd
		case "left":
			cmd, _ := d.Prev()
			return d, cmd
		}
	}

	var cmd tea.Cmd
	d.fields[d.focus], cmd = d.fields[d.focus].Update(msg)
	return d, cmd
}

func (d deadlineInput) View() string {
	f := d.fields
	return f[fieldYear].View() + "-" + f[fieldMonth].View() + "-" + f[fieldDay].View() +
		"  " + f[fieldHour].View() + ":" + f[fieldMinute].View()
}

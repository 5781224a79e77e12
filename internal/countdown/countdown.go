// Package countdown computes and schedules per-task time-remaining displays.
package countdown

import (
	"fmt"
	"time"
)

// State is the phase of a countdown.
type State int

const (
	Running State = iota
	Completed
	Overdue
	NoDeadline
)

// Terminal reports whether no further updates follow this state.
func (s State) Terminal() bool {
	return s != Running
}

// Labels are the texts shown for terminal states.
type Labels struct {
	Completed  string
	Overdue    string
	NoDeadline string
}

// DefaultLabels returns the built-in terminal texts.
func DefaultLabels() Labels {
	return Labels{
		Completed:  "Task completed!",
		Overdue:    "Overdue!",
		NoDeadline: "Invalid deadline",
	}
}

// Display is what a countdown shows at one instant.
type Display struct {
	State   State
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
}

// Evaluate computes the display for a task at now. Remaining time is
// floor-divided into days, hours, minutes and seconds.
func Evaluate(completed bool, deadline, now time.Time) Display {
	if completed {
		return Display{State: Completed}
	}
	if deadline.IsZero() {
		return Display{State: NoDeadline}
	}
	left := deadline.Sub(now)
	if left < 0 {
		return Display{State: Overdue}
	}
	ms := left.Milliseconds()
	return Display{
		State:   Running,
		Days:    ms / (24 * 3600 * 1000),
		Hours:   ms % (24 * 3600 * 1000) / (3600 * 1000),
		Minutes: ms % (3600 * 1000) / (60 * 1000),
		Seconds: ms % (60 * 1000) / 1000,
	}
}

// Text renders the display using labels for terminal states.
func (d Display) Text(l Labels) string {
	switch d.State {
	case Completed:
		return l.Completed
	case Overdue:
		return l.Overdue
	case NoDeadline:
		return l.NoDeadline
	}
	return fmt.Sprintf("%dd %dh %dm %ds", d.Days, d.Hours, d.Minutes, d.Seconds)
}

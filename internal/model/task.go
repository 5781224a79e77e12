package model

import (
	"encoding/json"
	"strings"
	"time"
)

// DeadlineLayout is the on-disk and form format of a deadline.
const DeadlineLayout = "2006-01-02T15:04"

// Deadlines carrying seconds or a fraction are stored at full precision.
const (
	deadlineSecondsLayout = "2006-01-02T15:04:05"
	deadlineNanoLayout    = "2006-01-02T15:04:05.999999999"
)

// Priority is the urgency label of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the known priority values, lowest first.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Task represents a single to-do record.
type Task struct {
	ID          int64
	Name        string
	Description string
	Deadline    time.Time
	Priority    Priority
	Category    string
	Completed   bool
	File        *string
}

type taskJSON struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Deadline    string  `json:"deadline"`
	Priority    string  `json:"priority"`
	Completed   bool    `json:"completed"`
	Category    string  `json:"category"`
	File        *string `json:"file"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(taskJSON{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Deadline:    FormatDeadline(t.Deadline),
		Priority:    string(t.Priority),
		Completed:   t.Completed,
		Category:    t.Category,
		File:        t.File,
	})
}

func (t *Task) UnmarshalJSON(data []byte) error {
	var raw taskJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Task{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Deadline:    ParseDeadline(raw.Deadline),
		Priority:    Priority(raw.Priority),
		Completed:   raw.Completed,
		Category:    raw.Category,
		File:        raw.File,
	}
	return nil
}

// ParseDeadline reads a deadline in DeadlineLayout, falling back to RFC 3339
// and a bare date. Anything else yields the zero time.
func ParseDeadline(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.ParseInLocation(DeadlineLayout, s, time.Local); err == nil {
		return t
	}
	if t, err := time.ParseInLocation(deadlineSecondsLayout, s, time.Local); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(time.Local)
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t
	}
	return time.Time{}
}

// FormatDeadline is the inverse of ParseDeadline; the zero time formats as "".
func FormatDeadline(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.In(time.Local)
	switch {
	case t.Nanosecond() != 0:
		return t.Format(deadlineNanoLayout)
	case t.Second() != 0:
		return t.Format(deadlineSecondsLayout)
	}
	return t.Format(DeadlineLayout)
}

// HasFile reports whether a file name was attached.
func (t Task) HasFile() bool {
	return t.File != nil && *t.File != ""
}

// IsDueToday returns true if the deadline falls on now's calendar date.
func (t Task) IsDueToday(now time.Time) bool {
	if t.Deadline.IsZero() {
		return false
	}
	y1, m1, d1 := t.Deadline.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsOverdue returns true if the task is past its deadline and not completed.
func (t Task) IsOverdue(now time.Time) bool {
	if t.Deadline.IsZero() || t.Completed {
		return false
	}
	return t.Deadline.Before(now)
}

// Package filter narrows a task collection by the four user-selected criteria.
package filter

import (
	"time"

	"github.com/nissyi-gh/duedeck/internal/model"
)

// All is the pass-everything value shared by every selector.
const All = "all"

const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
)

const (
	DateToday    = "today"
	DateTomorrow = "tomorrow"
	DateThisWeek = "this-week"
	DateNextWeek = "next-week"
)

// StatusValues lists the status selector options.
func StatusValues() []string {
	return []string{All, StatusCompleted, StatusPending}
}

// PriorityValues lists the priority selector options.
func PriorityValues() []string {
	values := []string{All}
	for _, p := range model.Priorities() {
		values = append(values, string(p))
	}
	return values
}

// DateValues lists the date selector options.
func DateValues() []string {
	return []string{All, DateToday, DateTomorrow, DateThisWeek, DateNextWeek}
}

// Criteria are the selected values of the four filter selectors.
type Criteria struct {
	Status   string
	Category string
	Priority string
	Date     string
}

// Default returns criteria that pass every task.
func Default() Criteria {
	return Criteria{Status: All, Category: All, Priority: All, Date: All}
}

// Normalize replaces empty selector values with All.
func (c Criteria) Normalize() Criteria {
	if c.Status == "" {
		c.Status = All
	}
	if c.Category == "" {
		c.Category = All
	}
	if c.Priority == "" {
		c.Priority = All
	}
	if c.Date == "" {
		c.Date = All
	}
	return c
}

// StatusOK reports whether t passes the status selector.
func StatusOK(status string, t model.Task) bool {
	switch status {
	case All:
		return true
	case StatusCompleted:
		return t.Completed
	case StatusPending:
		return !t.Completed
	}
	return false
}

// CategoryOK reports whether t passes the category selector.
func CategoryOK(category string, t model.Task) bool {
	return category == All || t.Category == category
}

// PriorityOK reports whether t passes the priority selector.
func PriorityOK(priority string, t model.Task) bool {
	return priority == All || string(t.Priority) == priority
}

// Pipeline applies Criteria relative to a fixed "now".
type Pipeline struct {
	Criteria Criteria
	Now      time.Time
	// Strict compares full calendar dates for today/tomorrow and bounds
	// next-week to seven days. Without it only the day of month is compared
	// and next-week has no upper bound.
	Strict bool
}

// Passes applies the selectors in status, category, priority, date order.
func (p Pipeline) Passes(t model.Task) bool {
	c := p.Criteria
	return StatusOK(c.Status, t) &&
		CategoryOK(c.Category, t) &&
		PriorityOK(c.Priority, t) &&
		p.DateOK(c.Date, t)
}

// Apply returns the tasks that pass, in input order.
func (p Pipeline) Apply(tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if p.Passes(t) {
			out = append(out, t)
		}
	}
	return out
}

// DateOK reports whether t passes the date selector.
func (p Pipeline) DateOK(date string, t model.Task) bool {
	if date == All {
		return true
	}
	if t.Deadline.IsZero() {
		return false
	}

	now := p.Now
	deadline := t.Deadline.In(now.Location())
	tomorrow := now.AddDate(0, 0, 1)
	thisWeek := WeekStart(now)
	nextWeek := thisWeek.AddDate(0, 0, 7)

	switch date {
	case DateToday:
		return p.sameDay(deadline, now)
	case DateTomorrow:
		return p.sameDay(deadline, tomorrow)
	case DateThisWeek:
		return !deadline.Before(thisWeek) && deadline.Before(nextWeek)
	case DateNextWeek:
		if p.Strict {
			return !deadline.Before(nextWeek) && deadline.Before(nextWeek.AddDate(0, 0, 7))
		}
		return !deadline.Before(nextWeek)
	}
	return false
}

func (p Pipeline) sameDay(a, b time.Time) bool {
	if !p.Strict {
		return a.Day() == b.Day()
	}
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// WeekStart returns midnight of the Sunday starting t's week.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, t.Location())
}

// Cycle returns the value after current in values, wrapping around.
// An unknown current yields the first value.
func Cycle(values []string, current string) string {
	if len(values) == 0 {
		return current
	}
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

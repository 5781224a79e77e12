// Package calendar projects tasks into month-view events.
package calendar

import (
	"regexp"
	"strings"
	"time"

	"github.com/nissyi-gh/duedeck/internal/model"
)

// Event is a task as seen by the calendar.
type Event struct {
	Title    string
	Start    time.Time
	ID       int64
	Category string
}

// Events derives the event list from the current tasks. It holds no state
// and may be called whenever the calendar asks.
func Events(tasks []model.Task) []Event {
	events := make([]Event, 0, len(tasks))
	for _, t := range tasks {
		events = append(events, Event{
			Title:    t.Name,
			Start:    t.Deadline,
			ID:       t.ID,
			Category: t.Category,
		})
	}
	return events
}

var whitespace = regexp.MustCompile(`\s+`)

// CategoryClass is the styling hook for an event's category: "category-"
// followed by the lowercased name with whitespace runs replaced by "-".
func CategoryClass(category string) string {
	if category == "" {
		return ""
	}
	return "category-" + strings.ToLower(whitespace.ReplaceAllString(category, "-"))
}

// Day is one cell of a month grid. Day is 0 for padding cells.
type Day struct {
	Day    int
	Events []Event
}

// Month is a Sunday-first grid of weeks.
type Month struct {
	Year  int
	Month time.Month
	Weeks [][7]Day
}

// NewMonth lays out the given month and buckets events by deadline day.
// Events without a deadline or outside the month are skipped.
func NewMonth(year int, month time.Month, loc *time.Location, events []Event) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	byDay := make(map[int][]Event)
	for _, e := range events {
		if e.Start.IsZero() {
			continue
		}
		s := e.Start.In(loc)
		if s.Year() == year && s.Month() == month {
			byDay[s.Day()] = append(byDay[s.Day()], e)
		}
	}

	m := Month{Year: year, Month: month}
	col := int(first.Weekday())
	var week [7]Day
	for day := 1; day <= daysInMonth; day++ {
		week[col] = Day{Day: day, Events: byDay[day]}
		col++
		if col == 7 {
			m.Weeks = append(m.Weeks, week)
			week = [7]Day{}
			col = 0
		}
	}
	if col != 0 {
		m.Weeks = append(m.Weeks, week)
	}
	return m
}

// Shift moves (year, month) by delta months.
func Shift(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return t.Year(), t.Month()
}

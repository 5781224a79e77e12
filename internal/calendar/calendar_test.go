package calendar

import (
	"testing"
	"time"

	"github.com/nissyi-gh/duedeck/internal/model"
)

func TestEvents(t *testing.T) {
	deadline := time.Date(2026, 10, 20, 8, 0, 0, 0, time.Local)
	tasks := []model.Task{
		{ID: 7, Name: "standup", Deadline: deadline, Category: "work"},
		{ID: 8, Name: "undated"},
	}
	events := Events(tasks)
	if len(events) != 2 {
		t.Fatalf("want 2 events, got %d", len(events))
	}
	e := events[0]
	if e.Title != "standup" || e.ID != 7 || e.Category != "work" || !e.Start.Equal(deadline) {
		t.Fatalf("unexpected event %+v", e)
	}
}

func TestEvents_IsPureProjection(t *testing.T) {
	tasks := []model.Task{{ID: 1, Name: "a"}}
	first := Events(tasks)
	second := Events(tasks)
	if len(first) != len(second) || first[0] != second[0] {
		t.Fatal("repeated requests should yield the same events")
	}
}

func TestCategoryClass(t *testing.T) {
	tests := map[string]string{
		"Work":           "category-work",
		"Deep  Focus":    "category-deep-focus",
		"home\tchores x": "category-home-chores-x",
		"":               "",
	}
	for in, want := range tests {
		if got := CategoryClass(in); got != want {
			t.Errorf("CategoryClass(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewMonth(t *testing.T) {
	events := []Event{
		{ID: 1, Start: time.Date(2026, 10, 1, 9, 0, 0, 0, time.Local)},
		{ID: 2, Start: time.Date(2026, 10, 31, 9, 0, 0, 0, time.Local)},
		{ID: 3, Start: time.Date(2026, 10, 31, 18, 0, 0, 0, time.Local)},
		{ID: 4, Start: time.Date(2026, 11, 1, 9, 0, 0, 0, time.Local)},
		{ID: 5},
	}
	m := NewMonth(2026, time.October, time.Local, events)

	// October 2026 starts on a Thursday and spans five weeks.
	if len(m.Weeks) != 5 {
		t.Fatalf("weeks = %d", len(m.Weeks))
	}
	if m.Weeks[0][3].Day != 0 || m.Weeks[0][4].Day != 1 {
		t.Fatalf("first week layout wrong: %+v", m.Weeks[0])
	}
	if got := len(m.Weeks[0][4].Events); got != 1 {
		t.Fatalf("Oct 1 events = %d", got)
	}
	last := m.Weeks[4][6]
	if last.Day != 31 || len(last.Events) != 2 {
		t.Fatalf("Oct 31 cell = %+v", last)
	}
}

func TestShift(t *testing.T) {
	y, m := Shift(2026, time.December, 1)
	if y != 2027 || m != time.January {
		t.Fatalf("got %d-%d", y, m)
	}
	y, m = Shift(2026, time.January, -1)
	if y != 2025 || m != time.December {
		t.Fatalf("got %d-%d", y, m)
	}
}

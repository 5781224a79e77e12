package render

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nissyi-gh/duedeck/internal/filter"
	"github.com/nissyi-gh/duedeck/internal/model"
)

const (
	ClassHighPriority   = "high-priority"
	ClassMediumPriority = "medium-priority"
)

// DisplayLayout is how deadlines are shown to the user.
const DisplayLayout = "2006-01-02 15:04"

// PriorityClass maps high and medium priorities to a display class.
// Every other value has none.
func PriorityClass(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return ClassHighPriority
	case model.PriorityMedium:
		return ClassMediumPriority
	default:
		return ""
	}
}

// Item is one rendered task row.
type Item struct {
	Task          model.Task
	PriorityClass string
	Deadline      string
	Relative      string
	FileLink      string
	CategoryLabel string
}

// View is the result of one full render.
type View struct {
	Items           []Item
	CategoryOptions []string
}

// Build projects visible tasks into items and derives the category options
// from the unfiltered collection.
func Build(all, visible []model.Task, now time.Time) View {
	items := make([]Item, 0, len(visible))
	for _, t := range visible {
		items = append(items, NewItem(t, now))
	}
	return View{Items: items, CategoryOptions: CategoryOptions(all)}
}

// NewItem renders a single task.
func NewItem(t model.Task, now time.Time) Item {
	it := Item{
		Task:          t,
		PriorityClass: PriorityClass(t.Priority),
		Deadline:      FormatDeadline(t.Deadline),
		CategoryLabel: fmt.Sprintf("(%s)", t.Category),
	}
	if !t.Deadline.IsZero() {
		it.Relative = humanize.RelTime(t.Deadline, now, "ago", "from now")
	}
	if t.HasFile() {
		it.FileLink = "File: " + *t.File
	}
	return it
}

// FormatDeadline renders a deadline, or "Invalid Date" for the zero time.
func FormatDeadline(t time.Time) string {
	if t.IsZero() {
		return "Invalid Date"
	}
	return t.Format(DisplayLayout)
}

// CategoryOptions returns "all" followed by every distinct category in
// first-seen order.
func CategoryOptions(tasks []model.Task) []string {
	seen := make(map[string]bool)
	options := []string{filter.All}
	for _, t := range tasks {
		if seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		options = append(options, t.Category)
	}
	return options
}

package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// NewTask holds the creation form values before an ID is assigned.
type NewTask struct {
	Name        string
	Description string
	Deadline    string
	Priority    Priority
	Category    string
	File        string
}

// Validate checks field limits and the priority enum. Empty names and
// unparseable deadlines are accepted.
func (n NewTask) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Name, validation.RuneLength(0, 256)),
		validation.Field(&n.Description, validation.RuneLength(0, 4096)),
		validation.Field(&n.Priority, validation.In(PriorityLow, PriorityMedium, PriorityHigh)),
		validation.Field(&n.Category, validation.RuneLength(0, 64)),
		validation.Field(&n.File, validation.RuneLength(0, 512)),
	)
}

// Build turns the form values into a Task with the given id.
func (n NewTask) Build(id int64) Task {
	t := Task{
		ID:          id,
		Name:        n.Name,
		Description: n.Description,
		Deadline:    ParseDeadline(n.Deadline),
		Priority:    n.Priority,
		Category:    strings.TrimSpace(n.Category),
	}
	if f := strings.TrimSpace(n.File); f != "" {
		t.File = &f
	}
	return t
}

package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTask_JSONRoundTrip(t *testing.T) {
	file := "report.pdf"
	in := Task{
		ID:          1700000000000,
		Name:        "Write report",
		Description: "quarterly",
		Deadline:    time.Date(2026, 10, 19, 10, 0, 0, 0, time.Local),
		Priority:    PriorityHigh,
		Category:    "work",
		Completed:   true,
		File:        &file,
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Task
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if out.ID != in.ID || out.Name != in.Name || out.Description != in.Description ||
		out.Priority != in.Priority || out.Category != in.Category || out.Completed != in.Completed {
		t.Fatalf("round trip mismatch: got %+v want %+v", out, in)
	}
	if !out.Deadline.Equal(in.Deadline) {
		t.Fatalf("deadline mismatch: got %v want %v", out.Deadline, in.Deadline)
	}
	if out.File == nil || *out.File != file {
		t.Fatalf("file mismatch: got %v", out.File)
	}
}

func TestTask_UnmarshalOldRecord(t *testing.T) {
	raw := `{"id":5,"name":"legacy","description":"","deadline":"2026-10-20T09:30","priority":"low","completed":false,"file":null}`

	var task Task
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if task.Category != "" {
		t.Fatalf("missing category should decode empty, got %q", task.Category)
	}
	if task.File != nil {
		t.Fatalf("null file should decode nil, got %q", *task.File)
	}
	want := time.Date(2026, 10, 20, 9, 30, 0, 0, time.Local)
	if !task.Deadline.Equal(want) {
		t.Fatalf("deadline: got %v want %v", task.Deadline, want)
	}
}

func TestTask_MarshalFieldNames(t *testing.T) {
	data, err := json.Marshal(Task{ID: 1, Deadline: time.Date(2026, 1, 2, 3, 4, 0, 0, time.Local)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal map: %v", err)
	}
	for _, name := range []string{"id", "name", "description", "deadline", "priority", "completed", "category", "file"} {
		if _, ok := fields[name]; !ok {
			t.Errorf("missing field %q in %s", name, data)
		}
	}
	if fields["deadline"] != "2026-01-02T03:04" {
		t.Errorf("deadline encoded as %v", fields["deadline"])
	}
}

func TestParseDeadline(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-10-18T15:04", time.Date(2026, 10, 18, 15, 4, 0, 0, time.Local)},
		{"2026-10-18", time.Date(2026, 10, 18, 0, 0, 0, 0, time.Local)},
		{"2026-10-18T15:04:30", time.Date(2026, 10, 18, 15, 4, 30, 0, time.Local)},
		{"2026-10-18T15:04:30.25", time.Date(2026, 10, 18, 15, 4, 30, 250000000, time.Local)},
		{"", time.Time{}},
		{"not a date", time.Time{}},
	}
	for _, tt := range tests {
		got := ParseDeadline(tt.in)
		if !got.Equal(tt.want) {
			t.Errorf("ParseDeadline(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTask_IsOverdue(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.Local)
	past := Task{Deadline: now.Add(-time.Minute)}
	if !past.IsOverdue(now) {
		t.Fatal("past pending task should be overdue")
	}
	past.Completed = true
	if past.IsOverdue(now) {
		t.Fatal("completed task is never overdue")
	}
	if (Task{}).IsOverdue(now) {
		t.Fatal("task without deadline is never overdue")
	}
}

func TestNewTask_Validate(t *testing.T) {
	if err := (NewTask{}).Validate(); err != nil {
		t.Fatalf("empty form should be valid: %v", err)
	}
	if err := (NewTask{Priority: "urgent"}).Validate(); err == nil {
		t.Fatal("unknown priority should be rejected")
	}
	if err := (NewTask{Name: "x", Priority: PriorityMedium}).Validate(); err != nil {
		t.Fatalf("medium priority should be valid: %v", err)
	}
}

func TestNewTask_Build(t *testing.T) {
	task := NewTask{Name: "a", Deadline: "garbage", Category: " home ", File: ""}.Build(42)
	if task.ID != 42 || task.Completed {
		t.Fatalf("unexpected task %+v", task)
	}
	if !task.Deadline.IsZero() {
		t.Fatalf("unparseable deadline should be zero, got %v", task.Deadline)
	}
	if task.Category != "home" {
		t.Fatalf("category = %q", task.Category)
	}
	if task.HasFile() {
		t.Fatal("empty file name should not attach a file")
	}
}

func TestFormatDeadline_RoundTrip(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2026, 10, 19, 10, 0, 0, 0, time.Local), "2026-10-19T10:00"},
		{time.Date(2026, 10, 19, 10, 0, 30, 0, time.Local), "2026-10-19T10:00:30"},
		{time.Date(2026, 10, 19, 10, 0, 30, 500000000, time.Local), "2026-10-19T10:00:30.5"},
		{time.Time{}, ""},
	}
	for _, tt := range tests {
		got := FormatDeadline(tt.in)
		if got != tt.want {
			t.Errorf("FormatDeadline(%v) = %q, want %q", tt.in, got, tt.want)
		}
		if back := ParseDeadline(got); !back.Equal(tt.in) {
			t.Errorf("ParseDeadline(%q) = %v, want %v", got, back, tt.in)
		}
	}
}

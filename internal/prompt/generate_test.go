package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/nissyi-gh/duedeck/internal/model"
)

func TestGenerateNew(t *testing.T) {
	p := GenerateNew([]string{"work", "home"})
	if !strings.Contains(p, "Existing categories: work, home") {
		t.Fatalf("categories missing:\n%s", p)
	}
	if !strings.Contains(p, "```yaml") {
		t.Fatal("format block missing")
	}
	if strings.Contains(GenerateNew(nil), "Existing categories") {
		t.Fatal("no categories line expected")
	}
}

func TestGenerateFromTask(t *testing.T) {
	p := GenerateFromTask(model.Task{
		Name:     "Launch",
		Deadline: time.Date(2026, 11, 1, 9, 0, 0, 0, time.Local),
		Priority: model.PriorityHigh,
	})
	for _, want := range []string{"- Name: Launch", "- Deadline: 2026-11-01T09:00", "- Priority: high"} {
		if !strings.Contains(p, want) {
			t.Errorf("missing %q", want)
		}
	}
	if strings.Contains(p, "- Category:") {
		t.Error("empty category should be omitted")
	}
}

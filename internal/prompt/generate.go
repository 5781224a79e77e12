package prompt

import (
	"fmt"
	"strings"

	"github.com/nissyi-gh/duedeck/internal/model"
)

const yamlFormat = `Reply with a single YAML code block in the format below and nothing else.

` + "```yaml" + `
tasks:
  - name: "Task name"
    description: "What needs to be done"
    deadline: "YYYY-MM-DDTHH:MM"
    priority: "low | medium | high"
    category: "Category"
` + "```" + `

Fields:
- name: (required) short task title
- description: (optional) details
- deadline: (optional) local date and time, e.g. 2026-01-31T18:00
- priority: (optional) one of low, medium, high
- category: (optional) free-text label; reuse an existing one when it fits`

// GenerateNew returns a prompt for planning new tasks from scratch.
// Known categories are listed so the assistant can reuse them.
func GenerateNew(categories []string) string {
	var sb strings.Builder
	sb.WriteString("You are a task planning assistant.\n")
	sb.WriteString("Break the user's request into concrete tasks with realistic deadlines.\n")
	if len(categories) > 0 {
		sb.WriteString(fmt.Sprintf("\nExisting categories: %s\n", strings.Join(categories, ", ")))
	}
	sb.WriteString("\n")
	sb.WriteString(yamlFormat)
	sb.WriteString("\n")
	return sb.String()
}

// GenerateFromTask returns a prompt for breaking an existing task into smaller ones.
func GenerateFromTask(task model.Task) string {
	var sb strings.Builder

	sb.WriteString("You are a task planning assistant.\n")
	sb.WriteString("Split the task below into smaller tasks that all finish before its deadline.\n\n")

	sb.WriteString("## Task\n")
	sb.WriteString(fmt.Sprintf("- Name: %s\n", task.Name))
	if task.Description != "" {
		sb.WriteString(fmt.Sprintf("- Description: %s\n", task.Description))
	}
	if d := model.FormatDeadline(task.Deadline); d != "" {
		sb.WriteString(fmt.Sprintf("- Deadline: %s\n", d))
	}
	if task.Priority != "" {
		sb.WriteString(fmt.Sprintf("- Priority: %s\n", task.Priority))
	}
	if task.Category != "" {
		sb.WriteString(fmt.Sprintf("- Category: %s\n", task.Category))
	}

	sb.WriteString("\n")
	sb.WriteString(yamlFormat)
	sb.WriteString("\n")

	return sb.String()
}

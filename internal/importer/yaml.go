package importer

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nissyi-gh/duedeck/internal/model"
	"github.com/nissyi-gh/duedeck/internal/store"
)

// YAMLTask represents a single task in the YAML input.
type YAMLTask struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Deadline    string `yaml:"deadline,omitempty"`
	Priority    string `yaml:"priority,omitempty"`
	Category    string `yaml:"category,omitempty"`
	File        string `yaml:"file,omitempty"`
}

// YAMLInput represents the root structure of the YAML input.
type YAMLInput struct {
	Tasks []YAMLTask `yaml:"tasks"`
}

// Import parses a YAML string and adds its tasks to the store in order.
// Returns the number of tasks created.
func Import(ctx context.Context, s *store.TaskStore, yamlStr string) (int, error) {
	var input YAMLInput
	if err := yaml.Unmarshal([]byte(yamlStr), &input); err != nil {
		return 0, fmt.Errorf("YAML parse error: %w", err)
	}

	if len(input.Tasks) == 0 {
		return 0, fmt.Errorf("no tasks found in YAML")
	}

	count := 0
	for _, yt := range input.Tasks {
		if _, err := s.Add(ctx, yt.newTask()); err != nil {
			return count, fmt.Errorf("add task %q: %w", yt.Name, err)
		}
		count++
	}
	return count, nil
}

func (yt YAMLTask) newTask() model.NewTask {
	return model.NewTask{
		Name:        yt.Name,
		Description: yt.Description,
		Deadline:    yt.Deadline,
		Priority:    model.Priority(yt.Priority),
		Category:    yt.Category,
		File:        yt.File,
	}
}

// Export renders tasks in the import format.
func Export(tasks []model.Task) (string, error) {
	out := YAMLInput{Tasks: make([]YAMLTask, 0, len(tasks))}
	for _, t := range tasks {
		yt := YAMLTask{
			Name:        t.Name,
			Description: t.Description,
			Deadline:    model.FormatDeadline(t.Deadline),
			Priority:    string(t.Priority),
			Category:    t.Category,
		}
		if t.HasFile() {
			yt.File = *t.File
		}
		out.Tasks = append(out.Tasks, yt)
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("YAML encode error: %w", err)
	}
	return string(data), nil
}

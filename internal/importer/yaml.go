package importer

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nissyi-gh/guide/internal/command"
	"github.com/nissyi-gh/guide/internal/model"
	"github.com/nissyi-gh/guide/internal/store"
)

// YAMLTask represents a single task in the YAML input.
type YAMLTask struct {
	Kind        string `yaml:"kind"`
	Description string `yaml:"description"`
	By          string `yaml:"by,omitempty"`
	From        string `yaml:"from,omitempty"`
	To          string `yaml:"to,omitempty"`
	Done        bool   `yaml:"done,omitempty"`
	Tag         string `yaml:"tag,omitempty"`
}

// YAMLInput represents the root structure of the YAML input.
type YAMLInput struct {
	Tasks []YAMLTask `yaml:"tasks"`
}

// Parse decodes and validates every entry. Entries follow the same rules
// as the todo, deadline and event commands.
func Parse(yamlStr string) ([]*model.Task, error) {
	var input YAMLInput
	if err := yaml.Unmarshal([]byte(yamlStr), &input); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}

	if len(input.Tasks) == 0 {
		return nil, fmt.Errorf("no tasks found in YAML")
	}

	tasks := make([]*model.Task, 0, len(input.Tasks))
	for i, yt := range input.Tasks {
		t, err := toTask(yt)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func toTask(yt YAMLTask) (*model.Task, error) {
	kind := strings.ToLower(strings.TrimSpace(yt.Kind))
	if kind == "" {
		kind = model.KindToDo.String()
	}
	description := strings.TrimSpace(yt.Description)
	if description == "" {
		return nil, command.EmptyDescription(kind)
	}
	// every field ends up on a single store line
	for _, f := range []string{description, yt.By, yt.From, yt.To, yt.Tag} {
		if strings.ContainsAny(strings.TrimSpace(f), "\r\n") {
			return nil, command.LineBreak(kind)
		}
	}

	var t *model.Task
	switch kind {
	case model.KindToDo.String():
		t = model.NewToDo(description, yt.Done)
	case model.KindDeadline.String():
		by := strings.TrimSpace(yt.By)
		if by == "" {
			return nil, command.EmptyDescription(kind)
		}
		if !model.ValidDate(by) {
			return nil, command.InvalidDateFormat()
		}
		t = model.NewDeadline(description, by, yt.Done)
	case model.KindEvent.String():
		from, to := strings.TrimSpace(yt.From), strings.TrimSpace(yt.To)
		if from == "" || to == "" {
			return nil, command.EmptyDescription(kind)
		}
		if !model.ValidDate(from) || !model.ValidDate(to) {
			return nil, command.InvalidDateFormat()
		}
		t = model.NewEvent(description, from, to, yt.Done)
	default:
		return nil, fmt.Errorf("unknown kind %q", yt.Kind)
	}

	if tag := strings.TrimSpace(yt.Tag); tag != "" {
		t.SetTag(tag)
	}
	return t, nil
}

// Import appends the tasks in yamlStr to the collection held by backend
// and saves once. Nothing is saved if any entry is invalid or the existing
// collection cannot be loaded.
// Returns the number of tasks added.
func Import(backend store.Backend, yamlStr string) (int, error) {
	incoming, err := Parse(yamlStr)
	if err != nil {
		return 0, err
	}
	existing, err := backend.Load()
	if err != nil {
		return 0, fmt.Errorf("load existing tasks: %w", err)
	}
	if err := backend.Save(append(existing, incoming...)); err != nil {
		return 0, fmt.Errorf("save tasks: %w", err)
	}
	return len(incoming), nil
}

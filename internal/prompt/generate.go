package prompt

import (
	"fmt"
	"strings"

	"github.com/nissyi-gh/guide/internal/model"
)

const yamlFormat = `Reply with a single YAML code block in the format below and nothing else.

` + "```yaml" + `
tasks:
  - kind: deadline
    description: "What has to be done"
    by: "2/12/2019 1800"
    tag: "school"
  - kind: event
    description: "What is happening"
    from: "2/12/2019 1400"
    to: "2/12/2019 1600"
  - kind: todo
    description: "Something without a date"
` + "```" + `

Fields:
- kind: (required) todo, deadline or event
- description: (required) what the task is
- by: (deadline only) due date as d/M/yyyy HHmm
- from, to: (event only) start and end as d/M/yyyy HHmm
- done: (optional) true if already finished
- tag: (optional) a single word, without the #`

// GenerateNew returns a prompt for planning tasks from scratch.
func GenerateNew() string {
	return fmt.Sprintf(`You are a task planning assistant.
Break the user's goal down into concrete tasks of a sensible size.

%s
`, yamlFormat)
}

// GenerateFromTasks returns a prompt for planning follow-up tasks around an
// existing list.
func GenerateFromTasks(tasks []*model.Task) string {
	var sb strings.Builder

	sb.WriteString("You are a task planning assistant.\n")
	sb.WriteString("Suggest the tasks that are missing from the list below.\n\n")

	sb.WriteString("## Current tasks\n")
	if len(tasks) == 0 {
		sb.WriteString("(none)\n")
	}
	for _, t := range tasks {
		status := "open"
		if t.Done {
			status = "done"
		}
		fmt.Fprintf(&sb, "- %s: %s (%s)", t.Kind, t.Description, status)
		switch t.Kind {
		case model.KindDeadline:
			fmt.Fprintf(&sb, ", by %s", t.By)
		case model.KindEvent:
			fmt.Fprintf(&sb, ", from %s to %s", t.From, t.To)
		}
		if tag, ok := t.Tag(); ok {
			fmt.Fprintf(&sb, ", tag %s", tag)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\nDo not repeat tasks that are already listed.\n")

	sb.WriteString("\n")
	sb.WriteString(yamlFormat)
	sb.WriteString("\n")

	return sb.String()
}

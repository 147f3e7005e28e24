package model

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies which variant a Task is.
type Kind int

const (
	KindToDo Kind = iota
	KindDeadline
	KindEvent
)

// Letter returns the single-letter code used in the display form and the store file.
func (k Kind) Letter() string {
	switch k {
	case KindToDo:
		return "T"
	case KindDeadline:
		return "D"
	case KindEvent:
		return "E"
	default:
		return "?"
	}
}

func (k Kind) String() string {
	switch k {
	case KindToDo:
		return "todo"
	case KindDeadline:
		return "deadline"
	case KindEvent:
		return "event"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Task is a single to-do, deadline or event.
//
// Date fields hold the raw input form (d/M/yyyy HHmm) and are only
// reformatted when the task is displayed.
type Task struct {
	Kind        Kind
	Description string
	Done        bool
	By          string // KindDeadline
	From        string // KindEvent
	To          string // KindEvent

	tag    string
	tagged bool
}

// NewToDo creates a plain to-do.
func NewToDo(description string, done bool) *Task {
	return &Task{Kind: KindToDo, Description: description, Done: done}
}

// NewDeadline creates a task due at by.
func NewDeadline(description, by string, done bool) *Task {
	return &Task{Kind: KindDeadline, Description: description, By: by, Done: done}
}

// NewEvent creates a task spanning from..to. The two times are not ordered
// against each other.
func NewEvent(description, from, to string, done bool) *Task {
	return &Task{Kind: KindEvent, Description: description, From: from, To: to, Done: done}
}

// MarkAsDone is idempotent.
func (t *Task) MarkAsDone() { t.Done = true }

// MarkAsNotDone is idempotent.
func (t *Task) MarkAsNotDone() { t.Done = false }

// Tag returns the tag and whether one is set.
func (t *Task) Tag() (string, bool) {
	return t.tag, t.tagged
}

// HasTag reports whether a tag is set.
func (t *Task) HasTag() bool { return t.tagged }

// SetTag attaches tag to the task, replacing any previous tag.
func (t *Task) SetTag(tag string) {
	t.tag = tag
	t.tagged = true
}

// ClearTag removes the tag, if any.
func (t *Task) ClearTag() {
	t.tag = ""
	t.tagged = false
}

// StatusIcon is "X" for done tasks and a single space otherwise.
func (t *Task) StatusIcon() string {
	if t.Done {
		return "X"
	}
	return " "
}

// String returns the display form, e.g. "[D][ ] return book #school (by: Dec 2 2019 18:00)".
func (t *Task) String() string {
	var sb strings.Builder
	sb.WriteString("[" + t.Kind.Letter() + "][" + t.StatusIcon() + "] ")
	sb.WriteString(t.Description)
	if t.tagged {
		sb.WriteString(" #" + t.tag)
	}
	switch t.Kind {
	case KindDeadline:
		fmt.Fprintf(&sb, " (by: %s)", FormatDate(t.By))
	case KindEvent:
		fmt.Fprintf(&sb, " (from: %s to: %s)", FormatDate(t.From), FormatDate(t.To))
	}
	return sb.String()
}

const (
	// InputLayout is d/M/yyyy HHmm.
	InputLayout = "2/1/2006 1504"
	// DisplayLayout is MMM d yyyy HH:mm.
	DisplayLayout = "Jan 2 2006 15:04"
)

// ParseDate parses raw in the input layout.
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(InputLayout, raw)
}

// ValidDate reports whether raw parses in the input layout.
func ValidDate(raw string) bool {
	_, err := ParseDate(raw)
	return err == nil
}

// FormatDate renders a raw date for display. Values that do not parse are
// shown as stored.
func FormatDate(raw string) string {
	d, err := ParseDate(raw)
	if err != nil {
		return raw
	}
	return d.Format(DisplayLayout)
}

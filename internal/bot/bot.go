package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/nissyi-gh/guide/internal/command"
	"github.com/nissyi-gh/guide/internal/model"
	"github.com/nissyi-gh/guide/internal/store"
	"github.com/nissyi-gh/guide/internal/tasklist"
)

const (
	Welcome     = "Hello! I'm AdventureGuide\nWhat can I do for you?"
	Farewell    = "Farewell, adventurer! May your path be clear and your tasks conquered. Until our next quest!"
	LoadFailure = "OOPS!!! An error occurred while loading tasks from file."
	Unexpected  = "OOPS!!! An unexpected error occurred."
)

// Response is the outcome of one input line.
type Response struct {
	// Text is always set, including for failures.
	Text string
	// Err is the failure, if any. User errors are *command.Error.
	Err error
	// Exit is set after "bye".
	Exit bool
}

// Bot owns the task collection and its backend for the whole session.
type Bot struct {
	tasks   *tasklist.List
	backend store.Backend
	logger  *slog.Logger
	loadErr error
}

// New loads the collection from backend. A failed load leaves the bot with
// an empty collection; LoadError reports it.
func New(backend store.Backend, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	b := &Bot{backend: backend, logger: logger, tasks: tasklist.New()}
	loaded, err := backend.Load()
	if err != nil {
		logger.Error("load tasks", "err", err)
		b.loadErr = err
		return b
	}
	b.tasks = tasklist.New(loaded...)
	return b
}

// LoadError returns the error from the initial load, if any.
func (b *Bot) LoadError() error { return b.loadErr }

// Tasks exposes the collection for read-only callers.
func (b *Bot) Tasks() *tasklist.List { return b.tasks }

// Close releases the backend.
func (b *Bot) Close() error { return b.backend.Close() }

// Respond handles one raw input line. It never panics; every failure is
// turned into a single message.
func (b *Bot) Respond(input string) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = b.fail(input, fmt.Errorf("panic: %v", r))
		}
	}()

	word, args, err := command.Parse(input)
	if err != nil {
		return b.fail(input, err)
	}
	text, err := b.dispatch(word, args)
	if err != nil {
		return b.fail(input, err)
	}
	b.logger.Debug("handled command", "command", string(word), "tasks", b.tasks.Len())
	return Response{Text: text, Exit: word == command.Bye}
}

func (b *Bot) fail(input string, err error) Response {
	var ce *command.Error
	if errors.As(err, &ce) {
		b.logger.Debug("rejected command", "input", input, "err", err)
		return Response{Text: ce.Error(), Err: err}
	}
	b.logger.Error("command failed", "input", input, "err", err)
	return Response{Text: Unexpected, Err: err}
}

func (b *Bot) dispatch(word command.Word, args string) (string, error) {
	switch word {
	case command.Bye:
		return Farewell, nil
	case command.List:
		return b.handleList(), nil
	case command.Mark:
		return b.handleMark(args)
	case command.Unmark:
		return b.handleUnmark(args)
	case command.ToDo:
		return b.handleToDo(args)
	case command.Deadline:
		return b.handleDeadline(args)
	case command.Event:
		return b.handleEvent(args)
	case command.Delete:
		return b.handleDelete(args)
	case command.Find:
		return b.handleFind(args), nil
	case command.Tag:
		return b.handleTag(args)
	case command.Untag:
		return b.handleUntag(args)
	default:
		return "", command.UnknownCommand()
	}
}

func (b *Bot) save() error {
	if err := b.backend.Save(b.tasks.Tasks()); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// taskIndex converts a 1-based task number to a checked 0-based index.
// Only plain decimal digits are accepted.
func (b *Bot) taskIndex(arg string) (int, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" || strings.IndexFunc(arg, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return 0, command.InvalidTaskNumber()
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > b.tasks.Len() {
		return 0, command.InvalidTaskNumber()
	}
	return n - 1, nil
}

func (b *Bot) task(arg string) (*model.Task, error) {
	idx, err := b.taskIndex(arg)
	if err != nil {
		return nil, err
	}
	return b.tasks.Get(idx)
}

func (b *Bot) added(t *model.Task) string {
	return fmt.Sprintf("Got it. I've added this task:\n  %s\nNow you have %d tasks in the list.", t, b.tasks.Len())
}

func (b *Bot) handleList() string {
	var sb strings.Builder
	sb.WriteString("Here are the tasks in your list:")
	for i, t := range b.tasks.All() {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, t)
	}
	return sb.String()
}

func (b *Bot) handleMark(args string) (string, error) {
	t, err := b.task(args)
	if err != nil {
		return "", err
	}
	t.MarkAsDone()
	if err := b.save(); err != nil {
		return "", err
	}
	return "Nice! I've marked this task as done:\n  " + t.String(), nil
}

func (b *Bot) handleUnmark(args string) (string, error) {
	t, err := b.task(args)
	if err != nil {
		return "", err
	}
	t.MarkAsNotDone()
	if err := b.save(); err != nil {
		return "", err
	}
	return "OK, I've marked this task as not done yet:\n  " + t.String(), nil
}

func (b *Bot) handleToDo(args string) (string, error) {
	description := strings.TrimSpace(args)
	if description == "" {
		return "", command.EmptyDescription("todo")
	}
	t := model.NewToDo(description, false)
	b.tasks.Add(t)
	if err := b.save(); err != nil {
		return "", err
	}
	return b.added(t), nil
}

func (b *Bot) handleDeadline(args string) (string, error) {
	description, by, ok := strings.Cut(args, " /by ")
	description, by = strings.TrimSpace(description), strings.TrimSpace(by)
	if !ok || description == "" || by == "" {
		return "", command.EmptyDescription("deadline")
	}
	if !model.ValidDate(by) {
		return "", command.InvalidDateFormat()
	}
	t := model.NewDeadline(description, by, false)
	b.tasks.Add(t)
	if err := b.save(); err != nil {
		return "", err
	}
	return b.added(t), nil
}

func (b *Bot) handleEvent(args string) (string, error) {
	description, span, ok := strings.Cut(args, " /from ")
	from, to, ok2 := strings.Cut(span, " /to ")
	description, from, to = strings.TrimSpace(description), strings.TrimSpace(from), strings.TrimSpace(to)
	if !ok || !ok2 || description == "" || from == "" || to == "" {
		return "", command.EmptyDescription("event")
	}
	if !model.ValidDate(from) || !model.ValidDate(to) {
		return "", command.InvalidDateFormat()
	}
	t := model.NewEvent(description, from, to, false)
	b.tasks.Add(t)
	if err := b.save(); err != nil {
		return "", err
	}
	return b.added(t), nil
}

func (b *Bot) handleDelete(args string) (string, error) {
	idx, err := b.taskIndex(args)
	if err != nil {
		return "", err
	}
	removed, err := b.tasks.Remove(idx)
	if err != nil {
		return "", err
	}
	if err := b.save(); err != nil {
		return "", err
	}
	return fmt.Sprintf("Noted. I've removed this task:\n  %s\nNow you have %d tasks in the list.", removed, b.tasks.Len()), nil
}

func (b *Bot) handleFind(args string) string {
	var sb strings.Builder
	sb.WriteString("Here are the matching tasks in your list:")
	n := 0
	for t := range b.tasks.Find(strings.TrimSpace(args)) {
		n++
		fmt.Fprintf(&sb, "\n%d. %s", n, t)
	}
	return sb.String()
}

func (b *Bot) handleTag(args string) (string, error) {
	number, tag := splitFirst(args)
	if tag == "" {
		return "", command.EmptyDescription("tag")
	}
	t, err := b.task(number)
	if err != nil {
		return "", err
	}
	previous, had := t.Tag()
	t.SetTag(tag)
	if err := b.save(); err != nil {
		return "", err
	}
	if had {
		return fmt.Sprintf("Got it. I've updated the tag from #%s to #%s:\n  %s", previous, tag, t), nil
	}
	return fmt.Sprintf("Got it. I've added the tag #%s to this task:\n  %s", tag, t), nil
}

func (b *Bot) handleUntag(args string) (string, error) {
	number := strings.TrimSpace(args)
	if number == "" {
		return "", command.EmptyIndex("untag")
	}
	t, err := b.task(number)
	if err != nil {
		return "", err
	}
	tag, had := t.Tag()
	if !had {
		return "This task has no tag:\n  " + t.String(), nil
	}
	t.ClearTag()
	if err := b.save(); err != nil {
		return "", err
	}
	return fmt.Sprintf("Noted. I've removed the tag #%s from this task:\n  %s", tag, t), nil
}

// splitFirst splits s on its first run of whitespace, trimming both halves.
func splitFirst(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

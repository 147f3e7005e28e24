package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nissyi-gh/guide/internal/model"
)

// Separator joins the fields of one encoded task.
const Separator = " | "

// ErrCorrupt is returned when the store file cannot be decoded.
var ErrCorrupt = errors.New("corrupt store")

// CorruptError describes the first line that failed to decode.
// It satisfies errors.Is(err, ErrCorrupt).
type CorruptError struct {
	Line   int
	Reason string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt store: line %d: %s", e.Line, e.Reason)
}

func (e *CorruptError) Is(target error) bool {
	return target == ErrCorrupt
}

// ErrUnencodable is returned for a task with a line break in one of its
// fields.
var ErrUnencodable = errors.New("task cannot be encoded on one line")

// EncodeTask renders one task as a store line, without the newline.
// Tags are not part of the line format.
func EncodeTask(t *model.Task) (string, error) {
	done := "0"
	if t.Done {
		done = "1"
	}
	fields := []string{t.Kind.Letter(), done, t.Description}
	switch t.Kind {
	case model.KindDeadline:
		fields = append(fields, t.By)
	case model.KindEvent:
		fields = append(fields, t.From, t.To)
	}
	for _, f := range fields {
		if strings.ContainsAny(f, "\r\n") {
			return "", fmt.Errorf("%w: %q", ErrUnencodable, t.Description)
		}
	}
	return strings.Join(fields, Separator), nil
}

// Encode writes one line per task. Nothing is written if any task is
// unencodable.
func Encode(w io.Writer, tasks []*model.Task) error {
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		line, err := EncodeTask(t)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// DecodeTask parses a single store line. The returned error is a plain
// reason; Decode attaches the line number.
//
// Type and done flag are taken from the left and date fields from the
// right. Dates never contain the separator, so whatever remains is the
// description, separators included.
func DecodeTask(line string) (*model.Task, error) {
	head := strings.SplitN(line, Separator, 3)
	if len(head) < 3 {
		return nil, fmt.Errorf("expected at least 3 fields, got %d", len(head))
	}
	kind, flag, rest := head[0], head[1], head[2]

	var done bool
	switch flag {
	case "0":
	case "1":
		done = true
	default:
		return nil, fmt.Errorf("done flag must be 0 or 1, got %q", flag)
	}

	var extra int
	switch kind {
	case "T":
	case "D":
		extra = 1
	case "E":
		extra = 2
	default:
		return nil, fmt.Errorf("unknown task type %q", kind)
	}

	dates := make([]string, extra)
	for i := extra - 1; i >= 0; i-- {
		cut := strings.LastIndex(rest, Separator)
		if cut < 0 {
			return nil, fmt.Errorf("task type %s needs %d fields, got %d", kind, 3+extra, 3+extra-1-i)
		}
		dates[i] = rest[cut+len(Separator):]
		rest = rest[:cut]
	}
	description := rest
	if description == "" {
		return nil, errors.New("empty description")
	}

	switch kind {
	case "D":
		return model.NewDeadline(description, dates[0], done), nil
	case "E":
		return model.NewEvent(description, dates[0], dates[1], done), nil
	default:
		return model.NewToDo(description, done), nil
	}
}

// Decode reads every task from r. The first malformed line aborts decoding
// with a *CorruptError and no tasks. Blank lines are skipped.
func Decode(r io.Reader) ([]*model.Task, error) {
	var tasks []*model.Task
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			continue
		}
		t, err := DecodeTask(line)
		if err != nil {
			return nil, &CorruptError{Line: n, Reason: err.Error()}
		}
		tasks = append(tasks, t)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}
	return tasks, nil
}

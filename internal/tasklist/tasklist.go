package tasklist

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/nissyi-gh/guide/internal/model"
)

// ErrIndexOutOfRange is returned for a 0-based index outside [0, Len()).
var ErrIndexOutOfRange = errors.New("index out of range")

// List is an ordered collection of tasks. Insertion order is both the
// display order and the persistence order.
type List struct {
	tasks []*model.Task
}

// New returns a list holding tasks in the given order.
func New(tasks ...*model.Task) *List {
	return &List{tasks: append([]*model.Task(nil), tasks...)}
}

// Add appends task to the end of the list.
func (l *List) Add(task *model.Task) {
	l.tasks = append(l.tasks, task)
}

func (l *List) check(index int) error {
	if index < 0 || index >= len(l.tasks) {
		return fmt.Errorf("task %d of %d: %w", index, len(l.tasks), ErrIndexOutOfRange)
	}
	return nil
}

// Get returns the task at the 0-based index.
func (l *List) Get(index int) (*model.Task, error) {
	if err := l.check(index); err != nil {
		return nil, err
	}
	return l.tasks[index], nil
}

// Remove deletes the task at the 0-based index and returns it. Later tasks
// shift down by one.
func (l *List) Remove(index int) (*model.Task, error) {
	if err := l.check(index); err != nil {
		return nil, err
	}
	removed := l.tasks[index]
	l.tasks = slices.Delete(l.tasks, index, index+1)
	return removed, nil
}

// Len returns the number of tasks.
func (l *List) Len() int { return len(l.tasks) }

// Tasks returns a copy of the underlying slice.
func (l *List) Tasks() []*model.Task {
	return append([]*model.Task(nil), l.tasks...)
}

// All iterates over every task in order.
func (l *List) All() iter.Seq2[int, *model.Task] {
	return func(yield func(int, *model.Task) bool) {
		for i, t := range l.tasks {
			if !yield(i, t) {
				return
			}
		}
	}
}

// Find iterates over the tasks whose description contains keyword as a
// literal, case-sensitive substring. An empty keyword matches every task.
// The sequence is evaluated lazily and can be ranged over more than once.
func (l *List) Find(keyword string) iter.Seq[*model.Task] {
	return func(yield func(*model.Task) bool) {
		for _, t := range l.tasks {
			if !strings.Contains(t.Description, keyword) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

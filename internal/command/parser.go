package command

import (
	"strings"
	"unicode"
)

// Word is a recognised command name.
type Word string

const (
	Bye      Word = "bye"
	List     Word = "list"
	Mark     Word = "mark"
	Unmark   Word = "unmark"
	ToDo     Word = "todo"
	Deadline Word = "deadline"
	Event    Word = "event"
	Delete   Word = "delete"
	Find     Word = "find"
	Tag      Word = "tag"
	Untag    Word = "untag"
)

var vocabulary = map[Word]bool{
	Bye: true, List: true, Mark: true, Unmark: true, ToDo: true, Deadline: true,
	Event: true, Delete: true, Find: true, Tag: true, Untag: true,
}

// Words lists the vocabulary in help order.
func Words() []Word {
	return []Word{List, ToDo, Deadline, Event, Mark, Unmark, Delete, Find, Tag, Untag, Bye}
}

// Parse splits line on its first run of whitespace into a command word and
// the raw remainder. Surrounding whitespace is ignored. Args are not
// interpreted further.
func Parse(line string) (Word, string, error) {
	line = strings.TrimSpace(line)
	head, rest := line, ""
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		head = line[:i]
		rest = strings.TrimLeftFunc(line[i:], unicode.IsSpace)
	}
	w := Word(head)
	if !vocabulary[w] {
		return "", "", UnknownCommand()
	}
	return w, rest, nil
}

package command

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrUnknownCommand    = errors.New("unknown command")
	ErrEmptyDescription  = errors.New("empty description")
	ErrEmptyIndex        = errors.New("empty index")
	ErrInvalidTaskNumber = errors.New("invalid task number")
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrLineBreak         = errors.New("line break in field")
)

// Error is a user-facing failure of a single command. Its message is shown
// to the user verbatim.
type Error struct {
	Kind error
	// Subject names the command for the kinds that mention one,
	// e.g. "deadline" in "The description of a deadline cannot be empty."
	Subject string
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrUnknownCommand:
		return "OOPS!!! I'm sorry, but I don't know what that means :-("
	case ErrEmptyDescription:
		return fmt.Sprintf("OOPS!!! The description of a %s cannot be empty.", e.Subject)
	case ErrEmptyIndex:
		return fmt.Sprintf("OOPS!!! The index of a %s cannot be empty.", e.Subject)
	case ErrInvalidTaskNumber:
		return "OOPS!!! The task number is invalid."
	case ErrInvalidDateFormat:
		return "OOPS!!! The date format is invalid. Please use the format 'd/M/yyyy HHmm'."
	case ErrLineBreak:
		return fmt.Sprintf("OOPS!!! A %s cannot contain line breaks.", e.Subject)
	default:
		return "OOPS!!! " + e.Kind.Error()
	}
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func UnknownCommand() error { return &Error{Kind: ErrUnknownCommand} }

func EmptyDescription(subject string) error {
	return &Error{Kind: ErrEmptyDescription, Subject: subject}
}

func EmptyIndex(subject string) error {
	return &Error{Kind: ErrEmptyIndex, Subject: subject}
}

func InvalidTaskNumber() error { return &Error{Kind: ErrInvalidTaskNumber} }

func InvalidDateFormat() error { return &Error{Kind: ErrInvalidDateFormat} }

func LineBreak(subject string) error {
	return &Error{Kind: ErrLineBreak, Subject: subject}
}

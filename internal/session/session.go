// Package session runs the line-oriented conversation loop used when no
// chat window is available.
package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nissyi-gh/guide/internal/bot"
)

const rule = "____________________________________________________________"

// InputReader yields one line of input per call and io.EOF when exhausted.
type InputReader interface {
	ReadLine() (string, error)
}

// Responder answers one input line.
type Responder interface {
	Respond(input string) bot.Response
}

// LineReader reads newline-terminated lines from an io.Reader.
type LineReader struct {
	sc *bufio.Scanner
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{sc: bufio.NewScanner(r)}
}

func (r *LineReader) ReadLine() (string, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimRight(r.sc.Text(), "\r"), nil
}

// Session pairs an input source with an output sink.
type Session struct {
	in      InputReader
	out     io.Writer
	bot     Responder
	loadErr error
}

// New builds a session. loadErr, when set, is reported once before the
// first prompt.
func New(in InputReader, out io.Writer, b Responder, loadErr error) *Session {
	return &Session{in: in, out: out, bot: b, loadErr: loadErr}
}

func (s *Session) show(text string) error {
	_, err := fmt.Fprintf(s.out, "%s\n%s\n%s\n", rule, text, rule)
	return err
}

// Run loops until "bye" or the input is exhausted. Command failures are
// shown and the loop continues; only I/O errors end it early.
func (s *Session) Run() error {
	if err := s.show(bot.Welcome); err != nil {
		return err
	}
	if s.loadErr != nil {
		if err := s.show(bot.LoadFailure); err != nil {
			return err
		}
	}
	for {
		line, err := s.in.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		resp := s.bot.Respond(line)
		if err := s.show(resp.Text); err != nil {
			return err
		}
		if resp.Exit {
			return nil
		}
	}
}

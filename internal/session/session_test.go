package session

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nissyi-gh/guide/internal/bot"
	"github.com/nissyi-gh/guide/internal/model"
)

type memBackend struct{ saved []*model.Task }

func (m *memBackend) Load() ([]*model.Task, error) { return nil, nil }

func (m *memBackend) Save(t []*model.Task) error {
	m.saved = t
	return nil
}

func (m *memBackend) Close() error { return nil }

type failingReader struct{}

func (failingReader) ReadLine() (string, error) { return "", errors.New("tty gone") }

func TestRunUntilBye(t *testing.T) {
	in := NewLineReader(strings.NewReader("todo buy milk\nblah\nlist\nbye\ntodo never\n"))
	var out bytes.Buffer
	mem := &memBackend{}
	b := bot.New(mem, nil)

	require.NoError(t, New(in, &out, b, nil).Run())

	got := out.String()
	assert.True(t, strings.HasPrefix(got, rule+"\n"+bot.Welcome))
	assert.Contains(t, got, "Now you have 1 tasks in the list.")
	assert.Contains(t, got, "I don't know what that means")
	assert.Contains(t, got, "1. [T][ ] buy milk")
	assert.Contains(t, got, bot.Farewell)
	assert.NotContains(t, got, "never")
	assert.Len(t, mem.saved, 1)
}

func TestRunStopsAtEOF(t *testing.T) {
	in := NewLineReader(strings.NewReader("todo a\r\ntodo b"))
	var out bytes.Buffer
	b := bot.New(&memBackend{}, nil)

	require.NoError(t, New(in, &out, b, nil).Run())
	assert.Equal(t, 2, b.Tasks().Len())
	assert.NotContains(t, out.String(), bot.Farewell)
}

func TestRunReportsLoadError(t *testing.T) {
	var out bytes.Buffer
	b := bot.New(&memBackend{}, nil)

	err := New(NewLineReader(strings.NewReader("")), &out, b, errors.New("corrupt")).Run()
	require.NoError(t, err)
	assert.Contains(t, out.String(), bot.LoadFailure)
}

func TestRunInputError(t *testing.T) {
	var out bytes.Buffer
	err := New(failingReader{}, &out, bot.New(&memBackend{}, nil), nil).Run()
	assert.ErrorContains(t, err, "tty gone")
}

func TestLineReader(t *testing.T) {
	r := NewLineReader(strings.NewReader("one\r\ntwo\n"))
	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "one", line)
	line, err = r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "two", line)
	_, err = r.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

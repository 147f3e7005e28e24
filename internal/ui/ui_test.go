package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nissyi-gh/guide/internal/bot"
)

type scripted struct {
	inputs []string
	reply  map[string]bot.Response
}

func (s *scripted) Respond(input string) bot.Response {
	s.inputs = append(s.inputs, input)
	if r, ok := s.reply[input]; ok {
		return r
	}
	return bot.Response{Text: "ok: " + input}
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func submit(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(line)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

func TestNewModelShowsWelcome(t *testing.T) {
	m := NewModel(&scripted{}, nil)
	require.Len(t, m.dialogs, 1)
	assert.Equal(t, bot.Welcome, m.dialogs[0].text)

	m = NewModel(&scripted{}, errors.New("corrupt"))
	require.Len(t, m.dialogs, 2)
	assert.Equal(t, bot.LoadFailure, m.dialogs[1].text)
	assert.True(t, m.dialogs[1].failed)
}

func TestSendAppendsDialogs(t *testing.T) {
	s := &scripted{}
	m := sized(t, NewModel(s, nil))

	m, cmd := submit(t, m, "todo buy milk")
	assert.Nil(t, cmd)
	assert.Equal(t, []string{"todo buy milk"}, s.inputs)
	require.Len(t, m.dialogs, 3)
	assert.True(t, m.dialogs[1].user)
	assert.Equal(t, "ok: todo buy milk", m.dialogs[2].text)
	assert.Equal(t, "", m.input.Value())
	assert.Contains(t, m.View(), "ok: todo buy milk")
}

func TestSendIgnoresBlankInput(t *testing.T) {
	s := &scripted{}
	m := sized(t, NewModel(s, nil))

	m, _ = submit(t, m, "   ")
	assert.Empty(t, s.inputs)
	assert.Len(t, m.dialogs, 1)
}

func TestFailedReplyIsMarked(t *testing.T) {
	s := &scripted{reply: map[string]bot.Response{
		"dance": {Text: "OOPS!!! I'm sorry, but I don't know what that means :-(", Err: errors.New("unknown")},
	}}
	m := sized(t, NewModel(s, nil))

	m, _ = submit(t, m, "dance")
	assert.True(t, m.dialogs[len(m.dialogs)-1].failed)
}

func TestByeClosesAfterDelay(t *testing.T) {
	s := &scripted{reply: map[string]bot.Response{"bye": {Text: bot.Farewell, Exit: true}}}
	m := sized(t, NewModel(s, nil))
	m.closeDelay = 0

	m, cmd := submit(t, m, "bye")
	require.NotNil(t, cmd)
	assert.True(t, m.closing)

	msg := cmd()
	assert.IsType(t, closeMsg{}, msg)

	// input after bye is not sent
	m, _ = submit(t, m, "list")
	assert.Equal(t, []string{"bye"}, s.inputs)

	_, cmd = m.Update(msg)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestCopyLastReply(t *testing.T) {
	var copied string
	m := sized(t, NewModel(&scripted{}, nil))
	m.copy = func(s string) error {
		copied = s
		return nil
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	m = next.(Model)
	assert.Empty(t, copied, "nothing to copy before the first reply")

	m, _ = submit(t, m, "list")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	m = next.(Model)
	assert.Equal(t, "ok: list", copied)
	assert.Contains(t, m.View(), "Copied last reply")
}

func TestCopyFailureIsShown(t *testing.T) {
	m := sized(t, NewModel(&scripted{}, nil))
	m.copy = func(string) error { return errors.New("no clipboard") }

	m, _ = submit(t, m, "list")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Contains(t, next.(Model).View(), "Error: no clipboard")
}

func TestQuitKey(t *testing.T) {
	m := sized(t, NewModel(&scripted{}, nil))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestLongRepliesWrap(t *testing.T) {
	long := "Here are the tasks in your list:\n1. [T][ ] a very long description that keeps going well past the width of the chat window so it has to wrap"
	s := &scripted{reply: map[string]bot.Response{"list": {Text: long}}}
	m := sized(t, NewModel(s, nil))

	m, _ = submit(t, m, "list")
	for _, line := range strings.Split(m.renderDialogs(), "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 80)
	}
}

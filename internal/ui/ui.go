package ui

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nissyi-gh/guide/internal/bot"
)

var (
	appStyle    = lipgloss.NewStyle().Padding(1, 2)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	userStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39"))
	botStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212"))
	failStyle = botStyle.BorderForeground(lipgloss.Color("196"))
)

// closeDelay keeps the farewell on screen before the window closes.
const closeDelay = 2 * time.Second

// Responder answers one line of user input.
type Responder interface {
	Respond(input string) bot.Response
}

type keyMap struct {
	Send       key.Binding
	Copy       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy reply"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Copy, k.ScrollUp, k.ScrollDown, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type dialog struct {
	user   bool
	failed bool
	text   string
}

type closeMsg struct{}

// Model is the chat window: a scrollback of dialog bubbles above a single
// input line.
type Model struct {
	bot        Responder
	input      textinput.Model
	viewport   viewport.Model
	help       help.Model
	keys       keyMap
	dialogs    []dialog
	lastReply  string
	status     string
	err        error
	closing    bool
	closeDelay time.Duration
	copy       func(string) error
	width      int
	height     int
}

// NewModel creates the chat window. A non-nil loadErr is announced right
// after the welcome message.
func NewModel(b Responder, loadErr error) Model {
	ti := textinput.New()
	ti.Placeholder = "todo, deadline, event, list, find, mark, tag, bye..."
	ti.Prompt = "> "
	ti.CharLimit = 1024
	ti.Focus()

	m := Model{
		bot:        b,
		input:      ti,
		viewport:   viewport.New(0, 0),
		help:       help.New(),
		keys:       newKeyMap(),
		closeDelay: closeDelay,
		copy:       clipboard.WriteAll,
		dialogs:    []dialog{{text: bot.Welcome}},
	}
	if loadErr != nil {
		m.dialogs = append(m.dialogs, dialog{text: bot.LoadFailure, failed: true})
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := appStyle.GetFrameSize()
		// title, input and help lines plus the blank lines between them
		m.viewport.Width = msg.Width - h
		m.viewport.Height = max(msg.Height-v-6, 1)
		m.input.Width = max(msg.Width-h-4, 10)
		m.help.Width = msg.Width - h
		m.refresh()
		return m, nil

	case closeMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Copy):
			return m.copyReply(), nil
		case key.Matches(msg, m.keys.Send):
			return m.send()
		case key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDown):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	if m.closing {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) send() (tea.Model, tea.Cmd) {
	if m.closing {
		return m, nil
	}
	line := m.input.Value()
	if strings.TrimSpace(line) == "" {
		return m, nil
	}
	m.input.Reset()
	m.status = ""
	m.err = nil

	resp := m.bot.Respond(line)
	m.dialogs = append(m.dialogs,
		dialog{user: true, text: line},
		dialog{text: resp.Text, failed: resp.Err != nil},
	)
	m.lastReply = resp.Text
	m.refresh()

	if resp.Exit {
		m.closing = true
		m.input.Blur()
		return m, tea.Tick(m.closeDelay, func(time.Time) tea.Msg { return closeMsg{} })
	}
	return m, nil
}

func (m Model) copyReply() Model {
	if m.lastReply == "" {
		return m
	}
	if err := m.copy(m.lastReply); err != nil {
		m.err = err
		return m
	}
	m.err = nil
	m.status = "Copied last reply to clipboard"
	return m
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderDialogs())
	m.viewport.GotoBottom()
}

func (m Model) renderDialogs() string {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	maxBubble := max(width*3/4, 20)

	blocks := make([]string, 0, len(m.dialogs))
	for _, d := range m.dialogs {
		style := botStyle
		if d.user {
			style = userStyle
		} else if d.failed {
			style = failStyle
		}
		frame := style.GetHorizontalFrameSize()
		if lipgloss.Width(d.text)+frame > maxBubble {
			style = style.Width(maxBubble - style.GetHorizontalBorderSize())
		}
		bubble := style.Render(d.text)
		if d.user {
			bubble = lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
		}
		blocks = append(blocks, bubble)
	}
	return strings.Join(blocks, "\n")
}

func (m Model) View() string {
	footer := m.help.View(m.keys)
	if m.err != nil {
		footer = errorStyle.Render("Error: " + m.err.Error())
	} else if m.status != "" {
		footer = statusStyle.Render(m.status)
	}
	return appStyle.Render(
		titleStyle.Render("AdventureGuide") + "\n\n" +
			m.viewport.View() + "\n\n" +
			m.input.View() + "\n\n" +
			footer,
	)
}

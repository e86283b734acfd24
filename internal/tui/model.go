package tui

import (
	"context"
	"errors"

	"github.com/atotto/clipboard"
	"github.com/bastiangx/cmdfinder/pkg/interpret"
	"github.com/bastiangx/cmdfinder/pkg/launch"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// Launcher runs resolved commands.
type Launcher interface {
	Launch(ctx context.Context, res interpret.Resolution, password string) error
}

// view is the screen currently shown.
type view int

const (
	viewSearch view = iota
	viewPassword
)

// launchedMsg reports the outcome of a launch.
type launchedMsg struct {
	err error
}

// Options configures a Model.
type Options struct {
	Interpreter *interpret.Interpreter
	Launcher    Launcher
	Limit       int // rows shown, 0 for as many as fit
}

// Model is the bubbletea model of the launcher.
type Model struct {
	interp   *interpret.Interpreter
	launcher Launcher
	keymap   Keymap
	limit    int

	search   textinput.Model
	password textinput.Model
	view     view
	pending  interpret.Resolution
	preview  string // expanded command of the last selection

	status string
	err    error
	width  int
	height int

	copy func(string) error
}

// NewModel creates the launcher model with an empty search.
func NewModel(opts Options) Model {
	search := textinput.New()
	search.Prompt = promptStyle.Render("> ")
	search.Placeholder = "search"
	search.Focus()

	password := textinput.New()
	password.Prompt = promptStyle.Render("password: ")
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	interp := opts.Interpreter
	if interp == nil {
		interp = interpret.New(nil)
	}
	interp.UpdateSearch("")

	return Model{
		interp:   interp,
		launcher: opts.Launcher,
		keymap:   DefaultKeymap(),
		limit:    opts.Limit,
		search:   search,
		password: password,
		copy:     clipboard.WriteAll,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case launchedMsg:
		return m.handleLaunched(msg)

	case tea.KeyMsg:
		if msg.String() == m.keymap.Cancel.Key {
			return m, tea.Quit
		}
		if m.view == viewPassword {
			return m.updatePassword(msg)
		}
		return m.updateSearch(msg)
	}

	var cmd tea.Cmd
	if m.view == viewPassword {
		m.password, cmd = m.password.Update(msg)
	} else {
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

// updateSearch handles keys on the search screen.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status, m.err = "", nil

	switch msg.String() {
	case m.keymap.Quit.Key:
		return m, tea.Quit
	case m.keymap.Autocomplete.Key:
		m.showSelection(m.interp.Autocomplete())
		return m, nil
	case m.keymap.Next.Key:
		m.showSelection(m.interp.SelectUp())
		return m, nil
	case m.keymap.Previous.Key:
		m.showSelection(m.interp.SelectDown())
		return m, nil
	case m.keymap.Copy.Key:
		return m.copyCommand(), nil
	case m.keymap.Launch.Key:
		return m.confirm()
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.preview = ""
		m.interp.UpdateSearch(after)
	}
	return m, cmd
}

// updatePassword handles keys on the sudo password screen.
func (m Model) updatePassword(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.keymap.Quit.Key:
		m.view = viewSearch
		m.password.Reset()
		m.password.Blur()
		m.search.Focus()
		return m, nil
	case m.keymap.Launch.Key:
		password := m.password.Value()
		m.password.Reset()
		return m, m.launch(m.pending, password)
	}

	var cmd tea.Cmd
	m.password, cmd = m.password.Update(msg)
	return m, cmd
}

// showSelection puts a selection's text in the search box without re-interpreting it.
func (m *Model) showSelection(sel interpret.Selection) {
	m.preview = sel.Preview
	m.search.SetValue(sel.Text)
	m.search.CursorEnd()
}

// confirm resolves the search and launches it, asking for a password first for sudo.
func (m Model) confirm() (tea.Model, tea.Cmd) {
	res := m.interp.Command()
	if res.Kind == interpret.KindSudo {
		m.pending = res
		m.view = viewPassword
		m.search.Blur()
		cmd := m.password.Focus()
		return m, cmd
	}
	return m, m.launch(res, "")
}

func (m Model) launch(res interpret.Resolution, password string) tea.Cmd {
	launcher := m.launcher
	if launcher == nil {
		return tea.Quit
	}
	return func() tea.Msg {
		return launchedMsg{err: launcher.Launch(context.Background(), res, password)}
	}
}

func (m Model) handleLaunched(msg launchedMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err == nil:
		return m, tea.Quit
	case errors.Is(msg.err, launch.ErrFailed), errors.Is(msg.err, launch.ErrEmpty):
		m.err = msg.err
		m.view = viewSearch
		m.password.Blur()
		m.search.Focus()
		return m, nil
	default:
		// the command ran; only its usage was lost
		log.Warnf("%v", msg.err)
		return m, tea.Quit
	}
}

func (m Model) copyCommand() Model {
	line := m.interp.Command().Line
	if line == "" {
		return m
	}
	if err := m.copy(line); err != nil {
		m.err = err
		return m
	}
	m.status = "copied " + line
	return m
}

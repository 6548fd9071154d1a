package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nexus-sus/nexus/internal/logging"
	"github.com/nexus-sus/nexus/internal/search"
	"github.com/nexus-sus/nexus/internal/tui/styles"
)

// Placeholder is shown in the empty input field.
const Placeholder = "Digite o Estado (ex: SP)"

// Options configures the search screen.
type Options struct {
	// Lookuper answers searches. Required.
	Lookuper search.Lookuper
	// Logger defaults to a no-op logger.
	Logger *logging.Logger
	// Context is passed to every lookup. Defaults to context.Background.
	Context context.Context
	// ShowNationalValue adds the national value rows to the result panel.
	ShowNationalValue bool
	// AltScreen runs the program in the alternate screen.
	AltScreen bool
}

// Model holds the TUI application state
type Model struct {
	// Core components
	ctrl   *search.Controller
	lookup search.Lookuper
	ctx    context.Context
	logger *logging.Logger

	// Widgets
	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	// UI state
	width        int
	height       int
	quitting     bool
	showNational bool
}

// NewModel creates a new TUI model
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	ti := textinput.New()
	ti.Placeholder = Placeholder
	ti.CharLimit = search.CodeLength
	ti.Width = 26
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	logger := opts.Logger.WithComponent("tui")

	return Model{
		ctrl:         search.NewController(opts.Logger),
		lookup:       opts.Lookuper,
		ctx:          opts.Context,
		logger:       logger,
		input:        ti,
		spinner:      sp,
		help:         help.New(),
		keys:         defaultKeyMap(),
		showNational: opts.ShowNationalValue,
	}
}

// State returns the current search view state.
func (m Model) State() search.ViewState {
	return m.ctrl.State()
}

// Value returns the text in the input field.
func (m Model) Value() string {
	return m.input.Value()
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeypress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SearchSettledMsg:
		if !m.ctrl.Settle(msg.Seq, msg.Outcome, msg.Err) {
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Warn("search failed", "code", msg.Code, "error", msg.Err.Error())
		}
		return m, nil

	case ConfigReloadedMsg:
		if msg.Lookuper != nil {
			m.lookup = msg.Lookuper
		}
		m.showNational = msg.ShowNationalValue
		m.logger.Info("config reloaded")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKeypress processes keyboard input
func (m Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Clear):
		m.input.Reset()
		m.ctrl.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if normalized := search.NormalizeKeystroke(m.input.Value()); normalized != m.input.Value() {
		m.input.SetValue(normalized)
	}
	return m, cmd
}

// submit starts a lookup for the current input. It is a no-op while a
// lookup is in flight.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.ctrl.Busy() {
		return m, nil
	}
	req, ok := m.ctrl.Submit(m.input.Value())
	if !ok {
		return m, nil
	}
	return m, tea.Batch(m.spinner.Tick, searchCmd(m.ctx, m.lookup, req))
}

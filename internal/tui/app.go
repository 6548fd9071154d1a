package tui

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nexus-sus/nexus/internal/search"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	cancel  context.CancelFunc
}

// New creates a new TUI application. Lookups run under a context that is
// canceled when the program exits.
func New(opts Options) *App {
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	opts.Context = ctx

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	return &App{
		program: tea.NewProgram(NewModel(opts), programOpts...),
		cancel:  cancel,
	}
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	defer a.cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-sigChan:
			a.program.Send(tea.Quit())
		case <-done:
		}
	}()

	_, err := a.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		// Context canceled by the caller; not a failure.
		return nil
	}
	return err
}

// Reload hands a rebuilt client and the reloaded display settings to the
// running program. The new client is used from the next submission on.
func (a *App) Reload(l search.Lookuper, showNationalValue bool) {
	a.program.Send(ConfigReloadedMsg{
		Lookuper:          l,
		ShowNationalValue: showNationalValue,
	})
}

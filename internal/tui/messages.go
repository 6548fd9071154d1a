package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nexus-sus/nexus/internal/search"
)

// SearchSettledMsg carries the answer for the lookup identified by Seq.
type SearchSettledMsg struct {
	Seq     uint64
	Code    string
	Outcome *search.Outcome
	Err     error
}

// ConfigReloadedMsg is sent when the config file changes on disk. A nil
// Lookuper keeps the current client.
type ConfigReloadedMsg struct {
	Lookuper          search.Lookuper
	ShowNationalValue bool
}

// Commands

// searchCmd runs one lookup off the event loop and reports it back as a
// SearchSettledMsg.
func searchCmd(ctx context.Context, l search.Lookuper, req search.Request) tea.Cmd {
	return func() tea.Msg {
		out, err := l.Lookup(ctx, req.Code)
		return SearchSettledMsg{
			Seq:     req.Seq,
			Code:    req.Code,
			Outcome: out,
			Err:     err,
		}
	}
}

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func TestFitWidth(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"unknown width", "a long line", 0, "a long line"},
		{"fits", "short", 10, "short"},
		{"truncated", "Proteção Industrial", 8, "Proteçã…"},
		{"per line", "abcdef\nxy", 4, "abc…\nxy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fitWidth(tt.in, tt.width); got != tt.want {
				t.Errorf("fitWidth(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestFitWidth_KeepsStyling(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("NEXUS-SUS and more")
	got := fitWidth(styled, 6)
	if w := lipgloss.Width(got); w > 6 {
		t.Errorf("width = %d, want <= 6", w)
	}
}

// narrowWidth is a terminal narrower than the result panel.
const narrowWidth = 40

func TestView_RespectsTerminalWidth(t *testing.T) {
	m := newTestModel(&fakeLookuper{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: narrowWidth, Height: 20})

	for i, line := range strings.Split(m.View(), "\n") {
		if w := lipgloss.Width(line); w > narrowWidth {
			t.Errorf("line %d is %d columns wide, want <= %d: %q", i, w, narrowWidth, line)
		}
	}
}

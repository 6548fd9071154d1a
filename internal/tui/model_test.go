package tui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nexus-sus/nexus/internal/errors"
	"github.com/nexus-sus/nexus/internal/search"
)

// fakeLookuper records the codes it was asked for.
type fakeLookuper struct {
	mu    sync.Mutex
	codes []string
	out   *search.Outcome
	err   error
}

func (f *fakeLookuper) Lookup(_ context.Context, code string) (*search.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes = append(f.codes, code)
	return f.out, f.err
}

func (f *fakeLookuper) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.codes)
}

func newTestModel(l search.Lookuper) Model {
	return NewModel(Options{Lookuper: l})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func pressEnter(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

// settledMsgs runs cmd, expanding batches, and returns every
// SearchSettledMsg produced.
func settledMsgs(cmd tea.Cmd) []SearchSettledMsg {
	if cmd == nil {
		return nil
	}
	var out []SearchSettledMsg
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			out = append(out, settledMsgs(c)...)
		}
	case SearchSettledMsg:
		out = append(out, msg)
	}
	return out
}

func TestModel_NormalizesKeystrokes(t *testing.T) {
	tests := []struct {
		name  string
		typed string
		want  string
	}{
		{"lowercase", "sp", "SP"},
		{"mixed case", "rJ", "RJ"},
		{"capped at two", "spx", "SP"},
		{"digits kept", "s1", "S1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := typeText(t, newTestModel(&fakeLookuper{}), tt.typed)
			if got := m.Value(); got != tt.want {
				t.Errorf("Value() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModel_SubmitInvalid(t *testing.T) {
	fake := &fakeLookuper{}
	m := typeText(t, newTestModel(fake), "s")

	m, cmd := pressEnter(t, m)
	if cmd != nil {
		t.Error("invalid submit returned a command")
	}
	state := m.State()
	if state.Phase != search.PhaseError || state.Message != search.MsgInvalidCode {
		t.Errorf("state = %+v, want error %q", state, search.MsgInvalidCode)
	}
	if fake.calls() != 0 {
		t.Errorf("Lookup called %d times, want 0", fake.calls())
	}
}

func TestModel_SubmitValid(t *testing.T) {
	found := search.NewFound(search.Record{Estado: "RJ", Regiao: "Sudeste", VlUF: 1100})
	fake := &fakeLookuper{out: found}
	m := typeText(t, newTestModel(fake), "rj")

	m, cmd := pressEnter(t, m)
	if cmd == nil {
		t.Fatal("valid submit returned no command")
	}
	if !m.State().Busy() {
		t.Fatal("model not busy after submit")
	}

	msgs := settledMsgs(cmd)
	if len(msgs) != 1 {
		t.Fatalf("got %d settled messages, want 1", len(msgs))
	}
	if msgs[0].Code != "RJ" {
		t.Errorf("Code = %q, want %q", msgs[0].Code, "RJ")
	}

	m, _ = update(t, m, msgs[0])
	state := m.State()
	if state.Phase != search.PhaseResult || state.Outcome != found {
		t.Errorf("state = %+v, want result with RJ", state)
	}
	if fake.calls() != 1 {
		t.Errorf("Lookup called %d times, want 1", fake.calls())
	}
}

func TestModel_EnterIgnoredWhileBusy(t *testing.T) {
	fake := &fakeLookuper{out: search.NewNotFound("SP")}
	m := typeText(t, newTestModel(fake), "sp")

	m, first := pressEnter(t, m)
	m, second := pressEnter(t, m)
	if second != nil {
		t.Error("enter while busy returned a command")
	}

	for _, msg := range settledMsgs(first) {
		m, _ = update(t, m, msg)
	}
	if fake.calls() != 1 {
		t.Errorf("Lookup called %d times, want 1", fake.calls())
	}
	if m.State().Phase != search.PhaseResult {
		t.Errorf("Phase = %v, want result", m.State().Phase)
	}
}

func TestModel_ErrorsMapToMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rate limited", errors.NewLookupError("SP", errors.ErrRateLimited).WithStatus(429), search.MsgRateLimited},
		{"transport", errors.NewLookupError("SP", errors.ErrTransport).WithStatus(502), search.MsgTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := typeText(t, newTestModel(&fakeLookuper{err: tt.err}), "sp")
			m, cmd := pressEnter(t, m)
			for _, msg := range settledMsgs(cmd) {
				m, _ = update(t, m, msg)
			}
			if got := m.State().Message; got != tt.want {
				t.Errorf("Message = %q, want %q", got, tt.want)
			}
			if m.State().Busy() {
				t.Error("model still busy after error")
			}
		})
	}
}

func TestModel_IgnoresStaleSettlement(t *testing.T) {
	m := typeText(t, newTestModel(&fakeLookuper{}), "sp")
	m, _ = pressEnter(t, m)

	m, _ = update(t, m, SearchSettledMsg{Seq: 999, Code: "SP", Outcome: search.NewNotFound("SP")})
	if !m.State().Busy() {
		t.Error("stale settlement ended loading")
	}
}

func TestModel_ClearResetsInputAndState(t *testing.T) {
	m := typeText(t, newTestModel(&fakeLookuper{}), "x")
	m, _ = pressEnter(t, m)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	if m.Value() != "" {
		t.Errorf("Value() = %q, want empty", m.Value())
	}
	if m.State().Phase != search.PhaseIdle {
		t.Errorf("Phase = %v, want idle", m.State().Phase)
	}
}

func TestModel_Quit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		m, cmd := update(t, newTestModel(&fakeLookuper{}), msg)
		if cmd == nil {
			t.Fatalf("%s returned no command", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", msg)
		}
		if m.View() != "" {
			t.Errorf("%s: View() = %q, want empty after quitting", msg, m.View())
		}
	}
}

func TestModel_ConfigReloadSwapsClient(t *testing.T) {
	old := &fakeLookuper{out: search.NewNotFound("SP")}
	replacement := &fakeLookuper{out: search.NewNotFound("SP")}

	m := newTestModel(old)
	m, _ = update(t, m, ConfigReloadedMsg{Lookuper: replacement, ShowNationalValue: true})
	if !m.showNational {
		t.Error("showNational not updated")
	}

	m = typeText(t, m, "sp")
	_, cmd := pressEnter(t, m)
	settledMsgs(cmd)

	if old.calls() != 0 || replacement.calls() != 1 {
		t.Errorf("calls old=%d replacement=%d, want 0 and 1", old.calls(), replacement.calls())
	}
}

func TestModel_ConfigReloadWithoutClientKeepsCurrent(t *testing.T) {
	current := &fakeLookuper{out: search.NewNotFound("SP")}
	m := newTestModel(current)
	m, _ = update(t, m, ConfigReloadedMsg{})

	m = typeText(t, m, "sp")
	_, cmd := pressEnter(t, m)
	settledMsgs(cmd)

	if current.calls() != 1 {
		t.Errorf("Lookup called %d times, want 1", current.calls())
	}
}

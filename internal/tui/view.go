package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nexus-sus/nexus/internal/config"
	"github.com/nexus-sus/nexus/internal/search"
	"github.com/nexus-sus/nexus/internal/tui/styles"
)

// Screen text
const (
	Title        = "NEXUS-SUS"
	Subtitle     = "Busca Ultra-Rápida em Memória O(1)"
	SubmitLabel  = "[ PESQUISAR ]"
	LoadingLabel = "[ BUSCANDO... ]"
	FooterLabel  = "Proteção Industrial"
)

// VersionLabel is the release tag shown in the footer.
var VersionLabel = "v" + config.Version + "-Production"

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	state := m.ctrl.State()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderSearchBar(state))

	if panel := m.renderState(state); panel != "" {
		b.WriteString("\n")
		b.WriteString(panel)
	}

	b.WriteString("\n")
	b.WriteString(styles.Footer.Render(FooterLabel + " · " + VersionLabel))
	b.WriteString("\n")
	b.WriteString(styles.HelpBar.Render(m.help.View(m.keys)))
	return fitWidth(b.String(), m.width)
}

func (m Model) renderHeader() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Header.Render(Title),
		styles.Subtitle.Render(Subtitle),
	)
}

func (m Model) renderSearchBar(state search.ViewState) string {
	box := styles.InputBoxFocused
	if state.Busy() {
		box = styles.InputBox
	}
	input := box.Render(m.input.View())

	var button string
	if state.Busy() {
		button = m.spinner.View() + " " + styles.ButtonDisabled.Render(LoadingLabel)
	} else {
		button = styles.Button.Render(SubmitLabel)
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, input, " ", button)
}

// renderState draws the error notice, result panel or empty-result
// notice. Only one of them is ever visible.
func (m Model) renderState(state search.ViewState) string {
	switch state.Phase {
	case search.PhaseError:
		return styles.ErrorMsg.Render(state.Message)
	case search.PhaseResult:
		if state.Outcome == nil {
			return ""
		}
		if state.Outcome.Kind == search.NotFound {
			return styles.WarningMsg.Render(search.NotFoundMessage(state.Outcome.Code))
		}
		return m.renderRecord(state.Outcome.Record)
	default:
		return ""
	}
}

func (m Model) renderRecord(rec *search.Record) string {
	if rec == nil {
		return ""
	}

	title := styles.ResultTitle.Render(rec.Estado)
	if rec.Regiao != "" {
		title += styles.RegionBadge.Render(rec.Regiao)
	}

	lines := []string{
		title,
		"",
		row("Valor UF", search.FormatMoney(rec.VlUF)),
		row("Valor Região", search.FormatMoney(rec.VlRegiao)),
	}
	if m.showNational {
		lines = append(lines, row("Valor Brasil", search.FormatMoney(rec.VlBrasil)))
	}
	lines = append(lines, "", styles.Muted.Render("Competência: "+rec.DtCompetencia))
	if m.showNational && rec.DtAtualizacao != "" {
		lines = append(lines, styles.Muted.Render("Atualizado em: "+rec.DtAtualizacao))
	}

	return styles.ResultPanel.Render(strings.Join(lines, "\n"))
}

func row(label, value string) string {
	return styles.ResultLabel.Render(label) + styles.ResultValue.Render(value)
}

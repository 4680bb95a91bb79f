package tui

import (
	"github.com/MKhiriev/deepguard/models"
	"github.com/charmbracelet/lipgloss"
)

var (
	appStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleStyle      = lipgloss.NewStyle().Bold(true)
	helpStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Bold(true)
	overlayBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)

	realStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	fakeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	statusStyles = map[models.BackendStatus]lipgloss.Style{
		models.BackendHealthy:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		models.BackendUnreachable: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		models.BackendChecking:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
)

func verdictStyle(v models.Verdict) lipgloss.Style {
	if v == models.VerdictFake {
		return fakeStyle
	}
	return realStyle
}

func renderStatus(s models.BackendStatus) string {
	style, ok := statusStyles[s]
	if !ok {
		style = statusStyles[models.BackendChecking]
	}
	return style.Render("● " + s.Message())
}

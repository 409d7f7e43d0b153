package cli

import "github.com/charmbracelet/lipgloss"

// Style definitions shared by the interactive forms and the dashboard.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	// Severity colors for the approval ladder and volume deltas.
	severityOK   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	severityWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	severityHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	severityDim  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

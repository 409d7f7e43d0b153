package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kmarler/opsdesk/internal/observability"
)

// Stats panel indices.
const (
	panelVolume = iota
	panelStations
	panelFiles
	statsPanelCount
)

var statsSinceDaysFlag int

type statsModel struct {
	activePanel int
	width       int
	height      int
	sinceDays   int

	metrics *observability.Metrics

	loading bool
	err     error
}

type statsLoadedMsg struct {
	metrics *observability.Metrics
	err     error
}

var activePanelStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("62")).
	Padding(1, 2)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("62")).
	MarginBottom(1)

func newStatsModel(sinceDays int) statsModel {
	return statsModel{activePanel: panelVolume, sinceDays: sinceDays, loading: true}
}

func loadStats(sinceDays int) tea.Cmd {
	return func() tea.Msg {
		if MetricsCalc == nil {
			return statsLoadedMsg{err: fmt.Errorf("metrics not initialized")}
		}
		since := time.Now().AddDate(0, 0, -sinceDays)
		m, err := MetricsCalc.Calculate(since)
		return statsLoadedMsg{metrics: m, err: err}
	}
}

func (m statsModel) Init() tea.Cmd {
	return loadStats(m.sinceDays)
}

func (m statsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % statsPanelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + statsPanelCount) % statsPanelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadStats(m.sinceDays)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case statsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.metrics = msg.metrics
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m statsModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(fmt.Sprintf(" opsdesk stats (%dd) ", m.sinceDays))
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}
	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	volumePanel := m.renderVolumePanel()
	stationsPanel := m.renderStationsPanel()
	filesPanel := m.renderFilesPanel()

	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		colWidth := availableWidth / 3
		volumePanel = m.applyPanelStyle(panelVolume, volumePanel, colWidth-4)
		stationsPanel = m.applyPanelStyle(panelStations, stationsPanel, colWidth-4)
		filesPanel = m.applyPanelStyle(panelFiles, filesPanel, colWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, volumePanel, stationsPanel, filesPanel)
	} else {
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		volumePanel = m.applyPanelStyle(panelVolume, volumePanel, panelWidth)
		stationsPanel = m.applyPanelStyle(panelStations, stationsPanel, panelWidth)
		filesPanel = m.applyPanelStyle(panelFiles, filesPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, volumePanel, stationsPanel, filesPanel)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m statsModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m statsModel) renderVolumePanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Completed"))
	b.WriteString("\n")

	md := m.metrics
	b.WriteString(fmt.Sprintf("  %-14s %d\n", "Total", md.TasksCompleted))
	b.WriteString(fmt.Sprintf("  %-14s %d\n", "Same Day", md.CompletedByType["same_day"]))
	b.WriteString(fmt.Sprintf("  %-14s %d\n", "LMCP", md.CompletedByType["lmcp"]))
	b.WriteString(fmt.Sprintf("  %-14s %d\n", "Cancelled", md.TasksCancelled))

	if len(md.CompletedByDay) > 0 {
		b.WriteString("\n")
		days := make([]string, 0, len(md.CompletedByDay))
		for day := range md.CompletedByDay {
			days = append(days, day)
		}
		sort.Strings(days)
		for _, day := range days {
			b.WriteString(fmt.Sprintf("  %s  %s\n", day, strings.Repeat("█", md.CompletedByDay[day])))
		}
	}

	return b.String()
}

func (m statsModel) renderStationsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Stations"))
	b.WriteString("\n")

	md := m.metrics
	if len(md.StationsByVolume) == 0 {
		b.WriteString("  No completed tasks yet.")
		return b.String()
	}

	stations := make([]string, 0, len(md.StationsByVolume))
	for s := range md.StationsByVolume {
		stations = append(stations, s)
	}
	sort.Slice(stations, func(i, j int) bool {
		if md.StationsByVolume[stations[i]] != md.StationsByVolume[stations[j]] {
			return md.StationsByVolume[stations[i]] > md.StationsByVolume[stations[j]]
		}
		return stations[i] < stations[j]
	})

	for _, s := range stations {
		b.WriteString(fmt.Sprintf("  %-8s %d\n", s, md.StationsByVolume[s]))
	}
	return b.String()
}

func (m statsModel) renderFilesPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Files"))
	b.WriteString("\n")

	md := m.metrics
	b.WriteString(fmt.Sprintf("  %-14s %d\n", "Imported", md.FilesImported))
	b.WriteString(fmt.Sprintf("  %-14s %d\n", "Exported", md.FilesExported))
	b.WriteString(fmt.Sprintf("\n  %-14s %d\n", "Events", md.EventCount))
	return b.String()
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show session statistics",
	Long: `Open the statistics dashboard: completed task volume by day and
type, per-station volume, and file import/export counts, derived from
the event log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := tea.NewProgram(newStatsModel(statsSinceDaysFlag), tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("running dashboard: %w", err)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsSinceDaysFlag, "days", 7, "window in days")
	rootCmd.AddCommand(statsCmd)
}

package cli

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmarler/opsdesk/internal/core"
	"github.com/kmarler/opsdesk/internal/csvio"
	"github.com/kmarler/opsdesk/internal/observability"
	"github.com/kmarler/opsdesk/pkg/models"
)

// Same Day form field indices. The routing type is a toggle, not a text
// input, but shares the focus order.
const (
	sdFieldStation = iota
	sdFieldRouting
	sdFieldBuffer
	sdFieldDpoLink
	sdFieldRouteCount
	sdFieldRoutedTba
	sdFieldCount
)

// sdFieldNames maps form positions to validator field names.
var sdFieldNames = [sdFieldCount]string{
	core.FieldStationCode,
	core.FieldRoutingType,
	core.FieldBufferPercent,
	core.FieldDpoLink,
	core.FieldRouteCount,
	core.FieldRoutedTbaCount,
}

var sdFieldLabels = [sdFieldCount]string{
	"Station", "Routing", "Buffer %", "DPO link", "Routes", "Routed TBAs",
}

// Modal states for the form.
const (
	modalNone = iota
	modalImportPath
	modalConfirmOverwrite
	modalConfirmCancel
)

type sameDayModel struct {
	draft  *core.SameDayDraft
	inputs [sdFieldCount]textinput.Model
	focus  int

	modal       int
	importInput textinput.Model

	statusLine string
	completed  *models.SameDayTask
	cancelled  bool
	err        error
}

func newSameDayModel(draft *core.SameDayDraft) sameDayModel {
	m := sameDayModel{draft: draft}

	for i := 0; i < sdFieldCount; i++ {
		ti := textinput.New()
		ti.CharLimit = 120
		ti.Width = 48
		m.inputs[i] = ti
	}
	m.inputs[sdFieldStation].Placeholder = "DAB5"
	m.inputs[sdFieldBuffer].Placeholder = "10"
	m.inputs[sdFieldDpoLink].Placeholder = "https://dispatch.planner.last-mile.a2z.com/plan/..."
	m.inputs[sdFieldRouteCount].Placeholder = "12"
	m.inputs[sdFieldRoutedTba].Placeholder = "1180"

	m.importInput = textinput.New()
	m.importInput.Placeholder = "path/to/routing_file.csv"
	m.importInput.Width = 60

	m.syncInputs()
	m.inputs[sdFieldStation].Focus()
	return m
}

// syncInputs copies the draft's raw inputs into the text widgets.
func (m *sameDayModel) syncInputs() {
	m.inputs[sdFieldStation].SetValue(m.draft.Inputs.StationCode)
	m.inputs[sdFieldBuffer].SetValue(m.draft.Inputs.BufferPercent)
	m.inputs[sdFieldDpoLink].SetValue(m.draft.Inputs.DpoLink)
	m.inputs[sdFieldRouteCount].SetValue(m.draft.Inputs.RouteCount)
	m.inputs[sdFieldRoutedTba].SetValue(m.draft.Inputs.RoutedTbaCount)
}

func (m sameDayModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m sameDayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateFocused(msg)
	}

	if m.modal != modalNone {
		return m.updateModal(keyMsg)
	}

	switch keyMsg.String() {
	case "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	case "esc":
		if m.draft.Dirty() {
			m.modal = modalConfirmCancel
			return m, nil
		}
		m.cancelled = true
		return m, tea.Quit
	case "tab", "down", "enter":
		m.setFocus((m.focus + 1) % sdFieldCount)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus - 1 + sdFieldCount) % sdFieldCount)
		return m, nil
	case "left", "right":
		if m.focus == sdFieldRouting {
			m.toggleRouting()
			return m, nil
		}
	case "ctrl+o":
		m.modal = modalImportPath
		m.importInput.SetValue("")
		m.importInput.Focus()
		return m, nil
	case "ctrl+b":
		m.copyText(core.DispatchAudit(m.currentTask()), "dispatch audit copied")
		return m, nil
	case "ctrl+g":
		m.copyText(core.StationBlurb(m.currentTask()), "station blurb copied")
		return m, nil
	case "ctrl+n":
		if !m.draft.VolumeCheckReady() {
			m.statusLine = "volume check needs routed TBAs and an imported file"
			return m, nil
		}
		task := m.currentTask()
		if task.FileTbaCount != nil {
			m.copyText(core.VolumeAudit(task.StationCode, task.RoutingType, *task.FileTbaCount, task.RoutedTbaCount), "volume audit copied")
		}
		return m, nil
	case "ctrl+t":
		ids := m.draft.TrackingIDs()
		if len(ids) == 0 {
			m.statusLine = "no routing file imported"
			return m, nil
		}
		m.copyText(strings.Join(ids, "\n"), fmt.Sprintf("%d tracking ids copied", len(ids)))
		return m, nil
	case "ctrl+s":
		task, err := m.draft.Complete()
		if err != nil {
			m.statusLine = err.Error()
			return m, nil
		}
		m.completed = &task
		return m, tea.Quit
	}

	return m.updateFocused(msg)
}

func (m sameDayModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalImportPath:
		switch msg.String() {
		case "esc":
			m.modal = modalNone
			return m, nil
		case "enter":
			path := strings.TrimSpace(m.importInput.Value())
			m.modal = modalNone
			if path == "" {
				return m, nil
			}
			if m.draft.Dirty() {
				m.modal = modalConfirmOverwrite
				m.importInput.SetValue(path)
				return m, nil
			}
			m.runImport(path)
			return m, nil
		}
		var cmd tea.Cmd
		m.importInput, cmd = m.importInput.Update(msg)
		return m, cmd

	case modalConfirmOverwrite:
		switch msg.String() {
		case "y", "Y":
			m.modal = modalNone
			m.runImport(strings.TrimSpace(m.importInput.Value()))
		case "n", "N", "esc":
			m.modal = modalNone
			m.statusLine = "import cancelled"
		}
		return m, nil

	case modalConfirmCancel:
		switch msg.String() {
		case "y", "Y":
			m.cancelled = true
			return m, tea.Quit
		case "n", "N", "esc":
			m.modal = modalNone
		}
		return m, nil
	}
	return m, nil
}

func (m sameDayModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	ti := m.focusedInput()
	if ti == nil {
		return m, nil
	}

	before := ti.Value()
	var cmd tea.Cmd
	*ti, cmd = ti.Update(msg)

	// Cursor blinks and key motion reach here too; only a real value
	// change touches the draft and its autosave.
	if ti.Value() != before {
		m.draft.SetField(sdFieldNames[m.focus], ti.Value())
		m.autosave()

		// Station codes are normalized upper-case on entry.
		if m.focus == sdFieldStation {
			ti.SetValue(m.draft.Inputs.StationCode)
		}
	}
	return m, cmd
}

func (m *sameDayModel) focusedInput() *textinput.Model {
	if m.focus == sdFieldRouting {
		return nil
	}
	return &m.inputs[m.focus]
}

func (m *sameDayModel) setFocus(next int) {
	if ti := m.focusedInput(); ti != nil {
		ti.Blur()
	}
	m.focus = next
	if ti := m.focusedInput(); ti != nil {
		ti.Focus()
	}
}

func (m *sameDayModel) toggleRouting() {
	next := string(models.RoutingSunrise)
	if m.draft.Inputs.RoutingType == string(models.RoutingSunrise) {
		next = string(models.RoutingAM)
	}
	m.draft.SetField(core.FieldRoutingType, next)
	m.autosave()
}

func (m *sameDayModel) runImport(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		m.statusLine = fmt.Sprintf("import failed: %v", err)
		return
	}
	rows := csvio.Decode(string(data), csvio.DecodeOptions{Headers: true})
	if err := m.draft.ApplyImport(path, rows); err != nil {
		m.statusLine = fmt.Sprintf("import skipped: %v", err)
		return
	}
	m.syncInputs()
	m.autosave()
	m.statusLine = fmt.Sprintf("imported %d rows from %s", len(rows), path)

	record(observability.FileImportedEvent(m.draft.ID, path, len(rows)))
}

func (m *sameDayModel) copyText(text, done string) {
	if Clipboard == nil {
		m.statusLine = "clipboard unavailable"
		return
	}
	if err := Clipboard.Copy(text); err != nil {
		m.statusLine = fmt.Sprintf("copy failed: %v", err)
		return
	}
	m.statusLine = done
}

// currentTask builds a best-effort task snapshot from whatever validates
// today, for blurb rendering before completion.
func (m *sameDayModel) currentTask() models.SameDayTask {
	task, _ := core.ValidateSameDay(m.draft.Inputs)
	return task
}

func (m *sameDayModel) autosave() {
	if Drafts == nil {
		return
	}
	_ = Drafts.SaveSameDayDraft(sameDayDraftRecord(m.draft))
}

func (m sameDayModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Same Day routing audit  " + m.draft.ID))
	b.WriteString("\n\n")

	for i := 0; i < sdFieldCount; i++ {
		label := sdFieldLabels[i]
		if i == m.focus {
			label = labelStyle.Render("> " + label)
		} else {
			label = "  " + label
		}

		var value string
		if i == sdFieldRouting {
			value = routingToggleView(m.draft.Inputs.RoutingType)
		} else {
			value = m.inputs[i].View()
		}
		fmt.Fprintf(&b, "%-24s %s\n", label, value)

		if msg, bad := m.draft.Errors[sdFieldNames[i]]; bad {
			fmt.Fprintf(&b, "%-24s %s\n", "", errorStyle.Render(msg))
		}
	}

	// Optional imported file count, read-only.
	if m.draft.Inputs.FileTbaCount != "" {
		fmt.Fprintf(&b, "  %-22s %s\n", "File TBAs", m.draft.Inputs.FileTbaCount)
	}

	b.WriteString("\n" + m.footer() + "\n")

	switch m.modal {
	case modalImportPath:
		b.WriteString("\n" + panelStyle.Render("Import routing file\n"+m.importInput.View()+"\n"+helpStyle.Render("enter import | esc cancel")))
	case modalConfirmOverwrite:
		b.WriteString("\n" + panelStyle.Render("Draft has data. Overwrite from file? (y/n)"))
	case modalConfirmCancel:
		b.WriteString("\n" + panelStyle.Render("Discard this draft? (y/n)"))
	}

	if m.statusLine != "" {
		b.WriteString("\n" + helpStyle.Render(m.statusLine))
	}
	b.WriteString("\n" + helpStyle.Render("tab next | ctrl+o import | ctrl+b blurb | ctrl+g station blurb | ctrl+n volume audit | ctrl+t TBAs | ctrl+s complete | esc cancel"))
	return b.String()
}

func routingToggleView(current string) string {
	sunrise, am := "sunrise", "am"
	switch current {
	case string(models.RoutingSunrise):
		sunrise = severityOK.Render("[sunrise]")
		am = severityDim.Render(" am ")
	case string(models.RoutingAM):
		sunrise = severityDim.Render(" sunrise ")
		am = severityOK.Render("[am]")
	default:
		sunrise = severityDim.Render(" sunrise ")
		am = severityDim.Render(" am ")
	}
	return sunrise + " " + am
}

// footer renders the derived totals line: buffered route total and, when
// a file is imported, the volume delta colored by magnitude.
func (m sameDayModel) footer() string {
	task, _ := core.ValidateSameDay(m.draft.Inputs)

	parts := []string{}
	if !m.draft.Errors.Has(core.FieldRouteCount) && !m.draft.Errors.Has(core.FieldBufferPercent) {
		total := core.TotalRoutes(task.RouteCount, task.BufferPercent)
		parts = append(parts, fmt.Sprintf("Total flex routes: %d (%d + %d buffer)",
			total, task.RouteCount, total-task.RouteCount))
	}

	delta := math.NaN()
	if m.draft.VolumeCheckReady() && task.FileTbaCount != nil {
		delta = core.PercentChange(float64(*task.FileTbaCount), float64(task.RoutedTbaCount))
	}
	if !math.IsNaN(delta) {
		rendered := fmt.Sprintf("Delta: %.2f%%", delta)
		switch {
		case delta <= -5 || delta >= 5:
			rendered = severityHigh.Render(rendered)
		case delta <= -1 || delta >= 1:
			rendered = severityWarn.Render(rendered)
		default:
			rendered = severityOK.Render(rendered)
		}
		parts = append(parts, rendered)
	}

	if len(parts) == 0 {
		return severityDim.Render("fill in the fields above")
	}
	return strings.Join(parts, "   ")
}

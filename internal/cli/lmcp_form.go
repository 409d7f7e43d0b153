package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmarler/opsdesk/internal/core"
	"github.com/kmarler/opsdesk/internal/csvio"
	"github.com/kmarler/opsdesk/internal/observability"
	"github.com/kmarler/opsdesk/pkg/models"
)

// lmcpField describes one form row: a validator field name, a label, and
// for categorical fields the values cycled with left/right.
type lmcpField struct {
	name    string
	label   string
	choices []string
}

var lmcpFields = []lmcpField{
	{name: core.FieldStationCode, label: "Station"},
	{name: core.FieldOfdDate, label: "OFD date"},
	{name: core.FieldEad, label: "EAD"},
	{name: core.FieldWeek, label: "Week"},
	{name: core.FieldRequested, label: "Requested"},
	{name: core.FieldCurrentLmcp, label: "Current LMCP"},
	{name: core.FieldCurrentAtrops, label: "Current ATROPS"},
	{name: core.FieldPdr, label: "PDR"},
	{name: core.FieldSimLink, label: "SIM link"},
	{name: core.FieldShipOptionCategory, label: "Ship option",
		choices: []string{"", "Premium", "Standard", "Economy", "Same Day AM", "Same Day PM"}},
	{name: core.FieldAddressType, label: "Address type",
		choices: []string{"", "Commercial", "Residential"}},
	{name: core.FieldPackageType, label: "Package type",
		choices: []string{"", "StandardParcel"}},
	{name: core.FieldSource, label: "Source"},
	{name: core.FieldNamespace, label: "Namespace"},
	{name: core.FieldType, label: "Type"},
	{name: core.FieldWaveGroupName, label: "Wave group"},
	{name: core.FieldCluster, label: "Cluster"},
	{name: core.FieldFulfillmentNetworkType, label: "Network type"},
	{name: core.FieldVolumeType, label: "Volume type"},
	{name: core.FieldF, label: "f"},
}

type lmcpModel struct {
	draft  *core.LMCPDraft
	inputs []textinput.Model
	focus  int

	modal       int
	importInput textinput.Model

	statusLine string
	completed  *models.LMCPTask
	cancelled  bool
}

func newLMCPModel(draft *core.LMCPDraft) lmcpModel {
	m := lmcpModel{draft: draft, inputs: make([]textinput.Model, len(lmcpFields))}

	for i, f := range lmcpFields {
		ti := textinput.New()
		ti.CharLimit = 200
		ti.Width = 48
		if f.choices != nil {
			ti.Width = 0
		}
		m.inputs[i] = ti
	}

	m.importInput = textinput.New()
	m.importInput.Placeholder = "path/to/request_export.csv"
	m.importInput.Width = 60

	m.syncInputs()
	m.inputs[0].Focus()
	return m
}

func (m *lmcpModel) syncInputs() {
	for i, f := range lmcpFields {
		m.inputs[i].SetValue(m.fieldValue(f.name))
	}
}

func (m *lmcpModel) fieldValue(name string) string {
	in := m.draft.Inputs
	switch name {
	case core.FieldSource:
		return in.Source
	case core.FieldNamespace:
		return in.Namespace
	case core.FieldType:
		return in.Type
	case core.FieldStationCode:
		return in.StationCode
	case core.FieldWaveGroupName:
		return in.WaveGroupName
	case core.FieldShipOptionCategory:
		return in.ShipOptionCategory
	case core.FieldAddressType:
		return in.AddressType
	case core.FieldPackageType:
		return in.PackageType
	case core.FieldOfdDate:
		return in.OfdDate
	case core.FieldEad:
		return in.Ead
	case core.FieldCluster:
		return in.Cluster
	case core.FieldFulfillmentNetworkType:
		return in.FulfillmentNetworkType
	case core.FieldVolumeType:
		return in.VolumeType
	case core.FieldWeek:
		return in.Week
	case core.FieldF:
		return in.F
	case core.FieldRequested:
		return in.Requested
	case core.FieldCurrentLmcp:
		return in.CurrentLmcp
	case core.FieldCurrentAtrops:
		return in.CurrentAtrops
	case core.FieldPdr:
		return in.Pdr
	case core.FieldSimLink:
		return in.SimLink
	}
	return ""
}

func (m lmcpModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m lmcpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		m.setFocus((m.focus + 1) % len(lmcpFields))
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus - 1 + len(lmcpFields)) % len(lmcpFields))
		return m, nil
	case "left", "right":
		if f := lmcpFields[m.focus]; f.choices != nil {
			m.cycleChoice(f, keyMsg.String() == "right")
			return m, nil
		}
	case "pgdown":
		m.cycleStation(1)
		return m, nil
	case "pgup":
		m.cycleStation(-1)
		return m, nil
	case "ctrl+o":
		m.modal = modalImportPath
		m.importInput.SetValue("")
		m.importInput.Focus()
		return m, nil
	case "ctrl+e":
		m.runExport()
		return m, nil
	case "ctrl+b":
		m.copyBlurb()
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

func (m lmcpModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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

func (m lmcpModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if lmcpFields[m.focus].choices != nil {
		return m, nil
	}

	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	// Cursor blinks and key motion reach here too; only a real value
	// change touches the draft and its autosave.
	if m.inputs[m.focus].Value() != before {
		m.draft.SetField(lmcpFields[m.focus].name, m.inputs[m.focus].Value())
		m.autosave()
	}
	return m, cmd
}

func (m *lmcpModel) setFocus(next int) {
	m.inputs[m.focus].Blur()
	m.focus = next
	if lmcpFields[m.focus].choices == nil {
		m.inputs[m.focus].Focus()
	}
}

func (m *lmcpModel) cycleChoice(f lmcpField, forward bool) {
	current := m.fieldValue(f.name)
	idx := 0
	for i, c := range f.choices {
		if c == current {
			idx = i
			break
		}
	}
	if forward {
		idx = (idx + 1) % len(f.choices)
	} else {
		idx = (idx - 1 + len(f.choices)) % len(f.choices)
	}
	m.draft.SetField(f.name, f.choices[idx])
	m.autosave()
}

func (m *lmcpModel) cycleStation(step int) {
	stations := m.draft.Stations()
	if len(stations) < 2 {
		return
	}
	current := m.draft.SelectedStation()
	idx := 0
	for i, s := range stations {
		if s == current {
			idx = i
			break
		}
	}
	idx = (idx + step + len(stations)) % len(stations)
	m.draft.SelectStation(stations[idx])
	m.syncInputs()
	m.autosave()
	m.statusLine = "editing " + stations[idx]
}

func (m *lmcpModel) runImport(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		m.statusLine = fmt.Sprintf("import failed: %v", err)
		return
	}
	rows := csvio.Decode(string(data), csvio.DecodeOptions{Headers: true})
	requests := csvio.ParseRequestRows(rows)
	if len(requests) == 0 {
		m.statusLine = fmt.Sprintf("import skipped: %s has no request rows", path)
		return
	}
	count := m.draft.ApplyImport(requests)
	m.syncInputs()
	m.autosave()
	m.statusLine = fmt.Sprintf("imported %d station(s) from %s", count, path)

	record(observability.FileImportedEvent(m.draft.ID, path, count))
}

func (m *lmcpModel) runExport() {
	task, err := m.draft.ExportRecord()
	if err != nil {
		m.statusLine = err.Error()
		return
	}
	if Exporter == nil {
		m.statusLine = "exporter unavailable"
		return
	}

	fileName := csvio.UploadFileName(task.StationCode, time.Now())
	path, err := Exporter.WriteExport(fileName, csvio.EncodeUpload(task))
	if err != nil {
		m.statusLine = fmt.Sprintf("export failed: %v", err)
		return
	}
	m.autosave()
	m.statusLine = "exported " + path

	record(observability.FileExportedEvent(m.draft.ID, path, task.StationCode))
}

func (m *lmcpModel) copyBlurb() {
	if Clipboard == nil {
		m.statusLine = "clipboard unavailable"
		return
	}
	task, _ := core.ValidateLMCP(m.draft.Inputs, time.Now(), windowDays())
	if err := Clipboard.Copy(core.EscalationBlurb(task, m.draft.Status())); err != nil {
		m.statusLine = fmt.Sprintf("copy failed: %v", err)
		return
	}
	m.statusLine = "escalation blurb copied"
}

func (m *lmcpModel) autosave() {
	if Drafts == nil {
		return
	}
	_ = Drafts.SaveLMCPDraft(lmcpDraftRecord(m.draft))
}

func (m lmcpModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("LMCP capacity adjustment  " + m.draft.ID))
	b.WriteByte('\n')

	if stations := m.draft.Stations(); len(stations) > 0 {
		var tabs []string
		for _, s := range stations {
			if s == m.draft.SelectedStation() {
				tabs = append(tabs, severityOK.Render("["+s+"]"))
			} else {
				tabs = append(tabs, severityDim.Render(s))
			}
		}
		b.WriteString("Stations: " + strings.Join(tabs, " ") + helpStyle.Render("  (pgup/pgdn switch)") + "\n")
	}
	b.WriteByte('\n')

	for i, f := range lmcpFields {
		label := f.label
		if i == m.focus {
			label = labelStyle.Render("> " + label)
		} else {
			label = "  " + label
		}

		var value string
		if f.choices != nil {
			value = m.choiceView(f)
		} else {
			value = m.inputs[i].View()
		}
		fmt.Fprintf(&b, "%-28s %s\n", label, value)

		if msg, bad := m.draft.Errors[f.name]; bad {
			fmt.Fprintf(&b, "%-28s %s\n", "", errorStyle.Render(msg))
		}
	}

	b.WriteString("\n" + m.footer() + "\n")

	switch m.modal {
	case modalImportPath:
		b.WriteString("\n" + panelStyle.Render("Import request export\n"+m.importInput.View()+"\n"+helpStyle.Render("enter import | esc cancel")))
	case modalConfirmOverwrite:
		b.WriteString("\n" + panelStyle.Render("Draft has data. Overwrite from file? (y/n)"))
	case modalConfirmCancel:
		b.WriteString("\n" + panelStyle.Render("Discard this draft? (y/n)"))
	}

	if m.statusLine != "" {
		b.WriteString("\n" + helpStyle.Render(m.statusLine))
	}
	b.WriteString("\n" + helpStyle.Render("tab next | ctrl+o import | ctrl+e export | ctrl+b blurb | ctrl+s complete | esc cancel"))
	return b.String()
}

func (m lmcpModel) choiceView(f lmcpField) string {
	current := m.fieldValue(f.name)
	display := current
	if display == "" {
		display = "(none)"
	}
	return "< " + display + " >"
}

// footer renders the approval status line: classification colored by
// severity, the adjustment percent, and which source supplies the base.
func (m lmcpModel) footer() string {
	status := m.draft.Status()

	var rendered string
	switch status {
	case models.StatusAutoApproved:
		rendered = severityOK.Render(string(status))
	case models.StatusL7Required:
		rendered = severityWarn.Render(string(status))
	case models.StatusWarRoom:
		rendered = severityHigh.Render(string(status))
	default:
		rendered = severityDim.Render(string(status))
	}

	parts := []string{"Status: " + rendered, "Adjustment: " + m.draft.AdjustmentDisplay()}
	if using := m.draft.UsingDisplay(); using != "" {
		parts = append(parts, "Using: "+using)
	}
	parts = append(parts, fmt.Sprintf("Net value: %d",
		core.NetValue(
			intOrZero(m.draft.Inputs.Requested),
			intOrZero(m.draft.Inputs.Pdr),
		)))
	return strings.Join(parts, "   ")
}

func intOrZero(raw string) int {
	v := core.NormalizeNumeric(raw, core.NumericOptions{TreatEmptyAsZero: true})
	if v != v { // NaN
		return 0
	}
	return int(v)
}

func windowDays() int {
	if Config != nil {
		return Config.DateWindowDays
	}
	return 2
}

package core

import (
	"fmt"
	"math"
	"time"

	"github.com/kmarler/opsdesk/pkg/models"
)

// LMCPDraft is one in-progress capacity-adjustment request. The imported
// request rows are cached on the draft itself, keyed by station code, so
// two open drafts never share import state.
type LMCPDraft struct {
	ID     string
	Inputs models.LMCPInputs
	Errors FieldErrors

	StartTime  time.Time
	ExportTime time.Time
	EndTime    time.Time

	imported     map[string]models.LMCPInputs
	stationOrder []string
	selected     string

	clock      Clock
	windowDays int
}

// NewLMCPDraft creates an empty draft and stamps its start time.
// windowDays bounds how far OFD/EAD dates may sit from the validation
// time.
func NewLMCPDraft(id string, windowDays int, clock Clock) *LMCPDraft {
	if clock == nil {
		clock = time.Now
	}
	d := &LMCPDraft{
		ID:         id,
		clock:      clock,
		windowDays: windowDays,
		StartTime:  clock().UTC(),
		imported:   make(map[string]models.LMCPInputs),
	}
	d.revalidate()
	return d
}

func (d *LMCPDraft) revalidate() {
	_, d.Errors = ValidateLMCP(d.Inputs, d.clock(), d.windowDays)
}

// Dirty reports whether any input holds data.
func (d *LMCPDraft) Dirty() bool {
	return d.Inputs != (models.LMCPInputs{})
}

// ApplyImport replaces the draft's import cache with the given requests,
// keyed by station code (a later row for the same station wins), and
// selects the first one. The caller must have obtained overwrite
// confirmation when the draft is dirty.
func (d *LMCPDraft) ApplyImport(requests []models.LMCPInputs) int {
	d.imported = make(map[string]models.LMCPInputs, len(requests))
	d.stationOrder = d.stationOrder[:0]
	d.selected = ""

	for _, req := range requests {
		if _, seen := d.imported[req.StationCode]; !seen {
			d.stationOrder = append(d.stationOrder, req.StationCode)
		}
		d.imported[req.StationCode] = req
	}

	if len(d.stationOrder) > 0 {
		d.loadStation(d.stationOrder[0])
	}
	return len(d.imported)
}

// Stations lists the imported station codes in file order.
func (d *LMCPDraft) Stations() []string {
	out := make([]string, len(d.stationOrder))
	copy(out, d.stationOrder)
	return out
}

// SelectedStation is the station code of the request currently being
// edited. Empty when nothing was imported or selected.
func (d *LMCPDraft) SelectedStation() string {
	return d.selected
}

// SelectStation stashes the current edits back into the import cache and
// loads the request for the given station. Reports whether the station
// was found.
func (d *LMCPDraft) SelectStation(code string) bool {
	next, found := d.imported[code]
	if !found {
		return false
	}
	if d.selected != "" {
		d.imported[d.selected] = d.Inputs
	}
	d.Inputs = next
	d.selected = code
	d.revalidate()
	return true
}

func (d *LMCPDraft) loadStation(code string) {
	d.Inputs = d.imported[code]
	d.selected = code
	d.revalidate()
}

// ImportSnapshot returns a copy of the import cache with the current
// edits stashed in, for draft autosave.
func (d *LMCPDraft) ImportSnapshot() map[string]models.LMCPInputs {
	if len(d.imported) == 0 {
		return nil
	}
	out := make(map[string]models.LMCPInputs, len(d.imported))
	for code, in := range d.imported {
		out[code] = in
	}
	if d.selected != "" {
		out[d.selected] = d.Inputs
	}
	return out
}

// RestoreImport reloads an autosaved import cache into the draft. The
// selected station's inputs become the active edit buffer.
func (d *LMCPDraft) RestoreImport(imported map[string]models.LMCPInputs, order []string, selected string) {
	d.imported = make(map[string]models.LMCPInputs, len(imported))
	for code, in := range imported {
		d.imported[code] = in
	}
	d.stationOrder = append(d.stationOrder[:0], order...)
	d.selected = ""
	if selected != "" {
		if _, found := d.imported[selected]; found {
			d.loadStation(selected)
			return
		}
	}
	d.revalidate()
}

// Restore rebuilds a draft from its autosaved state. When the autosave
// carried an import cache the selected station's inputs win; otherwise
// the saved inputs become the edit buffer directly.
func (d *LMCPDraft) Restore(inputs models.LMCPInputs, imported map[string]models.LMCPInputs, order []string, selected string, startTime, exportTime time.Time) {
	d.StartTime = startTime
	d.ExportTime = exportTime
	d.RestoreImport(imported, order, selected)
	if d.selected == "" {
		d.Inputs = inputs
		d.revalidate()
	}
}

// SetField updates one raw input and synchronously re-validates the whole
// draft. Returns the updated error set.
func (d *LMCPDraft) SetField(field, value string) FieldErrors {
	switch field {
	case FieldSource:
		d.Inputs.Source = value
	case FieldNamespace:
		d.Inputs.Namespace = value
	case FieldType:
		d.Inputs.Type = value
	case FieldStationCode:
		d.Inputs.StationCode = value
	case FieldWaveGroupName:
		d.Inputs.WaveGroupName = value
	case FieldShipOptionCategory:
		d.Inputs.ShipOptionCategory = value
	case FieldAddressType:
		d.Inputs.AddressType = value
	case FieldPackageType:
		d.Inputs.PackageType = value
	case FieldOfdDate:
		d.Inputs.OfdDate = value
	case FieldEad:
		d.Inputs.Ead = value
	case FieldCluster:
		d.Inputs.Cluster = value
	case FieldFulfillmentNetworkType:
		d.Inputs.FulfillmentNetworkType = value
	case FieldVolumeType:
		d.Inputs.VolumeType = value
	case FieldWeek:
		d.Inputs.Week = value
	case FieldF:
		d.Inputs.F = value
	case FieldRequested:
		d.Inputs.Requested = value
	case FieldCurrentLmcp:
		d.Inputs.CurrentLmcp = value
	case FieldCurrentAtrops:
		d.Inputs.CurrentAtrops = value
	case FieldPdr:
		d.Inputs.Pdr = value
	case FieldSimLink:
		d.Inputs.SimLink = value
	}

	d.revalidate()
	return d.Errors
}

// Status classifies the draft's current numeric inputs, tolerating
// not-yet-valid fields: missing or malformed values simply classify as
// unknown.
func (d *LMCPDraft) Status() models.ApprovalStatus {
	requested := NormalizeNumeric(d.Inputs.Requested, NumericOptions{})
	lmcp := NormalizeNumeric(d.Inputs.CurrentLmcp, NumericOptions{})
	atrops := NormalizeNumeric(d.Inputs.CurrentAtrops, NumericOptions{})
	return Classify(requested, lmcp, atrops)
}

// AdjustmentDisplay renders the current adjustment percent for the form
// footer (clamped outside +/-100%).
func (d *LMCPDraft) AdjustmentDisplay() string {
	requested := NormalizeNumeric(d.Inputs.Requested, NumericOptions{})
	lmcp := NormalizeNumeric(d.Inputs.CurrentLmcp, NumericOptions{})
	atrops := NormalizeNumeric(d.Inputs.CurrentAtrops, NumericOptions{})
	return FormatPercent(AdjustmentPercent(requested, math.Max(lmcp, atrops)))
}

// UsingDisplay names which capacity source supplies the comparison base,
// or empty when undefined.
func (d *LMCPDraft) UsingDisplay() string {
	lmcp := NormalizeNumeric(d.Inputs.CurrentLmcp, NumericOptions{})
	atrops := NormalizeNumeric(d.Inputs.CurrentAtrops, NumericOptions{})
	return UsingSource(lmcp, atrops)
}

// ExportRecord re-validates and, when clean, stamps the export time and
// returns the finalized record for the CSV bridge. The draft stays open:
// exporting does not complete the task.
func (d *LMCPDraft) ExportRecord() (models.LMCPTask, error) {
	task, err := d.finalize()
	if err != nil {
		return models.LMCPTask{}, fmt.Errorf("exporting: %w", err)
	}
	d.ExportTime = d.clock().UTC()
	task.ExportTime = d.ExportTime
	return task, nil
}

// Complete re-validates once more and, when clean, stamps the end time
// and returns the finalized immutable record. On failure the draft is
// left untouched and editable.
func (d *LMCPDraft) Complete() (models.LMCPTask, error) {
	task, err := d.finalize()
	if err != nil {
		return models.LMCPTask{}, fmt.Errorf("completing task: %w", err)
	}
	d.EndTime = d.clock().UTC()
	task.EndTime = d.EndTime
	return task, nil
}

func (d *LMCPDraft) finalize() (models.LMCPTask, error) {
	task, errs := ValidateLMCP(d.Inputs, d.clock(), d.windowDays)
	d.Errors = errs
	if !errs.Ok() {
		return models.LMCPTask{}, fmt.Errorf("%d field(s) failed validation", len(errs))
	}
	task.StartTime = d.StartTime
	task.ExportTime = d.ExportTime
	return task, nil
}

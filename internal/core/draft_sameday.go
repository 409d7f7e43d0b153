package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/kmarler/opsdesk/pkg/models"
)

// Clock supplies the current time. Drafts take one so lifecycle
// timestamps are testable.
type Clock func() time.Time

// SameDayDraft is one in-progress Same Day routing audit. Every open
// draft is fully independent: it owns its inputs, its error set, and its
// imported file rows. Field edits re-validate synchronously, so Errors
// always reflects Inputs.
type SameDayDraft struct {
	ID     string
	Inputs models.SameDayInputs
	Errors FieldErrors

	StartTime       time.Time
	DpoCompleteTime time.Time
	EndTime         time.Time

	// fileRows caches the decoded routing file so TBA IDs can be copied
	// without re-reading the file.
	fileRows []map[string]string

	clock Clock
}

// NewSameDayDraft creates an empty draft and stamps its start time.
func NewSameDayDraft(id string, clock Clock) *SameDayDraft {
	if clock == nil {
		clock = time.Now
	}
	d := &SameDayDraft{
		ID:        id,
		clock:     clock,
		StartTime: clock().UTC(),
	}
	_, d.Errors = ValidateSameDay(d.Inputs)
	return d
}

// SetField updates one raw input and synchronously re-validates the whole
// draft. The first edit of the DPO link stamps the DPO completion time.
// Returns the updated error set.
func (d *SameDayDraft) SetField(field, value string) FieldErrors {
	switch field {
	case FieldStationCode:
		d.Inputs.StationCode = strings.ToUpper(value)
	case FieldRoutingType:
		d.Inputs.RoutingType = value
	case FieldBufferPercent:
		d.Inputs.BufferPercent = value
	case FieldDpoLink:
		if d.DpoCompleteTime.IsZero() && value != "" {
			d.DpoCompleteTime = d.clock().UTC()
		}
		d.Inputs.DpoLink = value
	case FieldRouteCount:
		d.Inputs.RouteCount = value
	case FieldRoutedTbaCount:
		d.Inputs.RoutedTbaCount = value
	case FieldFileTbaCount:
		d.Inputs.FileTbaCount = value
	}

	_, d.Errors = ValidateSameDay(d.Inputs)
	return d.Errors
}

// Dirty reports whether any input holds data. Importing over a dirty
// draft and closing one both require operator confirmation.
func (d *SameDayDraft) Dirty() bool {
	return d.Inputs != (models.SameDayInputs{})
}

// ApplyImport populates the draft from a decoded routing file: station
// code and routing type from the file name, file TBA count from the row
// count. The caller must have obtained overwrite confirmation when the
// draft is dirty.
func (d *SameDayDraft) ApplyImport(fileName string, rows []map[string]string) error {
	if len(rows) == 0 {
		return fmt.Errorf("routing file has no data rows")
	}
	station, routing := RoutingFileInfo(fileName)
	if station != "" {
		d.Inputs.StationCode = station
	}
	if routing != "" {
		d.Inputs.RoutingType = string(routing)
	}
	d.Inputs.FileTbaCount = fmt.Sprintf("%d", len(rows))
	d.fileRows = rows

	_, d.Errors = ValidateSameDay(d.Inputs)
	return nil
}

// Restore rebuilds a draft from its autosaved state. The imported row
// data is not part of the autosave, so tracking IDs are unavailable
// after a resume.
func (d *SameDayDraft) Restore(inputs models.SameDayInputs, startTime, dpoCompleteTime time.Time) {
	d.Inputs = inputs
	d.StartTime = startTime
	d.DpoCompleteTime = dpoCompleteTime
	_, d.Errors = ValidateSameDay(d.Inputs)
}

// TrackingIDs returns the TBA identifiers from the imported routing file,
// one per row, in file order. Nil when no file was imported.
func (d *SameDayDraft) TrackingIDs() []string {
	if d.fileRows == nil {
		return nil
	}
	ids := make([]string, 0, len(d.fileRows))
	for _, row := range d.fileRows {
		ids = append(ids, row["Tracking Id"])
	}
	return ids
}

// VolumeCheckReady reports whether the volume audit can run: a file was
// imported and none of the fields it depends on are in error.
func (d *SameDayDraft) VolumeCheckReady() bool {
	if d.Inputs.FileTbaCount == "" {
		return false
	}
	return !d.Errors.Has(FieldStationCode) &&
		!d.Errors.Has(FieldRoutingType) &&
		!d.Errors.Has(FieldRoutedTbaCount) &&
		!d.Errors.Has(FieldFileTbaCount)
}

// Complete re-validates once more and, when clean, stamps the end time
// and returns the finalized immutable record. On failure the draft is
// left untouched and editable.
func (d *SameDayDraft) Complete() (models.SameDayTask, error) {
	task, errs := ValidateSameDay(d.Inputs)
	d.Errors = errs
	if !errs.Ok() {
		return models.SameDayTask{}, fmt.Errorf("completing task: %d field(s) failed validation", len(errs))
	}

	d.EndTime = d.clock().UTC()
	task.StartTime = d.StartTime
	task.DpoCompleteTime = d.DpoCompleteTime
	task.EndTime = d.EndTime
	return task, nil
}

// RoutingFileInfo derives the station code and routing type from a
// routing file name. The station code is the upper-cased prefix before
// the first underscore; the routing type comes from the wave name
// embedded in the file name. Either may be empty when absent.
func RoutingFileInfo(fileName string) (string, models.RoutingType) {
	base := fileName
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}

	station := ""
	if i := strings.Index(base, "_"); i > 0 {
		station = strings.ToUpper(base[:i])
	}

	lower := strings.ToLower(base)
	var routing models.RoutingType
	switch {
	case strings.Contains(lower, "same_day_sunrise"):
		routing = models.RoutingSunrise
	case strings.Contains(lower, "same_day_am"):
		routing = models.RoutingAM
	}

	return station, routing
}

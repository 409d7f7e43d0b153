package cli

import (
	"github.com/kmarler/opsdesk/internal/core"
	"github.com/kmarler/opsdesk/internal/observability"
	"github.com/kmarler/opsdesk/internal/storage"
)

// record writes one event, silently dropping it when the log is
// unavailable. Observability failures never block task work.
func record(ev observability.Event) {
	if EventLog == nil {
		return
	}
	_ = EventLog.Write(ev)
}

func sameDayDraftRecord(d *core.SameDayDraft) storage.SameDayDraftRecord {
	return storage.SameDayDraftRecord{
		ID:              d.ID,
		Inputs:          d.Inputs,
		StartTime:       d.StartTime,
		DpoCompleteTime: d.DpoCompleteTime,
	}
}

func lmcpDraftRecord(d *core.LMCPDraft) storage.LMCPDraftRecord {
	return storage.LMCPDraftRecord{
		ID:         d.ID,
		Inputs:     d.Inputs,
		Selected:   d.SelectedStation(),
		Stations:   d.Stations(),
		Imported:   d.ImportSnapshot(),
		StartTime:  d.StartTime,
		ExportTime: d.ExportTime,
	}
}

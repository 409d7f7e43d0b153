package observability

import "time"

// Typed constructors for the lifecycle events opsdesk records. They pin
// the data keys the metrics calculator aggregates on.

// TaskCompletedEvent records a finished audit or request. status is the
// approval classification for capacity requests, empty otherwise.
func TaskCompletedEvent(taskType, draftID, station, status string, rowID int64) Event {
	data := map[string]any{
		"task_type": taskType,
		"draft_id":  draftID,
		"station":   station,
		"row_id":    rowID,
	}
	if status != "" {
		data["status"] = status
	}
	return newInfoEvent(EventTaskCompleted, taskType+" task completed", data)
}

// TaskCancelledEvent records a draft discarded before completion.
func TaskCancelledEvent(taskType, draftID string) Event {
	return newInfoEvent(EventTaskCancelled, taskType+" task cancelled", map[string]any{
		"task_type": taskType,
		"draft_id":  draftID,
	})
}

// FileImportedEvent records a routing file or request export read into a
// draft. rows is the number of data rows applied.
func FileImportedEvent(draftID, file string, rows int) Event {
	return newInfoEvent(EventFileImported, "file imported", map[string]any{
		"draft_id": draftID,
		"file":     file,
		"rows":     rows,
	})
}

// FileExportedEvent records an upload file written to the export
// directory.
func FileExportedEvent(draftID, file, station string) Event {
	return newInfoEvent(EventFileExported, "file exported", map[string]any{
		"draft_id": draftID,
		"file":     file,
		"station":  station,
	})
}

// StationAddedEvent records a station registered in the local list.
func StationAddedEvent(station string) Event {
	return newInfoEvent(EventStationAdded, "station registered", map[string]any{
		"station": station,
	})
}

func newInfoEvent(eventType, message string, data map[string]any) Event {
	return Event{
		Time:    time.Now().UTC(),
		Level:   "INFO",
		Type:    eventType,
		Message: message,
		Data:    data,
	}
}

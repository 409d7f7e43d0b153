package observability

import (
	"fmt"
	"time"
)

// Metrics holds session statistics derived from the event log.
type Metrics struct {
	TasksCompleted   int            `json:"tasks_completed"`
	TasksCancelled   int            `json:"tasks_cancelled"`
	FilesImported    int            `json:"files_imported"`
	FilesExported    int            `json:"files_exported"`
	CompletedByType  map[string]int `json:"completed_by_type"`
	CompletedByDay   map[string]int `json:"completed_by_day"`
	StationsByVolume map[string]int `json:"stations_by_volume"`
	EventCount       int            `json:"event_count"`
	OldestEvent      *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent      *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

// metricsCalculator implements MetricsCalculator by reading from an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a new MetricsCalculator that reads from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them into metrics.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{
		CompletedByType:  make(map[string]int),
		CompletedByDay:   make(map[string]int),
		StationsByVolume: make(map[string]int),
	}

	m.EventCount = len(events)

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case EventTaskCompleted:
			m.TasksCompleted++
			m.CompletedByDay[event.Time.Format("2006-01-02")]++
			if taskType, ok := event.Data["task_type"].(string); ok {
				m.CompletedByType[taskType]++
			}
			if station, ok := event.Data["station"].(string); ok {
				m.StationsByVolume[station]++
			}
		case EventTaskCancelled:
			m.TasksCancelled++
		case EventFileImported:
			m.FilesImported++
		case EventFileExported:
			m.FilesExported++
		}
	}

	return m, nil
}

package observability

import (
	"testing"
	"time"
)

func TestEventConstructors(t *testing.T) {
	cases := []struct {
		name     string
		event    Event
		wantType string
	}{
		{"completed", TaskCompletedEvent("same_day", "TASK-00001", "DAB5", "", 7), EventTaskCompleted},
		{"cancelled", TaskCancelledEvent("lmcp", "TASK-00002"), EventTaskCancelled},
		{"imported", FileImportedEvent("TASK-00003", "routes.csv", 12), EventFileImported},
		{"exported", FileExportedEvent("TASK-00004", "out.csv", "DAB5"), EventFileExported},
		{"station", StationAddedEvent("DAB5"), EventStationAdded},
	}
	for _, c := range cases {
		if c.event.Type != c.wantType {
			t.Errorf("%s: type = %q, want %q", c.name, c.event.Type, c.wantType)
		}
		if c.event.Level != "INFO" {
			t.Errorf("%s: level = %q", c.name, c.event.Level)
		}
		if c.event.Time.IsZero() {
			t.Errorf("%s: time not stamped", c.name)
		}
	}
}

func TestTaskCompletedEvent_Data(t *testing.T) {
	ev := TaskCompletedEvent("lmcp", "TASK-00001", "DAB5", "war_room", 42)
	if ev.Data["task_type"] != "lmcp" || ev.Data["station"] != "DAB5" {
		t.Errorf("data = %v", ev.Data)
	}
	if ev.Data["status"] != "war_room" {
		t.Errorf("status = %v", ev.Data["status"])
	}

	noStatus := TaskCompletedEvent("same_day", "TASK-00002", "DAB5", "", 43)
	if _, present := noStatus.Data["status"]; present {
		t.Error("empty status must be omitted")
	}
}

func TestEventConstructors_FeedMetrics(t *testing.T) {
	log := newTestLog(t)
	for _, ev := range []Event{
		TaskCompletedEvent("same_day", "TASK-00001", "DAB5", "", 1),
		TaskCompletedEvent("lmcp", "TASK-00002", "DAU7", "auto_approved", 2),
		TaskCancelledEvent("same_day", "TASK-00003"),
		FileImportedEvent("TASK-00001", "routes.csv", 12),
	} {
		if err := log.Write(ev); err != nil {
			t.Fatalf("writing event: %v", err)
		}
	}

	m, err := NewMetricsCalculator(log).Calculate(time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if m.TasksCompleted != 2 || m.TasksCancelled != 1 || m.FilesImported != 1 {
		t.Errorf("counts = %d/%d/%d", m.TasksCompleted, m.TasksCancelled, m.FilesImported)
	}
	if m.CompletedByType["same_day"] != 1 || m.CompletedByType["lmcp"] != 1 {
		t.Errorf("by type = %v", m.CompletedByType)
	}
	if m.StationsByVolume["DAB5"] != 1 || m.StationsByVolume["DAU7"] != 1 {
		t.Errorf("by station = %v", m.StationsByVolume)
	}
}

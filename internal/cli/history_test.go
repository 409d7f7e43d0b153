package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/kmarler/opsdesk/pkg/models"
)

func TestPrintSameDayHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	printSameDayHistory(&buf, nil)
	if !strings.Contains(buf.String(), "No completed audits.") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestPrintSameDayHistory_Rows(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	tasks := []models.SameDayTask{
		{
			ID:             3,
			StationCode:    "DAB5",
			RoutingType:    models.RoutingSunrise,
			RouteCount:     12,
			RoutedTbaCount: 1180,
			StartTime:      start,
			EndTime:        start.Add(18 * time.Minute),
		},
	}

	var buf bytes.Buffer
	printSameDayHistory(&buf, tasks)
	out := buf.String()

	if !strings.Contains(out, "DAB5") || !strings.Contains(out, "sunrise") {
		t.Errorf("missing task columns: %q", out)
	}
	if !strings.Contains(out, "18m0s") {
		t.Errorf("missing duration: %q", out)
	}
}

func TestPrintLMCPHistory_StatusColumn(t *testing.T) {
	tasks := []models.LMCPTask{
		{ID: 1, StationCode: "DAB5", Requested: 2100, CurrentLmcp: 2000, CurrentAtrops: 1900, Value: 2000, Week: 11},
		{ID: 2, StationCode: "DAU7", Requested: 2500, CurrentLmcp: 2000, CurrentAtrops: 1900, Value: 2500, Week: 11},
	}

	var buf bytes.Buffer
	printLMCPHistory(&buf, tasks)
	out := buf.String()

	if !strings.Contains(out, "auto_approved") {
		t.Errorf("missing auto_approved row: %q", out)
	}
	if !strings.Contains(out, "war_room") {
		t.Errorf("missing war_room row: %q", out)
	}
}

func TestTaskDuration(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	if got := taskDuration(start, start.Add(90*time.Second)); got != "1m30s" {
		t.Errorf("taskDuration = %q", got)
	}
	if got := taskDuration(time.Time{}, start); got != "-" {
		t.Errorf("zero start should render -, got %q", got)
	}
}

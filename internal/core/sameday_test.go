package core

import (
	"math"
	"strings"
	"testing"

	"github.com/kmarler/opsdesk/pkg/models"
)

func validSameDayInputs() models.SameDayInputs {
	return models.SameDayInputs{
		StationCode:    "DAB5",
		RoutingType:    string(models.RoutingSunrise),
		BufferPercent:  "10",
		DpoLink:        "https://dispatch.planner.last-mile.a2z.com/plan/DAB5/2026-03-14",
		RouteCount:     "12",
		RoutedTbaCount: "1,180",
		FileTbaCount:   "1200",
	}
}

func TestValidateSameDay_HappyPath(t *testing.T) {
	task, errs := ValidateSameDay(validSameDayInputs())
	if !errs.Ok() {
		t.Fatalf("expected no errors, got %v", errs)
	}

	if task.StationCode != "DAB5" || task.RoutingType != models.RoutingSunrise {
		t.Errorf("unexpected task: %+v", task)
	}
	if task.BufferPercent != 10 || task.RouteCount != 12 {
		t.Errorf("unexpected numbers: %+v", task)
	}
	if task.RoutedTbaCount != 1180 {
		t.Errorf("expected comma-separated count normalized, got %d", task.RoutedTbaCount)
	}
	if task.FileTbaCount == nil || *task.FileTbaCount != 1200 {
		t.Errorf("unexpected file tba count: %v", task.FileTbaCount)
	}
}

func TestValidateSameDay_AccumulatesAllErrors(t *testing.T) {
	_, errs := ValidateSameDay(models.SameDayInputs{})
	for _, field := range []string{FieldStationCode, FieldRoutingType, FieldBufferPercent,
		FieldDpoLink, FieldRouteCount, FieldRoutedTbaCount} {
		if !errs.Has(field) {
			t.Errorf("expected error on %s, got %v", field, errs)
		}
	}
	// Optional field is not required.
	if errs.Has(FieldFileTbaCount) {
		t.Errorf("file tba count should be optional, got %v", errs)
	}
}

func TestValidateSameDay_FieldMessages(t *testing.T) {
	in := validSameDayInputs()
	in.StationCode = "DAB0"
	in.BufferPercent = "abc"
	in.RouteCount = "-3"
	in.RoutedTbaCount = "12.5"

	_, errs := ValidateSameDay(in)
	if errs[FieldStationCode] != msgBadStation {
		t.Errorf("station error = %q", errs[FieldStationCode])
	}
	if errs[FieldBufferPercent] != msgNotNumber {
		t.Errorf("buffer error = %q", errs[FieldBufferPercent])
	}
	if errs[FieldRouteCount] != msgNegative {
		t.Errorf("route count error = %q", errs[FieldRouteCount])
	}
	if errs[FieldRoutedTbaCount] != msgNotInteger {
		t.Errorf("routed tba error = %q", errs[FieldRoutedTbaCount])
	}
}

func TestValidateSameDay_DpoLinkCrossField(t *testing.T) {
	in := validSameDayInputs()
	in.DpoLink = "https://dispatch.planner.last-mile.a2z.com/plan/DAU7/x"
	if _, errs := ValidateSameDay(in); !errs.Has(FieldDpoLink) {
		t.Error("expected link for wrong station rejected")
	}

	// Blank station: the link is provisionally accepted on pattern alone.
	in.StationCode = ""
	_, errs := ValidateSameDay(in)
	if errs.Has(FieldDpoLink) {
		t.Errorf("expected provisional link acceptance, got %v", errs)
	}
	if !errs.Has(FieldStationCode) {
		t.Error("station code still required")
	}
}

func TestTotalRoutes_RoundsUp(t *testing.T) {
	cases := []struct {
		routes int
		buffer float64
		want   int
	}{
		{10, 0, 10},
		{10, 10, 11},
		{10, 15, 12}, // 11.5 rounds up
		{12, 10, 14}, // 13.2 rounds up
		{100, 10, 110},
		{100, 5, 105},
		{0, 50, 0},
	}
	for _, c := range cases {
		if got := TotalRoutes(c.routes, c.buffer); got != c.want {
			t.Errorf("TotalRoutes(%d, %v) = %d, want %d", c.routes, c.buffer, got, c.want)
		}
	}
}

func TestPercentChange(t *testing.T) {
	if got := PercentChange(1200, 1180); got > -1.6 || got < -1.7 {
		t.Errorf("PercentChange(1200, 1180) = %v, want about -1.67", got)
	}
	if got := PercentChange(100, 110); got != 10 {
		t.Errorf("PercentChange(100, 110) = %v, want 10", got)
	}
	if got := PercentChange(0, 50); !math.IsNaN(got) {
		t.Errorf("PercentChange(0, 50) = %v, want NaN", got)
	}
}

func TestVolumeAudit_Blurb(t *testing.T) {
	got := VolumeAudit("DAB5", models.RoutingSunrise, 1200, 1180)
	if !strings.HasPrefix(got, "/md\n**DAB5** SAME_DAY_SUNRISE: Routing completed.") {
		t.Errorf("unexpected blurb prefix: %q", got)
	}
	if !strings.Contains(got, "File: **1200** TBAs // Routed: **1180** TBAs") {
		t.Errorf("missing volume line: %q", got)
	}
	if !strings.Contains(got, "Delta: **-1.67%**") {
		t.Errorf("missing delta: %q", got)
	}
}

func TestVolumeAudit_ZeroFileCount(t *testing.T) {
	got := VolumeAudit("DAB5", models.RoutingSunrise, 0, 1180)
	if !strings.Contains(got, "Delta: **???**") {
		t.Errorf("zero file count should render an unknown delta: %q", got)
	}
}

func TestDispatchAudit_WithAndWithoutFile(t *testing.T) {
	task, errs := ValidateSameDay(validSameDayInputs())
	if !errs.Ok() {
		t.Fatalf("setup failed: %v", errs)
	}

	got := DispatchAudit(task)
	if !strings.Contains(got, "**DAB5** SAME_DAY_SUNRISE: **14** total flex routes (**12** + **2** buffer)") {
		t.Errorf("unexpected route line: %q", got)
	}
	if !strings.Contains(got, "File: **1200** TBAs") {
		t.Errorf("expected volume line when a file was imported: %q", got)
	}

	task.FileTbaCount = nil
	got = DispatchAudit(task)
	if strings.Contains(got, "File:") {
		t.Errorf("expected no volume line without an import: %q", got)
	}
}

func TestStationBlurb(t *testing.T) {
	task, errs := ValidateSameDay(validSameDayInputs())
	if !errs.Ok() {
		t.Fatalf("setup failed: %v", errs)
	}

	got := StationBlurb(task)
	if !strings.HasPrefix(got, "Same Day Sunrise routing complete: 1180 TBAs routed.") {
		t.Errorf("unexpected blurb: %q", got)
	}
	if !strings.Contains(got, task.DpoLink) {
		t.Errorf("expected dispatch plan link included: %q", got)
	}
}

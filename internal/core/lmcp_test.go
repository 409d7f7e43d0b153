package core

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/kmarler/opsdesk/pkg/models"
)

var lmcpNow = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

func validLMCPInputs() models.LMCPInputs {
	return models.LMCPInputs{
		Source:             "capacity-planner",
		StationCode:        "DAB5",
		ShipOptionCategory: "Premium",
		AddressType:        "Residential",
		PackageType:        "StandardParcel",
		OfdDate:            "2026-03-15",
		Ead:                "2026-03-15",
		Week:               "11",
		Requested:          "2,100",
		CurrentLmcp:        "2000",
		CurrentAtrops:      "1900",
		Pdr:                "100",
		SimLink:            "https://sim.amazon.com/issues/P12345",
	}
}

func TestValidateLMCP_HappyPath(t *testing.T) {
	task, errs := ValidateLMCP(validLMCPInputs(), lmcpNow, 2)
	if !errs.Ok() {
		t.Fatalf("expected no errors, got %v", errs)
	}

	if task.StationCode != "DAB5" || task.Week != 11 {
		t.Errorf("unexpected task: %+v", task)
	}
	if task.Requested != 2100 {
		t.Errorf("expected comma-separated requested normalized, got %d", task.Requested)
	}
	if task.Value != 2000 {
		t.Errorf("Value = %d, want requested - pdr = 2000", task.Value)
	}
	if task.OfdDate != "2026-03-15" {
		t.Errorf("OfdDate = %q", task.OfdDate)
	}
}

func TestValidateLMCP_ValueAlwaysRecomputed(t *testing.T) {
	in := validLMCPInputs()
	in.Pdr = ""
	task, errs := ValidateLMCP(in, lmcpNow, 2)
	if !errs.Ok() {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if task.Pdr != 0 || task.Value != 2100 {
		t.Errorf("expected empty PDR to mean zero reduction, got pdr=%d value=%d", task.Pdr, task.Value)
	}
}

func TestValidateLMCP_FreeTextAcceptedRaw(t *testing.T) {
	in := validLMCPInputs()
	in.Namespace = ""
	in.WaveGroupName = "Cycle A // late"
	task, errs := ValidateLMCP(in, lmcpNow, 2)
	if !errs.Ok() {
		t.Fatalf("expected free text fields to accept anything, got %v", errs)
	}
	if task.Namespace != "" || task.WaveGroupName != "Cycle A // late" {
		t.Errorf("free text should pass through raw: %+v", task)
	}
}

func TestValidateLMCP_EnumFields(t *testing.T) {
	in := validLMCPInputs()
	in.ShipOptionCategory = "Overnight"
	in.AddressType = "Rural"
	in.PackageType = "Envelope"
	_, errs := ValidateLMCP(in, lmcpNow, 2)
	for _, field := range []string{FieldShipOptionCategory, FieldAddressType, FieldPackageType} {
		if !errs.Has(field) {
			t.Errorf("expected enum error on %s", field)
		}
	}

	// Empty is a member of every enum.
	in = validLMCPInputs()
	in.ShipOptionCategory = ""
	in.AddressType = ""
	in.PackageType = ""
	if _, errs := ValidateLMCP(in, lmcpNow, 2); !errs.Ok() {
		t.Errorf("expected empty enum values accepted, got %v", errs)
	}
}

func TestValidateLMCP_WeekBounds(t *testing.T) {
	in := validLMCPInputs()
	in.Week = "53"
	if _, errs := ValidateLMCP(in, lmcpNow, 2); errs.Has(FieldWeek) {
		t.Errorf("week 53 should be allowed, got %v", errs[FieldWeek])
	}

	in.Week = "54"
	_, errs := ValidateLMCP(in, lmcpNow, 2)
	if errs[FieldWeek] != msgWeekTooHigh {
		t.Errorf("week 54 error = %q, want %q", errs[FieldWeek], msgWeekTooHigh)
	}

	in.Week = "0"
	if _, errs := ValidateLMCP(in, lmcpNow, 2); errs.Has(FieldWeek) {
		t.Errorf("week 0 should be allowed, got %v", errs[FieldWeek])
	}

	in.Week = "-1"
	if _, errs := ValidateLMCP(in, lmcpNow, 2); !errs.Has(FieldWeek) {
		t.Error("negative week should be rejected")
	}
}

func TestValidateLMCP_DateWindow(t *testing.T) {
	in := validLMCPInputs()

	in.OfdDate = "2026-03-16" // now + 2 days, inclusive edge
	if _, errs := ValidateLMCP(in, lmcpNow, 2); errs.Has(FieldOfdDate) {
		t.Errorf("edge of window should pass, got %v", errs[FieldOfdDate])
	}

	in.OfdDate = "2026-03-17"
	_, errs := ValidateLMCP(in, lmcpNow, 2)
	if errs[FieldOfdDate] != "more than 2 days in the future" {
		t.Errorf("future error = %q", errs[FieldOfdDate])
	}

	in.OfdDate = "2026-03-11"
	_, errs = ValidateLMCP(in, lmcpNow, 2)
	if errs[FieldOfdDate] != "more than 2 days in the past" {
		t.Errorf("past error = %q", errs[FieldOfdDate])
	}

	in.OfdDate = "not-a-date"
	_, errs = ValidateLMCP(in, lmcpNow, 2)
	if errs[FieldOfdDate] != "invalid date" {
		t.Errorf("parse error = %q", errs[FieldOfdDate])
	}
}

func TestValidateLMCP_DateFormatsNormalized(t *testing.T) {
	in := validLMCPInputs()
	in.Ead = "3/15/2026"
	task, errs := ValidateLMCP(in, lmcpNow, 2)
	if errs.Has(FieldEad) {
		t.Fatalf("slash date should parse, got %v", errs[FieldEad])
	}
	if task.Ead != "2026-03-15" {
		t.Errorf("expected normalized yyyy-mm-dd, got %q", task.Ead)
	}
}

func TestClassify_ThresholdLadder(t *testing.T) {
	cases := []struct {
		requested float64
		want      models.ApprovalStatus
	}{
		{2000, models.StatusAutoApproved}, // 0%
		{2100, models.StatusAutoApproved}, // exactly 5%
		{2101, models.StatusL7Required},
		{2200, models.StatusL7Required}, // exactly 10%
		{2201, models.StatusWarRoom},
		{1800, models.StatusAutoApproved}, // decreases auto-approve
	}
	for _, c := range cases {
		if got := Classify(c.requested, 2000, 1900); got != c.want {
			t.Errorf("Classify(%v, 2000, 1900) = %s, want %s", c.requested, got, c.want)
		}
	}
}

func TestClassify_BaseIsLargerSource(t *testing.T) {
	// ATROPS larger: 2100 against 2100 is 0%.
	if got := Classify(2100, 2000, 2100); got != models.StatusAutoApproved {
		t.Errorf("expected base to follow larger source, got %s", got)
	}
}

func TestClassify_Unknown(t *testing.T) {
	if got := Classify(math.NaN(), 2000, 1900); got != models.StatusUnknown {
		t.Errorf("NaN requested = %s, want unknown", got)
	}
	if got := Classify(2000, 0, 0); got != models.StatusUnknown {
		t.Errorf("zero base = %s, want unknown", got)
	}
}

func TestFormatPercent(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{math.NaN(), "???"},
		{150, "> 100%"},
		{-150, "< -100%"},
		{100, "100.00%"},
		{-100, "-100.00%"},
		{5, "5.00%"},
		{2.345, "2.35%"},
	}
	for _, c := range cases {
		if got := FormatPercent(c.in); got != c.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestUsingSource(t *testing.T) {
	if got := UsingSource(2000, 1900); got != "LMCP" {
		t.Errorf("UsingSource(2000, 1900) = %q", got)
	}
	if got := UsingSource(1900, 2000); got != "ATROPS" {
		t.Errorf("UsingSource(1900, 2000) = %q", got)
	}
	// Ties go to LMCP.
	if got := UsingSource(2000, 2000); got != "LMCP" {
		t.Errorf("UsingSource(2000, 2000) = %q", got)
	}
	if got := UsingSource(0, 2000); got != "" {
		t.Errorf("expected empty with a zero source, got %q", got)
	}
	if got := UsingSource(math.NaN(), 2000); got != "" {
		t.Errorf("expected empty with a missing source, got %q", got)
	}
}

func TestEscalationBlurb(t *testing.T) {
	task, errs := ValidateLMCP(validLMCPInputs(), lmcpNow, 2)
	if !errs.Ok() {
		t.Fatalf("setup failed: %v", errs)
	}

	got := EscalationBlurb(task, models.StatusL7Required)
	if !strings.HasPrefix(got, "/md\n**DAB5** LMCP adjustment:") {
		t.Errorf("unexpected blurb prefix: %q", got)
	}
	if !strings.Contains(got, "requested **2100** (net **2000** after PDR **100**)") {
		t.Errorf("missing request line: %q", got)
	}
	if !strings.Contains(got, "**l7_required**") {
		t.Errorf("missing status: %q", got)
	}
	if !strings.Contains(got, task.SimLink) {
		t.Errorf("missing SIM link: %q", got)
	}
}

package core

import "testing"

func TestValidStationCode(t *testing.T) {
	valid := []string{"DAB5", "ABC1", "ZZZ9"}
	for _, code := range valid {
		if !ValidStationCode(code) {
			t.Errorf("expected %q valid", code)
		}
	}

	invalid := []string{"", "DAB0", "dab5", "DAB55", "DA5", "1ABC", "DAB 5"}
	for _, code := range invalid {
		if ValidStationCode(code) {
			t.Errorf("expected %q invalid", code)
		}
	}
}

func TestValidDpoLink(t *testing.T) {
	link := "https://dispatch.planner.last-mile.a2z.com/plan/DAB5/2026-03-14/sunrise"

	if !ValidDpoLink(link, "DAB5") {
		t.Error("expected link embedding the station code to be valid")
	}
	if ValidDpoLink(link, "DAU7") {
		t.Error("expected link for a different station to be invalid")
	}
	if !ValidDpoLink(link, "") {
		t.Error("expected provisional acceptance with a blank station code")
	}
	if ValidDpoLink("https://example.com/plan/DAB5", "DAB5") {
		t.Error("expected non-planner host to be invalid")
	}
	if ValidDpoLink("", "DAB5") {
		t.Error("expected empty link to be invalid")
	}
}

func TestValidSimLink(t *testing.T) {
	valid := []string{
		"https://sim.amazon.com/issues/P12345",
		"https://issues.amazon.com/issues/V987654321",
	}
	for _, link := range valid {
		if !ValidSimLink(link) {
			t.Errorf("expected %q valid", link)
		}
	}

	invalid := []string{
		"",
		"http://sim.amazon.com/issues/P12345",
		"https://sim.amazon.com/issues/p12345",
		"https://sim.amazon.com/issues/12345",
		"https://sim.amazon.com/P12345",
	}
	for _, link := range invalid {
		if ValidSimLink(link) {
			t.Errorf("expected %q invalid", link)
		}
	}
}

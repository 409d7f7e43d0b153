package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/kmarler/opsdesk/internal/storage"
	"github.com/kmarler/opsdesk/pkg/models"
)

// fakeDraftStore keeps drafts in memory and counts saves.
type fakeDraftStore struct {
	sameDay []storage.SameDayDraftRecord
	lmcp    []storage.LMCPDraftRecord
	saves   int
}

func (s *fakeDraftStore) SaveSameDayDraft(rec storage.SameDayDraftRecord) error {
	s.saves++
	for i, existing := range s.sameDay {
		if existing.ID == rec.ID {
			s.sameDay[i] = rec
			return nil
		}
	}
	s.sameDay = append(s.sameDay, rec)
	return nil
}

func (s *fakeDraftStore) SaveLMCPDraft(rec storage.LMCPDraftRecord) error {
	s.saves++
	for i, existing := range s.lmcp {
		if existing.ID == rec.ID {
			s.lmcp[i] = rec
			return nil
		}
	}
	s.lmcp = append(s.lmcp, rec)
	return nil
}

func (s *fakeDraftStore) LoadSameDayDrafts() ([]storage.SameDayDraftRecord, error) {
	return s.sameDay, nil
}

func (s *fakeDraftStore) LoadLMCPDrafts() ([]storage.LMCPDraftRecord, error) {
	return s.lmcp, nil
}

func (s *fakeDraftStore) RemoveDraft(id string) error {
	for i, rec := range s.sameDay {
		if rec.ID == id {
			s.sameDay = append(s.sameDay[:i], s.sameDay[i+1:]...)
			return nil
		}
	}
	for i, rec := range s.lmcp {
		if rec.ID == id {
			s.lmcp = append(s.lmcp[:i], s.lmcp[i+1:]...)
			return nil
		}
	}
	return nil
}

func withFakeDrafts(t *testing.T) *fakeDraftStore {
	t.Helper()
	prev := Drafts
	fake := &fakeDraftStore{}
	Drafts = fake
	t.Cleanup(func() { Drafts = prev })
	return fake
}

func TestResumeSameDayDraft(t *testing.T) {
	fake := withFakeDrafts(t)
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	fake.sameDay = append(fake.sameDay, storage.SameDayDraftRecord{
		ID:        "TASK-00003",
		Inputs:    models.SameDayInputs{StationCode: "DAB5", BufferPercent: "10"},
		StartTime: start,
	})

	draft, err := resumeSameDayDraft("TASK-00003")
	if err != nil {
		t.Fatalf("resumeSameDayDraft: %v", err)
	}
	if draft.Inputs.StationCode != "DAB5" || draft.Inputs.BufferPercent != "10" {
		t.Errorf("restored inputs = %+v", draft.Inputs)
	}
	if !draft.StartTime.Equal(start) {
		t.Errorf("start time = %v, want %v", draft.StartTime, start)
	}
}

func TestResumeSameDayDraft_UnknownID(t *testing.T) {
	withFakeDrafts(t)
	if _, err := resumeSameDayDraft("TASK-99999"); err == nil {
		t.Fatal("expected an error for an unknown draft ID")
	}
}

func TestResumeLMCPDraft(t *testing.T) {
	fake := withFakeDrafts(t)
	imported := map[string]models.LMCPInputs{
		"DAB5": {StationCode: "DAB5", Requested: "2,100"},
		"DLX7": {StationCode: "DLX7", Requested: "500"},
	}
	fake.lmcp = append(fake.lmcp, storage.LMCPDraftRecord{
		ID:        "TASK-00004",
		Inputs:    imported["DLX7"],
		Selected:  "DLX7",
		Stations:  []string{"DAB5", "DLX7"},
		Imported:  imported,
		StartTime: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	})

	draft, err := resumeLMCPDraft("TASK-00004")
	if err != nil {
		t.Fatalf("resumeLMCPDraft: %v", err)
	}
	if draft.SelectedStation() != "DLX7" {
		t.Errorf("selected station = %q", draft.SelectedStation())
	}
	if draft.Inputs.Requested != "500" {
		t.Errorf("restored requested = %q", draft.Inputs.Requested)
	}
	if got := draft.Stations(); len(got) != 2 {
		t.Errorf("stations = %v", got)
	}
}

func TestResumeLMCPDraft_EditsOnly(t *testing.T) {
	fake := withFakeDrafts(t)
	fake.lmcp = append(fake.lmcp, storage.LMCPDraftRecord{
		ID:        "TASK-00005",
		Inputs:    models.LMCPInputs{StationCode: "DAB5", Requested: "2,100"},
		StartTime: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	})

	draft, err := resumeLMCPDraft("TASK-00005")
	if err != nil {
		t.Fatalf("resumeLMCPDraft: %v", err)
	}
	if draft.Inputs.Requested != "2,100" {
		t.Errorf("restored requested = %q", draft.Inputs.Requested)
	}
	if draft.SelectedStation() != "" {
		t.Errorf("no station should be selected, got %q", draft.SelectedStation())
	}
}

func TestPrintDrafts(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	var b strings.Builder
	printDrafts(&b,
		[]storage.SameDayDraftRecord{{ID: "TASK-00001", Inputs: models.SameDayInputs{StationCode: "DAB5"}, StartTime: start}},
		[]storage.LMCPDraftRecord{{ID: "TASK-00002", StartTime: start}},
	)

	out := b.String()
	if !strings.Contains(out, "TASK-00001") || !strings.Contains(out, "sameday") {
		t.Errorf("missing same day row:\n%s", out)
	}
	if !strings.Contains(out, "TASK-00002") || !strings.Contains(out, "lmcp") {
		t.Errorf("missing lmcp row:\n%s", out)
	}
	if !strings.Contains(out, "DAB5") {
		t.Errorf("missing station column:\n%s", out)
	}
}

func TestPrintDrafts_Empty(t *testing.T) {
	var b strings.Builder
	printDrafts(&b, nil, nil)
	if !strings.Contains(b.String(), "No autosaved drafts.") {
		t.Errorf("unexpected output: %q", b.String())
	}
}

func TestDraftsRm(t *testing.T) {
	fake := withFakeDrafts(t)
	fake.sameDay = append(fake.sameDay, storage.SameDayDraftRecord{ID: "TASK-00006"})

	if err := draftsRmCmd.RunE(draftsRmCmd, []string{"TASK-00006"}); err != nil {
		t.Fatalf("drafts rm: %v", err)
	}
	if len(fake.sameDay) != 0 {
		t.Errorf("draft not removed: %v", fake.sameDay)
	}
}

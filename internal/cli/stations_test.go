package cli

import (
	"testing"

	"github.com/kmarler/opsdesk/pkg/models"
)

// fakeStore is an in-memory TaskStore for command tests.
type fakeStore struct {
	stations []string
	sameDay  []models.SameDayTask
	lmcp     []models.LMCPTask
}

func (f *fakeStore) AddStation(code string) error {
	f.stations = append(f.stations, code)
	return nil
}

func (f *fakeStore) Stations() ([]string, error) {
	return f.stations, nil
}

func (f *fakeStore) RemoveStation(code string) error {
	out := f.stations[:0]
	for _, s := range f.stations {
		if s != code {
			out = append(out, s)
		}
	}
	f.stations = out
	return nil
}

func (f *fakeStore) InsertSameDayTask(t models.SameDayTask) (int64, error) {
	f.sameDay = append(f.sameDay, t)
	return int64(len(f.sameDay)), nil
}

func (f *fakeStore) InsertLMCPTask(t models.LMCPTask) (int64, error) {
	f.lmcp = append(f.lmcp, t)
	return int64(len(f.lmcp)), nil
}

func (f *fakeStore) SameDayHistory(limit int) ([]models.SameDayTask, error) {
	return f.sameDay, nil
}

func (f *fakeStore) LMCPHistory(limit int) ([]models.LMCPTask, error) {
	return f.lmcp, nil
}

func withFakeStore(t *testing.T) *fakeStore {
	t.Helper()
	prev := Store
	fake := &fakeStore{}
	Store = fake
	t.Cleanup(func() { Store = prev })
	return fake
}

func TestStationsAdd_UppercasesAndStores(t *testing.T) {
	fake := withFakeStore(t)

	if err := stationsAddCmd.RunE(stationsAddCmd, []string{"dab5"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if len(fake.stations) != 1 || fake.stations[0] != "DAB5" {
		t.Errorf("unexpected stations: %v", fake.stations)
	}
}

func TestStationsAdd_RejectsMalformedCode(t *testing.T) {
	fake := withFakeStore(t)

	if err := stationsAddCmd.RunE(stationsAddCmd, []string{"nope"}); err == nil {
		t.Fatal("expected malformed code rejected")
	}
	if len(fake.stations) != 0 {
		t.Errorf("malformed code must not be stored: %v", fake.stations)
	}
}

func TestStationsRemove(t *testing.T) {
	fake := withFakeStore(t)
	fake.stations = []string{"DAB5", "DAU7"}

	if err := stationsRemoveCmd.RunE(stationsRemoveCmd, []string{"dab5"}); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(fake.stations) != 1 || fake.stations[0] != "DAU7" {
		t.Errorf("unexpected stations: %v", fake.stations)
	}
}

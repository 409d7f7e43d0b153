package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kmarler/opsdesk/pkg/models"
)

// SameDayDraftRecord is the autosaved state of an open Same Day audit.
type SameDayDraftRecord struct {
	ID              string               `yaml:"id"`
	Inputs          models.SameDayInputs `yaml:"inputs"`
	StartTime       time.Time            `yaml:"start_time"`
	DpoCompleteTime time.Time            `yaml:"dpo_complete_time,omitempty"`
}

// LMCPDraftRecord is the autosaved state of an open LMCP request,
// including every imported station's cached inputs.
type LMCPDraftRecord struct {
	ID         string                       `yaml:"id"`
	Inputs     models.LMCPInputs            `yaml:"inputs"`
	Selected   string                       `yaml:"selected,omitempty"`
	Stations   []string                     `yaml:"stations,omitempty"`
	Imported   map[string]models.LMCPInputs `yaml:"imported,omitempty"`
	StartTime  time.Time                    `yaml:"start_time"`
	ExportTime time.Time                    `yaml:"export_time,omitempty"`
}

type draftFile struct {
	SameDay []SameDayDraftRecord `yaml:"same_day,omitempty"`
	LMCP    []LMCPDraftRecord    `yaml:"lmcp,omitempty"`
}

// DraftStore persists open drafts between sessions.
type DraftStore interface {
	SaveSameDayDraft(rec SameDayDraftRecord) error
	SaveLMCPDraft(rec LMCPDraftRecord) error
	LoadSameDayDrafts() ([]SameDayDraftRecord, error)
	LoadLMCPDrafts() ([]LMCPDraftRecord, error)
	RemoveDraft(id string) error
}

type fileDraftStore struct {
	filePath string
}

// NewFileDraftStore creates a YAML-backed draft store at the given path.
func NewFileDraftStore(filePath string) DraftStore {
	return &fileDraftStore{filePath: filePath}
}

func (s *fileDraftStore) load() (draftFile, error) {
	var f draftFile
	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return f, fmt.Errorf("reading drafts file: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parsing drafts file: %w", err)
	}
	return f, nil
}

func (s *fileDraftStore) save(f draftFile) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling drafts: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o750); err != nil {
		return fmt.Errorf("creating drafts directory: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0o600); err != nil {
		return fmt.Errorf("writing drafts file: %w", err)
	}
	return nil
}

// SaveSameDayDraft upserts one Same Day draft by ID.
func (s *fileDraftStore) SaveSameDayDraft(rec SameDayDraftRecord) error {
	f, err := s.load()
	if err != nil {
		return err
	}
	replaced := false
	for i, existing := range f.SameDay {
		if existing.ID == rec.ID {
			f.SameDay[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		f.SameDay = append(f.SameDay, rec)
	}
	return s.save(f)
}

// SaveLMCPDraft upserts one LMCP draft by ID.
func (s *fileDraftStore) SaveLMCPDraft(rec LMCPDraftRecord) error {
	f, err := s.load()
	if err != nil {
		return err
	}
	replaced := false
	for i, existing := range f.LMCP {
		if existing.ID == rec.ID {
			f.LMCP[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		f.LMCP = append(f.LMCP, rec)
	}
	return s.save(f)
}

// LoadSameDayDrafts returns all autosaved Same Day drafts.
func (s *fileDraftStore) LoadSameDayDrafts() ([]SameDayDraftRecord, error) {
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	return f.SameDay, nil
}

// LoadLMCPDrafts returns all autosaved LMCP drafts.
func (s *fileDraftStore) LoadLMCPDrafts() ([]LMCPDraftRecord, error) {
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	return f.LMCP, nil
}

// RemoveDraft drops the draft with the given ID from either list.
// Removing an unknown ID is not an error.
func (s *fileDraftStore) RemoveDraft(id string) error {
	f, err := s.load()
	if err != nil {
		return err
	}
	sameDay := f.SameDay[:0]
	for _, rec := range f.SameDay {
		if rec.ID != id {
			sameDay = append(sameDay, rec)
		}
	}
	f.SameDay = sameDay

	lmcp := f.LMCP[:0]
	for _, rec := range f.LMCP {
		if rec.ID != id {
			lmcp = append(lmcp, rec)
		}
	}
	f.LMCP = lmcp

	return s.save(f)
}

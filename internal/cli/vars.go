package cli

import (
	"github.com/kmarler/opsdesk/internal/core"
	"github.com/kmarler/opsdesk/internal/integration"
	"github.com/kmarler/opsdesk/internal/observability"
	"github.com/kmarler/opsdesk/internal/storage"
	"github.com/kmarler/opsdesk/pkg/models"
)

// TaskStore is the persistence surface the commands need. Satisfied by
// *storage.Store.
type TaskStore interface {
	AddStation(code string) error
	Stations() ([]string, error)
	RemoveStation(code string) error
	InsertSameDayTask(t models.SameDayTask) (int64, error)
	InsertLMCPTask(t models.LMCPTask) (int64, error)
	SameDayHistory(limit int) ([]models.SameDayTask, error)
	LMCPHistory(limit int) ([]models.LMCPTask, error)
}

// Service instances, set during app initialization in app.go.
var (
	Store       TaskStore
	Drafts      storage.DraftStore
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
	Clipboard   integration.Clipboard
	Exporter    integration.ExportWriter
	IDGen       core.DraftIDGenerator

	// Config holds the loaded global configuration.
	Config *models.GlobalConfig

	// BasePath is the resolved opsdesk home directory.
	BasePath string
)

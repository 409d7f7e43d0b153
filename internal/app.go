// Package internal provides the App struct that wires all components of
// opsdesk together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kmarler/opsdesk/internal/cli"
	"github.com/kmarler/opsdesk/internal/core"
	"github.com/kmarler/opsdesk/internal/integration"
	"github.com/kmarler/opsdesk/internal/observability"
	"github.com/kmarler/opsdesk/internal/storage"
	"github.com/kmarler/opsdesk/pkg/models"
)

// App holds all service dependencies for opsdesk.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.GlobalConfig

	// Storage layer
	Store  *storage.Store
	Drafts storage.DraftStore

	// Core services
	IDGen core.DraftIDGenerator

	// Integration services
	Clipboard integration.Clipboard
	Exporter  integration.ExportWriter

	// Observability
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
}

// NewApp creates and wires all components. basePath is the directory
// holding the configuration file, the database, the draft autosave
// file, and the event log.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadGlobalConfig()
	if err != nil {
		return nil, err
	}
	app.Config = cfg

	// --- Storage layer ---
	dbPath := cfg.DatabaseFile
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(basePath, dbPath)
	}
	app.Store, err = storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	app.Drafts = storage.NewFileDraftStore(filepath.Join(basePath, "drafts.yaml"))

	// --- Core services ---
	app.IDGen = core.NewDraftIDGenerator(basePath, "TASK")

	// --- Integration services ---
	app.Clipboard = integration.NewSystemClipboard()
	exportDir := cfg.ExportDir
	if !filepath.IsAbs(exportDir) && exportDir != "." {
		exportDir = filepath.Join(basePath, exportDir)
	}
	app.Exporter = integration.NewFileExportWriter(exportDir)

	// --- Observability ---
	eventLogPath := filepath.Join(basePath, ".opsdesk_events.jsonl")
	app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
	if err != nil {
		// Non-fatal: disable observability if the log can't be created.
		app.EventLog = nil
	}
	if app.EventLog != nil {
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}

	// --- CLI layer ---
	cli.BasePath = basePath
	cli.Config = cfg
	cli.Store = app.Store
	cli.Drafts = app.Drafts
	cli.IDGen = app.IDGen
	cli.Clipboard = app.Clipboard
	cli.Exporter = app.Exporter
	cli.EventLog = app.EventLog
	cli.MetricsCalc = app.MetricsCalc

	return app, nil
}

// Close releases the app's resources.
func (a *App) Close() error {
	var firstErr error
	if a.EventLog != nil {
		if err := a.EventLog.Close(); err != nil {
			firstErr = err
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ResolveBasePath determines where opsdesk keeps its data: OPSDESK_HOME
// when set, otherwise the nearest ancestor directory containing an
// .opsdeskconfig file, otherwise the current directory.
func ResolveBasePath() string {
	if home := os.Getenv("OPSDESK_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".opsdeskconfig")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, _ := os.Getwd()
	return cwd
}

// Package storage provides the persistence layer for opsdesk: the SQLite
// gateway that finalized task records are handed to, and the YAML draft
// store that lets an interrupted session resume its open drafts.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kmarler/opsdesk/pkg/models"
)

// schemaVersion is bumped whenever schemaStatements change shape.
const schemaVersion = 1

// schemaStatements create the task tables. Date columns hold ISO-8601
// strings; nullable columns model the optional lifecycle fields.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS station (
		station_code TEXT PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS same_day_route_task (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		station_code TEXT NOT NULL,
		start_time TEXT,
		tba_submitted_count INTEGER,
		dpo_complete_time TEXT,
		end_time TEXT,
		same_day_type TEXT NOT NULL,
		buffer_percent REAL NOT NULL,
		dpo_link TEXT NOT NULL,
		tba_routed_count INTEGER NOT NULL,
		route_count INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS lmcp_task (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		station_code TEXT NOT NULL,
		ofd_date TEXT NOT NULL,
		ead TEXT NOT NULL,
		current_lmcp INTEGER NOT NULL,
		current_atrops INTEGER NOT NULL,
		pdr INTEGER NOT NULL,
		requested INTEGER NOT NULL,
		sim_link TEXT NOT NULL,
		value INTEGER NOT NULL,
		start_time TEXT,
		export_time TEXT,
		end_time TEXT,
		source TEXT NOT NULL,
		namespace TEXT NOT NULL,
		type TEXT NOT NULL,
		wave_group_name TEXT NOT NULL,
		ship_option_category TEXT NOT NULL,
		address_type TEXT NOT NULL,
		package_type TEXT NOT NULL,
		cluster TEXT NOT NULL,
		fulfillment_network_type TEXT NOT NULL,
		volume_type TEXT NOT NULL,
		week INTEGER NOT NULL,
		f TEXT NOT NULL
	)`,
}

// Store is the SQLite-backed persistence gateway.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes the SQLite database at the given path, creating the
// schema when missing.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("opening store: creating directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening store: setting busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening store: setting journal_mode: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrating schema: %w", err)
		}
	}

	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		if _, err := s.db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("migrating schema: recording version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("migrating schema: reading version: %w", err)
	case version > schemaVersion:
		return fmt.Errorf("migrating schema: database version %d is newer than supported %d", version, schemaVersion)
	}

	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddStation records a known station code.
func (s *Store) AddStation(code string) error {
	if _, err := s.db.Exec("INSERT INTO station (station_code) VALUES (?)", code); err != nil {
		return fmt.Errorf("adding station %s: %w", code, err)
	}
	return nil
}

// Stations lists all known station codes in lexical order.
func (s *Store) Stations() ([]string, error) {
	rows, err := s.db.Query("SELECT station_code FROM station ORDER BY station_code")
	if err != nil {
		return nil, fmt.Errorf("listing stations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("listing stations: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// RemoveStation deletes a station code. Removing an unknown station is
// not an error.
func (s *Store) RemoveStation(code string) error {
	if _, err := s.db.Exec("DELETE FROM station WHERE station_code = ?", code); err != nil {
		return fmt.Errorf("removing station %s: %w", code, err)
	}
	return nil
}

// InsertSameDayTask stores a finalized Same Day audit and returns its
// row ID.
func (s *Store) InsertSameDayTask(t models.SameDayTask) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO same_day_route_task
		(station_code, start_time, tba_submitted_count, dpo_complete_time, end_time,
		 same_day_type, buffer_percent, dpo_link, tba_routed_count, route_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.StationCode,
		isoTime(t.StartTime),
		nullableInt(t.FileTbaCount),
		isoTime(t.DpoCompleteTime),
		isoTime(t.EndTime),
		string(t.RoutingType),
		t.BufferPercent,
		t.DpoLink,
		t.RoutedTbaCount,
		t.RouteCount,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting same day task for %s: %w", t.StationCode, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("inserting same day task for %s: reading id: %w", t.StationCode, err)
	}
	return id, nil
}

// InsertLMCPTask stores a finalized capacity-adjustment record and
// returns its row ID.
func (s *Store) InsertLMCPTask(t models.LMCPTask) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO lmcp_task
		(station_code, ofd_date, ead, current_lmcp, current_atrops, pdr, requested,
		 sim_link, value, start_time, export_time, end_time, source, namespace, type,
		 wave_group_name, ship_option_category, address_type, package_type, cluster,
		 fulfillment_network_type, volume_type, week, f)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.StationCode, t.OfdDate, t.Ead, t.CurrentLmcp, t.CurrentAtrops, t.Pdr,
		t.Requested, t.SimLink, t.Value, isoTime(t.StartTime), isoTime(t.ExportTime),
		isoTime(t.EndTime), t.Source, t.Namespace, t.Type, t.WaveGroupName,
		t.ShipOptionCategory, t.AddressType, t.PackageType, t.Cluster,
		t.FulfillmentNetworkType, t.VolumeType, t.Week, t.F,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting lmcp task for %s: %w", t.StationCode, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("inserting lmcp task for %s: reading id: %w", t.StationCode, err)
	}
	return id, nil
}

// SameDayHistory returns the most recently completed Same Day audits,
// newest first.
func (s *Store) SameDayHistory(limit int) ([]models.SameDayTask, error) {
	rows, err := s.db.Query(`SELECT id, station_code, start_time, tba_submitted_count,
		dpo_complete_time, end_time, same_day_type, buffer_percent, dpo_link,
		tba_routed_count, route_count
		FROM same_day_route_task ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing same day history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []models.SameDayTask
	for rows.Next() {
		var t models.SameDayTask
		var start, dpoComplete, end sql.NullString
		var fileCount sql.NullInt64
		var routing string
		if err := rows.Scan(&t.ID, &t.StationCode, &start, &fileCount, &dpoComplete,
			&end, &routing, &t.BufferPercent, &t.DpoLink, &t.RoutedTbaCount, &t.RouteCount); err != nil {
			return nil, fmt.Errorf("listing same day history: %w", err)
		}
		t.RoutingType = models.RoutingType(routing)
		t.StartTime = parseISOTime(start)
		t.DpoCompleteTime = parseISOTime(dpoComplete)
		t.EndTime = parseISOTime(end)
		if fileCount.Valid {
			v := int(fileCount.Int64)
			t.FileTbaCount = &v
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// LMCPHistory returns the most recently completed capacity adjustments,
// newest first.
func (s *Store) LMCPHistory(limit int) ([]models.LMCPTask, error) {
	rows, err := s.db.Query(`SELECT id, station_code, ofd_date, ead, current_lmcp,
		current_atrops, pdr, requested, sim_link, value, start_time, export_time,
		end_time, source, namespace, type, wave_group_name, ship_option_category,
		address_type, package_type, cluster, fulfillment_network_type, volume_type,
		week, f
		FROM lmcp_task ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing lmcp history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []models.LMCPTask
	for rows.Next() {
		var t models.LMCPTask
		var start, export, end sql.NullString
		if err := rows.Scan(&t.ID, &t.StationCode, &t.OfdDate, &t.Ead, &t.CurrentLmcp,
			&t.CurrentAtrops, &t.Pdr, &t.Requested, &t.SimLink, &t.Value, &start,
			&export, &end, &t.Source, &t.Namespace, &t.Type, &t.WaveGroupName,
			&t.ShipOptionCategory, &t.AddressType, &t.PackageType, &t.Cluster,
			&t.FulfillmentNetworkType, &t.VolumeType, &t.Week, &t.F); err != nil {
			return nil, fmt.Errorf("listing lmcp history: %w", err)
		}
		t.StartTime = parseISOTime(start)
		t.ExportTime = parseISOTime(export)
		t.EndTime = parseISOTime(end)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// isoTime serializes a timestamp as ISO-8601, or NULL for the zero time.
func isoTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func parseISOTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

package integration

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteExport_CreatesFileWithContent(t *testing.T) {
	dir := t.TempDir()
	w := NewFileExportWriter(dir)

	path, err := w.WriteExport("DAB5 - 2026-03-14 - LMCP Adjustment.csv", "Source,Value\nmanual,2000\n")
	if err != nil {
		t.Fatalf("WriteExport failed: %v", err)
	}
	if path != filepath.Join(dir, "DAB5 - 2026-03-14 - LMCP Adjustment.csv") {
		t.Errorf("unexpected path %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export file: %v", err)
	}
	if string(data) != "Source,Value\nmanual,2000\n" {
		t.Errorf("unexpected content %q", string(data))
	}
}

func TestWriteExport_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports", "nested")
	w := NewFileExportWriter(dir)

	if _, err := w.WriteExport("out.csv", "a\n"); err != nil {
		t.Fatalf("WriteExport failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out.csv")); err != nil {
		t.Errorf("expected export file to exist: %v", err)
	}
}

func TestWriteExport_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	w := NewFileExportWriter(dir)

	if _, err := w.WriteExport("out.csv", "first\n"); err != nil {
		t.Fatalf("WriteExport failed: %v", err)
	}
	path, err := w.WriteExport("out.csv", "second\n")
	if err != nil {
		t.Fatalf("WriteExport failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export file: %v", err)
	}
	if string(data) != "second\n" {
		t.Errorf("expected overwrite, got %q", string(data))
	}
}

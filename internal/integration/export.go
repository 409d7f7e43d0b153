package integration

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExportWriter writes generated upload files to disk.
type ExportWriter interface {
	// WriteExport writes content to fileName inside the export directory
	// and returns the full path written.
	WriteExport(fileName, content string) (string, error)
}

// fileExportWriter implements ExportWriter on the local filesystem.
type fileExportWriter struct {
	dir string
}

// NewFileExportWriter creates an ExportWriter rooted at dir.
func NewFileExportWriter(dir string) ExportWriter {
	return &fileExportWriter{dir: dir}
}

func (w *fileExportWriter) WriteExport(fileName, content string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(w.dir, fileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing export file: %w", err)
	}
	return path, nil
}

package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DraftIDGenerator generates unique, sequential draft IDs.
type DraftIDGenerator interface {
	GenerateDraftID() (string, error)
}

// fileDraftIDGenerator implements DraftIDGenerator by persisting a
// counter in a .draft_counter file on disk.
type fileDraftIDGenerator struct {
	basePath string
	prefix   string
}

// NewDraftIDGenerator creates a DraftIDGenerator that stores its counter
// in a .draft_counter file within basePath.
func NewDraftIDGenerator(basePath string, prefix string) DraftIDGenerator {
	return &fileDraftIDGenerator{basePath: basePath, prefix: prefix}
}

// GenerateDraftID reads the current counter, increments it, writes it
// back, and returns the formatted draft ID. If the counter file does not
// exist, the counter starts from 1. Format: {prefix}-{counter:05d}
// (e.g. SD-00001).
func (g *fileDraftIDGenerator) GenerateDraftID() (string, error) {
	counterPath := filepath.Join(g.basePath, ".draft_counter")

	counter := 0
	data, err := os.ReadFile(counterPath)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("reading draft counter file: %w", err)
	}
	if err == nil {
		trimmed := strings.TrimSpace(string(data))
		counter, err = strconv.Atoi(trimmed)
		if err != nil {
			return "", fmt.Errorf("parsing draft counter %q: %w", trimmed, err)
		}
	}

	counter++

	if err := os.MkdirAll(g.basePath, 0o750); err != nil {
		return "", fmt.Errorf("creating base path for draft counter: %w", err)
	}

	if err := os.WriteFile(counterPath, []byte(strconv.Itoa(counter)), 0o600); err != nil {
		return "", fmt.Errorf("writing draft counter file: %w", err)
	}

	return fmt.Sprintf("%s-%05d", g.prefix, counter), nil
}

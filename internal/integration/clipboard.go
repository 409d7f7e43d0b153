// Package integration bridges opsdesk to the host environment: the
// system clipboard for blurb and TBA handoff, and the filesystem for
// upload file export.
package integration

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Clipboard defines the interface for copying text to the system clipboard.
type Clipboard interface {
	Copy(text string) error
}

// systemClipboard implements Clipboard using the OS clipboard.
type systemClipboard struct{}

// NewSystemClipboard creates a Clipboard backed by the host clipboard.
func NewSystemClipboard() Clipboard {
	return &systemClipboard{}
}

func (c *systemClipboard) Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}

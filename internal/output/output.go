// Package output persists rendered artifacts and owns their on-disk paths.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/reddit-persona/internal/textutil"
)

// EnsureDir creates the output directory if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return nil
}

// TextPath returns the path of the text artifact for a subject. The same
// subject always maps to the same path; reruns overwrite.
func TextPath(dir, username string) string {
	return filepath.Join(dir, textutil.OutputFilename(username))
}

// PDFPath returns the path of the visual artifact. The timestamp keeps
// repeated runs for one subject from colliding.
func PDFPath(dir, username string, ts time.Time) string {
	return filepath.Join(dir, textutil.PDFFilename(username, ts))
}

// WriteText writes a text artifact, replacing any previous version.
func WriteText(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

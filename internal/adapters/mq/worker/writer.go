package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mkabbani/evround/internal/domain/report"
)

// FileWriter persists report documents as JSON files in a directory, one
// file per record id.
type FileWriter struct {
	dir string
}

// NewFileWriter creates the export directory if needed and returns a writer
// over it.
func NewFileWriter(dir string) (*FileWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir %s: %w", dir, err)
	}
	return &FileWriter{dir: dir}, nil
}

// Write implements Writer. A re-export of the same record overwrites the
// previous document.
func (w *FileWriter) Write(_ context.Context, doc report.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report %s: %w", doc.ID, err)
	}

	path := filepath.Join(w.dir, doc.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

package recording

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/getmockd/wirecheck/pkg/logging"
)

// Writer persists normalized documents as one JSON file per mapping.
type Writer struct {
	root   string
	logger *slog.Logger
}

// NewWriter creates a writer that resolves relative directories against root.
func NewWriter(root string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Writer{root: root, logger: logger}
}

// Dir returns the directory dir resolves to.
func (w *Writer) Dir(dir string) string {
	if filepath.IsAbs(dir) || w.root == "" {
		return filepath.Clean(dir)
	}
	return filepath.Join(w.root, dir)
}

// WriteAll writes every document into dir, creating it if needed, and
// returns the written paths in document order. Existing files with the same
// name are overwritten.
func (w *Writer) WriteAll(dir string, docs []Document) ([]string, error) {
	target := w.Dir(dir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create stubs directory: %w", err)
	}

	paths := make([]string, 0, len(docs))
	for _, doc := range docs {
		data, err := doc.Encode()
		if err != nil {
			return paths, err
		}
		path := filepath.Join(target, doc.FileName())
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		w.logger.Debug("wrote stub", "path", path)
		paths = append(paths, path)
	}

	w.logger.Info("saved recorded stubs", "dir", target, "count", len(paths))
	return paths, nil
}

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ExportStorage persists generated download documents (CSV, reports,
// spreadsheets) under a base directory.
type ExportStorage interface {
	// SaveExport writes the document and returns its full path
	SaveExport(name string, data []byte) (string, error)
}

// LocalExportStorage implements ExportStorage on the local filesystem
type LocalExportStorage struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalExportStorage creates storage rooted at baseDir
func NewLocalExportStorage(baseDir string, logger *zap.Logger) *LocalExportStorage {
	return &LocalExportStorage{baseDir: baseDir, logger: logger}
}

// SaveExport writes the document under the base directory, refusing
// names that would escape it.
func (s *LocalExportStorage) SaveExport(name string, data []byte) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	fullPath := filepath.Join(s.baseDir, name)
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		s.logger.Error("Failed to write export",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write export: %w", err)
	}

	s.logger.Debug("Export written",
		zap.String("path", fullPath),
		zap.Int("size", len(data)))

	return fullPath, nil
}

// validateName rejects absolute paths, traversal and null bytes
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty export name")
	}
	if filepath.IsAbs(name) {
		return fmt.Errorf("absolute paths not allowed: %s", name)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("directory traversal not allowed: %s", name)
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("null bytes not allowed in export name")
	}
	return nil
}

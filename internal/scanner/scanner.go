// Package scanner finds statement documents under a directory tree for
// the CLI's batch mode.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scanner walks a directory tree and collects statement PDFs.
type Scanner struct {
	rootDir string
}

// New creates a scanner rooted at rootDir.
func New(rootDir string) *Scanner {
	return &Scanner{rootDir: rootDir}
}

// Scan walks the tree and returns the statement document paths it finds,
// in walk order.
func (s *Scanner) Scan() ([]string, error) {
	rootDir := s.expandHome(s.rootDir)

	var paths []string
	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if s.isStatementFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	return paths, nil
}

// isStatementFile checks if the file is a supported statement document.
func (s *Scanner) isStatementFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".pdf"
}

// expandHome expands ~ to the home directory.
func (s *Scanner) expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

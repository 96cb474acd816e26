package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// ScannedFile represents a document found while scanning a directory.
type ScannedFile struct {
	RelPath string // Relative path from the root with forward slashes (e.g. "guides/setup.md")
	Folder  string // Folder part of RelPath, empty for root-level files
	AbsPath string
}

// Scanner walks a directory tree for indexable documents.
type Scanner struct {
	root       string
	extensions map[string]bool
}

// NewScanner creates a Scanner rooted at root that picks up .md, .markdown
// and .txt files.
func NewScanner(root string) *Scanner {
	return &Scanner{
		root: root,
		extensions: map[string]bool{
			".md":       true,
			".markdown": true,
			".txt":      true,
		},
	}
}

// Scan returns every indexable file under the root in lexical order.
// Hidden directories (.git, .obsidian, ...) are skipped.
func (s *Scanner) Scan(ctx context.Context) ([]ScannedFile, error) {
	var files []ScannedFile

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != s.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.extensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		relPath, err := filepath.Rel(s.root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		relPath = filepath.ToSlash(relPath)

		folder := filepath.ToSlash(filepath.Dir(relPath))
		if folder == "." {
			folder = ""
		}

		files = append(files, ScannedFile{
			RelPath: relPath,
			Folder:  folder,
			AbsPath: path,
		})
		return nil
	})
	if err != nil {
		return files, fmt.Errorf("failed to scan %s: %w", s.root, err)
	}

	return files, nil
}

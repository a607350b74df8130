package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/dendrite/internal/generator"
)

// DirectoryScanner resolves CLI directory arguments, including Go-style
// "./..." patterns, into the set of directories that contain Go files.
type DirectoryScanner struct{}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{}
}

// ScanDirectories expands the provided directory arguments. A trailing
// "/..." scans recursively; anything else names a single directory.
func (s *DirectoryScanner) ScanDirectories(rootDirs []string) ([]string, error) {
	var result []string
	seen := make(map[string]bool)

	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			result = append(result, dir)
		}
	}

	for _, rootDir := range rootDirs {
		if strings.HasSuffix(rootDir, "/...") {
			baseDir := strings.TrimSuffix(rootDir, "/...")
			if baseDir == "" {
				baseDir = "."
			}
			dirs, err := s.walkGoDirectories(baseDir)
			if err != nil {
				return nil, err
			}
			for _, dir := range dirs {
				add(dir)
			}
			continue
		}

		hasGo, err := containsGoFiles(rootDir)
		if err != nil {
			return nil, fmt.Errorf("failed to scan directory %s: %w", rootDir, err)
		}
		if hasGo {
			add(filepath.Clean(rootDir))
		}
	}

	return result, nil
}

// walkGoDirectories collects all directories under base that contain Go
// files, skipping hidden directories, testdata, and underscore-prefixed
// trees the Go toolchain itself ignores.
func (s *DirectoryScanner) walkGoDirectories(base string) ([]string, error) {
	var dirs []string

	err := filepath.WalkDir(base, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}

		name := entry.Name()
		if path != base && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata" || name == "vendor") {
			return filepath.SkipDir
		}

		hasGo, err := containsGoFiles(path)
		if err != nil {
			return err
		}
		if hasGo {
			dirs = append(dirs, filepath.Clean(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", base, err)
	}

	return dirs, nil
}

// containsGoFiles reports whether a directory directly contains any
// non-test, non-generated Go source files.
func containsGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		if name == generator.BindingsFileName {
			continue
		}
		return true, nil
	}
	return false, nil
}

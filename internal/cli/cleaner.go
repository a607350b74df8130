package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/dendrite/internal/generator"
)

// Cleaner removes generated bindings files
type Cleaner struct{}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// CleanGeneratedFiles removes every autogen_bindings.go under the given
// directory arguments and returns the paths it deleted.
func (c *Cleaner) CleanGeneratedFiles(directories []string) ([]string, error) {
	var removed []string

	for _, dir := range directories {
		if strings.HasSuffix(dir, "/...") {
			baseDir := strings.TrimSuffix(dir, "/...")
			if baseDir == "" {
				baseDir = "."
			}
			if err := c.cleanRecursively(baseDir, &removed); err != nil {
				return removed, fmt.Errorf("failed to clean %s: %w", dir, err)
			}
			continue
		}

		if err := c.cleanSingleDirectory(dir, &removed); err != nil {
			return removed, fmt.Errorf("failed to clean %s: %w", dir, err)
		}
	}

	return removed, nil
}

// cleanRecursively walks a tree removing bindings files
func (c *Cleaner) cleanRecursively(baseDir string, removed *[]string) error {
	return filepath.WalkDir(baseDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if entry.Name() == generator.BindingsFileName {
			if err := os.Remove(path); err != nil {
				return err
			}
			*removed = append(*removed, path)
		}
		return nil
	})
}

// cleanSingleDirectory removes the bindings file from one directory
func (c *Cleaner) cleanSingleDirectory(dir string, removed *[]string) error {
	path := filepath.Join(dir, generator.BindingsFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return err
	}
	*removed = append(*removed, path)
	return nil
}

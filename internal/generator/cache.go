package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mapgen/internal/logging"
	"mapgen/internal/mapname"
)

// Cache maps generator versions to executables under a local root directory.
// Presence is answered by stat'ing the disk on every call so a download
// landing between two calls is observable on the second.
type Cache struct {
	root string
	log  *logging.Logger
}

// NewCache creates the cache rooted at dir, creating dir if absent. A
// creation failure is reported but not fatal: existence checks against a
// missing root simply answer false.
func NewCache(dir string, log *logging.Logger) *Cache {
	dir = strings.TrimSpace(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Error("create generator cache directory %s: %v", dir, err)
	}
	return &Cache{root: dir, log: log}
}

// Root returns the cache root directory.
func (c *Cache) Root() string { return c.root }

// ExecutablePath returns where the executable for version lives (or would
// live) under the cache root.
func (c *Cache) ExecutablePath(version string) string {
	return filepath.Join(c.root, mapname.ExecutableName(version))
}

// Exists reports whether the executable for version is present on disk.
func (c *Cache) Exists(version string) bool {
	info, err := os.Stat(c.ExecutablePath(version))
	return err == nil && !info.IsDir()
}

// SweepStaleOutputs deletes leftover generated map directories under
// outputDir. Only immediate children that are directories and whose names
// match the generated-name grammar are touched. A failed deletion is logged
// and the sweep continues; the residual entry is not retried. An empty
// outputDir disables the sweep.
func SweepStaleOutputs(outputDir string, log *logging.Logger) error {
	outputDir = strings.TrimSpace(outputDir)
	if outputDir == "" {
		return nil
	}

	log.Info("deleting leftover generated maps in %s", outputDir)
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: list %s: %v", ErrCleanupPartial, outputDir, err)
	}

	var failed []string
	for _, entry := range entries {
		if !entry.IsDir() || !mapname.IsGeneratedName(entry.Name()) {
			continue
		}
		path := filepath.Join(outputDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			log.Warn("delete leftover generated map %s: %v", path, err)
			failed = append(failed, entry.Name())
			continue
		}
		log.Debug("deleted leftover generated map %s", path)
	}
	if len(failed) > 0 {
		return fmt.Errorf("%w: %s", ErrCleanupPartial, strings.Join(failed, ", "))
	}
	return nil
}

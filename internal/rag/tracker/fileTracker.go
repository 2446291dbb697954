package tracker

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/fgiraldo/ragapi/internal/config"
	"github.com/fgiraldo/ragapi/pkg/logger_i"
)

var logger = logger_i.NewLogger("File Tracker")

// Registry maps document file names to the MD5 hash of their content at the
// time the index was last built.
type Registry map[string]string

// ComputeHash streams the file through MD5 and returns the hex digest.
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// BuildRegistry hashes every PDF in the folder. A missing folder yields an
// empty registry, not an error.
func BuildRegistry(folder string) (Registry, error) {
	paths, err := filepath.Glob(filepath.Join(folder, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", folder, err)
	}
	sort.Strings(paths)

	registry := Registry{}
	for _, path := range paths {
		hash, err := ComputeHash(path)
		if err != nil {
			return nil, err
		}
		registry[filepath.Base(path)] = hash
	}
	return registry, nil
}

// LoadRegistry reads the persisted registry from the index directory.
// A missing file means no successful build has happened: (nil, nil).
func LoadRegistry(indexDir string) (Registry, error) {
	path := filepath.Join(indexDir, config.FileRegistryName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading registry: %w", err)
	}

	var registry Registry
	if err := json.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("parsing registry: %w", err)
	}
	return registry, nil
}

// SaveRegistry persists the registry atomically. Callers invoke this only
// after the index build succeeded, so a crash mid-build leaves the old
// registry in place and the next startup reindexes.
func SaveRegistry(indexDir string, registry Registry) error {
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", indexDir, err)
	}

	data, err := json.MarshalIndent(registry, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}

	path := filepath.Join(indexDir, config.FileRegistryName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing registry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing registry: %w", err)
	}

	logger.Debug("Registry saved", "files", len(registry))
	return nil
}

// NeedsReindex reports whether the current corpus differs from the stored
// registry. Added, removed and modified files all count as stale; a nil
// stored registry always does.
func NeedsReindex(stored Registry, current Registry) bool {
	if stored == nil {
		return true
	}
	if len(stored) != len(current) {
		return true
	}
	for name, hash := range current {
		if stored[name] != hash {
			return true
		}
	}
	return false
}

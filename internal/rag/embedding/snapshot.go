package embedding

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fgiraldo/ragapi/internal/config"
	"github.com/fgiraldo/ragapi/internal/domain/ragModel"
)

// Snapshot is the precomputed-embedding cache: every record of one finished
// build plus the corpus registry those records were computed from. It is
// written after a successful embedding pass and reused at the next startup
// only when the registry still matches the corpus on disk.
type Snapshot struct {
	Provider  string                    `json:"provider"`
	Dimension int32                     `json:"dimension"`
	Registry  map[string]string         `json:"registry"`
	Records   []ragModel.EmbeddingRecord `json:"records"`
}

func snapshotPath(indexDir string) string {
	return filepath.Join(indexDir, config.EmbeddingsSnapshotName)
}

// LoadSnapshot reads the precomputed cache. A missing file is not an error;
// it returns (nil, nil) so the caller falls through to fresh computation.
func LoadSnapshot(indexDir string) (*Snapshot, error) {
	data, err := os.ReadFile(snapshotPath(indexDir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading embeddings snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding embeddings snapshot: %w", err)
	}
	return &snap, nil
}

// SaveSnapshot persists freshly computed embeddings for future startups.
func SaveSnapshot(indexDir string, snap *Snapshot) error {
	if err := os.MkdirAll(indexDir, 0750); err != nil {
		return fmt.Errorf("creating index dir: %w", err)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding embeddings snapshot: %w", err)
	}

	tmp := snapshotPath(indexDir) + ".tmp"
	if err := os.WriteFile(tmp, data, 0640); err != nil {
		return fmt.Errorf("writing embeddings snapshot: %w", err)
	}
	return os.Rename(tmp, snapshotPath(indexDir))
}

// Matches reports whether the snapshot was computed from exactly the given
// corpus registry. Any added, removed or changed file invalidates it.
func (s *Snapshot) Matches(registry map[string]string) bool {
	if s == nil || len(s.Registry) != len(registry) {
		return false
	}
	for name, hash := range registry {
		if s.Registry[name] != hash {
			return false
		}
	}
	return true
}

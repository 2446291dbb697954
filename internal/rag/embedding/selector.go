package embedding

import (
	"errors"
	"fmt"

	"github.com/fgiraldo/ragapi/pkg/logger_i"
)

// ErrNoCapability is returned when no embedding path is configured at all.
var ErrNoCapability = errors.New("no embedding capability configured: set OPENAI_API_KEY, GOOGLE_API_KEY or enable OLLAMA_EMBEDDINGS")

// Candidate is one entry of the ordered capability list. Available is checked
// at selection time; Build constructs the client only for the chosen entry.
type Candidate struct {
	Name      string
	Available func() bool
	Build     func() (Embedder, error)
}

// Selection is the outcome of the build-time decision: either a snapshot to
// reuse verbatim or an embedder to compute with. Exactly one is set.
type Selection struct {
	Snapshot *Snapshot
	Embedder Embedder
}

// Source names the chosen path for logs and the persisted snapshot.
func (s Selection) Source() string {
	if s.Snapshot != nil {
		return "precomputed"
	}
	return s.Embedder.ProviderName()
}

// Selector owns the single decision of which embedding path a build or query
// uses. The candidate order is fixed at construction so the chosen path is
// observable instead of buried in fallback handling.
type Selector struct {
	indexDir   string
	candidates []Candidate
	logger     *logger_i.Logger
}

func NewSelector(indexDir string, candidates []Candidate) *Selector {
	return &Selector{
		indexDir:   indexDir,
		candidates: candidates,
		logger:     logger_i.NewLogger("Embedding Selector"),
	}
}

// SelectForBuild picks the embedding path for a full index build:
// a snapshot matching the current corpus wins, otherwise the first available
// provider in candidate order.
func (s *Selector) SelectForBuild(registry map[string]string) (Selection, error) {
	snap, err := LoadSnapshot(s.indexDir)
	if err != nil {
		// A corrupt snapshot must not block a rebuild; recompute instead.
		s.logger.Warn("Ignoring unreadable embeddings snapshot", "error", err)
	}
	if snap.Matches(registry) {
		s.logger.Info("Reusing precomputed embeddings", "provider", snap.Provider, "records", len(snap.Records))
		return Selection{Snapshot: snap}, nil
	}

	embedder, err := s.pickProvider()
	if err != nil {
		return Selection{}, err
	}
	return Selection{Embedder: embedder}, nil
}

// SelectForQuery picks the embedder for query-text embedding. The snapshot
// holds corpus vectors only, so queries always go to a live provider; the
// candidate order deliberately prefers the external APIs over a local model.
func (s *Selector) SelectForQuery() (Embedder, error) {
	return s.pickProvider()
}

// PersistComputed saves fresh embeddings as the new precomputed snapshot.
func (s *Selector) PersistComputed(snap *Snapshot) error {
	return SaveSnapshot(s.indexDir, snap)
}

func (s *Selector) pickProvider() (Embedder, error) {
	var tried []string
	for _, c := range s.candidates {
		if !c.Available() {
			tried = append(tried, c.Name)
			continue
		}
		embedder, err := c.Build()
		if err != nil {
			return nil, fmt.Errorf("embedding provider %s: %w", c.Name, err)
		}
		s.logger.Debug("Selected embedding provider", "provider", c.Name, "skipped", tried)
		return embedder, nil
	}
	return nil, ErrNoCapability
}

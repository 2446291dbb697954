package rag

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fgiraldo/ragapi/internal/config"
	"github.com/fgiraldo/ragapi/internal/data/store"
	"github.com/fgiraldo/ragapi/internal/domain/ragModel"
	"github.com/fgiraldo/ragapi/internal/metrics"
	"github.com/fgiraldo/ragapi/internal/rag/embedding"
	"github.com/fgiraldo/ragapi/internal/rag/ingest"
	"github.com/fgiraldo/ragapi/internal/rag/llm"
	"github.com/fgiraldo/ragapi/internal/rag/tracker"
	"github.com/fgiraldo/ragapi/internal/rag/vectorDB"
	"github.com/fgiraldo/ragapi/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

1. Service (Interface):
  - This is the PUBLIC contract.
  - It defines the "behavior" (what handlers can ask for).
  - We expose this to keep the HTTP layer decoupled from our specific logic.

2. service (Private Struct):
  - This is the PRIVATE implementation.
  - It holds the "state" (vector store, embedder, provider factory).
  - It is lowercase to prevent external packages from accessing our
    internal dependencies directly.

3. Pointer Receiver (*service):
  - By defining methods on (*service), the struct IMPLICITLY satisfies
    the Service interface.
  - if it quacks like a duck, -it's a duck (Duck Typing)

4. Dependency Injection (NewService):
  - This constructor links the private struct to the public interface.
  - It allows us to swap real stores for mocks during testing without
    changing the handlers' code.
*/

// ErrRebuildInProgress is returned when index mutation is requested while a
// rebuild or ingestion is already running.
var ErrRebuildInProgress = errors.New("index rebuild already in progress")

// Service is the question-answering and index-lifecycle surface the HTTP
// handlers call.
type Service interface {
	Initialize(ctx context.Context, force bool) error
	AnswerQuestion(ctx context.Context, question string, provider llm.Name, topK int, mode string) ragModel.AnswerResult
	IngestFile(ctx context.Context, path string) (int, error)
	Status(ctx context.Context) (initialized bool, totalDocuments int)
}

// AnswerSynthesizer generates the final answer from retrieved passages.
// answer.Synthesizer satisfies it; tests stub it to exercise the answered
// path without a live provider.
type AnswerSynthesizer interface {
	Synthesize(ctx context.Context, question string, passages []ragModel.Passage, provider llm.Name, mode string, startedAt time.Time) ragModel.AnswerResult
}

type service struct {
	vectorDB    vectorDB.DataProcessor
	selector    *embedding.Selector
	synthesizer AnswerSynthesizer
	consumption store.ConsumptionStore
	csvLog      *store.CSVLogger
	dataDir     string
	indexDir    string
	logger      *logger_i.Logger

	// indexMu guards the collection: mutations run under the write lock,
	// retrieval searches under the read lock, so a query never sees a
	// half-written index.
	indexMu sync.RWMutex

	stateMu       sync.RWMutex
	initialized   bool
	docCount      int
	queryEmbedder embedding.Embedder
}

// NewService constructor
func NewService(vector vectorDB.DataProcessor, selector *embedding.Selector, synthesizer AnswerSynthesizer, consumption store.ConsumptionStore, csvLog *store.CSVLogger, dataDir string, indexDir string) Service {
	return &service{
		vectorDB:    vector,
		selector:    selector,
		synthesizer: synthesizer,
		consumption: consumption,
		csvLog:      csvLog,
		dataDir:     dataDir,
		indexDir:    indexDir,
		logger:      logger_i.NewLogger("RAG Service :"),
	}
}

// Initialize brings the index in line with the document folder. When the
// stored registry still matches the corpus and the collection holds points,
// nothing is rebuilt; force skips that check. Concurrent calls beyond the
// first fail fast with ErrRebuildInProgress.
func (s *service) Initialize(ctx context.Context, force bool) error {
	if !s.indexMu.TryLock() {
		return ErrRebuildInProgress
	}
	defer s.indexMu.Unlock()

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("index_initialization", time.Since(start)) }()

	current, err := tracker.BuildRegistry(s.dataDir)
	if err != nil {
		return err
	}
	if len(current) == 0 {
		s.logger.Warn("No documents found, system stays uninitialized", "folder", s.dataDir)
		s.setState(false, 0)
		return nil
	}

	if !force {
		stored, err := tracker.LoadRegistry(s.indexDir)
		if err != nil {
			s.logger.Warn("Ignoring unreadable file registry", "error", err)
		}
		if !tracker.NeedsReindex(stored, current) {
			count, err := s.vectorDB.Count(ctx, config.CollectionName)
			if err == nil && count > 0 {
				s.logger.Info("Index is current, skipping rebuild", "documents", len(current), "chunks", count)
				s.setState(true, len(current))
				metrics.SetIndexedChunks(int(count))
				return nil
			}
		}
	}

	return s.rebuild(ctx, current)
}

func (s *service) rebuild(ctx context.Context, registry tracker.Registry) error {
	metrics.ReindexStarted()
	defer metrics.ReindexFinished()

	s.logger.Info("Rebuilding index", "documents", len(registry))

	// Resolve the embedding path before touching the collection: a rebuild
	// with no capability must not destroy the index it cannot replace.
	selection, err := s.selector.SelectForBuild(registry)
	if err != nil {
		return err
	}

	if err := s.vectorDB.Drop(ctx, config.CollectionName); err != nil {
		return err
	}

	records, err := s.populate(ctx, registry, selection)
	if err != nil {
		// The old collection is already gone; stop claiming a usable index.
		s.setState(false, 0)
		return err
	}

	s.setState(true, len(registry))
	metrics.SetIndexedChunks(len(records))
	s.logger.Info("Index rebuilt", "source", selection.Source(), "chunks", len(records))
	return nil
}

func (s *service) populate(ctx context.Context, registry tracker.Registry, selection embedding.Selection) ([]ragModel.EmbeddingRecord, error) {
	var records []ragModel.EmbeddingRecord
	if selection.Snapshot != nil {
		if err := s.vectorDB.EnsureCollection(ctx, config.CollectionName, uint64(selection.Snapshot.Dimension)); err != nil {
			return nil, err
		}
		if err := ingest.UpsertRecords(ctx, selection.Snapshot.Records, s.vectorDB, config.CollectionName); err != nil {
			return nil, err
		}
		records = selection.Snapshot.Records
	} else {
		chunks, err := ingest.ProcessFolder(s.dataDir)
		if err != nil {
			return nil, err
		}
		if err := s.vectorDB.EnsureCollection(ctx, config.CollectionName, uint64(selection.Embedder.Dimension())); err != nil {
			return nil, err
		}
		records, err = ingest.BatchIngest(ctx, chunks, s.vectorDB, selection.Embedder, config.CollectionName)
		if err != nil {
			return nil, err
		}
		snap := &embedding.Snapshot{
			Provider:  selection.Embedder.ProviderName(),
			Dimension: selection.Embedder.Dimension(),
			Registry:  registry,
			Records:   records,
		}
		if err := s.selector.PersistComputed(snap); err != nil {
			s.logger.Error("Could not persist embeddings snapshot", "error", err)
		}
	}

	// The registry is written last so a failed build never claims success.
	if err := tracker.SaveRegistry(s.indexDir, registry); err != nil {
		return nil, err
	}
	return records, nil
}

// AnswerQuestion runs retrieval and generation for one question. Every
// outcome is a tagged result, not an error: handlers map the tag to a
// transport status.
func (s *service) AnswerQuestion(ctx context.Context, question string, provider llm.Name, topK int, mode string) ragModel.AnswerResult {
	start := time.Now()
	loggr := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	initialized, _ := s.Status(ctx)
	if !initialized {
		return s.finishQuestion(ctx, question, ragModel.NotInitialized(), start)
	}

	if topK <= 0 {
		topK = config.DefaultTopK
	}

	embedder, err := s.getQueryEmbedder()
	if err != nil {
		loggr.Error("No embedding capability for query", "error", err)
		return s.finishQuestion(ctx, question, ragModel.GenerationError(err.Error(), []string{}, []string{}), start)
	}

	vector, err := s.executeEmbeddingStep(ctx, embedder, question)
	if err != nil {
		loggr.Error("Query embedding failed", "error", err)
		return s.finishQuestion(ctx, question, ragModel.GenerationError(err.Error(), []string{}, []string{}), start)
	}

	passages, err := s.executeVectorSearchStep(ctx, vector, topK)
	if err != nil {
		loggr.Error("Vector search failed", "error", err)
		return s.finishQuestion(ctx, question, ragModel.GenerationError(err.Error(), []string{}, []string{}), start)
	}
	if len(passages) == 0 {
		loggr.Debug("No relevant passages found")
		return s.finishQuestion(ctx, question, ragModel.EmptyRetrieval(), start)
	}

	result := s.executeLLMStep(ctx, question, passages, provider, mode, start)
	return s.finishQuestion(ctx, question, result, start)
}

// IngestFile indexes one already-saved document incrementally. The snapshot
// is left stale on purpose: the registry rewrite below makes the next startup
// recompute it for the grown corpus.
func (s *service) IngestFile(ctx context.Context, path string) (int, error) {
	if !s.indexMu.TryLock() {
		return 0, ErrRebuildInProgress
	}
	defer s.indexMu.Unlock()

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	chunks, err := ingest.ProcessDocument(path, filepathBase(path))
	if err != nil {
		return 0, err
	}

	embedder, err := s.getQueryEmbedder()
	if err != nil {
		return 0, err
	}
	if err := s.vectorDB.EnsureCollection(ctx, config.CollectionName, uint64(embedder.Dimension())); err != nil {
		return 0, err
	}
	if _, err := ingest.BatchIngest(ctx, chunks, s.vectorDB, embedder, config.CollectionName); err != nil {
		return 0, err
	}

	registry, err := tracker.BuildRegistry(s.dataDir)
	if err != nil {
		return 0, err
	}
	if err := tracker.SaveRegistry(s.indexDir, registry); err != nil {
		return 0, err
	}

	s.setState(true, len(registry))
	if count, err := s.vectorDB.Count(ctx, config.CollectionName); err == nil {
		metrics.SetIndexedChunks(int(count))
	}
	return len(chunks), nil
}

func (s *service) Status(ctx context.Context) (bool, int) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.initialized, s.docCount
}

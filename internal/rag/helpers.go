package rag

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fgiraldo/ragapi/internal/adapter/utils"
	"github.com/fgiraldo/ragapi/internal/config"
	"github.com/fgiraldo/ragapi/internal/domain/ragModel"
	"github.com/fgiraldo/ragapi/internal/metrics"
	"github.com/fgiraldo/ragapi/internal/rag/embedding"
	"github.com/fgiraldo/ragapi/internal/rag/llm"
)

func filepathBase(path string) string {
	return filepath.Base(path)
}

func (s *service) setState(initialized bool, docCount int) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.initialized = initialized
	s.docCount = docCount
}

// getQueryEmbedder resolves the query-side embedder once and reuses it; the
// selector's candidate order is deterministic so this stays consistent with
// the provider the index was built with.
func (s *service) getQueryEmbedder() (embedding.Embedder, error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if s.queryEmbedder != nil {
		return s.queryEmbedder, nil
	}
	embedder, err := s.selector.SelectForQuery()
	if err != nil {
		return nil, err
	}
	s.queryEmbedder = embedder
	return embedder, nil
}

func (s *service) executeEmbeddingStep(ctx context.Context, embedder embedding.Embedder, question string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return embedder.GetEmbedding(ctx, question)
}

// executeVectorSearchStep holds the index read lock for the duration of the
// search, so a running rebuild is observed either fully or not at all.
func (s *service) executeVectorSearchStep(ctx context.Context, vector []float32, topK int) ([]ragModel.Passage, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	s.indexMu.RLock()
	defer s.indexMu.RUnlock()
	return s.vectorDB.Search(ctx, config.CollectionName, vector, uint64(topK))
}

func (s *service) executeLLMStep(ctx context.Context, question string, passages []ragModel.Passage, provider llm.Name, mode string, startedAt time.Time) ragModel.AnswerResult {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.synthesizer.Synthesize(ctx, question, passages, provider, mode, startedAt)
}

// finishQuestion records metrics for every outcome and consumption for the
// answered ones. Accounting failures are logged, never surfaced.
func (s *service) finishQuestion(ctx context.Context, question string, result ragModel.AnswerResult, startedAt time.Time) ragModel.AnswerResult {
	metrics.CountQuestion(string(result.Kind))
	metrics.CaptureAnswerMetrics(string(result.Kind), time.Since(startedAt))

	if result.Consumption == nil {
		return result
	}
	if result.Consumption.TokensUsed != nil {
		metrics.AddTokensConsumed(*result.Consumption.TokensUsed)
	}

	rec := ragModel.ConsumptionRecord{
		SessionId:     utils.GetNewUUID(),
		Timestamp:     time.Now(),
		Query:         question,
		TokensUsed:    result.Consumption.TokensUsed,
		CostEstimated: result.Consumption.CostEstimated,
		LatencySec:    result.Consumption.LatencySec,
	}
	if s.csvLog != nil {
		if err := s.csvLog.Append(rec); err != nil {
			s.logger.Error("Could not append consumption log", "error", err)
		}
	}
	if s.consumption != nil {
		if err := s.consumption.Record(ctx, rec); err != nil {
			s.logger.Error("Could not record consumption", "error", err)
		}
	}
	return result
}

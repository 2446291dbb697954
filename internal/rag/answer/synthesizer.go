package answer

import (
	"context"
	"time"

	"github.com/fgiraldo/ragapi/internal/config"
	"github.com/fgiraldo/ragapi/internal/domain/ragModel"
	"github.com/fgiraldo/ragapi/internal/rag/llm"
	"github.com/fgiraldo/ragapi/pkg/logger_i"
)

// Synthesizer turns retrieved passages into a final answer through one of the
// configured LLM providers.
type Synthesizer struct {
	factory *llm.Factory
	logger  *logger_i.Logger
}

func NewSynthesizer(factory *llm.Factory) *Synthesizer {
	return &Synthesizer{
		factory: factory,
		logger:  logger_i.NewLogger("Answer Synthesizer"),
	}
}

// Synthesize builds the prompts, dispatches to the requested provider and
// attaches consumption accounting. startedAt is the moment retrieval began,
// so latency covers the full question, not just the LLM call. Provider and
// generation failures keep the retrieval evidence in the result.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, passages []ragModel.Passage, provider llm.Name, mode string, startedAt time.Time) ragModel.AnswerResult {
	loggr := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	sources := make([]string, len(passages))
	contextTexts := make([]string, len(passages))
	for i, p := range passages {
		sources[i] = p.Source
		contextTexts[i] = p.Text
	}

	systemPrompt, userPrompt := BuildPrompts(BuildContext(passages), question, mode)

	client, err := s.factory.GetClient(ctx, provider)
	if err != nil {
		loggr.Error("Provider unavailable", "provider", provider, "error", err)
		return ragModel.GenerationError(err.Error(), sources, contextTexts)
	}

	genCtx, cancel := context.WithTimeout(ctx, config.GenerationTimeout)
	defer cancel()

	loggr.Debug("Generating answer", "provider", provider, "mode", mode, "passages", len(passages))
	text, tokens, err := client.Complete(genCtx, systemPrompt, userPrompt, MaxTokensForMode(mode))
	if err != nil {
		loggr.Error("Generation failed", "provider", provider, "error", err)
		return ragModel.GenerationError(err.Error(), sources, contextTexts)
	}

	consumption := &ragModel.Consumption{
		TokensUsed: tokens,
		LatencySec: time.Since(startedAt).Seconds(),
	}
	if tokens != nil {
		cost := float64(*tokens) * config.CostPerToken
		consumption.CostEstimated = &cost
	}

	return ragModel.Answered(text, sources, contextTexts, consumption)
}

package gemini

import (
	"context"
	"errors"
	"sync"

	"google.golang.org/genai"

	"github.com/fgiraldo/ragapi/internal/config"
	"github.com/fgiraldo/ragapi/pkg/logger_i"
)

type llmClient struct {
	client    *genai.Client
	modelName string
}

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

// GetGeminiClient builds the process-wide Gemini client on first call and
// returns nil when construction failed.
func GetGeminiClient(ctx context.Context, apikey string, modelName string) *llmClient {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, apikey, modelName)
	})

	return geminiClient
}

func newGeminiClient(ctx context.Context, apikey string, modelName string) {

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
		return
	}
	geminiClient = &llmClient{client: c, modelName: modelName}
	logger.Info("Gemini client created", "model", modelName)
}

func (c *llmClient) Complete(ctx context.Context, systemPrompt string, userPrompt string, maxTokens int64) (string, *int64, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
		Temperature:     genai.Ptr(config.TemperatureOther),
		MaxOutputTokens: int32(maxTokens),
	}

	result, err := c.client.Models.GenerateContent(
		ctx,
		c.modelName,
		genai.Text(userPrompt),
		contentConfig,
	)
	if err != nil {
		loggr.Error("Error generating content: ", "error:", err)
		return "", nil, err
	}
	if result == nil {
		return "", nil, errors.New("empty generation response")
	}

	var totalTokens *int64
	if result.UsageMetadata != nil {
		t := int64(result.UsageMetadata.TotalTokenCount)
		totalTokens = &t
	}

	loggr.Debug("Generation done", "model", c.modelName)
	return result.Text(), totalTokens, nil
}

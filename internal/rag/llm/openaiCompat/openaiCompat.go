package openaiCompat

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/fgiraldo/ragapi/pkg/logger_i"
)

// Client talks to any chat-completions endpoint that speaks the OpenAI wire
// protocol. Groq is served by the same client with its base URL overridden.
type Client struct {
	api         openai.Client
	model       string
	temperature float32
	logger      *logger_i.Logger
}

func NewClient(component string, apikey string, baseURL string, model string, temperature float32) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apikey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{
		api:         openai.NewClient(opts...),
		model:       model,
		temperature: temperature,
		logger:      logger_i.NewLogger(component),
	}
}

func (c *Client) Complete(ctx context.Context, systemPrompt string, userPrompt string, maxTokens int64) (string, *int64, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Model:       c.model,
		Temperature: openai.Float(float64(c.temperature)),
		MaxTokens:   openai.Int(maxTokens),
	})
	if err != nil {
		c.logger.Error("Completion call failed", "model", c.model, "error", err)
		return "", nil, err
	}
	if len(resp.Choices) == 0 {
		return "", nil, errors.New("completion returned no choices")
	}

	// Some compatible endpoints omit usage; report unknown, not zero.
	var totalTokens *int64
	if resp.JSON.Usage.Valid() {
		t := resp.Usage.TotalTokens
		totalTokens = &t
	}
	c.logger.Debug("Completion done", "model", c.model, "tokens", totalTokens)
	return resp.Choices[0].Message.Content, totalTokens, nil
}

package openaiEmbedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/fgiraldo/ragapi/internal/config"
	"github.com/fgiraldo/ragapi/internal/rag/embedding"
	"github.com/fgiraldo/ragapi/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client
var dimension = int64(config.EmbeddingOutputDimensionality)

type client struct {
	api   openai.Client
	model string
}

func GetOpenAIEmbeddingClient(apikey string, modelName string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
		if apikey == "" {
			logger.Error("OpenAI embedding client requested without API key")
			return
		}
		embeddingClient = &client{
			api:   openai.NewClient(option.WithAPIKey(apikey)),
			model: modelName,
		}
		logger.Info("OpenAI Embedding client created", "model", modelName)
	})

	if embeddingClient == nil {
		return nil
	}
	return embeddingClient
}

func (c *client) ProviderName() string { return "openai" }

func (c *client) Dimension() int32 { return config.EmbeddingOutputDimensionality }

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("openai returned no embedding for query")
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	res, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model:      openai.EmbeddingModel(c.model),
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: chunks},
		Dimensions: openai.Int(dimension),
	})
	if err != nil {
		logger.Error("Error getting Embeddings from OpenAI", "error", err)
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(res.Data) != len(chunks) {
		return nil, fmt.Errorf("openai embeddings: got %d vectors for %d inputs", len(res.Data), len(chunks))
	}

	// Response data carries an index; order by it rather than trusting
	// the slice order.
	vectors := make([][]float32, len(chunks))
	for _, d := range res.Data {
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		vectors[d.Index] = vec
	}
	return vectors, nil
}

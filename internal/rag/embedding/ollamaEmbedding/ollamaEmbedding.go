package ollamaEmbedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/fgiraldo/ragapi/internal/customHttpClient"
	"github.com/fgiraldo/ragapi/internal/rag/embedding"
	"github.com/fgiraldo/ragapi/pkg/logger_i"
)

// nomic-embed-text output size
const ollamaDimension int32 = 768

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

type client struct {
	http    *http.Client
	baseURL string
	model   string
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// GetOllamaEmbeddingClient returns the local embedding capability. Ollama has
// no batch endpoint, so BatchEmbedding runs one request per text.
func GetOllamaEmbeddingClient(baseURL string, modelName string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("ollama_embedding")
		embeddingClient = &client{
			http:    customHttpClient.GetPooledClient(30 * time.Second),
			baseURL: baseURL,
			model:   modelName,
		}
		logger.Info("Ollama Embedding client created", "url", baseURL, "model", modelName)
	})
	return embeddingClient
}

func (c *client) ProviderName() string { return "ollama" }

func (c *client) Dimension() int32 { return ollamaDimension }

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: c.model, Prompt: query})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(raw))
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	vec := make([]float32, len(parsed.Embedding))
	for i, v := range parsed.Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))
	for _, chunk := range chunks {
		vec, err := c.GetEmbedding(ctx, chunk)
		if err != nil {
			// one failure aborts the pass, no partial batches
			return nil, err
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}

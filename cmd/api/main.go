// @title           PDF RAG API
// @version         1.0
// @description     Retrieval-augmented question answering over uploaded PDF documents
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/fgiraldo/ragapi/internal/config"
	"github.com/fgiraldo/ragapi/internal/data/store"
	"github.com/fgiraldo/ragapi/internal/handlers"
	"github.com/fgiraldo/ragapi/internal/rag"
	"github.com/fgiraldo/ragapi/internal/rag/answer"
	"github.com/fgiraldo/ragapi/internal/rag/embedding"
	"github.com/fgiraldo/ragapi/internal/rag/embedding/googleEmbedding"
	"github.com/fgiraldo/ragapi/internal/rag/embedding/ollamaEmbedding"
	"github.com/fgiraldo/ragapi/internal/rag/embedding/openaiEmbedding"
	"github.com/fgiraldo/ragapi/internal/rag/llm"
	"github.com/fgiraldo/ragapi/internal/rag/vectorDB/qdrantDB"
	"github.com/fgiraldo/ragapi/internal/server"
	"github.com/fgiraldo/ragapi/pkg/logger_i"
)

var listenAddr string

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	vectorDB := qdrantDB.GetQdrantClient(serviceContext)
	if vectorDB == nil {
		logger.Error("Qdrant failed to initialize. Shutting down.")
		return
	}

	selector := embedding.NewSelector(config.IndexDir(), buildEmbeddingCandidates(serviceContext))
	synthesizer := answer.NewSynthesizer(llm.NewFactory())

	var consumption store.ConsumptionStore
	if redisConsumption := store.GetRedisConsumptionStore(serviceContext); redisConsumption != nil {
		consumption = redisConsumption
	} else {
		logger.Error("Redis store is offline, keeping consumption history in memory")
		consumption = store.InitConsumptionStore()
	}
	csvLog := store.NewCSVLogger(config.CSVLogPath())

	ragService := rag.NewService(vectorDB, selector, synthesizer, consumption, csvLog, config.DataDir(), config.IndexDir())

	if err := ragService.Initialize(serviceContext, false); err != nil {
		if errors.Is(err, embedding.ErrNoCapability) {
			logger.Warn("Starting without an index", "reason", err)
		} else {
			logger.Error("Index initialization failed, starting uninitialized", "error", err)
		}
	}

	handlers.InitRagHandler(ragService)
	handlers.InitConsumptionHandler(consumption)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

// buildEmbeddingCandidates fixes the provider preference order. The
// PREFER_OPENAI_EMBEDDINGS flag only swaps the two API providers; the local
// Ollama model stays last and must be enabled explicitly.
func buildEmbeddingCandidates(ctx context.Context) []embedding.Candidate {
	openaiCandidate := embedding.Candidate{
		Name:      "openai",
		Available: func() bool { return config.OpenAIAPIKey() != "" },
		Build: func() (embedding.Embedder, error) {
			client := openaiEmbedding.GetOpenAIEmbeddingClient(config.OpenAIAPIKey(), config.OpenAIEmbeddingModel)
			if client == nil {
				return nil, errors.New("openai embedding client failed to initialize")
			}
			return client, nil
		},
	}
	googleCandidate := embedding.Candidate{
		Name:      "google",
		Available: func() bool { return config.GoogleAPIKey() != "" },
		Build: func() (embedding.Embedder, error) {
			client := googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, config.GoogleAPIKey())
			if client == nil {
				return nil, errors.New("google embedding client failed to initialize")
			}
			return client, nil
		},
	}
	ollamaCandidate := embedding.Candidate{
		Name:      "ollama",
		Available: config.OllamaEmbeddingsEnabled,
		Build: func() (embedding.Embedder, error) {
			client := ollamaEmbedding.GetOllamaEmbeddingClient(config.OllamaURL(), config.OllamaEmbeddingModel)
			if client == nil {
				return nil, errors.New("ollama embedding client failed to initialize")
			}
			return client, nil
		},
	}

	if config.PreferOpenAIEmbeddings() {
		return []embedding.Candidate{openaiCandidate, googleCandidate, ollamaCandidate}
	}
	return []embedding.Candidate{googleCandidate, openaiCandidate, ollamaCandidate}
}

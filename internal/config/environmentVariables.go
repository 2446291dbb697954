package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//chunking
	ChunkSize    = 500
	ChunkOverlap = 100

	//embeddings
	EmbeddingBatchSize                  = 100
	EmbeddingOutputDimensionality int32 = 1536
	OpenAIEmbeddingModel                = "text-embedding-3-small"
	GoogleEmbeddingModel                = "gemini-embedding-001"
	OllamaEmbeddingModel                = "nomic-embed-text"
	OllamaDefaultURL                    = "http://127.0.0.1:11434"

	//vector store
	CollectionName          = "document_chunks"
	QdrantHost              = ""
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false
	QdrantPoolSize          = 1
	QdrantConnectionTimeout = 30 * time.Second

	//llm policy
	DefaultTopK              = 3
	GenerationTimeout        = 60 * time.Second
	MaxTokensBrief           = 500
	MaxTokensDetailed        = 1500
	GroqModelName            = "llama-3.1-8b-instant"
	OpenAIModelName          = "gpt-4o"
	GeminiModelName          = "gemini-2.5-flash-lite-preview-09-2025"
	GroqBaseURL              = "https://api.groq.com/openai/v1"
	TemperatureGroq  float32 = 0.3
	TemperatureOther float32 = 0.7

	//consumption accounting
	CostPerToken = 0.00003

	//persisted state layout inside the index directory
	FileRegistryName       = "file_registry.json"
	EmbeddingsSnapshotName = "embeddings_precomputed.json"

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 90 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":8000"

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	RedisConsumptionStore = 0

	RedisConsumptionTTL = 24 * time.Hour
)

// Environment variable names checked at runtime. Credentials are looked up
// lazily so a missing key only fails the provider that needs it.
const (
	EnvGroqAPIKey   = "GROQ_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvGoogleAPIKey = "GOOGLE_API_KEY"

	EnvPreferOpenAIEmbeddings = "PREFER_OPENAI_EMBEDDINGS"
	EnvOllamaEmbeddings       = "OLLAMA_EMBEDDINGS"
	EnvOllamaURL              = "OLLAMA_URL"

	EnvAuthToken = "AUTH_TOKEN"

	EnvDataDir    = "RAG_DATA_DIR"
	EnvIndexDir   = "RAG_INDEX_DIR"
	EnvCSVLogPath = "CSV_LOG_PATH"
)

func GroqAPIKey() string { return os.Getenv(EnvGroqAPIKey) }

// AuthToken is the bearer token the middleware checks. Empty disables auth.
func AuthToken() string { return os.Getenv(EnvAuthToken) }
func OpenAIAPIKey() string { return os.Getenv(EnvOpenAIAPIKey) }
func GoogleAPIKey() string { return os.Getenv(EnvGoogleAPIKey) }

func PreferOpenAIEmbeddings() bool { return boolEnv(EnvPreferOpenAIEmbeddings, true) }
func OllamaEmbeddingsEnabled() bool {
	return boolEnv(EnvOllamaEmbeddings, false)
}

func OllamaURL() string {
	if v := os.Getenv(EnvOllamaURL); v != "" {
		return v
	}
	return OllamaDefaultURL
}

func DataDir() string {
	if v := os.Getenv(EnvDataDir); v != "" {
		return v
	}
	return "data"
}

func IndexDir() string {
	if v := os.Getenv(EnvIndexDir); v != "" {
		return v
	}
	return "vector_store"
}

func CSVLogPath() string {
	if v := os.Getenv(EnvCSVLogPath); v != "" {
		return v
	}
	return "logs/consumo_logs.csv"
}

func boolEnv(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes":
		return true
	case "0", "false", "FALSE", "False", "no":
		return false
	default:
		return fallback
	}
}

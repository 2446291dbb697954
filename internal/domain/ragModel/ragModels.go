package ragModel

import "time"

type DocType string

var (
	PDF  DocType = "PDF"
	DOCX DocType = "DOCX"
	TXT  DocType = "TXT"
	ERR  DocType = "ERROR"
)

type Document struct {
	Id                  string    `json:"source_doc_id"`
	Name                string    `json:"doc_name"`
	LastIngestTimestamp time.Time `json:"ingested_at"`
	ContentType         DocType   `json:"contentType"`
}

// DocChunk is the unit of retrieval: a bounded span of document text plus
// provenance. Immutable once produced by the chunker.
type DocChunk struct {
	Doc            Document
	ChunkId        string `json:"chunk_id"`
	Chunk          string `json:"content"`
	PageNum        int    `json:"page_num"`
	ChunkPageOrder int    `json:"chunk_order"`
}

// EmbeddingRecord pairs a chunk with its vector. All records of one index
// generation come from the same embedding provider, so Vector length is
// constant within a build.
type EmbeddingRecord struct {
	Id     string    `json:"id"`
	Vector []float32 `json:"vector"`
	Text   string    `json:"text"`
	Source string    `json:"source"`
	Page   int       `json:"page"`
}

// Passage is one ranked retrieval hit.
type Passage struct {
	Text     string  `json:"text"`
	Source   string  `json:"source"`
	Page     int     `json:"page"`
	ChunkId  string  `json:"chunk_id"`
	Distance float32 `json:"distance"`
}

// Consumption is the accounting attached to one answered question.
// TokensUsed and CostEstimated are nil when the provider did not report usage.
type Consumption struct {
	TokensUsed    *int64   `json:"tokens_used"`
	CostEstimated *float64 `json:"cost_estimated"`
	LatencySec    float64  `json:"latency_sec"`
}

// ConsumptionRecord is one append-only row of the consumption log.
type ConsumptionRecord struct {
	SessionId     string    `json:"session_id"`
	Timestamp     time.Time `json:"timestamp"`
	Query         string    `json:"query"`
	TokensUsed    *int64    `json:"tokens_used"`
	CostEstimated *float64  `json:"cost_estimated"`
	LatencySec    float64   `json:"latency_sec"`
}

type AnswerKind string

const (
	KindAnswered        AnswerKind = "answered"
	KindNotInitialized  AnswerKind = "not_initialized"
	KindEmptyRetrieval  AnswerKind = "empty_retrieval"
	KindGenerationError AnswerKind = "generation_error"
)

// AnswerResult is the tagged outcome of one question. GenerationError and
// Answered both carry the retrieval evidence so a failed generation never
// discards the sources already found.
type AnswerResult struct {
	Kind        AnswerKind   `json:"kind"`
	Answer      string       `json:"answer"`
	Sources     []string     `json:"sources"`
	Context     []string     `json:"context"`
	Consumption *Consumption `json:"consumption,omitempty"`
	ErrorDetail string       `json:"error_detail,omitempty"`
}

// Fixed user-facing answers. The service is Spanish-facing.
const (
	MsgNotInitialized = "El sistema RAG no está inicializado. Por favor, sube documentos PDF primero."
	MsgNoContext      = "No se encontró información relevante en los documentos."
)

func NotInitialized() AnswerResult {
	return AnswerResult{
		Kind:    KindNotInitialized,
		Answer:  MsgNotInitialized,
		Sources: []string{},
		Context: []string{},
	}
}

func EmptyRetrieval() AnswerResult {
	return AnswerResult{
		Kind:    KindEmptyRetrieval,
		Answer:  MsgNoContext,
		Sources: []string{},
		Context: []string{},
	}
}

func Answered(answer string, sources []string, contextTexts []string, c *Consumption) AnswerResult {
	return AnswerResult{
		Kind:        KindAnswered,
		Answer:      answer,
		Sources:     sources,
		Context:     contextTexts,
		Consumption: c,
	}
}

func GenerationError(detail string, sources []string, contextTexts []string) AnswerResult {
	return AnswerResult{
		Kind:        KindGenerationError,
		Answer:      "Error al generar respuesta: " + detail,
		Sources:     sources,
		Context:     contextTexts,
		ErrorDetail: detail,
	}
}

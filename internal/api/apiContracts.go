package api

// requests---------------------

type QuestionRequest struct {
	Question      string `json:"question" validate:"required" example:"¿Qué es un sistema experto?"`
	ModelProvider string `json:"model_provider" example:"groq"`
	Mode          string `json:"mode,omitempty" example:"breve"`
	TopK          int    `json:"top_k,omitempty" example:"3"`
}

// responses--------------------

type QuestionResponse struct {
	Answer        string   `json:"answer"`
	ModelProvider string   `json:"model_provider"`
	Sources       []string `json:"sources"`
	Mode          string   `json:"mode"`
	Confidence    float64  `json:"confidence"`
}

type UploadResponse struct {
	Message       string `json:"message"`
	ChunksIndexed int    `json:"chunks_indexed"`
}

type RebuildResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	RagInitialized bool   `json:"rag_initialized"`
	TotalDocuments int    `json:"total_documents"`
}

type ConsumptionEntry struct {
	SessionId     string   `json:"session_id"`
	Timestamp     string   `json:"timestamp" example:"2026-05-10 12:30:00"`
	Query         string   `json:"query"`
	TokensUsed    *int64   `json:"tokens_used"`
	CostEstimated *float64 `json:"cost_estimated"`
	LatencySec    float64  `json:"latency_sec"`
}

type ConsumptionResponse struct {
	Count   int                `json:"count"`
	Records []ConsumptionEntry `json:"records"`
}

type ErrorResponse struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Solo archivos PDF permitidos"`
}

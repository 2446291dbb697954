package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var questionsAnswered = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rag_questions_total",
	Help: "Questions processed, labelled by terminal outcome",
}, []string{"outcome"})

var indexedChunks = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "rag_indexed_chunks",
	Help: "Number of chunks currently held by the vector index",
})

var reindexInFlight = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "rag_reindex_in_flight",
	Help: "1 while a full index rebuild is running",
})

var tokensConsumed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "rag_llm_tokens_total",
	Help: "Total tokens reported by LLM providers",
})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) CaptureWriteHeaderMetrics(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func CountQuestion(outcome string) {
	questionsAnswered.WithLabelValues(outcome).Inc()
}

func SetIndexedChunks(count int) {
	indexedChunks.Set(float64(count))
}

func ReindexStarted() {
	reindexInFlight.Set(1)
}

func ReindexFinished() {
	reindexInFlight.Set(0)
}

func AddTokensConsumed(tokens int64) {
	tokensConsumed.Add(float64(tokens))
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "answer_question_duration_seconds",
	Help:    "Total time spent answering one question.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureAnswerMetrics(label string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

package adapter

import (
	"github.com/fgiraldo/ragapi/internal/api"
	"github.com/fgiraldo/ragapi/internal/domain/ragModel"
)

// retrieval distance is not calibrated into a probability, so the API
// reports a fixed confidence
const staticConfidence = 0.85

func ToQuestionResponse(result ragModel.AnswerResult, provider string, mode string) api.QuestionResponse {
	sources := result.Sources
	if sources == nil {
		sources = []string{}
	}
	return api.QuestionResponse{
		Answer:        result.Answer,
		ModelProvider: provider,
		Sources:       sources,
		Mode:          mode,
		Confidence:    staticConfidence,
	}
}

func ToUploadResponse(filename string, chunksIndexed int) api.UploadResponse {
	return api.UploadResponse{
		Message:       "Archivo " + filename + " guardado y chunks indexados",
		ChunksIndexed: chunksIndexed,
	}
}

// ToConsumptionResponse serializes history records newest first, timestamps
// in the same layout as the CSV audit log.
func ToConsumptionResponse(records []ragModel.ConsumptionRecord) api.ConsumptionResponse {
	entries := make([]api.ConsumptionEntry, len(records))
	for i, rec := range records {
		entries[i] = api.ConsumptionEntry{
			SessionId:     rec.SessionId,
			Timestamp:     rec.Timestamp.Format("2006-01-02 15:04:05"),
			Query:         rec.Query,
			TokensUsed:    rec.TokensUsed,
			CostEstimated: rec.CostEstimated,
			LatencySec:    rec.LatencySec,
		}
	}
	return api.ConsumptionResponse{
		Count:   len(entries),
		Records: entries,
	}
}

func BadRequest(message string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		Code:    code,
		Message: message,
	}
}

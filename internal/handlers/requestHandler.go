package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/fgiraldo/ragapi/internal/adapter"
	"github.com/fgiraldo/ragapi/internal/api"
	"github.com/fgiraldo/ragapi/internal/config"
	"github.com/fgiraldo/ragapi/internal/domain/ragModel"
	"github.com/fgiraldo/ragapi/internal/rag"
	"github.com/fgiraldo/ragapi/internal/rag/answer"
	"github.com/fgiraldo/ragapi/internal/rag/llm"
	"github.com/fgiraldo/ragapi/pkg/logger_i"
)

var logRH *logger_i.Logger
var ragService rag.Service

// InitRagHandler wires the service the handlers dispatch to. Must run before
// the server accepts traffic.
func InitRagHandler(service rag.Service) {
	logRH = logger_i.NewLogger("Request Handler")
	ragService = service
}

// HealthHandler godoc
// @Summary      Health check
// @Description  Reports liveness plus whether the RAG index is ready and how many documents back it.
// @Tags         Operations
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Router       /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	initialized, docs := ragService.Status(r.Context())
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{
		Status:         "ok",
		RagInitialized: initialized,
		TotalDocuments: docs,
	})
}

// QuestionHandler godoc
// @Summary      Ask a question
// @Description  Answers a question from the indexed documents using the requested LLM provider.
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        request  body      api.QuestionRequest  true  "Question, provider, mode and top_k"
// @Success      200      {object}  api.QuestionResponse
// @Failure      400      {object}  api.ErrorResponse  "Malformed body or unknown provider"
// @Failure      503      {object}  api.ErrorResponse  "Index not initialized"
// @Router       /question [post]
func QuestionHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.QuestionRequest
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logRH.Error("Couldn't close the Question handler reader :", err)
		}
	}(request.Body)
	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || requestData.Question == "" {
		logRH.Warn("Bad Question Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "Bad Request: question is required")
		return
	}

	providerStr := requestData.ModelProvider
	if providerStr == "" {
		providerStr = string(llm.Groq)
	}
	provider, err := llm.ParseName(providerStr)
	if err != nil {
		logRH.Warn("Unknown provider requested", "provider", providerStr)
		WriteErrorResponse(w, http.StatusBadRequest, "Unknown model_provider: "+providerStr)
		return
	}

	mode := requestData.Mode
	if mode == "" {
		mode = answer.ModeBrief
	}

	result := ragService.AnswerQuestion(request.Context(), requestData.Question, provider, requestData.TopK, mode)
	if result.Kind == ragModel.KindNotInitialized {
		WriteErrorResponse(w, http.StatusServiceUnavailable, ragModel.MsgNotInitialized)
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToQuestionResponse(result, string(provider), mode))
}

// UploadPDFHandler godoc
// @Summary      Upload a PDF
// @Description  Receives one PDF via multipart/form-data, stores it in the document folder and indexes its chunks.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "The PDF file to upload"
// @Success      200  {object}  api.UploadResponse
// @Failure      400  {object}  api.ErrorResponse  "Not a PDF or malformed upload"
// @Failure      409  {object}  api.ErrorResponse  "A rebuild is already running"
// @Failure      500  {object}  api.ErrorResponse  "Storage or indexing error"
// @Router       /upload_pdf [post]
func UploadPDFHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	const maxUploadSize = 32 << 20 //32mb
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("file")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	contentType := fileMetadata.Header.Get("Content-Type")
	if contentType != "application/pdf" {
		logRH.Warn("Rejected upload", "content-type", contentType, "file", fileMetadata.Filename)
		WriteErrorResponse(w, http.StatusBadRequest, "Solo archivos PDF permitidos")
		return
	}

	destPath, errMessage := saveUpload(fileReader, fileMetadata.Filename)
	if errMessage != "" {
		WriteErrorResponse(w, http.StatusInternalServerError, errMessage)
		return
	}

	chunksIndexed, err := ragService.IngestFile(r.Context(), destPath)
	if errors.Is(err, rag.ErrRebuildInProgress) {
		WriteErrorResponse(w, http.StatusConflict, "Index rebuild in progress, retry later")
		return
	}
	if err != nil {
		logRH.Error("Ingestion failed", "file", fileMetadata.Filename, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Indexing error")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToUploadResponse(fileMetadata.Filename, chunksIndexed))
}

// RebuildIndexHandler godoc
// @Summary      Rebuild the index
// @Description  Forces a full reindex of every document in the folder, replacing the current collection.
// @Tags         Operations
// @Produce      json
// @Success      200  {object}  api.RebuildResponse
// @Failure      409  {object}  api.ErrorResponse  "A rebuild is already running"
// @Failure      500  {object}  api.ErrorResponse
// @Router       /rebuild_index [post]
func RebuildIndexHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	err := ragService.Initialize(r.Context(), true)
	if errors.Is(err, rag.ErrRebuildInProgress) {
		WriteErrorResponse(w, http.StatusConflict, "Index rebuild in progress, retry later")
		return
	}
	if err != nil {
		logRH.Error("Rebuild failed", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJsonResponse(w, http.StatusOK, api.RebuildResponse{
		Status:  "success",
		Message: "Índice reconstruido completamente",
	})
}

func saveUpload(fileReader io.Reader, filename string) (string, string) {
	targetDir := config.DataDir()
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", "Storage Error"
	}

	destPath := filepath.Join(targetDir, filepath.Base(filename))
	destinationFileWriter, err := os.Create(destPath)
	if err != nil {
		return "", "Storage error"
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		return "", "Write error"
	}
	return destPath, ""
}

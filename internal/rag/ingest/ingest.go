package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fgiraldo/ragapi/internal/config"
	"github.com/fgiraldo/ragapi/internal/domain/ragModel"
	"github.com/fgiraldo/ragapi/internal/rag/embedding"
	"github.com/fgiraldo/ragapi/internal/rag/vectorDB"
	"github.com/fgiraldo/ragapi/pkg/logger_i"
)

type rawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

var logger = logger_i.NewLogger("Document Ingestion")

// ProcessDocument loads one file and returns its ordered chunks. A file that
// cannot be read or parsed fails the whole call; there is no partial-page
// recovery.
func ProcessDocument(docPath string, docName string) ([]ragModel.DocChunk, error) {
	docType := getDocType(docPath)
	if docType == ragModel.ERR {
		return nil, fmt.Errorf("unsupported document type: %s", filepath.Ext(docPath))
	}

	doc := ragModel.Document{
		Id:                  docName,
		Name:                docName,
		LastIngestTimestamp: time.Now(),
		ContentType:         docType,
	}

	pages, err := extractText(docPath, docType)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", docName, err)
	}

	chunks := PrepareChunks(pages, doc)
	logger.Debug("Processed document", "name", docName, "pages", len(pages), "chunks", len(chunks))
	return chunks, nil
}

// ProcessFolder chunks every PDF in the folder in stable name order.
// The first failing file aborts the batch.
func ProcessFolder(folder string) ([]ragModel.DocChunk, error) {
	pdfPaths, err := filepath.Glob(filepath.Join(folder, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", folder, err)
	}
	sort.Strings(pdfPaths)

	var allChunks []ragModel.DocChunk
	for _, path := range pdfPaths {
		chunks, err := ProcessDocument(path, filepath.Base(path))
		if err != nil {
			return nil, err
		}
		allChunks = append(allChunks, chunks...)
	}
	return allChunks, nil
}

// BatchIngest embeds chunks in fixed-size batches with a single embedder and
// upserts each batch. It returns every record written so the caller can
// persist them as the precomputed snapshot. Any batch failure aborts the
// whole pass and nothing further is upserted.
func BatchIngest(ctx context.Context, chunks []ragModel.DocChunk, db vectorDB.DataProcessor, embedder embedding.Embedder, collectionName string) ([]ragModel.EmbeddingRecord, error) {
	batchSize := config.EmbeddingBatchSize

	var allRecords []ragModel.EmbeddingRecord
	for i := 0; i < len(chunks); i += batchSize {
		end := i + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		currentBatch := chunks[i:end]

		texts := make([]string, len(currentBatch))
		for j, c := range currentBatch {
			texts[j] = c.Chunk
		}

		logger.Debug("Starting embedding call", "batch size", len(currentBatch), "provider", embedder.ProviderName())
		vectors, err := embedder.BatchEmbedding(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embedding batch failed: %w", err)
		}
		if len(vectors) != len(currentBatch) {
			return nil, fmt.Errorf("embedding batch returned %d vectors for %d chunks", len(vectors), len(currentBatch))
		}

		records := make([]ragModel.EmbeddingRecord, len(currentBatch))
		for j, c := range currentBatch {
			records[j] = ragModel.EmbeddingRecord{
				Id:     c.ChunkId,
				Vector: vectors[j],
				Text:   c.Chunk,
				Source: c.Doc.Name,
				Page:   c.PageNum,
			}
		}

		if err := db.UpsertBatch(ctx, collectionName, records); err != nil {
			return nil, fmt.Errorf("upserting batch failed: %w", err)
		}
		allRecords = append(allRecords, records...)
	}

	return allRecords, nil
}

// UpsertRecords writes precomputed records (snapshot fast path) in the same
// batch size the embedding path uses.
func UpsertRecords(ctx context.Context, records []ragModel.EmbeddingRecord, db vectorDB.DataProcessor, collectionName string) error {
	batchSize := config.EmbeddingBatchSize
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := db.UpsertBatch(ctx, collectionName, records[i:end]); err != nil {
			return fmt.Errorf("upserting precomputed batch failed: %w", err)
		}
	}
	return nil
}

// CleanupUpload removes a temporary upload after ingestion.
func CleanupUpload(path string) {
	if err := os.Remove(path); err != nil {
		logger.Error("Error removing file", "error", err)
	}
}

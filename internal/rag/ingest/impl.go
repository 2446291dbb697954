package ingest

import (
	"path/filepath"
	"strings"

	"github.com/fgiraldo/ragapi/internal/adapter/utils"
	"github.com/fgiraldo/ragapi/internal/config"
	"github.com/fgiraldo/ragapi/internal/domain/ragModel"
)

//splitter

// Separators ordered from "best" to "worst" for semantic meaning. The hard
// character cut is the implicit last resort.
var separators = []string{"\n\n", "\n", ". ", " "}

// splitTextIntoChunks cuts text into windows of at most limit characters.
// Each cut lands on the best separator available inside the window; every
// chunk after the first starts with the last overlap characters of its
// predecessor, so a sentence spanning a boundary is whole in one chunk.
// Chunks are exact slices of the input: dropping the overlap prefix of each
// subsequent chunk and concatenating reproduces the original text.
func splitTextIntoChunks(text string, limit int, overlap int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + limit
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}

		cut := findCut(text, start, end)
		chunks = append(chunks, text[start:cut])

		next := cut - overlap
		if next <= start {
			// window too small for the requested overlap, move on without it
			next = cut
		}
		start = next
	}
	return chunks
}

// findCut returns the position after the best separator found inside
// (start, end]; a hard cut at end when no separator exists in the window.
func findCut(text string, start int, end int) int {
	window := text[start:end]
	for _, sep := range separators {
		idx := strings.LastIndex(window, sep)
		if idx > 0 {
			return start + idx + len(sep)
		}
	}
	return end
}

func getDocType(docPath string) ragModel.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return ragModel.PDF
	case ".docx", ".txt", ".rtf":
		return ragModel.DOCX
	default:
		return ragModel.ERR
	}
}

// PrepareChunks splits each page and maps the pieces into DocChunks carrying
// provenance. Chunk order follows page order, then position within the page.
func PrepareChunks(pages []rawPage, doc ragModel.Document) []ragModel.DocChunk {
	var allChunks []ragModel.DocChunk

	for _, page := range pages {
		stringChunks := splitTextIntoChunks(page.Content, config.ChunkSize, config.ChunkOverlap)

		for i, text := range stringChunks {
			allChunks = append(allChunks, ragModel.DocChunk{
				Doc:            doc,
				ChunkId:        utils.GetNewUUID(),
				Chunk:          text,
				PageNum:        page.Number,
				ChunkPageOrder: i,
			})
		}
	}

	return allChunks
}

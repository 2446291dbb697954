package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/fgiraldo/ragapi/internal/config"
	"github.com/fgiraldo/ragapi/internal/domain/ragModel"
)

func buildText(words int) string {
	var b strings.Builder
	for i := 0; i < words; i++ {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString("palabra")
	}
	return b.String()
}

func TestSplitTextIntoChunks_ShortTextIsSingleChunk(t *testing.T) {
	text := "un texto corto"
	chunks := splitTextIntoChunks(text, 500, 100)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("chunk differs from input: %q", chunks[0])
	}
}

func TestSplitTextIntoChunks_EmptyText(t *testing.T) {
	if chunks := splitTextIntoChunks("", 500, 100); len(chunks) != 0 {
		t.Fatalf("expected no chunks for empty text, got %d", len(chunks))
	}
}

func TestSplitTextIntoChunks_RespectsLimit(t *testing.T) {
	text := buildText(400)
	chunks := splitTextIntoChunks(text, 500, 100)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 500 {
			t.Errorf("chunk %d exceeds limit: %d chars", i, len(c))
		}
		if len(c) == 0 {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

func TestSplitTextIntoChunks_OverlapReconstruction(t *testing.T) {
	text := buildText(400)
	overlap := 100
	chunks := splitTextIntoChunks(text, 500, overlap)

	// every chunk is an exact slice; dropping the overlap prefix of each
	// subsequent chunk must rebuild the original text
	var b strings.Builder
	b.WriteString(chunks[0])
	for _, c := range chunks[1:] {
		b.WriteString(c[overlap:])
	}
	if b.String() != text {
		t.Error("reconstructed text does not match input")
	}
}

func TestSplitTextIntoChunks_PrefersParagraphBreaks(t *testing.T) {
	para := strings.Repeat("a", 300)
	text := para + "\n\n" + para + " " + para
	chunks := splitTextIntoChunks(text, 500, 100)

	if !strings.HasSuffix(chunks[0], "\n\n") {
		t.Errorf("first chunk should end at the paragraph break, got suffix %q", chunks[0][len(chunks[0])-5:])
	}
}

func TestSplitTextIntoChunks_HardCutWithoutSeparators(t *testing.T) {
	text := strings.Repeat("x", 1200)
	chunks := splitTextIntoChunks(text, 500, 100)

	for i, c := range chunks {
		if len(c) > 500 {
			t.Errorf("chunk %d exceeds limit on separator-free text: %d", i, len(c))
		}
	}
	if len(chunks[0]) != 500 {
		t.Errorf("expected a hard cut at the limit, got %d chars", len(chunks[0]))
	}
}

func TestSplitTextIntoChunks_Deterministic(t *testing.T) {
	text := buildText(350)
	first := splitTextIntoChunks(text, 500, 100)
	second := splitTextIntoChunks(text, 500, 100)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestPrepareChunks_PageProvenance(t *testing.T) {
	doc := ragModel.Document{
		Id:                  "manual.pdf",
		Name:                "manual.pdf",
		LastIngestTimestamp: time.Now(),
		ContentType:         ragModel.PDF,
	}
	pages := []rawPage{
		{Number: 1, Content: buildText(200)},
		{Number: 3, Content: "página corta"},
	}

	chunks := PrepareChunks(pages, doc)
	if len(chunks) < 3 {
		t.Fatalf("expected chunks from both pages, got %d", len(chunks))
	}

	seen := map[string]bool{}
	lastPage := 0
	for _, c := range chunks {
		if c.Doc.Name != doc.Name {
			t.Errorf("chunk lost its document: %q", c.Doc.Name)
		}
		if c.PageNum != 1 && c.PageNum != 3 {
			t.Errorf("unexpected page number %d", c.PageNum)
		}
		if c.PageNum < lastPage {
			t.Error("chunks are not in page order")
		}
		lastPage = c.PageNum
		if c.ChunkId == "" {
			t.Error("chunk has no id")
		}
		if seen[c.ChunkId] {
			t.Errorf("duplicate chunk id %s", c.ChunkId)
		}
		seen[c.ChunkId] = true
	}

	if last := chunks[len(chunks)-1]; last.Chunk != "página corta" || last.ChunkPageOrder != 0 {
		t.Errorf("short page should be one chunk with order 0, got %+v", last)
	}
}

func TestPrepareChunks_UsesConfiguredWindow(t *testing.T) {
	doc := ragModel.Document{Name: "doc.pdf", ContentType: ragModel.PDF}
	pages := []rawPage{{Number: 1, Content: buildText(500)}}

	for _, c := range PrepareChunks(pages, doc) {
		if len(c.Chunk) > config.ChunkSize {
			t.Errorf("chunk exceeds configured size: %d", len(c.Chunk))
		}
	}
}

func TestGetDocType(t *testing.T) {
	cases := []struct {
		path string
		want ragModel.DocType
	}{
		{"a/b/manual.pdf", ragModel.PDF},
		{"notas.PDF", ragModel.PDF},
		{"informe.docx", ragModel.DOCX},
		{"readme.txt", ragModel.DOCX},
		{"archivo.exe", ragModel.ERR},
		{"sin_extension", ragModel.ERR},
	}
	for _, tc := range cases {
		if got := getDocType(tc.path); got != tc.want {
			t.Errorf("getDocType(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

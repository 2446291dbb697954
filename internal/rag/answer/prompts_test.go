package answer

import (
	"strings"
	"testing"

	"github.com/fgiraldo/ragapi/internal/domain/ragModel"
)

func TestBuildContext_Format(t *testing.T) {
	passages := []ragModel.Passage{
		{Text: "primer fragmento", Source: "manual.pdf", Page: 4},
		{Text: "segundo fragmento", Source: "guia.pdf", Page: 12},
	}

	got := BuildContext(passages)

	if !strings.Contains(got, "[Fragmento 1 - Fuente: manual.pdf, Página: 4]:\nprimer fragmento\n\n") {
		t.Errorf("first fragment badly formatted:\n%s", got)
	}
	if !strings.Contains(got, "[Fragmento 2 - Fuente: guia.pdf, Página: 12]:\nsegundo fragmento\n\n") {
		t.Errorf("second fragment badly formatted:\n%s", got)
	}
	if strings.Index(got, "Fragmento 1") > strings.Index(got, "Fragmento 2") {
		t.Error("fragments out of order")
	}
}

func TestBuildContext_Empty(t *testing.T) {
	if got := BuildContext(nil); got != "" {
		t.Errorf("expected empty context, got %q", got)
	}
}

func TestBuildPrompts_DetailedMode(t *testing.T) {
	system, user := BuildPrompts("CTX", "¿qué es?", ModeDetailed)

	if !strings.Contains(system, "didáctica") {
		t.Error("detailed system prompt missing")
	}
	if !strings.Contains(user, "Contexto:\nCTX\nPregunta: ¿qué es?\n") {
		t.Errorf("user prompt header malformed:\n%s", user)
	}
	if !strings.Contains(user, "Divide la respuesta en párrafos") {
		t.Error("detailed user instructions missing")
	}
}

func TestBuildPrompts_BriefMode(t *testing.T) {
	system, user := BuildPrompts("CTX", "¿qué es?", ModeBrief)

	if !strings.Contains(system, "breve, clara y concisa") {
		t.Error("brief system prompt missing")
	}
	if !strings.Contains(user, "respuesta rápida y precisa") {
		t.Error("brief user instructions missing")
	}
}

func TestBuildPrompts_UnknownModeFallsBackToBrief(t *testing.T) {
	system, _ := BuildPrompts("CTX", "q", "extensa")
	if !strings.Contains(system, "breve, clara y concisa") {
		t.Error("unknown mode should use the brief prompts")
	}
}

func TestMaxTokensForMode(t *testing.T) {
	if got := MaxTokensForMode(ModeDetailed); got != 1500 {
		t.Errorf("detailed cap = %d, want 1500", got)
	}
	if got := MaxTokensForMode(ModeBrief); got != 500 {
		t.Errorf("brief cap = %d, want 500", got)
	}
	if got := MaxTokensForMode("whatever"); got != 500 {
		t.Errorf("unknown mode cap = %d, want 500", got)
	}
}

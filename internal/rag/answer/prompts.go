package answer

import (
	"fmt"
	"strings"

	"github.com/fgiraldo/ragapi/internal/config"
	"github.com/fgiraldo/ragapi/internal/domain/ragModel"
)

// Answer modes. Anything that is not ModeDetailed falls back to the brief
// prompts and token cap.
const (
	ModeBrief    = "breve"
	ModeDetailed = "detallada"
)

const (
	systemPromptDetailed = "Eres un asistente experto que responde siempre **usando exclusivamente la información proporcionada en el contexto**." +
		"No utilices conocimientos propios ni fuentes externas. Si la respuesta no está en el contexto, indica explícitamente: 'No hay suficiente información en los documentos proporcionados para responder a esta pregunta.' " +
		"Responde de manera didáctica, detallada y con referencias (Documento origen) sólo si aparecen en el contexto."

	systemPromptBrief = "Eres un asistente que responde siempre de forma breve, clara y concisa. " +
		"Máximo 2-3 oraciones. Usa solo el contexto proporcionado y sé directo."

	userPromptDetailedSuffix = "Responde utilizando únicamente información encontrada en el contexto anterior. No inventes ni completes con datos externos. " +
		"Si la información no está en los fragmentos dados, responde: 'No hay suficiente información en los documentos proporcionados para responder a esta pregunta.' " +
		"Incluye referencias (nombre del documento origen) solamente si aparecen explícitamente en el contexto. Divide la respuesta en párrafos si es necesario."

	userPromptBriefSuffix = "Proporciona una respuesta rápida y precisa." +
		"Responde utilizando únicamente información encontrada en el contexto anterior. No inventes ni completes con datos externos. "
)

// BuildContext renders the retrieved passages as the numbered context block
// the prompts reference. Fragment numbers start at 1.
func BuildContext(passages []ragModel.Passage) string {
	var b strings.Builder
	for i, p := range passages {
		fmt.Fprintf(&b, "[Fragmento %d - Fuente: %s, Página: %d]:\n%s\n\n", i+1, p.Source, p.Page, p.Text)
	}
	return b.String()
}

// BuildPrompts assembles the system and user prompts for the given mode.
func BuildPrompts(contextBlock string, question string, mode string) (systemPrompt string, userPrompt string) {
	header := fmt.Sprintf("Contexto:\n%s\nPregunta: %s\n", contextBlock, question)

	if mode == ModeDetailed {
		return systemPromptDetailed, header + userPromptDetailedSuffix
	}
	return systemPromptBrief, header + userPromptBriefSuffix
}

// MaxTokensForMode returns the generation cap for the mode.
func MaxTokensForMode(mode string) int64 {
	if mode == ModeDetailed {
		return config.MaxTokensDetailed
	}
	return config.MaxTokensBrief
}

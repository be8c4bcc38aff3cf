package service

import (
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

const maxAILogSnippetRunes = 1024

// logAIExchange 输出 AI 请求与响应的关键信息，过长的内容会被截断。
func logAIExchange(kind, phase, content string) {
	trimmed := strings.TrimSpace(content)
	runeCount := utf8.RuneCountInString(trimmed)
	snippet := trimmed
	if runeCount > maxAILogSnippetRunes {
		snippet = string([]rune(trimmed)[:maxAILogSnippetRunes]) + "…(truncated)"
	}
	log.Debug().
		Str("kind", kind).
		Str("phase", phase).
		Int("runes", runeCount).
		Str("snippet", snippet).
		Msg("ai exchange")
}

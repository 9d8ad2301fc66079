package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

var (
	thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)
	codeFence  = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
)

// StripThinking removes <think>...</think> reasoning blocks that some local
// models emit before their reply, plus an unterminated trailing block.
func StripThinking(text string) string {
	text = thinkBlock.ReplaceAllString(text, "")
	if i := strings.Index(text, "<think>"); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

// extractJSON unwraps a reply that should be a single JSON object. Models
// without native structured output often fence it or add a lead-in line.
func extractJSON(text string) string {
	if m := codeFence.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return text
	}
	return text[start : end+1]
}

// finishReply applies the request's output contract to the raw model text.
// Plain replies lose their reasoning blocks and must not be empty.
// Structured replies are unwrapped, must not be truncated and must match
// the schema.
func finishReply(req Request, raw, stopReason string) (json.RawMessage, error) {
	text := StripThinking(raw)

	if req.Schema == nil {
		if text == "" {
			return nil, &ErrInvalidResponse{
				Content: json.RawMessage(raw),
				Err:     errors.New("empty reply"),
			}
		}
		return json.RawMessage(text), nil
	}

	content := json.RawMessage(extractJSON(text))
	if stopReason == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	return content, nil
}

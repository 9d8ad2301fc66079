package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	return &AnthropicProvider{
		client: &client,
		model:  "claude-haiku-4-5-20251001",
	}
}

// anthropicReply serves a single assistant message.
func anthropicReply(text, stopReason string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_test",
			"type":        "message",
			"role":        "assistant",
			"content":     []map[string]any{{"type": "text", "text": text}},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": stopReason,
			"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
		})
	}
}

func anthropicFailure(status int, header map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for k, v := range header {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": "api_error", "message": http.StatusText(status)},
		})
	}
}

func TestAnthropicProvider_Replies(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		stop    string
		schema  *Schema
		want    string
		wantErr any
	}{
		{
			name:   "structured score",
			text:   `{"score":72}`,
			stop:   "end_turn",
			schema: scoreSchema(),
			want:   `{"score":72}`,
		},
		{
			name: "question with reasoning block",
			text: "<think>they skipped the base case</think>\nWhat happens when the list is empty?",
			stop: "end_turn",
			want: "What happens when the list is empty?",
		},
		{
			name: "truncated question is kept",
			text: "So when you say a heap is a tree, does every",
			stop: "max_tokens",
			want: "So when you say a heap is a tree, does every",
		},
		{
			name:    "truncated score fails",
			text:    `{"sco`,
			stop:    "max_tokens",
			schema:  scoreSchema(),
			wantErr: new(*ErrMaxTokensExceeded),
		},
		{
			name:    "score out of range",
			text:    `{"score":140}`,
			stop:    "end_turn",
			schema:  scoreSchema(),
			wantErr: new(*ErrInvalidResponse),
		},
		{
			name:    "only reasoning",
			text:    "<think>hmm</think>",
			stop:    "end_turn",
			wantErr: new(*ErrInvalidResponse),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestAnthropicProvider(t, anthropicReply(tt.text, tt.stop))
			resp, err := p.Generate(context.Background(), Request{
				System:    "You are a curious student.",
				Messages:  []Message{{Role: RoleUser, Content: "A heap is a tree where parents beat children."}},
				Schema:    tt.schema,
				MaxTokens: 128,
			})
			if tt.wantErr != nil {
				if err == nil || !errors.As(err, tt.wantErr) {
					t.Fatalf("expected %T, got %T (%v)", tt.wantErr, err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Text() != tt.want {
				t.Errorf("content = %q, want %q", resp.Text(), tt.want)
			}
			if resp.Usage.TotalTokens != 80 {
				t.Errorf("total tokens = %d, want 80", resp.Usage.TotalTokens)
			}
		})
	}
}

func TestAnthropicProvider_SendsPersonaAndTranscript(t *testing.T) {
	var body struct {
		System   []map[string]any `json:"system"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	handler := func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		anthropicReply("Why?", "end_turn")(w, r)
	}

	p := newTestAnthropicProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{
		System: "You are a curious student.",
		Messages: []Message{
			{Role: RoleUser, Content: "Teach me"},
			{Role: RoleAssistant, Content: "What is a heap?"},
			{Role: RoleUser, Content: "A tree."},
		},
		MaxTokens: 64,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(body.System) != 1 || body.System[0]["text"] != "You are a curious student." {
		t.Errorf("system = %v", body.System)
	}
	roles := make([]string, len(body.Messages))
	for i, m := range body.Messages {
		roles[i] = m.Role
	}
	if len(roles) != 3 || roles[0] != "user" || roles[1] != "assistant" || roles[2] != "user" {
		t.Errorf("roles = %v", roles)
	}
}

func TestAnthropicProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		header  map[string]string
		wantErr any
	}{
		{"rate limited", http.StatusTooManyRequests, map[string]string{"Retry-After": "7"}, new(*ErrRateLimit)},
		{"bad key", http.StatusUnauthorized, nil, new(*ErrRequestRejected)},
		{"overloaded", http.StatusInternalServerError, nil, new(*ErrProviderUnavailable)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestAnthropicProvider(t, anthropicFailure(tt.status, tt.header))
			_, err := p.Generate(context.Background(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "test"}},
				MaxTokens: 100,
			})
			if err == nil || !errors.As(err, tt.wantErr) {
				t.Fatalf("expected %T, got %T (%v)", tt.wantErr, err, err)
			}
		})
	}
}

func TestAnthropicProvider_RetryAfterHeader(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicFailure(http.StatusTooManyRequests, map[string]string{"Retry-After": "7"}))
	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "test"}},
		MaxTokens: 100,
	})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T", err)
	}
	if rl.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %s, want 7s", rl.RetryAfter)
	}
}

func TestAnthropicModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"claude-sonnet", "claude-sonnet-4-5-20250929"},
		{"claude-haiku", "claude-haiku-4-5-20251001"},
		{"claude-opus-4-1", "claude-opus-4-1"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, anthropicModels); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
	if p := (&AnthropicProvider{model: "claude-haiku-4-5-20251001"}); p.ModelID() != "claude-haiku-4-5-20251001" {
		t.Errorf("ModelID = %q", p.ModelID())
	}
}

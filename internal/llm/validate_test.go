package llm

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func scoreSchema() *Schema {
	return &Schema{
		Name:        "test-answer-score",
		Description: "Predicted exam score",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"score": map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			},
			"required":             []any{"score"},
			"additionalProperties": false,
		},
	}
}

func testSchema() *Schema {
	return &Schema{
		Name:        "test-duck-turn",
		Description: "A duck turn",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"message": map[string]any{"type": "string"},
				"turn":    map[string]any{"type": "integer", "minimum": 0},
				"tone":    map[string]any{"type": "string", "enum": []any{"curious", "confused", "encouraging"}},
			},
			"required": []any{"message", "turn"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		raw     string
		wantErr bool
	}{
		{"valid", testSchema(), `{"message":"Why?","turn":2,"tone":"curious"}`, false},
		{"valid without optional", testSchema(), `{"message":"Why?","turn":0}`, false},
		{"missing required", testSchema(), `{"message":"Why?"}`, true},
		{"wrong type", testSchema(), `{"message":"Why?","turn":"two"}`, true},
		{"invalid enum", testSchema(), `{"message":"Why?","turn":1,"tone":"bored"}`, true},
		{"malformed JSON", testSchema(), `{not json}`, true},
		{"empty response", testSchema(), ``, true},
		{"score in range", scoreSchema(), `{"score":85}`, false},
		{"score boundary", scoreSchema(), `{"score":100}`, false},
		{"score above range", scoreSchema(), `{"score":101}`, true},
		{"score negative", scoreSchema(), `{"score":-1}`, true},
		{"score fractional", scoreSchema(), `{"score":72.5}`, true},
		{"score extra field", scoreSchema(), `{"score":50,"reason":"ok"}`, true},
		{"bare number", scoreSchema(), `85`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(tt.schema, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invErr *ErrInvalidResponse
				if !errors.As(err, &invErr) {
					t.Fatalf("expected ErrInvalidResponse, got: %T", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	raw := json.RawMessage(`plain text is fine`)
	if err := validateResponse(nil, raw); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_NestedObjects(t *testing.T) {
	schema := &Schema{
		Name:        "test-transcript",
		Description: "Nested test",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"session": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"topic": map[string]any{"type": "string"},
					},
					"required": []any{"topic"},
				},
				"scores": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "integer"},
				},
			},
			"required": []any{"session", "scores"},
		},
	}

	valid := json.RawMessage(`{"session":{"topic":"recursion"},"scores":[45,20,70]}`)
	if err := validateResponse(schema, valid); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	invalid := json.RawMessage(`{"session":{"topic":"recursion"},"scores":["not","ints"]}`)
	if err := validateResponse(schema, invalid); err == nil {
		t.Fatal("expected error for wrong array item type")
	}
}

func TestValidateResponse_NamesTheSchema(t *testing.T) {
	err := validateResponse(scoreSchema(), json.RawMessage(`{"score":"high"}`))
	if err == nil || !strings.Contains(err.Error(), "test-answer-score reply rejected") {
		t.Fatalf("unexpected error: %v", err)
	}

	err = validateResponse(scoreSchema(), json.RawMessage(`score: 80`))
	if err == nil || !strings.Contains(err.Error(), "test-answer-score reply is not JSON") {
		t.Fatalf("unexpected error: %v", err)
	}
}

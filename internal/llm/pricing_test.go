package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model     string
		wantIn    float64
		wantOut   float64
		wantKnown bool
	}{
		{"claude-haiku-4-5-20251001", 1, 5, true},
		{"claude-sonnet-4-5-20250929", 3, 15, true},
		{"gpt-4o-mini", 0.15, 0.6, true},
		{"gpt-4o-2024-08-06", 2.5, 10, true},
		{"gpt-4.1-mini", 0.4, 1.6, true},
		{"gemini-2.5-flash-001", 0.3, 2.5, true},
		{"gemini-2.5-flash-lite", 0.1, 0.4, true},
		{"google/gemini-2.0-flash-exp", 0, 0, true},
		{"anthropic/claude-3-haiku", 0.25, 1.25, true},
		{"GPT-5", 1.25, 10, true},
		{"qwen3:8b", 0, 0, false},
		{"gpt-4o2", 0, 0, false},
		{"mock", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			c := LookupCost(tt.model)
			if !tt.wantKnown {
				assert.Nil(t, c)
				return
			}
			require.NotNil(t, c)
			assert.Equal(t, tt.wantIn, c.InputPerMTok)
			assert.Equal(t, tt.wantOut, c.OutputPerMTok)
		})
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 1, OutputPerMTok: 5}
	// One scoring call: a long prompt and a tiny JSON reply.
	assert.InDelta(t, 0.00122, c.Cost(1200, 4), 1e-9)
	assert.Zero(t, ModelCost{}.Cost(5000, 5000))
}

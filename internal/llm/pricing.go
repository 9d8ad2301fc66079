package llm

import (
	"sort"
	"strings"
)

// ModelCost is a model's list price in USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost prices one request.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1e6
}

// LookupCost prices a served model ID. Dated snapshots ("-20251001"),
// served versions ("-001") and OpenRouter vendor prefixes resolve to their
// family's entry. Unknown and local models yield nil.
func LookupCost(modelID string) *ModelCost {
	id := strings.ToLower(modelID)
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	for _, p := range pricesByPrefix {
		if id == p.prefix || strings.HasPrefix(id, p.prefix+"-") {
			c := p.cost
			return &c
		}
	}
	return nil
}

type modelPrice struct {
	prefix string
	cost   ModelCost
}

// pricesByPrefix is sorted longest prefix first so "gpt-4o-mini" is found
// before "gpt-4o". Prices as of 2026-02.
var pricesByPrefix = func() []modelPrice {
	table := []modelPrice{
		{"claude-haiku-4-5", ModelCost{1, 5}},
		{"claude-sonnet-4-5", ModelCost{3, 15}},
		{"claude-sonnet-4", ModelCost{3, 15}},
		{"claude-opus-4-5", ModelCost{5, 25}},
		{"claude-opus-4-1", ModelCost{15, 75}},
		{"claude-3-5-haiku", ModelCost{0.8, 4}},
		{"claude-3-haiku", ModelCost{0.25, 1.25}},

		{"gpt-4o", ModelCost{2.5, 10}},
		{"gpt-4o-mini", ModelCost{0.15, 0.6}},
		{"gpt-4.1", ModelCost{2, 8}},
		{"gpt-4.1-mini", ModelCost{0.4, 1.6}},
		{"gpt-4.1-nano", ModelCost{0.1, 0.4}},
		{"gpt-5", ModelCost{1.25, 10}},
		{"gpt-5-mini", ModelCost{0.25, 2}},
		{"gpt-5-nano", ModelCost{0.05, 0.4}},
		{"o4-mini", ModelCost{1.1, 4.4}},

		{"gemini-2.0-flash", ModelCost{0.1, 0.4}},
		{"gemini-2.0-flash-exp", ModelCost{0, 0}},
		{"gemini-2.5-flash", ModelCost{0.3, 2.5}},
		{"gemini-2.5-flash-lite", ModelCost{0.1, 0.4}},
		{"gemini-2.5-pro", ModelCost{1.25, 10}},
	}
	sort.SliceStable(table, func(i, j int) bool {
		return len(table[i].prefix) > len(table[j].prefix)
	})
	return table
}()

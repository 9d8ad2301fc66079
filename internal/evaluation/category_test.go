package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "Still learning"},
		{199, "Still learning"},
		{200, "Basic understanding"},
		{399, "Basic understanding"},
		{400, "Solid understanding"},
		{599, "Solid understanding"},
		{600, "Strong mastery"},
		{950, "Strong mastery"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategoryFor(tt.score), "score %d", tt.score)
	}
}

func TestPercentageFor(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{0, 0},
		{4, 1}, // 0.5 rounds up
		{3, 0},
		{70, 9},
		{400, 50},
		{800, 100},
		{1200, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PercentageFor(tt.score), "score %d", tt.score)
	}
}

func TestFinalAssessment_Buckets(t *testing.T) {
	assert.Contains(t, FinalAssessment(600), "You really know this topic well")
	assert.Contains(t, FinalAssessment(400), "solid understanding")
	assert.Contains(t, FinalAssessment(200), "Good start!")
	assert.Contains(t, FinalAssessment(196), "Good start!") // 24.5% rounds to 25
	assert.Contains(t, FinalAssessment(100), "Thanks for teaching me!")
}

func TestFeedbackBand(t *testing.T) {
	tests := []struct {
		score  int
		prefix string
	}{
		{100, "Outstanding"},
		{90, "Outstanding"},
		{89, "Great"},
		{70, "Good"},
		{65, "Fair"},
		{50, "Okay"},
		{49, "Keep teaching!"},
		{0, "Keep teaching!"},
	}
	for _, tt := range tests {
		assert.Contains(t, FeedbackBand(tt.score), tt.prefix, "score %d", tt.score)
	}
	assert.Len(t, FeedbackBands(), 6)
}

func TestDeltaFromExternal(t *testing.T) {
	assert.Equal(t, 0, DeltaFromExternal(-5))
	assert.Equal(t, 35, DeltaFromExternal(50))
	assert.Equal(t, MaxDeltaPoints, DeltaFromExternal(100))
	assert.Equal(t, MaxDeltaPoints, DeltaFromExternal(250))
}

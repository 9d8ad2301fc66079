package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_StrongAnswerEarnsEveryCategory(t *testing.T) {
	res := Score(strongAnswer)

	assert.Equal(t, MaxDeltaPoints, res.DeltaPoints)
	assert.Equal(t, Breakdown{
		ClarityPts:                 20,
		CoherencePts:               15,
		ExamplePts:                 10,
		ContradictionResolutionPts: 15,
		DepthPts:                   10,
	}, res.Breakdown)
	assert.Equal(t,
		"Clear and well-structured explanation. Strong reasoning demonstrated. Great use of examples. "+
			"Excellent explanation that clears things up! Outstanding depth of understanding!",
		res.Feedback)
}

func TestScore_NothingTriggered(t *testing.T) {
	res := Score("A BST is a tree where left children are smaller")
	assert.Equal(t, 0, res.DeltaPoints)
	assert.Equal(t, "Keep going!", res.Feedback)
	assert.Equal(t, Breakdown{}, res.Breakdown)
}

func TestScoreAnalysis_RulesAreIndependent(t *testing.T) {
	tests := []struct {
		name     string
		analysis ResponseAnalysis
		want     Breakdown
	}{
		{
			name:     "examples only",
			analysis: ResponseAnalysis{Clarity: 10, Coherence: 50, Completeness: 40, HasExamples: true},
			want:     Breakdown{ExamplePts: 10},
		},
		{
			name:     "coherence only",
			analysis: ResponseAnalysis{Clarity: 10, Coherence: 75, Completeness: 10},
			want:     Breakdown{CoherencePts: 15},
		},
		{
			name:     "clarity threshold",
			analysis: ResponseAnalysis{Clarity: 70, Coherence: 50, Completeness: 60},
			want:     Breakdown{ClarityPts: 20},
		},
		{
			name:     "resolution without depth",
			analysis: ResponseAnalysis{Clarity: 85, Coherence: 50, Completeness: 80},
			want:     Breakdown{ClarityPts: 20, ContradictionResolutionPts: 15},
		},
		{
			name:     "depth needs coherence",
			analysis: ResponseAnalysis{Clarity: 90, Coherence: 79, Completeness: 90, HasExamples: true},
			want:     Breakdown{ClarityPts: 20, CoherencePts: 15, ExamplePts: 10, ContradictionResolutionPts: 15},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ScoreAnalysis(tt.analysis)
			require.Equal(t, tt.want, res.Breakdown)
			assert.Equal(t, tt.want.Total(), res.DeltaPoints)
		})
	}
}

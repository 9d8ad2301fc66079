package evaluation

import "strings"

// MaxDeltaPoints is the most a single answer can earn. The point table
// below sums to 70 for a perfect answer; older notes quote "~65" but the
// table is authoritative.
const MaxDeltaPoints = 70

// Breakdown itemizes the points earned by one answer.
type Breakdown struct {
	ClarityPts                 int `json:"clarityPts"`
	CoherencePts               int `json:"coherencePts"`
	ExamplePts                 int `json:"examplePts"`
	ContradictionResolutionPts int `json:"contradictionResolutionPts"`
	DepthPts                   int `json:"depthPts"`
}

// Total sums every category of the breakdown.
func (b Breakdown) Total() int {
	return b.ClarityPts + b.CoherencePts + b.ExamplePts + b.ContradictionResolutionPts + b.DepthPts
}

// EvaluationResult is the outcome of scoring one answer.
type EvaluationResult struct {
	// DeltaPoints is what this answer adds to the running session score.
	DeltaPoints int       `json:"deltaPoints"`
	Feedback    string    `json:"feedback"`
	Breakdown   Breakdown `json:"breakdown"`
}

const defaultTurnFeedback = "Keep going!"

// scoreRule awards points when its condition holds for an analysis.
type scoreRule struct {
	points   int
	feedback string
	applies  func(a ResponseAnalysis) bool
	credit   func(b *Breakdown, pts int)
}

// scoreRules are independent and additive; every rule is evaluated against
// the same analysis.
var scoreRules = []scoreRule{
	{
		points:   20,
		feedback: "Clear and well-structured explanation.",
		applies:  func(a ResponseAnalysis) bool { return a.Clarity >= 70 && a.Completeness >= 60 },
		credit:   func(b *Breakdown, pts int) { b.ClarityPts = pts },
	},
	{
		points:   15,
		feedback: "Strong reasoning demonstrated.",
		applies:  func(a ResponseAnalysis) bool { return a.Coherence >= 75 },
		credit:   func(b *Breakdown, pts int) { b.CoherencePts = pts },
	},
	{
		points:   10,
		feedback: "Great use of examples.",
		applies:  func(a ResponseAnalysis) bool { return a.HasExamples },
		credit:   func(b *Breakdown, pts int) { b.ExamplePts = pts },
	},
	{
		points:   15,
		feedback: "Excellent explanation that clears things up!",
		applies:  func(a ResponseAnalysis) bool { return a.Clarity >= 85 && a.Completeness >= 80 },
		credit:   func(b *Breakdown, pts int) { b.ContradictionResolutionPts = pts },
	},
	{
		points:   10,
		feedback: "Outstanding depth of understanding!",
		applies: func(a ResponseAnalysis) bool {
			return a.Clarity >= 85 && a.Completeness >= 85 && a.HasExamples && a.Coherence >= 80
		},
		credit: func(b *Breakdown, pts int) { b.DepthPts = pts },
	},
}

// Score analyzes an answer and converts it into a point delta for the
// running session score.
func Score(text string) EvaluationResult {
	return ScoreAnalysis(Analyze(text))
}

// ScoreAnalysis applies the point table to an existing analysis.
func ScoreAnalysis(a ResponseAnalysis) EvaluationResult {
	var b Breakdown
	var phrases []string
	for _, r := range scoreRules {
		if r.applies(a) {
			r.credit(&b, r.points)
			phrases = append(phrases, r.feedback)
		}
	}

	feedback := strings.TrimSpace(strings.Join(phrases, " "))
	if feedback == "" {
		feedback = defaultTurnFeedback
	}

	return EvaluationResult{
		DeltaPoints: b.Total(),
		Feedback:    feedback,
		Breakdown:   b,
	}
}

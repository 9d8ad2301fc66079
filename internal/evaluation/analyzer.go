// Package evaluation grades the form of a teaching explanation: how clearly
// it is structured, whether it reasons, how much ground it covers, and
// whether it grounds the idea in an example. It never judges factual accuracy.
package evaluation

import (
	"regexp"
	"strings"
)

// ResponseAnalysis holds the structural signals extracted from one answer.
// Each score is in the range 0-100.
type ResponseAnalysis struct {
	// Clarity rewards step-by-step structure, multiple sentences and causal
	// language a beginner could follow.
	Clarity int

	// Coherence reflects reasoning quality, based on signal words such as
	// "because" or "therefore" rather than on length alone.
	Coherence int

	// Completeness reflects depth and coverage.
	Completeness int

	// HasExamples is true when the answer offers a concrete example.
	HasExamples bool
}

var (
	examplePattern    = regexp.MustCompile(`(?i)for example|for instance|such as|like when|imagine|let'?s say|consider`)
	causalPattern     = regexp.MustCompile(`(?i)because|since|therefore|thus|so that|this means|as a result`)
	stepPattern       = regexp.MustCompile(`(?i)first|second|then|next|finally|step|stage|phase`)
	comparisonPattern = regexp.MustCompile(`(?i)similar to|different from|compared to|unlike|whereas`)
	sentenceSplit     = regexp.MustCompile(`[.!?]+`)
)

// signals are the raw features the scores are derived from.
type signals struct {
	words         int
	sentences     int
	hasExamples   bool
	hasBecause    bool
	hasSteps      bool
	hasComparison bool
}

func extractSignals(text string) signals {
	sentences := 0
	for _, s := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	// Fields ignores leading and trailing whitespace, so padding never adds
	// empty words to the count.
	words := len(strings.Fields(text))
	return signals{
		words:         words,
		sentences:     sentences,
		hasExamples:   examplePattern.MatchString(text),
		hasBecause:    causalPattern.MatchString(text),
		hasSteps:      stepPattern.MatchString(text),
		hasComparison: comparisonPattern.MatchString(text),
	}
}

// Analyze extracts structural signals from a free-text answer. It is a pure
// function: the same text always yields the same analysis, and an empty
// string yields low scores rather than an error.
func Analyze(text string) ResponseAnalysis {
	sig := extractSignals(text)

	clarity := 0
	if sig.hasSteps {
		clarity += 35
	}
	if sig.sentences > 2 {
		clarity += 25
	} else {
		clarity += sig.sentences * 10
	}
	if sig.hasBecause {
		clarity += 20
	}
	clarity += min(20, sig.words/3)

	coherence := 50
	if sig.words > 20 && sig.hasBecause {
		coherence = 70
	}
	if sig.words > 40 && sig.hasBecause && (sig.hasExamples || sig.hasComparison) {
		coherence = 85
	}
	if sig.hasSteps && sig.hasBecause {
		coherence += 15
	}

	completeness := min(35, sig.words/2)
	if sig.hasExamples {
		completeness += 30
	}
	if sig.hasBecause {
		completeness += 20
	}
	if sig.hasComparison {
		completeness += 15
	}

	return ResponseAnalysis{
		Clarity:      clampScore(clarity),
		Coherence:    clampScore(coherence),
		Completeness: clampScore(completeness),
		HasExamples:  sig.hasExamples,
	}
}

func clampScore(v int) int {
	return max(0, min(100, v))
}

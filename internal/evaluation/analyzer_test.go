package evaluation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const strongAnswer = "First, a binary search tree keeps smaller keys on the left because comparisons decide the path. " +
	"For example, inserting 5 then 3 places 3 on the left branch. " +
	"Then lookups are fast since each step halves the remaining nodes, unlike a linked list where you scan every element. " +
	"Finally, this means searching takes logarithmic time when the tree is balanced."

func TestAnalyze_EmptyText(t *testing.T) {
	a := Analyze("")
	assert.Equal(t, ResponseAnalysis{Clarity: 0, Coherence: 50, Completeness: 0, HasExamples: false}, a)
}

func TestAnalyze_ScoresStayInRange(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"...!!!???",
		"yes",
		strongAnswer,
		strings.Repeat(strongAnswer+" ", 20),
		"first second then next finally step stage phase because since therefore thus for example such as unlike whereas",
	}
	for _, in := range inputs {
		a := Analyze(in)
		assert.GreaterOrEqual(t, a.Clarity, 0)
		assert.LessOrEqual(t, a.Clarity, 100)
		assert.GreaterOrEqual(t, a.Coherence, 0)
		assert.LessOrEqual(t, a.Coherence, 100)
		assert.GreaterOrEqual(t, a.Completeness, 0)
		assert.LessOrEqual(t, a.Completeness, 100)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	assert.Equal(t, Analyze(strongAnswer), Analyze(strongAnswer))
}

func TestAnalyze_ShortDefinition(t *testing.T) {
	// 10 words, one sentence, no signal words.
	a := Analyze("A BST is a tree where left children are smaller")
	assert.Equal(t, 13, a.Clarity)
	assert.Equal(t, 50, a.Coherence)
	assert.Equal(t, 5, a.Completeness)
	assert.False(t, a.HasExamples)
}

func TestAnalyze_StrongAnswer(t *testing.T) {
	a := Analyze(strongAnswer)
	assert.Equal(t, 100, a.Clarity)
	assert.Equal(t, 100, a.Coherence)
	assert.Equal(t, 95, a.Completeness)
	assert.True(t, a.HasExamples)
}

func TestAnalyze_ExampleSignals(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"For example, a stack.", true},
		{"for instance a stack", true},
		{"Structures SUCH AS heaps", true},
		{"It's like when you queue.", true},
		{"Imagine a queue.", true},
		{"Lets say we push twice", true},
		{"Let's say we push twice", true},
		{"Consider a heap", true},
		{"A heap is a tree", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Analyze(tt.text).HasExamples)
		})
	}
}

func TestAnalyze_CoherenceLadder(t *testing.T) {
	// 21+ words with causal language lifts coherence to 70.
	causal := "Hash tables are quick because the key is turned into an index and the lookup goes straight to the right bucket every time"
	assert.Equal(t, 70, Analyze(causal).Coherence)

	// Steps plus causal language add 15 on top of the base.
	stepped := "First hash the key because it gives an index"
	assert.Equal(t, 65, Analyze(stepped).Coherence)
}

func TestAnalyze_SentenceCounting(t *testing.T) {
	// Two sentences contribute 20 clarity; three or more cap at 25.
	two := Analyze("Alpha. Beta.")
	three := Analyze("Alpha. Beta! Gamma?")
	assert.Equal(t, 20, two.Clarity)
	assert.Equal(t, 26, three.Clarity)
}

func TestAnalyze_SurroundingWhitespaceIgnored(t *testing.T) {
	causal := "Hash tables are quick because the key is turned into an index and the lookup goes straight to the right bucket every time"
	assert.Equal(t, Analyze(causal), Analyze("\n  "+causal+"\n"))
	assert.Equal(t, Score(strongAnswer), Score(strongAnswer+"\n"))
}

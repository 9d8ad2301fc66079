package dialogue

import "github.com/abhisek/rubberduck/internal/evaluation"

// QuestionType is the strategy the duck uses for its next question.
type QuestionType string

const (
	Clarifying       QuestionType = "clarifying"
	ExampleBased     QuestionType = "example_based"
	ConsistencyCheck QuestionType = "consistency_check"
	Application      QuestionType = "application"
	Challenge        QuestionType = "challenge"
)

// AllQuestionTypes lists every archetype in declaration order.
func AllQuestionTypes() []QuestionType {
	return []QuestionType{Clarifying, ExampleBased, ConsistencyCheck, Application, Challenge}
}

// Valid reports whether q is a known archetype.
func (q QuestionType) Valid() bool {
	switch q {
	case Clarifying, ExampleBased, ConsistencyCheck, Application, Challenge:
		return true
	}
	return false
}

// applicationScoreCeiling is the running score below which a surface-level
// answer is pushed toward application questions.
const applicationScoreCeiling = 400

// SelectNext picks the archetype for the duck's next question. prior is the
// conversation before lastAnswer was added; lastAnswer is appended as a user
// turn for the contradiction check so the newest answer is compared with the
// one before it. The result depends only on its inputs.
func SelectNext(lastAnswer string, prior []Message, currentScore int) QuestionType {
	a := evaluation.Analyze(lastAnswer)

	if a.Clarity < 60 || a.Completeness < 50 {
		return Clarifying
	}

	if !a.HasExamples {
		return ExampleBased
	}

	history := make([]Message, 0, len(prior)+1)
	history = append(history, prior...)
	history = append(history, Message{Role: RoleUser, Content: lastAnswer})
	if HasContradiction(history) {
		return ConsistencyCheck
	}

	if a.Completeness < 80 && currentScore < applicationScoreCeiling {
		return Application
	}

	// Unreachable: every answer without examples returned ExampleBased above.
	// Kept so the decision table reads the same as the scoring rubric.
	if a.Clarity < 75 && !a.HasExamples {
		return Challenge
	}

	return Application
}

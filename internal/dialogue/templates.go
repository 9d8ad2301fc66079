package dialogue

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode/utf8"
)

// Tone is the emotional register of a duck question.
type Tone string

const (
	ToneCurious     Tone = "curious"
	ToneConfused    Tone = "confused"
	ToneEncouraging Tone = "encouraging"
)

// PhraseInput is the context used to phrase a question from the template bank.
type PhraseInput struct {
	Topic      string
	LastAnswer string
	History    []Message
}

// DuckResponse is a phrased duck question.
type DuckResponse struct {
	Message      string       `json:"message"`
	QuestionType QuestionType `json:"questionType"`
	Tone         Tone         `json:"tone"`
}

const (
	technicalTermLen = 8
	shortAnswerWords = 15
)

// Phrase renders a question of the given archetype from the local template
// bank. The template is chosen by hashing the input, so the same
// conversation state always produces the same question.
func Phrase(qt QuestionType, in PhraseInput) DuckResponse {
	var templates []string
	tone := ToneCurious

	switch qt {
	case Clarifying:
		templates = clarifyingTemplates(in)
		tone = ToneConfused
	case ExampleBased:
		templates = exampleTemplates(in)
	case ConsistencyCheck:
		templates = consistencyTemplates(in)
		tone = ToneConfused
	case Challenge:
		templates = challengeTemplates(in)
		tone = ToneConfused
	default:
		qt = Application
		templates = applicationTemplates(in)
	}

	return DuckResponse{
		Message:      templates[pick(len(templates), in.Topic, in.LastAnswer, string(qt))],
		QuestionType: qt,
		Tone:         tone,
	}
}

// pick maps the given parts onto an index in [0, n).
func pick(n int, parts ...string) int {
	h := fnv.New32a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return int(h.Sum32() % uint32(n))
}

func clarifyingTemplates(in PhraseInput) []string {
	hasTechnicalTerms := false
	for _, w := range strings.Fields(in.LastAnswer) {
		if utf8.RuneCountInString(w) > technicalTermLen {
			hasTechnicalTerms = true
			break
		}
	}

	last := "That's interesting, but I need help understanding. Can you clarify?"
	if hasTechnicalTerms {
		last = "That's interesting, but some of those terms are confusing me. Can you explain in simpler words?"
	}

	return []string{
		"I'm not sure if I fully understand. Can you explain that part again in simpler terms?",
		"Wait, what do you mean by that? Can you break it down for me?",
		"I'm a bit lost. Can you walk me through that step by step?",
		"Hmm, I don't quite get it. Can you explain it another way?",
		last,
	}
}

func exampleTemplates(in PhraseInput) []string {
	return []string{
		fmt.Sprintf("That's interesting! Can you give me a concrete example of %s to help me understand better?", in.Topic),
		"I think I'm starting to get it! Can you show me an example?",
		fmt.Sprintf("Can you give me a real example of when %s would be used?", in.Topic),
		"I'd love to see an example! Can you think of one?",
		"This is making more sense! Could you give me an example to make it clearer?",
	}
}

func consistencyTemplates(in PhraseInput) []string {
	second := "Hmm, I'm not sure I understand. Earlier you said something else. Can you help me connect these?"
	if len(UserMessages(in.History)) > 1 {
		second = "Hmm, I'm not sure I understand. Earlier in our conversation you said something else. Can you help me connect these?"
	}

	return []string{
		"Wait, I'm a bit confused. Earlier you mentioned something different. How do these ideas fit together?",
		second,
		"I'm confused now. What you just said seems different from before. Can you explain?",
		"Hold on, I thought you said something else earlier. How does this match up with that?",
		"I'm trying to follow, but this seems different from what you explained before. Can you clarify?",
	}
}

func applicationTemplates(in PhraseInput) []string {
	return []string{
		fmt.Sprintf("I think I'm starting to get it! How would %s work in a real-world situation?", in.Topic),
		"Okay, that makes sense! But how would you actually use this?",
		fmt.Sprintf("Can you help me understand when someone would need to use %s?", in.Topic),
		"This is interesting! How does this apply to real situations?",
		"I see! But what would happen if you tried to use this in practice?",
	}
}

func challengeTemplates(in PhraseInput) []string {
	third := "I don't think I get it. Can you explain why that makes sense?"
	if len(strings.Fields(in.LastAnswer)) < shortAnswerWords {
		third = "I don't think I fully get it yet. Can you explain why that makes sense with more detail?"
	}

	return []string{
		"Hmm, I'm not sure that would work. Can you walk me through why that's correct?",
		"Wait, I'm confused about something. If that's true, then what about...? Can you help me understand?",
		third,
		"I'm having trouble following. How do you know that's right?",
		"That's confusing me a bit. Can you explain the reasoning behind that?",
	}
}

// Guidance describes an archetype to a text generator so the question it
// writes follows the selected strategy.
func Guidance(qt QuestionType) string {
	switch qt {
	case Clarifying:
		return "The explanation was vague or incomplete. Ask them to clarify or break it down more simply."
	case ExampleBased:
		return "The explanation had no concrete example. Ask for one."
	case ConsistencyCheck:
		return "Their latest answer seems to conflict with something they said earlier. Gently ask how the two fit together."
	case Challenge:
		return "The explanation sounds memorized. Express confusion and ask them to justify why it is correct."
	default:
		return "Ask how the idea would apply in a real situation."
	}
}

package evaluation

import "math"

// MaxSessionScore is the top of the running-score scale.
const MaxSessionScore = 800

// CategoryFor labels a total accumulated session score.
//
//	0-200   Still learning
//	200-400 Basic understanding
//	400-600 Solid understanding
//	600-800 Strong mastery
func CategoryFor(totalScore int) string {
	switch {
	case totalScore >= 600:
		return "Strong mastery"
	case totalScore >= 400:
		return "Solid understanding"
	case totalScore >= 200:
		return "Basic understanding"
	default:
		return "Still learning"
	}
}

// PercentageFor converts a running score to a display percentage (0-100).
// Scores past the top of the scale display as 100.
func PercentageFor(totalScore int) int {
	pct := math.Round(float64(totalScore) / MaxSessionScore * 100)
	return int(max(0, min(100, pct)))
}

// FinalAssessment returns the closing message for a session score.
func FinalAssessment(totalScore int) string {
	pct := PercentageFor(totalScore)
	switch {
	case pct >= 75:
		return "Wow! You really know this topic well. Your explanations were clear, accurate, and full of great examples. I feel like I could teach this to someone else now!"
	case pct >= 50:
		return "Great job! You have a solid understanding of this topic. With a bit more detail and examples, your explanations would be even stronger!"
	case pct >= 25:
		return "Good start! You understand the basics, but there's room to go deeper. Try using more examples and explaining the 'why' behind concepts."
	default:
		return "Thanks for teaching me! I can tell you're learning this topic. Keep practicing explaining concepts in your own words and using examples!"
	}
}

// FeedbackBand returns the duck's reaction for a score on the 0-100 scale.
func FeedbackBand(score int) string {
	switch {
	case score >= 90:
		return "Outstanding teaching! I feel very prepared for the exam."
	case score >= 80:
		return "Great teaching! I have a strong understanding."
	case score >= 70:
		return "Good teaching. I'm getting the main concepts."
	case score >= 60:
		return "Fair teaching. I understand the basics."
	case score >= 50:
		return "Okay teaching. I need more clarity on some points."
	default:
		return "Keep teaching! I need more explanation to understand."
	}
}

// FeedbackBands lists every possible FeedbackBand result, best first.
func FeedbackBands() []string {
	return []string{
		FeedbackBand(90), FeedbackBand(80), FeedbackBand(70),
		FeedbackBand(60), FeedbackBand(50), FeedbackBand(0),
	}
}

// DeltaFromExternal maps a 0-100 score from an external grader onto the
// per-answer point range so it accumulates on the same scale as Score.
func DeltaFromExternal(score int) int {
	score = clampScore(score)
	return score * MaxDeltaPoints / 100
}

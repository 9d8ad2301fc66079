package dialogue

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// polarityPair is a claim form and its negation.
type polarityPair struct {
	positive *regexp.Regexp
	negative *regexp.Regexp
}

var polarityPairs = []polarityPair{
	{regexp.MustCompile(`(?i)\bis\b`), regexp.MustCompile(`(?i)\bis not\b|\bisn't\b`)},
	{regexp.MustCompile(`(?i)\bcan\b`), regexp.MustCompile(`(?i)\bcannot\b|\bcan't\b`)},
	{regexp.MustCompile(`(?i)\bwill\b`), regexp.MustCompile(`(?i)\bwill not\b|\bwon't\b`)},
	{regexp.MustCompile(`(?i)\balways\b`), regexp.MustCompile(`(?i)\bnever\b`)},
}

// minKeywordLen is the rune length a token must exceed to count as a keyword.
const minKeywordLen = 4

// HasContradiction compares only the last two user messages of history. They
// must share at least one keyword (a token longer than four characters); a
// contradiction is one message using a claim form while the other uses its
// negation.
func HasContradiction(history []Message) bool {
	users := UserMessages(history)
	if len(users) < 2 {
		return false
	}

	last := strings.ToLower(users[len(users)-1])
	previous := strings.ToLower(users[len(users)-2])

	if !sharesKeyword(previous, last) {
		return false
	}

	for _, p := range polarityPairs {
		if p.positive.MatchString(previous) && p.negative.MatchString(last) {
			return true
		}
		if p.negative.MatchString(previous) && p.positive.MatchString(last) {
			return true
		}
	}
	return false
}

func keywords(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(text) {
		if utf8.RuneCountInString(w) > minKeywordLen {
			set[w] = struct{}{}
		}
	}
	return set
}

func sharesKeyword(a, b string) bool {
	left := keywords(a)
	for w := range keywords(b) {
		if _, ok := left[w]; ok {
			return true
		}
	}
	return false
}

package duoquiz

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// StandardInterests is the controlled vocabulary every game topic and user
// interest is normalized into.
var StandardInterests = []string{
	"art",
	"books",
	"business",
	"cooking",
	"fashion",
	"gaming",
	"geography",
	"health",
	"history",
	"literature",
	"math",
	"movies",
	"music",
	"nature",
	"politics",
	"science",
	"space",
	"sports",
	"technology",
	"travel",
}

// topicSynonyms maps common free-text topics straight onto a standard interest
var topicSynonyms = map[string]string{
	"cinema":           "movies",
	"film":             "movies",
	"football":         "sports",
	"soccer":           "sports",
	"basketball":       "sports",
	"painting":         "art",
	"drawing":          "art",
	"programming":      "technology",
	"coding":           "technology",
	"ai":               "technology",
	"machine learning": "technology",
}

// FuzzyTopicCutoff is the minimum similarity ratio for a fuzzy topic match
const FuzzyTopicCutoff = 0.4

// IsStandardInterest reports whether s is exactly one of StandardInterests.
func IsStandardInterest(s string) bool {
	for _, interest := range StandardInterests {
		if s == interest {
			return true
		}
	}
	return false
}

// NormalizeTopic maps a free-text topic onto a standard interest: synonyms
// first, then the closest fuzzy match, otherwise fallback unchanged.
func NormalizeTopic(rawTopic, fallback string) string {
	topic := strings.ToLower(strings.TrimSpace(rawTopic))
	if topic == "" {
		return fallback
	}

	if mapped, ok := topicSynonyms[topic]; ok {
		return mapped
	}

	if match, ok := closestInterest(topic); ok {
		return match
	}
	return fallback
}

// closestInterest scores topic against every interest with a Ratcliff/Obershelp
// ratio. Ties go to the lexicographically greater interest.
func closestInterest(topic string) (string, bool) {
	target := strings.Split(topic, "")
	matcher := difflib.NewMatcher(nil, target)

	best, bestScore := "", -1.0
	for _, interest := range StandardInterests {
		matcher.SetSeq1(strings.Split(interest, ""))
		score := matcher.Ratio()
		if score > bestScore || (score == bestScore && interest > best) {
			best, bestScore = interest, score
		}
	}
	if bestScore < FuzzyTopicCutoff {
		return "", false
	}
	return best, true
}

package duoquiz

import (
	"strconv"
	"strings"
	"unicode"
)

// QuestionDedup drops questions that repeat one already accepted, either
// earlier in the same batch or already stored in the target folder.
type QuestionDedup struct {
	seen map[string]string // normalized question text -> where it was first seen
}

// NewQuestionDedup seeds the deduplicator with the questions of existing games
func NewQuestionDedup(existing []Game) *QuestionDedup {
	qd := &QuestionDedup{seen: make(map[string]string, len(existing))}
	for _, g := range existing {
		qd.seen[dedupKey(g.Question)] = "game " + g.ID
	}
	return qd
}

// DedupResult represents the result of deduplication
type DedupResult struct {
	IsDuplicate bool
	Reason      string
}

// CheckDuplicate records the candidate if it is new
func (qd *QuestionDedup) CheckDuplicate(index int, vc ValidatedCandidate) DedupResult {
	key := dedupKey(vc.Question)
	if first, ok := qd.seen[key]; ok {
		return DedupResult{IsDuplicate: true, Reason: "same question as " + first}
	}
	qd.seen[key] = "candidate " + strconv.Itoa(index+1)
	return DedupResult{}
}

// Filter returns the candidates that are not duplicates, in order
func (qd *QuestionDedup) Filter(candidates []ValidatedCandidate, log *Logger, transcript *LLMLogger) []ValidatedCandidate {
	kept := candidates[:0:0]
	for i, vc := range candidates {
		res := qd.CheckDuplicate(i, vc)
		if !res.IsDuplicate {
			kept = append(kept, vc)
			continue
		}
		candidateResults.WithLabelValues("duplicate").Inc()
		orNop(log).Warn("dropping duplicate question", "index", i, "reason", res.Reason)
		if transcript != nil {
			transcript.LogDedupResult(strconv.Itoa(i+1), res.Reason)
		}
	}
	return kept
}

// dedupKey lower-cases the question and keeps only letters and digits, single
// spaced, so punctuation and spacing differences do not hide a repeat.
func dedupKey(question string) string {
	var sb strings.Builder
	space := false
	for _, r := range strings.ToLower(question) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteRune(r)
			space = false
		default:
			space = true
		}
	}
	return sb.String()
}

package duoquiz

import (
	"strconv"
	"strings"
)

// ValidationAction records what the checker did with a candidate
type ValidationAction string

const (
	ActionAccept ValidationAction = "accept"
	ActionReject ValidationAction = "reject"
	ActionRevise ValidationAction = "revise"
)

// QuestionChecker enforces the structural rules every game must satisfy and
// repairs what can be repaired deterministically.
type QuestionChecker struct {
	log *Logger
}

// NewQuestionChecker creates a new question checker
func NewQuestionChecker(logger *Logger) *QuestionChecker {
	return &QuestionChecker{log: orNop(logger)}
}

// CheckQuestion validates a single candidate. fallbackTopic is used when the
// candidate's own topic cannot be normalized. The returned action is
// ActionRevise when the correct answer had to be repaired.
func (qc *QuestionChecker) CheckQuestion(candidate RawQuestionCandidate, fallbackTopic string) (ValidatedCandidate, ValidationAction, string) {
	question := strings.TrimSpace(candidate.Question)
	if question == "" {
		return ValidatedCandidate{}, ActionReject, "question is empty"
	}

	if len(candidate.Options) != 4 {
		return ValidatedCandidate{}, ActionReject, "expected exactly 4 options, got " + strconv.Itoa(len(candidate.Options))
	}

	var options [4]string
	seen := make(map[string]bool, 4)
	for i, opt := range candidate.Options {
		s, ok := opt.(string)
		if !ok {
			return ValidatedCandidate{}, ActionReject, "option " + strconv.Itoa(i+1) + " is not a string"
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return ValidatedCandidate{}, ActionReject, "option " + strconv.Itoa(i+1) + " is empty"
		}
		key := strings.ToLower(s)
		if seen[key] {
			return ValidatedCandidate{}, ActionReject, "duplicate option " + strconv.Quote(s)
		}
		seen[key] = true
		options[i] = s
	}

	action, reason := ActionAccept, "ok"
	answer, ok := matchOption(options, candidate.CorrectAnswer)
	if !ok {
		answer = options[0]
		action, reason = ActionRevise, "correct answer not among options, using the first option"
	}

	return ValidatedCandidate{
		Question:      question,
		Options:       options,
		CorrectAnswer: answer,
		Explanation:   strings.TrimSpace(candidate.Explanation),
		Topic:         NormalizeTopic(candidate.Topic, fallbackTopic),
		RawTopic:      strings.TrimSpace(candidate.Topic),
	}, action, reason
}

// Check validates a single candidate and reports a rejection as a
// *ValidationRejection error.
func (qc *QuestionChecker) Check(candidate RawQuestionCandidate, fallbackTopic string) (ValidatedCandidate, error) {
	vc, action, reason := qc.CheckQuestion(candidate, fallbackTopic)
	if action == ActionReject {
		return ValidatedCandidate{}, &ValidationRejection{Reason: reason}
	}
	return vc, nil
}

// CheckBatch validates every candidate and returns the survivors in input
// order. Rejections are logged and returned for reporting; they never fail the
// batch.
func (qc *QuestionChecker) CheckBatch(candidates []RawQuestionCandidate, fallbackTopic string, transcript *LLMLogger) ([]ValidatedCandidate, []*ValidationRejection) {
	valid := make([]ValidatedCandidate, 0, len(candidates))
	var rejected []*ValidationRejection

	for i, candidate := range candidates {
		vc, action, reason := qc.CheckQuestion(candidate, fallbackTopic)
		if transcript != nil {
			transcript.LogQuestionResult(strconv.Itoa(i+1), string(action), reason)
		}
		qc.log.Debug("checked candidate", "index", i, "action", string(action), "reason", reason)
		candidateResults.WithLabelValues(string(action)).Inc()

		if action == ActionReject {
			qc.log.Warn("dropping invalid question candidate", "index", i, "reason", reason)
			rejected = append(rejected, &ValidationRejection{Index: i, Reason: reason})
			continue
		}
		valid = append(valid, vc)
	}
	return valid, rejected
}

// matchOption finds the option the candidate's correctAnswer names exactly,
// ignoring only surrounding whitespace.
func matchOption(options [4]string, answer any) (string, bool) {
	s, ok := answer.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	for _, opt := range options {
		if opt == s {
			return opt, true
		}
	}
	return "", false
}

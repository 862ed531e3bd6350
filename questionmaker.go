package duoquiz

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// UnsuitableTopicSentinel is the reply the oracle is told to give instead of
// questions when a topic is out of policy.
const UnsuitableTopicSentinel = "UNSUITABLE_TOPIC"

// QuestionMaker turns a topic into raw question candidates using the oracle
type QuestionMaker struct {
	oracle Oracle
	log    *Logger
}

// NewQuestionMaker creates a new question maker around an oracle
func NewQuestionMaker(oracle Oracle, logger *Logger) *QuestionMaker {
	return &QuestionMaker{
		oracle: oracle,
		log:    orNop(logger),
	}
}

// GenerateQuestions asks the oracle once for count questions about topic and
// recovers the candidates from its reply. It never retries and never returns
// an empty list in place of an error.
func (qm *QuestionMaker) GenerateQuestions(ctx context.Context, topic string, count int, difficulty Difficulty, transcript *LLMLogger) ([]RawQuestionCandidate, error) {
	qm.log.Info("generating questions", "topic", topic, "count", count, "difficulty", string(difficulty))

	system := qm.buildSystemPrompt(count)
	user := qm.buildUserPrompt(topic, difficulty)

	if transcript != nil {
		transcript.LogLLMRequest("QuestionMaker", system+"\n\n"+user)
	}

	timer := prometheus.NewTimer(oracleLatency)
	reply, err := qm.oracle.Complete(ctx, system, user)
	timer.ObserveDuration()
	if err != nil {
		qm.log.Error("oracle call failed", "topic", topic, "error", err)
		return nil, &OracleError{Err: err}
	}

	if transcript != nil {
		transcript.LogLLMResponse("QuestionMaker", reply)
	}
	qm.log.Debug("raw oracle reply", "topic", topic, "reply", reply)

	if reason, ok := unsuitableReason(reply); ok {
		qm.log.Warn("oracle flagged topic as unsuitable", "topic", topic, "reason", reason)
		return nil, &UnsuitableTopicError{Topic: topic, Reason: reason}
	}

	candidates, err := ParseCandidates(reply)
	if err != nil {
		qm.log.Error("failed to recover questions from oracle reply", "topic", topic, "error", err)
		return nil, err
	}

	qm.log.Info("recovered question candidates", "topic", topic, "count", len(candidates))
	return candidates, nil
}

func (qm *QuestionMaker) buildSystemPrompt(count int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("You are a quiz generator. Given a topic, generate %d quiz games in JSON format.\n", count))
	sb.WriteString("Each game must include:\n")
	sb.WriteString("- question: string\n")
	sb.WriteString("- options: array of exactly 4 distinct strings\n")
	sb.WriteString("- correctAnswer: string, copied exactly from one of the options\n")
	sb.WriteString("- explanation: string, why the correct answer is right\n")
	sb.WriteString("- topic: string, the category of the question (e.g. 'history', 'math', 'geography')\n\n")
	sb.WriteString("Respond only with a JSON array of objects using exactly these field names. ")
	sb.WriteString("Do not wrap the array in any other object and do not add commentary.\n")
	sb.WriteString(fmt.Sprintf("If the topic is hateful, sexual, dangerous or otherwise unsuitable for a quiz, reply with exactly %s: followed by a short reason instead of the array.", UnsuitableTopicSentinel))

	return sb.String()
}

func (qm *QuestionMaker) buildUserPrompt(topic string, difficulty Difficulty) string {
	switch difficulty {
	case DifficultyEasier:
		topic += " (make these questions easier than the previous ones)"
	case DifficultySame:
		topic += " (keep the same difficulty as the previous questions)"
	case DifficultyHarder:
		topic += " (make these questions harder than the previous ones)"
	}
	return "Topic: " + topic
}

// unsuitableReason detects the sentinel reply, tolerating code fences and quotes
// around it.
func unsuitableReason(reply string) (string, bool) {
	text := strings.TrimSpace(stripCodeFences(reply))
	text = strings.Trim(text, "\"'` \n\t")
	n := len(UnsuitableTopicSentinel)
	if len(text) < n || !strings.EqualFold(text[:n], UnsuitableTopicSentinel) {
		return "", false
	}
	reason := strings.TrimSpace(text[n:])
	reason = strings.TrimSpace(strings.TrimLeft(reason, ":-"))
	return reason, true
}

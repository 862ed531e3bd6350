package duoquiz

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LLMLogger writes a transcript of one generation run: the prompt, the raw
// oracle reply and what the checker did with every candidate.
type LLMLogger struct {
	file  *os.File
	mu    sync.Mutex
	runID string
}

// NewLLMLogger creates <runID>.log under dir
func NewLLMLogger(dir, runID string, req GenerationRequest) (*LLMLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s.log", runID))
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger := &LLMLogger{
		file:  file,
		runID: runID,
	}

	logger.Logf("=== Game Generation Log ===\n")
	logger.Logf("Run ID: %s\n", runID)
	logger.Logf("Topic: %s\n", req.Topic)
	logger.Logf("Number of Questions: %d\n", req.NumQuestions)
	if req.Difficulty != DifficultyNone {
		logger.Logf("Difficulty: %s\n", req.Difficulty)
	}
	logger.Logf("Folder: %s\n", req.FolderID)
	logger.Logf("Requester: %s\n", req.RequesterID)
	logger.Logf("Started: %s\n", time.Now().Format(time.RFC3339))
	logger.Logf("========================\n\n")

	return logger, nil
}

// Logf writes a formatted entry with a timestamp
func (ll *LLMLogger) Logf(format string, args ...any) {
	ll.mu.Lock()
	defer ll.mu.Unlock()
	ll.logf(format, args...)
}

func (ll *LLMLogger) logf(format string, args ...any) {
	if ll.file == nil {
		return
	}
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(ll.file, "[%s] %s", timestamp, fmt.Sprintf(format, args...))
	ll.file.Sync()
}

func (ll *LLMLogger) LogLLMRequest(module, prompt string) {
	ll.Logf("=== LLM REQUEST (%s) ===\n", module)
	ll.Logf("Prompt:\n%s\n", prompt)
	ll.Logf("=====================\n\n")
}

func (ll *LLMLogger) LogLLMResponse(module, response string) {
	ll.Logf("=== LLM RESPONSE (%s) ===\n", module)
	ll.Logf("Response:\n%s\n", response)
	ll.Logf("======================\n\n")
}

// LogQuestionResult logs what the checker did with one candidate
func (ll *LLMLogger) LogQuestionResult(candidate, action, reason string) {
	ll.Logf("Candidate %s: %s - %s\n", candidate, action, reason)
}

// LogDedupResult logs a candidate dropped as a duplicate
func (ll *LLMLogger) LogDedupResult(candidate, reason string) {
	ll.Logf("Candidate %s: DUPLICATE - %s\n", candidate, reason)
}

// LogPersisted logs a stored game and whether its folder link was written
func (ll *LLMLogger) LogPersisted(gameID string, order int, linked bool) {
	if linked {
		ll.Logf("Game %s: stored as #%d\n", gameID, order)
	} else {
		ll.Logf("Game %s: stored as #%d WITHOUT folder link\n", gameID, order)
	}
}

// Close writes the footer and closes the file
func (ll *LLMLogger) Close() error {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	if ll.file == nil {
		return nil
	}
	ll.logf("=== Generation Complete ===\n")
	ll.logf("Completed: %s\n", time.Now().Format(time.RFC3339))
	ll.logf("=============================\n")
	err := ll.file.Close()
	ll.file = nil
	return err
}

package duoquiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// fakeOracle returns a canned reply and records every call
type fakeOracle struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	systems []string
	users   []string
}

func (o *fakeOracle) Complete(_ context.Context, system, user string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	o.systems = append(o.systems, system)
	o.users = append(o.users, user)
	return o.reply, o.err
}

// candidateJSON is the shape the oracle is asked to produce
type candidateJSON struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Topic         string   `json:"topic,omitempty"`
}

// wellFormedReply builds a valid JSON array of n distinct questions on topic
func wellFormedReply(t *testing.T, n int, topic string) string {
	t.Helper()
	items := make([]candidateJSON, n)
	for i := range items {
		items[i] = candidateJSON{
			Question:      fmt.Sprintf("Question number %d about %s?", i+1, topic),
			Options:       []string{fmt.Sprintf("A%d", i), fmt.Sprintf("B%d", i), fmt.Sprintf("C%d", i), fmt.Sprintf("D%d", i)},
			CorrectAnswer: fmt.Sprintf("B%d", i),
			Explanation:   "Because.",
			Topic:         topic,
		}
	}
	data, err := json.Marshal(items)
	if err != nil {
		t.Fatalf("marshal reply: %v", err)
	}
	return string(data)
}

// countingStore wraps a DocumentStore, counting writes and optionally failing
// AddToSet or Set calls on a collection.
type countingStore struct {
	DocumentStore

	mu           sync.Mutex
	sets         int
	addToSets    int
	failAddToSet bool
	failSetOn    string
	failSetAfter int
}

var errInjected = errors.New("injected store failure")

func (s *countingStore) Set(ctx context.Context, collection, id string, doc any) error {
	s.mu.Lock()
	if s.failSetOn == collection {
		if s.failSetAfter == 0 {
			s.mu.Unlock()
			return errInjected
		}
		s.failSetAfter--
	}
	s.sets++
	s.mu.Unlock()
	return s.DocumentStore.Set(ctx, collection, id, doc)
}

func (s *countingStore) AddToSet(ctx context.Context, collection, id, field string, values ...string) error {
	s.mu.Lock()
	fail := s.failAddToSet
	if !fail {
		s.addToSets++
	}
	s.mu.Unlock()
	if fail {
		return errInjected
	}
	return s.DocumentStore.AddToSet(ctx, collection, id, field, values...)
}

func (s *countingStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets + s.addToSets
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(_ context.Context, e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) ofType(eventType string) []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Event
	for _, e := range p.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

func mustCreateFolder(t *testing.T, db *DB, id, owner, prompt string) *Folder {
	t.Helper()
	folder := &Folder{ID: id, Title: "Folder " + id, Prompt: prompt, CreatedBy: owner}
	if err := db.CreateFolder(context.Background(), folder); err != nil {
		t.Fatalf("create folder: %v", err)
	}
	return folder
}

func validCandidate(question, topic string) ValidatedCandidate {
	return ValidatedCandidate{
		Question:      question,
		Options:       [4]string{"one", "two", "three", "four"},
		CorrectAnswer: "two",
		Explanation:   "two is right",
		Topic:         NormalizeTopic(topic, "general"),
		RawTopic:      topic,
	}
}

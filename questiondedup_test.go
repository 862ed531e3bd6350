package duoquiz

import "testing"

func TestQuestionDedupFilter(t *testing.T) {
	existing := []Game{{ID: "g1", Question: "What is the capital of France?"}}
	candidates := []ValidatedCandidate{
		validCandidate("What is the capital of Spain?", "geography"),
		validCandidate("what is the capital of   france", "geography"),
		validCandidate("What is the capital of Spain ?!", "geography"),
		validCandidate("What is the capital of Italy?", "geography"),
	}

	kept := NewQuestionDedup(existing).Filter(candidates, nil, nil)
	if len(kept) != 2 {
		t.Fatalf("expected 2 questions kept, got %d: %v", len(kept), kept)
	}
	if kept[0].Question != candidates[0].Question || kept[1].Question != candidates[3].Question {
		t.Errorf("unexpected survivors %q, %q", kept[0].Question, kept[1].Question)
	}
}

func TestCheckDuplicateReason(t *testing.T) {
	qd := NewQuestionDedup(nil)
	if res := qd.CheckDuplicate(0, validCandidate("Q one", "art")); res.IsDuplicate {
		t.Fatalf("first occurrence reported as duplicate: %s", res.Reason)
	}
	res := qd.CheckDuplicate(1, validCandidate("q ONE.", "art"))
	if !res.IsDuplicate {
		t.Fatalf("expected repeat to be a duplicate")
	}
	if res.Reason != "same question as candidate 1" {
		t.Errorf("unexpected reason %q", res.Reason)
	}
}

func TestDedupKey(t *testing.T) {
	testCases := []struct {
		in, want string
	}{
		{"What's 2 + 2?", "what s 2 2"},
		{"  Hello,   World!  ", "hello world"},
		{"", ""},
	}
	for _, tc := range testCases {
		if got := dedupKey(tc.in); got != tc.want {
			t.Errorf("dedupKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

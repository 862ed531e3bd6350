package duoquiz

import "testing"

func TestNormalizeTopic(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		fallback string
		want     string
	}{
		{"empty returns fallback", "", "volcanoes", "volcanoes"},
		{"blank returns fallback", "   ", "volcanoes", "volcanoes"},
		{"exact interest", "history", "x", "history"},
		{"case and space folded", "  Science ", "x", "science"},
		{"synonym soccer", "soccer", "x", "sports"},
		{"synonym coding", "Coding", "x", "technology"},
		{"synonym multi word", "machine learning", "x", "technology"},
		{"fuzzy typo", "histroy", "x", "history"},
		{"fuzzy plural", "Sciences", "x", "science"},
		{"fuzzy spelling", "musik", "x", "music"},
		{"fuzzy phrase", "world geography", "x", "geography"},
		{"no match", "xyzzy", "fallback", "fallback"},
		{"nothing in common", "qqq", "fallback", "fallback"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeTopic(tc.raw, tc.fallback)
			if got != tc.want {
				t.Errorf("NormalizeTopic(%q, %q) = %q, want %q", tc.raw, tc.fallback, got, tc.want)
			}
		})
	}
}

func TestNormalizeTopicIsIdempotentOnInterests(t *testing.T) {
	for _, interest := range StandardInterests {
		once := NormalizeTopic(interest, "fallback")
		twice := NormalizeTopic(once, "fallback")
		if once != interest {
			t.Errorf("NormalizeTopic(%q) = %q, want the interest itself", interest, once)
		}
		if twice != once {
			t.Errorf("NormalizeTopic not idempotent for %q: %q then %q", interest, once, twice)
		}
	}
}

func TestNormalizeTopicRangeIsInterestsOrFallback(t *testing.T) {
	inputs := []string{"volcanoes", "astronomy", "cookery", "space travel", "zzzz 123", "Ancient Rome", "jazz", "🙂"}
	for _, raw := range inputs {
		got := NormalizeTopic(raw, "fallback")
		if got != "fallback" && !IsStandardInterest(got) {
			t.Errorf("NormalizeTopic(%q) = %q, which is neither an interest nor the fallback", raw, got)
		}
	}
}

func TestSynonymsMapOntoInterests(t *testing.T) {
	for synonym, interest := range topicSynonyms {
		if !IsStandardInterest(interest) {
			t.Errorf("synonym %q maps onto %q, which is not a standard interest", synonym, interest)
		}
	}
}

package subject

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     string
	}{
		{"what is", "What is photosynthesis?", "photosynthesis"},
		{"process of", "Explain the process of photosynthesis", "photosynthesis"},
		{"tell me about person", "Tell me about Leonardo da Vinci", "Leonardo da Vinci"},
		{"benefits of", "What are the benefits of renewable energy?", "renewable energy"},
		{"uses for", "uses for baking soda", "baking soda"},
		{"how to multi word", "How to bake chocolate chip cookies?", "bake chocolate chip cookies"},
		{"how to mapped verb", "How to bake?", "baking"},
		{"how to mapped verb lowercase", "how to Swim", "swimming"},
		{"how to generic e", "How to juggle", "juggling"},
		{"how to generic", "how to jump!", "jumping"},
		{"how to already gerund", "how to skiing", "skiing"},
		{"how to article stripped", "How to the moon", "moon"},
		{"how to beats of pattern", "how to improve the structure of essays", "improve the structure of essays"},
		{"in pattern", "photosynthesis in plants", "photosynthesis"},
		{"in pattern after prefix", "Describe DNA replication in human cells", "DNA replication"},
		{"versus", "Solar versus wind power", "Solar vs wind power"},
		{"vs", "cats vs dogs", "cats vs dogs"},
		{"longest prefix", "What is the speed of light", "speed of light"},
		{"long prefix over short", "Can you explain machine learning?", "machine learning"},
		{"single prefix only", "Tell me about what is gravity", "what is gravity"},
		{"key noun window", "why do computers need a cooling system to work properly", "a cooling system"},
		{"mid sentence pattern not extracted", "I keep wondering about the process of photosynthesis", "about the process"},
		{"proper noun", "who won the famous battle near Waterloo", "Waterloo"},
		{"last three words", "why do we always feel so sleepy after lunch", "sleepy after lunch"},
		{"empty", "", ""},
		{"only punctuation", "  ?!  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.question); got != tt.want {
				t.Errorf("Extract(%q) = %q, want %q", tt.question, got, tt.want)
			}
		})
	}
}

func TestExtract_IdempotentOnShortPhrases(t *testing.T) {
	for _, phrase := range []string{"renewable energy", "black hole", "Eiffel Tower", "photosynthesis"} {
		once := Extract(phrase)
		if once != phrase {
			t.Errorf("Extract(%q) = %q, want unchanged", phrase, once)
		}
		if twice := Extract(once); twice != once {
			t.Errorf("Extract(Extract(%q)) = %q, want %q", phrase, twice, once)
		}
	}
}

func TestExtract_EveryMappedGerund(t *testing.T) {
	for verb, gerund := range gerunds {
		if got := Extract("How to " + verb + "?"); got != gerund {
			t.Errorf("Extract(how to %s) = %q, want %q", verb, got, gerund)
		}
	}
}

func TestGerund(t *testing.T) {
	tests := map[string]string{
		"Run":    "running",
		"hike":   "hiking",
		"jump":   "jumping",
		"coding": "coding",
	}
	for in, want := range tests {
		if got := Gerund(in); got != want {
			t.Errorf("Gerund(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSortedPrefixes_LongestFirst(t *testing.T) {
	for i := 1; i < len(sortedPrefixes); i++ {
		if len(sortedPrefixes[i]) > len(sortedPrefixes[i-1]) {
			t.Fatalf("prefix %q sorted after shorter %q", sortedPrefixes[i], sortedPrefixes[i-1])
		}
	}
}

package study

import "testing"

var planets = []Choice{
	{ID: "A", Text: "Mercury"},
	{ID: "B", Text: "Venus"},
	{ID: "C", Text: "Jupiter"},
	{ID: "D", Text: "Saturn"},
}

func TestOptionMatcher(t *testing.T) {
	m := newOptionMatcher()
	tests := []struct {
		answer string
		wantID string
		wantOK bool
	}{
		{"b", "B", true},
		{"B)", "B", true},
		{"(c)", "C", true},
		{"option D", "D", true},
		{"The answer is a", "A", true},
		{"B) Venus", "B", true},
		{"venus", "B", true},
		{"  SATURN ", "D", true},
		{"jupitor", "C", true},
		{"e", "", false},
		{"banana bread", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			id, ok := m.match(tt.answer, planets)
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("match(%q) = (%q, %v), want (%q, %v)", tt.answer, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestOptionMatcher_TieRejected(t *testing.T) {
	m := newOptionMatcher()
	opts := []Choice{{ID: "A", Text: "Paris"}, {ID: "B", Text: "Paris"}}
	// Exact text wins on the first option even when texts repeat.
	if id, ok := m.match("paris", opts); !ok || id != "A" {
		t.Errorf("exact match = (%q, %v), want (A, true)", id, ok)
	}
	if id, ok := m.match("parris", opts); ok {
		t.Errorf("tied fuzzy match should be rejected, got %q", id)
	}
}

func TestOptionMatcher_NoOptions(t *testing.T) {
	if _, ok := newOptionMatcher().match("a", nil); ok {
		t.Error("expected no match without options")
	}
}

package lipsync_test

import (
	"testing"

	"github.com/AbhiramValmeekam/adam-project/pkg/provider/lipsync"
)

func TestPlaceholderCues(t *testing.T) {
	cues := lipsync.PlaceholderCues()
	want := []lipsync.Cue{
		{Start: 0.0, End: 0.5, Value: "A"},
		{Start: 0.5, End: 1.0, Value: "B"},
		{Start: 1.0, End: 1.5, Value: "C"},
	}
	if len(cues) != len(want) {
		t.Fatalf("got %d cues, want %d", len(cues), len(want))
	}
	for i := range want {
		if cues[i] != want[i] {
			t.Errorf("cue[%d] = %+v, want %+v", i, cues[i], want[i])
		}
	}

	// Callers may mutate the result.
	cues[0].Value = "X"
	if lipsync.PlaceholderCues()[0].Value != "A" {
		t.Error("PlaceholderCues shares its backing array")
	}
}

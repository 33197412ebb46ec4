package placeholder

import (
	"context"
	"testing"
	"time"

	"github.com/AbhiramValmeekam/adam-project/pkg/provider/image"
)

func fixedClock() time.Time { return time.UnixMilli(1_700_000_000_000) }

func TestFetch_ReturnsCountWithSequentialSeeds(t *testing.T) {
	p := New(WithClock(fixedClock))
	got := p.Fetch(context.Background(), "black hole", 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 descriptors, got %d", len(got))
	}
	want := []string{
		"https://picsum.photos/400/300?random=1700000000000",
		"https://picsum.photos/400/300?random=1700000000001",
		"https://picsum.photos/400/300?random=1700000000002",
	}
	for i, d := range got {
		if d.URL != want[i] {
			t.Errorf("[%d] URL = %q, want %q", i, d.URL, want[i])
		}
		if d.Source != image.SourcePlaceholder || d.Tier != image.TierPlaceholder {
			t.Errorf("[%d] source/tier = %q/%q", i, d.Source, d.Tier)
		}
		if d.Label != "black hole" || d.Photographer != Photographer {
			t.Errorf("[%d] label/photographer = %q/%q", i, d.Label, d.Photographer)
		}
	}
}

func TestFetch_NonPositiveCount(t *testing.T) {
	p := New()
	if got := p.Fetch(context.Background(), "x", 0); len(got) != 0 {
		t.Errorf("count 0: got %d descriptors", len(got))
	}
	if got := p.Fetch(context.Background(), "x", -2); len(got) != 0 {
		t.Errorf("count -2: got %d descriptors", len(got))
	}
}

func TestWithBaseURL_TrimsSlash(t *testing.T) {
	p := New(WithBaseURL("http://img.local/"))
	if got := p.URL(7); got != "http://img.local/400/300?random=7" {
		t.Errorf("URL = %q", got)
	}
}

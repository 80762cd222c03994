package search

import (
	"reflect"
	"slices"
	"testing"

	"github.com/kbukum/jumptube/transcript"
)

func TestExtractTerms(t *testing.T) {
	tests := []struct {
		prompt string
		want   []string
	}{
		{"How do Go channels work?", []string{"how", "channels", "work"}},
		{"go is ok", []string{"go", "is", "ok"}},
		{"Kubernetes, kubernetes & KUBERNETES pods", []string{"kubernetes", "kubernetes", "kubernetes", "pods"}},
		{"go go go", []string{"go", "go", "go"}},
		{"C++ vs C#", []string{"c", "vs", "c"}},
		{"état naïve 42", []string{"tat"}},
		{"?!...", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			got := ExtractTerms(tt.prompt)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestScore(t *testing.T) {
	if got := Score("Channels and more CHANNELS", []string{"channels"}); got != 2 {
		t.Fatalf("expected repeated occurrences to count twice, got %d", got)
	}
	if got := Score("unchannelsed", []string{"channels", "chan"}); got != 2 {
		t.Fatalf("expected substring matches to count, got %d", got)
	}
	if got := Score("nothing here", []string{"go"}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestRank_RepeatedPromptWordWeighsMore(t *testing.T) {
	terms := ExtractTerms("hope hope give")
	segs := []transcript.Segment{
		{Seconds: 10, Text: "never give up"},
		{Seconds: 20, Text: "there is hope"},
	}
	got := Rank("ref", segs, terms, 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %+v", got)
	}
	if got[0].Seconds != 20 || got[0].Score != 2 || got[1].Score != 1 {
		t.Fatalf("expected the hope line first with score 2, got %+v", got)
	}
}

func TestScoreMonotonic(t *testing.T) {
	terms := []string{"goroutine", "channel"}
	text := "a goroutine sends on a channel"
	before := Score(text, terms)
	after := Score(text+" then another goroutine", terms)
	if after < before {
		t.Fatalf("expected score not to decrease, %d -> %d", before, after)
	}
}

func segments() []transcript.Segment {
	return []transcript.Segment{
		{Seconds: 10, Text: "intro to go"},
		{Seconds: 125, Text: "channels and goroutines and channels"},
		{Seconds: 65, Text: "channels block"},
		{Seconds: 30, Text: "unrelated talk"},
		{Seconds: 5, Text: "channels everywhere"},
	}
}

func TestRankOrderAndFormatting(t *testing.T) {
	got := Rank("https://youtu.be/abc", segments(), []string{"channels"}, 0)
	want := []Match{
		{Score: 2, Seconds: 125, Text: "channels and goroutines and channels", Time: "02:05", URL: "https://youtu.be/abc?t=125s"},
		{Score: 1, Seconds: 5, Text: "channels everywhere", Time: "00:05", URL: "https://youtu.be/abc?t=5s"},
		{Score: 1, Seconds: 65, Text: "channels block", Time: "01:05", URL: "https://youtu.be/abc?t=65s"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestRankIndependentOfInputOrder(t *testing.T) {
	segs := append(segments(), transcript.Segment{Seconds: 5, Text: "again channels"})
	forward := Rank("ref", segs, []string{"channels", "goroutines"}, 0)

	reversed := slices.Clone(segs)
	slices.Reverse(reversed)
	backward := Rank("ref", reversed, []string{"channels", "goroutines"}, 0)

	if !reflect.DeepEqual(forward, backward) {
		t.Fatalf("expected identical order, got %+v and %+v", forward, backward)
	}
	for i := 1; i < len(forward); i++ {
		a, b := forward[i-1], forward[i]
		if a.Score < b.Score || (a.Score == b.Score && a.Seconds > b.Seconds) {
			t.Fatalf("entries %d and %d out of order: %+v, %+v", i-1, i, a, b)
		}
	}
}

func TestRankTopK(t *testing.T) {
	terms := []string{"channels"}
	for _, k := range []int{1, 2, 3, 10} {
		got := Rank("ref", segments(), terms, k)
		if len(got) > k {
			t.Fatalf("top_k=%d returned %d entries", k, len(got))
		}
	}
	for _, k := range []int{0, -1} {
		if got := Rank("ref", segments(), terms, k); len(got) != 3 {
			t.Fatalf("top_k=%d expected all 3 entries, got %d", k, len(got))
		}
	}
}

func TestRankEmptyInputs(t *testing.T) {
	if got := Rank("ref", nil, []string{"go"}, 5); len(got) != 0 {
		t.Fatalf("expected no matches for no segments, got %v", got)
	}
	if got := Rank("ref", segments(), ExtractTerms("!!!"), 5); len(got) != 0 {
		t.Fatalf("expected no matches for no terms, got %v", got)
	}
}

func TestFormatTime(t *testing.T) {
	tests := map[int]string{0: "00:00", 65: "01:05", 599: "09:59", 3661: "61:01"}
	for in, want := range tests {
		if got := FormatTime(in); got != want {
			t.Errorf("FormatTime(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestDeepLink(t *testing.T) {
	tests := []struct {
		ref     string
		seconds int
		want    string
	}{
		{"https://youtu.be/abc", 125, "https://youtu.be/abc?t=125s"},
		{"https://x.com/watch?v=abc", 65, "https://x.com/watch?v=abc&t=65s"},
		{"https://x.com/watch?", 0, "https://x.com/watch?&t=0s"},
	}
	for _, tt := range tests {
		if got := DeepLink(tt.ref, tt.seconds); got != tt.want {
			t.Errorf("DeepLink(%q, %d) = %q, want %q", tt.ref, tt.seconds, got, tt.want)
		}
	}
}

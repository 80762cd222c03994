package search

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/kbukum/jumptube/transcript"
)

// Match is one ranked transcript segment.
type Match struct {
	Score   int    `json:"score"`
	Seconds int    `json:"seconds"`
	Text    string `json:"text"`
	Time    string `json:"time"`
	URL     string `json:"url"`
}

// Score counts non-overlapping occurrences of every term in the
// lower-cased text.
func Score(text string, terms []string) int {
	lower := strings.ToLower(text)
	score := 0
	for _, term := range terms {
		if term == "" {
			continue
		}
		score += strings.Count(lower, term)
	}
	return score
}

// Rank scores segments against terms, drops zero scores and orders by
// score descending, then offset ascending, then text. topK > 0 caps the
// result; anything else returns every scoring segment. ref is the base of
// each match's deep link.
func Rank(ref string, segments []transcript.Segment, terms []string, topK int) []Match {
	if len(segments) == 0 || len(terms) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(segments))
	for _, seg := range segments {
		score := Score(seg.Text, terms)
		if score == 0 {
			continue
		}
		matches = append(matches, Match{Score: score, Seconds: seg.Seconds, Text: seg.Text})
	}

	slices.SortFunc(matches, func(a, b Match) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Seconds, b.Seconds); c != 0 {
			return c
		}
		return strings.Compare(a.Text, b.Text)
	})

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	for i := range matches {
		matches[i].Time = FormatTime(matches[i].Seconds)
		matches[i].URL = DeepLink(ref, matches[i].Seconds)
	}
	return matches
}

// FormatTime renders seconds as MM:SS. Minutes are not wrapped into hours.
func FormatTime(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// DeepLink appends a t=<seconds>s parameter to ref.
func DeepLink(ref string, seconds int) string {
	sep := "?"
	if strings.Contains(ref, "?") {
		sep = "&"
	}
	return ref + sep + "t=" + strconv.Itoa(seconds) + "s"
}

// Package transcript turns engine output into the line-oriented transcript
// text that is cached per video, parses it back into timed segments, and
// owns the coalescing store in front of the extraction pipeline.
package transcript

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/kbukum/jumptube/transcription"
)

// Segment is one timestamped transcript line.
type Segment struct {
	Seconds int    `json:"seconds"`
	Text    string `json:"text"`
}

var linePattern = regexp.MustCompile(`^\[(\d+)\]\s*(.*)$`)

// Format renders utterances as "[<whole seconds>] <text>" lines. Start
// times are clamped at zero and floored; utterances with blank text are
// skipped.
func Format(utterances []transcription.Utterance) string {
	lines := make([]string, 0, len(utterances))
	for _, u := range utterances {
		text := strings.TrimSpace(u.Text)
		if text == "" {
			continue
		}
		seconds := int64(math.Floor(math.Max(u.Start, 0)))
		lines = append(lines, "["+strconv.FormatInt(seconds, 10)+"] "+text)
	}
	return strings.Join(lines, "\n")
}

// Parse reads transcript text back into segments in input order. Lines
// that do not match, that carry no text, or whose offset overflows an int
// are dropped.
func Parse(raw string) []Segment {
	if raw == "" {
		return nil
	}
	var segments []Segment
	for _, line := range strings.Split(raw, "\n") {
		m := linePattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[2])
		if text == "" {
			continue
		}
		seconds, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		segments = append(segments, Segment{Seconds: seconds, Text: text})
	}
	return segments
}

// Package search ranks transcript segments against a free-text prompt by
// lexical term counts and formats the hits as timestamped deep links.
package search

import (
	"regexp"
	"strings"
)

// MinTermLength is the preferred minimum token length.
const MinTermLength = 3

var tokenPattern = regexp.MustCompile(`[a-zA-Z0-9]+`)

// ExtractTerms returns the lower-cased ASCII alphanumeric tokens of prompt
// in prompt order. Repeated words are kept, so a word the prompt repeats
// weighs more in Score. Tokens shorter than MinTermLength are dropped
// unless nothing longer exists. A prompt with no alphanumerics yields nil.
func ExtractTerms(prompt string) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(prompt), -1)
	if len(tokens) == 0 {
		return nil
	}
	var long []string
	for _, tok := range tokens {
		if len(tok) >= MinTermLength {
			long = append(long, tok)
		}
	}
	if len(long) > 0 {
		return long
	}
	return tokens
}

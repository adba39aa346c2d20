package analyzer

import "strings"

// Classify scans the utterance against the intent table and returns the
// first intent with any matching pattern. The second return is false
// when no pattern anywhere in the table matched, which the orchestrator
// treats as "defer to the generative tier".
//
// Matching is case-insensitive substring search: the utterance is
// lower-cased and trimmed, and every pattern uses regexp search rather
// than full match.
func Classify(utterance string) (string, bool) {
	text := strings.ToLower(strings.TrimSpace(utterance))
	if text == "" {
		return "", false
	}

	for _, entry := range intentPatterns {
		for _, p := range entry.patterns {
			if p.MatchString(text) {
				return entry.name, true
			}
		}
	}

	return "", false
}

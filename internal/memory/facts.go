package memory

import (
	"regexp"
	"strings"
)

// factPattern pairs an extraction regex with the fact type it yields.
type factPattern struct {
	pattern  *regexp.Regexp
	factType string
}

// factPatterns are tried in order against every user utterance; all
// matches are harvested, not just the first.
var factPatterns = []factPattern{
	{regexp.MustCompile(`my name is (\w+)`), "name"},
	{regexp.MustCompile(`call me (\w+)`), "name"},
	{regexp.MustCompile(`i like (.+)`), "preference"},
	{regexp.MustCompile(`i prefer (.+)`), "preference"},
	{regexp.MustCompile(`i work at (.+)`), "job"},
	{regexp.MustCompile(`my job is (.+)`), "job"},
	{regexp.MustCompile(`remember that (.+)`), "important"},
}

// ExtractFacts scans user input for personal facts and stores them.
// Duplicates are ignored by the store; extraction never fails the
// surrounding command.
func (s *Store) ExtractFacts(input string) {
	text := strings.ToLower(input)
	for _, fp := range factPatterns {
		for _, m := range fp.pattern.FindAllStringSubmatch(text, -1) {
			content := strings.TrimSpace(strings.Trim(m[1], ".!?"))
			if content == "" {
				continue
			}
			// Best effort: a failed insert loses one fact, nothing else.
			_ = s.AddFact(fp.factType, content, input)
		}
	}
}

package analyzer

import (
	"strings"

	"github.com/FayezBast/jarvis/pkg/models"
)

// MapAction resolves the specific action within an already-chosen
// intent. It is a second, finer regex pass over the same utterance; it
// never re-derives the intent. Intents without a registered table, and
// utterances matching none of the intent's rules, resolve to the
// default_action sentinel.
func MapAction(intent, utterance string) string {
	rules, ok := actionPatterns[intent]
	if !ok {
		return models.ActionDefault
	}

	text := strings.ToLower(strings.TrimSpace(utterance))
	for _, rule := range rules {
		if rule.pattern.MatchString(text) {
			return rule.action
		}
	}

	return models.ActionDefault
}

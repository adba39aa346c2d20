package analyzer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/FayezBast/jarvis/pkg/models"
)

// Words stripped from a file_creation utterance when deriving the
// content topic. Covers command verbs, articles, and format keywords.
var topicStopWords = buildTopicStopWords()

func buildTopicStopWords() map[string]bool {
	words := []string{
		"create", "make", "generate", "write", "new",
		"a", "an", "the", "me", "my", "please", "for", "about", "on", "with",
		"file", "document", "doc", "report", "note", "spreadsheet",
		"word", "excel", "pdf", "text", "txt", "python", "py", "code",
		"script", "json", "html", "markdown", "md", "csv", "docx", "xlsx",
	}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

var (
	cityFallbackPattern = regexp.MustCompile(`(?:weather|temperature|forecast)[\w\s',]*?\b(?:in|for|at)\s+([a-z][a-z\s-]+)`)
	openAppPattern      = regexp.MustCompile(`\bopen\s+(?:the\s+)?(.+?)\s*$`)
)

// ExtractParameters applies the generic parameter table and then the
// intent-specific refinements. Refinements only fill gaps; they never
// overwrite a value the generic pass already set. Malformed values
// (non-numeric coordinates) are dropped rather than reported.
func ExtractParameters(utterance, intent, action string) map[string]any {
	text := strings.ToLower(strings.TrimSpace(utterance))
	params := make(map[string]any)

	for _, rule := range parameterPatterns {
		m := rule.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if rule.name == "coordinates" {
			x, errX := strconv.Atoi(m[1])
			y, errY := strconv.Atoi(m[2])
			if errX == nil && errY == nil {
				params["x"] = x
				params["y"] = y
			}
			continue
		}
		if v := strings.TrimSpace(m[1]); v != "" {
			params[rule.name] = v
		}
	}

	switch intent {
	case models.IntentFileCreation:
		refineFileCreation(text, params)
	case models.IntentWeatherInquiry:
		refineWeather(text, params)
	case models.IntentSystemControl:
		if action == "open_application" {
			refineOpenApplication(text, params)
		}
	}

	return params
}

// refineFileCreation always derives file_type from format keywords and
// falls back to a stop-word-stripped content topic when no explicit
// content was captured.
func refineFileCreation(text string, params map[string]any) {
	if _, ok := params["file_type"]; !ok {
		ext := "txt"
		for _, fk := range fileTypeKeywords {
			if strings.Contains(text, fk.keyword) {
				ext = fk.ext
				break
			}
		}
		params["file_type"] = ext
	}

	if _, ok := params["content"]; ok {
		return
	}
	if _, ok := params["content_topic"]; ok {
		return
	}

	kept := []string{}
	for _, word := range strings.Fields(text) {
		trimmed := strings.Trim(word, ".,!?\"'")
		if trimmed == "" || topicStopWords[trimmed] {
			continue
		}
		kept = append(kept, trimmed)
	}

	topic := strings.Join(kept, " ")
	if topic == "" {
		topic = "general topic"
	}
	params["content_topic"] = topic
}

// refineWeather retries city extraction with a looser pattern anchored
// on the weather keywords, for phrasings the generic rule misses.
func refineWeather(text string, params map[string]any) {
	if _, ok := params["city"]; ok {
		return
	}
	if m := cityFallbackPattern.FindStringSubmatch(text); m != nil {
		city := strings.TrimSpace(strings.Trim(m[1], "?. "))
		if city != "" {
			params["city"] = city
		}
	}
}

// refineOpenApplication captures the words following "open" when the
// generic application rule (which only covers launch/start) found
// nothing.
func refineOpenApplication(text string, params map[string]any) {
	if _, ok := params["application"]; ok {
		return
	}
	if m := openAppPattern.FindStringSubmatch(text); m != nil {
		app := strings.TrimSpace(m[1])
		if app != "" {
			params["application"] = app
		}
	}
}

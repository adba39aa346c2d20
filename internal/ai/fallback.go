package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/FayezBast/jarvis/pkg/models"
)

// GenerativeConfidence tags results from the generative tier. Higher
// than the rule tier: the slower path is the stronger one.
const GenerativeConfidence = 0.9

const (
	maxHistoryTurns   = 4
	maxHistoryContent = 100
)

// ErrNoJSON is returned when the model reply contains no parseable
// JSON object.
var ErrNoJSON = errors.New("no JSON object in model reply")

var validIntents = []string{
	models.IntentFileCreation,
	models.IntentFileManagement,
	models.IntentSystemControl,
	models.IntentPowershellTask,
	models.IntentWebBrowse,
	models.IntentWeatherInquiry,
	models.IntentKnowledgeInquiry,
	models.IntentMemoryQuery,
	models.IntentClipboard,
	models.IntentWindowsAutomation,
	models.IntentHelp,
	models.IntentConversation,
}

// FallbackAdapter wraps a TextGenerator with the structured analysis
// prompt and parses the reply into a CommandAnalysis. It either
// returns a valid analysis or an error; the orchestrator owns the
// decision of what to do on failure.
type FallbackAdapter struct {
	gen    TextGenerator
	logger *zap.Logger
}

// NewFallbackAdapter creates the generative fallback tier.
func NewFallbackAdapter(gen TextGenerator, logger *zap.Logger) *FallbackAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackAdapter{gen: gen, logger: logger}
}

// Analyze asks the model to classify the command and parses the first
// JSON object found in the reply.
func (f *FallbackAdapter) Analyze(ctx context.Context, command string, history []models.HistoryEntry) (*models.CommandAnalysis, error) {
	prompt := buildPrompt(command, history)

	reply, err := f.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generative analysis failed: %w", err)
	}

	span, err := extractJSON(reply)
	if err != nil {
		f.logger.Debug("unparseable model reply", zap.String("reply", reply))
		return nil, err
	}

	return parseAnalysis(span)
}

// buildPrompt embeds the intent vocabulary, recent history, and worked
// examples demonstrating the exact JSON shape expected.
func buildPrompt(command string, history []models.HistoryEntry) string {
	var b strings.Builder

	b.WriteString("You are the core logic of the JARVIS assistant. Analyze the user's command in the context of the conversation history.\n\n")

	b.WriteString("CONVERSATION HISTORY:\n")
	start := len(history) - maxHistoryTurns
	if start < 0 {
		start = 0
	}
	for _, entry := range history[start:] {
		content := entry.Content
		if runes := []rune(content); len(runes) > maxHistoryContent {
			content = string(runes[:maxHistoryContent]) + "..."
		}
		fmt.Fprintf(&b, "%s: %s\n", capitalize(entry.Role), content)
	}

	fmt.Fprintf(&b, "\nLATEST USER COMMAND: %q\n\n", command)

	b.WriteString("First, determine if the command is a task or general conversation.\n\n")
	b.WriteString("1. If it is a task, identify the intent and action.\n")
	fmt.Fprintf(&b, "   - Valid intents: %s\n", strings.Join(validIntents, ", "))
	b.WriteString(`   - Examples:
     - "create word doc" -> {"intent": "file_creation", "action": "create_word", "parameters": {"file_type": "docx"}, "response": null}
     - "open chrome" -> {"intent": "system_control", "action": "open_application", "parameters": {"application": "chrome"}, "response": null}
     - "what is the weather in Paris" -> {"intent": "weather_inquiry", "action": "get_weather", "parameters": {"city": "Paris"}, "response": null}
     - "tell me about Jupiter" -> {"intent": "knowledge_inquiry", "action": "get_summary", "parameters": {"topic": "Jupiter"}, "response": null}
     - "click at coordinates 500, 300" -> {"intent": "windows_automation", "action": "click_coordinates", "parameters": {"x": 500, "y": 300}, "response": null}
   - Extract all relevant parameters and set "response" to null.
`)
	b.WriteString("\n2. If it is a general question, chat, or a follow-up without a clear action, set intent to \"conversation\", action to \"chat\", and write a helpful answer in \"response\", using the history for context.\n\n")
	b.WriteString("IMPORTANT: Respond with ONLY a single, valid JSON object and nothing else.\n")

	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// extractJSON returns the first balanced {...} span in s. The scan is
// brace-matching and string-aware, so prose before or after the object
// and braces inside string values are tolerated.
func extractJSON(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", ErrNoJSON
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("%w: unbalanced braces", ErrNoJSON)
}

// parseAnalysis decodes the JSON span, defaulting missing fields to a
// plain conversational result.
func parseAnalysis(span string) (*models.CommandAnalysis, error) {
	if !gjson.Valid(span) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrNoJSON)
	}

	analysis := &models.CommandAnalysis{
		Intent:     models.IntentConversation,
		Action:     models.ActionChat,
		Parameters: map[string]any{},
		Confidence: GenerativeConfidence,
	}

	if v := gjson.Get(span, "intent"); v.Exists() && v.String() != "" {
		analysis.Intent = v.String()
	}
	if v := gjson.Get(span, "action"); v.Exists() && v.String() != "" {
		analysis.Action = v.String()
	}
	if v := gjson.Get(span, "response"); v.Exists() && v.Type == gjson.String {
		analysis.Response = v.String()
	}
	if v := gjson.Get(span, "parameters"); v.IsObject() {
		params := map[string]any{}
		if err := json.Unmarshal([]byte(v.Raw), &params); err == nil {
			analysis.Parameters = params
		}
	}

	return analysis, nil
}

package models

// Intent names produced by the analyzer. Downstream executors switch on
// these, so they must match the pattern tables exactly.
const (
	IntentFileCreation       = "file_creation"
	IntentFileManagement     = "file_management"
	IntentSystemControl      = "system_control"
	IntentPowershellTask     = "powershell_task"
	IntentWebBrowse          = "web_browse"
	IntentWeatherInquiry     = "weather_inquiry"
	IntentKnowledgeInquiry   = "knowledge_inquiry"
	IntentMemoryQuery        = "memory_query"
	IntentClipboard          = "clipboard_management"
	IntentWindowsAutomation  = "windows_automation"
	IntentHelp               = "help"
	IntentConversation       = "conversation"
)

// Sentinel actions meaning "no specific sub-action resolved".
const (
	ActionDefault = "default_action"
	ActionChat    = "chat"
)

// CommandAnalysis is the analyzer's output contract. Both the rule path
// and the generative path construct this same shape.
//
// When Response is non-empty the analysis is a direct conversational
// answer and Action carries no executable meaning; callers branch on
// Response first.
type CommandAnalysis struct {
	Intent               string         `json:"intent"`
	Action               string         `json:"action"`
	Parameters           map[string]any `json:"parameters"`
	Response             string         `json:"response,omitempty"`
	Confidence           float64        `json:"confidence"`
	RequiresConfirmation bool           `json:"requires_confirmation"`
}

// HasResponse reports whether this analysis is a direct conversational
// answer rather than an executable command.
func (a *CommandAnalysis) HasResponse() bool {
	return a.Response != ""
}

// StringParam returns the named parameter as a string. Missing keys and
// non-string values both return "".
func (a *CommandAnalysis) StringParam(key string) string {
	if a.Parameters == nil {
		return ""
	}
	s, _ := a.Parameters[key].(string)
	return s
}

// IntParam returns the named parameter as an int.
func (a *CommandAnalysis) IntParam(key string) (int, bool) {
	if a.Parameters == nil {
		return 0, false
	}
	switch v := a.Parameters[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// HistoryEntry is one turn of conversation context. The analyzer reads
// history as a caller-supplied snapshot and never mutates it.
type HistoryEntry struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Fact is a piece of long-term knowledge extracted from user input.
type Fact struct {
	Type      string `json:"type"`
	Content   string `json:"content"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

// ConversationEntry is a persisted conversation turn.
type ConversationEntry struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	SessionID string `json:"session_id"`
	Timestamp string `json:"timestamp"`
}

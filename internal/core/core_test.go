package core

import (
	"context"
	"testing"

	"github.com/FayezBast/jarvis/internal/db"
	"github.com/FayezBast/jarvis/internal/memory"
	"github.com/FayezBast/jarvis/internal/mocks"
	"github.com/FayezBast/jarvis/pkg/models"
)

func setupTestMemory(t *testing.T) (*memory.Store, *db.DB) {
	t.Helper()
	database, err := db.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return memory.NewStore(database.Conn()), database
}

func TestProcessCommandExecutes(t *testing.T) {
	a := &mocks.Analyzer{Result: &models.CommandAnalysis{
		Intent:     models.IntentSystemControl,
		Action:     "open_application",
		Parameters: map[string]any{"application": "chrome"},
		Confidence: 0.8,
	}}
	e := &mocks.Executor{Response: "Attempting to open chrome..."}
	c := New(a, e, nil, nil, nil)

	response := c.ProcessCommand(context.Background(), "open chrome")

	if response != "Attempting to open chrome..." {
		t.Errorf("Unexpected response: %q", response)
	}
	if a.Calls != 1 {
		t.Errorf("Expected 1 analyzer call, got %d", a.Calls)
	}
	if e.Calls != 1 {
		t.Errorf("Expected 1 executor call, got %d", e.Calls)
	}
	if e.Executed[0].Intent != models.IntentSystemControl {
		t.Errorf("Executor received wrong analysis: %+v", e.Executed[0])
	}
}

// A direct conversational answer from the analyzer bypasses the
// executor entirely.
func TestProcessCommandDirectResponse(t *testing.T) {
	a := &mocks.Analyzer{Result: &models.CommandAnalysis{
		Intent:     models.IntentConversation,
		Action:     models.ActionChat,
		Parameters: map[string]any{},
		Response:   "Hello! How can I help?",
		Confidence: 0.9,
	}}
	e := &mocks.Executor{}
	c := New(a, e, nil, nil, nil)

	response := c.ProcessCommand(context.Background(), "hello")

	if response != "Hello! How can I help?" {
		t.Errorf("Unexpected response: %q", response)
	}
	if e.Calls != 0 {
		t.Errorf("Expected executor to be skipped, got %d calls", e.Calls)
	}
}

func TestProcessCommandHistoryWindow(t *testing.T) {
	a := &mocks.Analyzer{Result: &models.CommandAnalysis{
		Intent:     models.IntentConversation,
		Action:     models.ActionChat,
		Parameters: map[string]any{},
		Response:   "ok",
		Confidence: 0.9,
	}}
	c := New(a, &mocks.Executor{}, nil, nil, nil)

	for i := 0; i < 10; i++ {
		c.ProcessCommand(context.Background(), "turn")
	}

	if len(c.history) != defaultHistoryWindow {
		t.Errorf("Expected history capped at %d, got %d", defaultHistoryWindow, len(c.history))
	}
	// The window holds alternating user/assistant turns, newest last.
	last := c.history[len(c.history)-1]
	if last.Role != "assistant" || last.Content != "ok" {
		t.Errorf("Unexpected newest history entry: %+v", last)
	}
}

func TestProcessCommandPersistsMemory(t *testing.T) {
	mem, _ := setupTestMemory(t)
	a := &mocks.Analyzer{Result: &models.CommandAnalysis{
		Intent:     models.IntentConversation,
		Action:     models.ActionChat,
		Parameters: map[string]any{},
		Response:   "Nice to meet you!",
		Confidence: 0.9,
	}}
	c := New(a, &mocks.Executor{}, mem, nil, nil)

	c.ProcessCommand(context.Background(), "my name is fayez")

	entries, err := mem.RecentConversation(10)
	if err != nil {
		t.Fatalf("RecentConversation failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 persisted turns, got %d", len(entries))
	}
	if entries[0].SessionID != c.SessionID() {
		t.Errorf("Expected session %q, got %q", c.SessionID(), entries[0].SessionID)
	}

	// Facts are harvested from the user turn.
	facts, err := mem.Facts()
	if err != nil {
		t.Fatalf("Facts failed: %v", err)
	}
	if len(facts) != 1 || facts[0].Type != "name" || facts[0].Content != "fayez" {
		t.Errorf("Expected extracted name fact, got %+v", facts)
	}
}

func TestProcessCommandLogsAnalysis(t *testing.T) {
	_, database := setupTestMemory(t)
	a := &mocks.Analyzer{Result: &models.CommandAnalysis{
		Intent:     models.IntentSystemControl,
		Action:     "open_application",
		Parameters: map[string]any{},
		Confidence: 0.8,
	}}
	c := New(a, &mocks.Executor{}, nil, database, nil)

	c.ProcessCommand(context.Background(), "open chrome")

	var input, method, status string
	err := database.Conn().QueryRow(
		"SELECT input, method, status FROM analysis_logs ORDER BY id DESC LIMIT 1",
	).Scan(&input, &method, &status)
	if err != nil {
		t.Fatalf("Failed to read analysis log: %v", err)
	}
	if input != "open chrome" {
		t.Errorf("Expected logged input, got %q", input)
	}
	if method != "rule" {
		t.Errorf("Expected method 'rule' for confidence 0.8, got %q", method)
	}
	if status != "completed" {
		t.Errorf("Expected status 'completed', got %q", status)
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	a := &mocks.Analyzer{}
	c1 := New(a, &mocks.Executor{}, nil, nil, nil)
	c2 := New(a, &mocks.Executor{}, nil, nil, nil)
	if c1.SessionID() == c2.SessionID() {
		t.Error("Expected distinct session IDs")
	}
	if c1.SessionID() == "" {
		t.Error("Expected non-empty session ID")
	}
}

func TestMethodForConfidence(t *testing.T) {
	tests := []struct {
		confidence float64
		method     string
	}{
		{0.8, "rule"},
		{0.3, "fallback"},
		{1.0, "greeting"},
		{0.9, "generative"},
	}
	for _, tt := range tests {
		if got := methodForConfidence(tt.confidence); got != tt.method {
			t.Errorf("methodForConfidence(%v) = %q, want %q", tt.confidence, got, tt.method)
		}
	}
}

package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/FayezBast/jarvis/internal/core"
	"github.com/FayezBast/jarvis/internal/db"
	"github.com/FayezBast/jarvis/internal/memory"
	"github.com/FayezBast/jarvis/internal/mocks"
	"github.com/FayezBast/jarvis/pkg/models"
)

func newTestREPL(t *testing.T, input string) (*REPL, *bytes.Buffer, *mocks.Executor) {
	t.Helper()
	database, err := db.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	mem := memory.NewStore(database.Conn())
	a := &mocks.Analyzer{Result: &models.CommandAnalysis{
		Intent:     models.IntentSystemControl,
		Action:     "open_application",
		Parameters: map[string]any{},
		Confidence: 0.8,
	}}
	e := &mocks.Executor{Response: "Attempting to open chrome..."}
	c := core.New(a, e, mem, database, nil)

	out := &bytes.Buffer{}
	r := NewREPL(c, database, mem)
	r.in = strings.NewReader(input)
	r.out = out
	return r, out, e
}

func TestStartProcessesCommand(t *testing.T) {
	r, out, e := newTestREPL(t, "open chrome\nexit\n")

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if e.Calls != 1 {
		t.Errorf("Expected 1 executed command, got %d", e.Calls)
	}
	output := out.String()
	if !strings.Contains(output, "Attempting to open chrome...") {
		t.Errorf("Expected command response in output, got %q", output)
	}
	if !strings.Contains(output, "Goodbye!") {
		t.Errorf("Expected farewell, got %q", output)
	}
}

func TestStartExitsOnEOF(t *testing.T) {
	r, out, e := newTestREPL(t, "")

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if e.Calls != 0 {
		t.Errorf("Expected no commands executed, got %d", e.Calls)
	}
	if !strings.Contains(out.String(), "Goodbye!") {
		t.Error("Expected farewell on EOF")
	}
}

func TestFactsBuiltin(t *testing.T) {
	r, out, e := newTestREPL(t, "facts\nquit\n")
	r.memory.AddFact("preference", "dark mode", "i prefer dark mode")

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if e.Calls != 0 {
		t.Errorf("Expected built-in to bypass the core, got %d executor calls", e.Calls)
	}
	if !strings.Contains(out.String(), "preference: dark mode") {
		t.Errorf("Expected fact listing, got %q", out.String())
	}
}

func TestFactsBuiltinEmpty(t *testing.T) {
	r, out, _ := newTestREPL(t, "facts\nexit\n")

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !strings.Contains(out.String(), "No stored facts yet.") {
		t.Errorf("Expected empty-facts message, got %q", out.String())
	}
}

func TestLogsBuiltin(t *testing.T) {
	r, out, _ := newTestREPL(t, "open chrome\nlogs\nexit\n")

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	output := out.String()
	if !strings.Contains(output, "Recent commands:") {
		t.Errorf("Expected log listing header, got %q", output)
	}
	if !strings.Contains(output, `"open chrome"`) {
		t.Errorf("Expected logged command, got %q", output)
	}
}

func TestExecuteNonInteractive(t *testing.T) {
	r, out, e := newTestREPL(t, "")

	r.ExecuteNonInteractive(context.Background(), "open chrome")

	if e.Calls != 1 {
		t.Errorf("Expected 1 executed command, got %d", e.Calls)
	}
	if !strings.Contains(out.String(), "Attempting to open chrome...") {
		t.Errorf("Expected response in output, got %q", out.String())
	}
}

package mocks

import (
	"context"
	"sync"

	"github.com/FayezBast/jarvis/pkg/models"
)

// Generator is a scripted TextGenerator for tests. Replies are
// consumed in order; when exhausted, the last one repeats.
type Generator struct {
	mu      sync.Mutex
	Replies []string
	Err     error
	Calls   int
	Prompts []string
}

// Generate returns the next scripted reply or the configured error.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Calls++
	g.Prompts = append(g.Prompts, prompt)

	if g.Err != nil {
		return "", g.Err
	}
	if len(g.Replies) == 0 {
		return "", nil
	}
	idx := g.Calls - 1
	if idx >= len(g.Replies) {
		idx = len(g.Replies) - 1
	}
	return g.Replies[idx], nil
}

// Analyzer is a canned CommandAnalyzer for core tests.
type Analyzer struct {
	mu     sync.Mutex
	Result *models.CommandAnalysis
	Calls  int
	Inputs []string
}

// Analyze records the call and returns the canned result.
func (a *Analyzer) Analyze(ctx context.Context, command string, history []models.HistoryEntry) *models.CommandAnalysis {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.Calls++
	a.Inputs = append(a.Inputs, command)

	if a.Result != nil {
		return a.Result
	}
	return &models.CommandAnalysis{
		Intent:     models.IntentConversation,
		Action:     models.ActionChat,
		Parameters: map[string]any{},
	}
}

// Executor records executed analyses and returns a fixed response.
type Executor struct {
	mu       sync.Mutex
	Response string
	Calls    int
	Executed []*models.CommandAnalysis
}

// Execute records the analysis and returns the canned response.
func (e *Executor) Execute(ctx context.Context, analysis *models.CommandAnalysis) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Calls++
	e.Executed = append(e.Executed, analysis)

	if e.Response != "" {
		return e.Response
	}
	return "done"
}

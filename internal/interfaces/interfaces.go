package interfaces

import (
	"context"

	"github.com/FayezBast/jarvis/pkg/models"
)

// CommandAnalyzer resolves a natural-language command into a typed
// analysis. Implementations never fail: degradation happens inside.
type CommandAnalyzer interface {
	// Analyze resolves command against a read-only history snapshot.
	Analyze(ctx context.Context, command string, history []models.HistoryEntry) *models.CommandAnalysis
}

// ActionExecutor turns an analysis into side effects and a textual
// response.
type ActionExecutor interface {
	// Execute runs the analyzed action and returns the response text.
	Execute(ctx context.Context, analysis *models.CommandAnalysis) string
}

// TextGenerator is an opaque text-to-text generative service.
type TextGenerator interface {
	// Generate sends one prompt and returns the raw reply.
	Generate(ctx context.Context, prompt string) (string, error)
}

// AnalysisLogger records command analyses for the logs view.
type AnalysisLogger interface {
	// LogAnalysis records the start of an analysis and returns its row ID.
	LogAnalysis(sessionID, input, intent, action string, confidence float64, method string) (int64, error)
	// UpdateLogStatus finalizes a previously logged analysis.
	UpdateLogStatus(logID int64, status, errorMsg string, durationMs int64) error
}

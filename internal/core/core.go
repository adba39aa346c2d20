package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FayezBast/jarvis/internal/analyzer"
	"github.com/FayezBast/jarvis/internal/interfaces"
	"github.com/FayezBast/jarvis/internal/memory"
	"github.com/FayezBast/jarvis/pkg/models"
)

// defaultHistoryWindow is how many turns of the session are kept as
// analyzer context.
const defaultHistoryWindow = 6

// Core wires the analyzer, executor, and memory into the assistant's
// command loop. One Core owns one session.
type Core struct {
	analyzer  interfaces.CommandAnalyzer
	executor  interfaces.ActionExecutor
	memory    *memory.Store
	logs      interfaces.AnalysisLogger
	logger    *zap.Logger
	sessionID string
	window    int
	history   []models.HistoryEntry
}

// New creates a Core with a fresh session ID. logs may be nil.
func New(a interfaces.CommandAnalyzer, e interfaces.ActionExecutor, mem *memory.Store, logs interfaces.AnalysisLogger, logger *zap.Logger) *Core {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Core{
		analyzer:  a,
		executor:  e,
		memory:    mem,
		logs:      logs,
		logger:    logger,
		sessionID: uuid.NewString(),
		window:    defaultHistoryWindow,
	}
}

// SessionID returns this core's session identifier.
func (c *Core) SessionID() string {
	return c.sessionID
}

// ProcessCommand runs one command through analysis and execution and
// returns the textual response. It always returns something to say.
func (c *Core) ProcessCommand(ctx context.Context, command string) string {
	c.logger.Info("processing command", zap.String("command", command))

	start := time.Now()
	analysis := c.analyzer.Analyze(ctx, command, c.snapshotHistory())

	logID := c.logAnalysisStart(command, analysis)

	var response string
	if analysis.HasResponse() {
		response = analysis.Response
	} else {
		response = c.executor.Execute(ctx, analysis)
	}

	c.recordTurn(command, response)
	c.logAnalysisDone(logID, time.Since(start))

	return response
}

// snapshotHistory copies the session history so the analyzer can never
// observe later mutation.
func (c *Core) snapshotHistory() []models.HistoryEntry {
	snapshot := make([]models.HistoryEntry, len(c.history))
	copy(snapshot, c.history)
	return snapshot
}

// recordTurn appends both turns to the session window and persists
// them, plus any extractable facts, to long-term memory. Memory
// failures are logged and dropped: they must not break the reply.
func (c *Core) recordTurn(command, response string) {
	if command != "" {
		c.history = append(c.history, models.HistoryEntry{Role: "user", Content: command})
	}
	c.history = append(c.history, models.HistoryEntry{Role: "assistant", Content: response})
	if len(c.history) > c.window {
		c.history = c.history[len(c.history)-c.window:]
	}

	if c.memory == nil {
		return
	}
	if command != "" {
		if err := c.memory.AddConversationEntry("user", command, c.sessionID); err != nil {
			c.logger.Warn("failed to persist user turn", zap.Error(err))
		}
		c.memory.ExtractFacts(command)
	}
	if err := c.memory.AddConversationEntry("assistant", response, c.sessionID); err != nil {
		c.logger.Warn("failed to persist assistant turn", zap.Error(err))
	}
}

func (c *Core) logAnalysisStart(command string, analysis *models.CommandAnalysis) int64 {
	if c.logs == nil {
		return 0
	}
	logID, err := c.logs.LogAnalysis(c.sessionID, command, analysis.Intent, analysis.Action, analysis.Confidence, methodForConfidence(analysis.Confidence))
	if err != nil {
		c.logger.Warn("failed to log analysis", zap.Error(err))
		return 0
	}
	return logID
}

func (c *Core) logAnalysisDone(logID int64, elapsed time.Duration) {
	if c.logs == nil || logID == 0 {
		return
	}
	if err := c.logs.UpdateLogStatus(logID, "completed", "", elapsed.Milliseconds()); err != nil {
		c.logger.Warn("failed to finalize analysis log", zap.Error(err))
	}
}

// methodForConfidence maps the provenance confidence back to the tier
// name for the logs view.
func methodForConfidence(confidence float64) string {
	switch confidence {
	case analyzer.RuleConfidence:
		return "rule"
	case analyzer.FallbackConfidence:
		return "fallback"
	case 1.0:
		return "greeting"
	default:
		return "generative"
	}
}

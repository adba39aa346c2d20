package analyzer

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/FayezBast/jarvis/internal/trace"
	"github.com/FayezBast/jarvis/pkg/models"
)

// Confidence values tag which tier produced a result. They are
// provenance signals for the caller, not branch conditions inside the
// pipeline.
const (
	RuleConfidence     = 0.8
	FallbackConfidence = 0.3
)

const defaultGenerativeTimeout = 30 * time.Second

const greetingResponse = "How can I help you?"

// fallbackResponses is the terminal tier's fixed pool of clarifying
// prompts, chosen uniformly at random.
var fallbackResponses = []string{
	"I'm not sure I understood that. Could you rephrase?",
	"I'm having trouble connecting to my advanced reasoning circuits. Can you please rephrase?",
	"I didn't quite catch that. Could you try saying it differently?",
	"I'm not certain what you'd like me to do. Could you be more specific?",
}

// Generator is the generative fallback tier. It either returns a fully
// populated analysis or an error; it never degrades silently.
type Generator interface {
	Analyze(ctx context.Context, command string, history []models.HistoryEntry) (*models.CommandAnalysis, error)
}

// Analyzer resolves a command through three tiers: deterministic rules,
// a generative model, and a static conversational fallback. Each call
// is independent and reentrant; concurrent use needs no coordination
// as long as the Generator itself is thread-safe.
type Analyzer struct {
	gen     Generator
	timeout time.Duration
	logger  *zap.Logger
	tracer  *trace.Logger
	randInt func(n int) int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithGenerator enables the generative tier.
func WithGenerator(g Generator) Option {
	return func(a *Analyzer) { a.gen = g }
}

// WithTimeout bounds the generative call. Zero keeps the default (30s).
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithTrace enables per-command tier tracing.
func WithTrace(t *trace.Logger) Option {
	return func(a *Analyzer) { a.tracer = t }
}

// WithRandSource injects the randomness used for fallback response
// selection, for deterministic tests.
func WithRandSource(randInt func(n int) int) Option {
	return func(a *Analyzer) { a.randInt = randInt }
}

// New creates an Analyzer. Without WithGenerator the generative tier
// is skipped and unmatched commands go straight to the static fallback.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		timeout: defaultGenerativeTimeout,
		logger:  zap.NewNop(),
		randInt: rand.Intn,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze is the single public entry point of the pipeline. It always
// returns a usable analysis and never an error: classification misses
// and generative failures degrade through the tiers, and the worst
// case is a generic clarifying response.
func (a *Analyzer) Analyze(ctx context.Context, command string, history []models.HistoryEntry) *models.CommandAnalysis {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return &models.CommandAnalysis{
			Intent:     models.IntentConversation,
			Action:     models.ActionChat,
			Parameters: map[string]any{},
			Response:   greetingResponse,
			Confidence: 1.0,
		}
	}

	a.tracer.Start(trimmed)

	// Tier 2: deterministic rules. A "conversation" classification is
	// not actionable, so it defers to the generative tier like a miss.
	start := time.Now()
	if intent, ok := Classify(trimmed); ok && intent != models.IntentConversation {
		action := MapAction(intent, trimmed)
		params := ExtractParameters(trimmed, intent, action)
		a.tracer.AddTier("rule", RuleConfidence, time.Since(start), "matched")
		a.tracer.End(intent, action)
		a.logger.Debug("rule tier matched",
			zap.String("intent", intent),
			zap.String("action", action))
		return &models.CommandAnalysis{
			Intent:     intent,
			Action:     action,
			Parameters: params,
			Confidence: RuleConfidence,
		}
	}
	a.tracer.AddTier("rule", 0, time.Since(start), "no match")

	// Tier 3: generative model, bounded by the configured timeout. Any
	// failure (transport, timeout, unparseable reply) falls through.
	if a.gen != nil {
		start = time.Now()
		genCtx, cancel := context.WithTimeout(ctx, a.timeout)
		result, err := a.gen.Analyze(genCtx, trimmed, history)
		cancel()
		if err == nil {
			a.tracer.AddTier("generative", result.Confidence, time.Since(start), "ok")
			a.tracer.End(result.Intent, result.Action)
			return result
		}
		a.tracer.AddTier("generative", 0, time.Since(start), err.Error())
		a.logger.Warn("generative tier failed, using static fallback", zap.Error(err))
	}

	// Tier 4: terminal conversational fallback.
	response := fallbackResponses[a.randInt(len(fallbackResponses))]
	a.tracer.AddTier("fallback", FallbackConfidence, 0, "")
	a.tracer.End(models.IntentConversation, models.ActionChat)
	return &models.CommandAnalysis{
		Intent:     models.IntentConversation,
		Action:     models.ActionChat,
		Parameters: map[string]any{},
		Response:   response,
		Confidence: FallbackConfidence,
	}
}

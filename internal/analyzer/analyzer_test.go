package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FayezBast/jarvis/internal/ai"
	"github.com/FayezBast/jarvis/internal/mocks"
	"github.com/FayezBast/jarvis/pkg/models"
)

// deadlineGen records whether the context it received carried a
// deadline, then fails so the pipeline proceeds to the static tier.
type deadlineGen struct {
	calls       int
	hadDeadline bool
	deadline    time.Time
}

func (g *deadlineGen) Analyze(ctx context.Context, command string, history []models.HistoryEntry) (*models.CommandAnalysis, error) {
	g.calls++
	g.deadline, g.hadDeadline = ctx.Deadline()
	return nil, errors.New("unavailable")
}

func TestAnalyzeEmptyInput(t *testing.T) {
	gen := &deadlineGen{}
	a := New(WithGenerator(gen))

	for _, command := range []string{"", "   ", "\t\n"} {
		result := a.Analyze(context.Background(), command, nil)

		assert.Equal(t, models.IntentConversation, result.Intent)
		assert.Equal(t, models.ActionChat, result.Action)
		assert.Equal(t, greetingResponse, result.Response)
		assert.Equal(t, 1.0, result.Confidence)
		assert.Empty(t, result.Parameters)
	}
	assert.Zero(t, gen.calls, "empty input must not reach the generative tier")
}

func TestAnalyzeRuleTier(t *testing.T) {
	gen := &deadlineGen{}
	a := New(WithGenerator(gen))

	result := a.Analyze(context.Background(), "open chrome", nil)

	assert.Equal(t, models.IntentSystemControl, result.Intent)
	assert.Equal(t, "open_application", result.Action)
	assert.Equal(t, "chrome", result.Parameters["application"])
	assert.Equal(t, RuleConfidence, result.Confidence)
	assert.False(t, result.HasResponse())
	assert.Zero(t, gen.calls, "rule matches must not reach the generative tier")
}

func TestAnalyzeGenerativeTier(t *testing.T) {
	gen := &mocks.Generator{Replies: []string{
		`Sure thing: {"intent": "web_browse", "action": "web_search", "parameters": {"search_query": "cheap flights"}, "response": null}`,
	}}
	a := New(WithGenerator(ai.NewFallbackAdapter(gen, nil)))

	result := a.Analyze(context.Background(), "can you sort my week", nil)

	assert.Equal(t, models.IntentWebBrowse, result.Intent)
	assert.Equal(t, "web_search", result.Action)
	assert.Equal(t, "cheap flights", result.Parameters["search_query"])
	assert.Equal(t, ai.GenerativeConfidence, result.Confidence)
	assert.Equal(t, 1, gen.Calls)
}

// A rule-tier "conversation" classification is not actionable, so it
// defers to the generative tier like a miss.
func TestAnalyzeConversationDefersToGenerative(t *testing.T) {
	gen := &mocks.Generator{Replies: []string{
		`{"intent": "conversation", "action": "chat", "parameters": {}, "response": "Hello! How can I help?"}`,
	}}
	a := New(WithGenerator(ai.NewFallbackAdapter(gen, nil)))

	result := a.Analyze(context.Background(), "hello there", nil)

	assert.Equal(t, 1, gen.Calls)
	assert.Equal(t, "Hello! How can I help?", result.Response)
	assert.Equal(t, ai.GenerativeConfidence, result.Confidence)
}

func TestAnalyzeStaticFallback(t *testing.T) {
	gen := &mocks.Generator{Err: errors.New("boom")}
	a := New(
		WithGenerator(ai.NewFallbackAdapter(gen, nil)),
		WithRandSource(func(n int) int { return 2 }),
	)

	result := a.Analyze(context.Background(), "can you sort my week", nil)

	assert.Equal(t, 1, gen.Calls)
	assert.Equal(t, models.IntentConversation, result.Intent)
	assert.Equal(t, models.ActionChat, result.Action)
	assert.Equal(t, FallbackConfidence, result.Confidence)
	assert.Equal(t, fallbackResponses[2], result.Response)
}

func TestAnalyzeFallbackResponsePool(t *testing.T) {
	for i := range fallbackResponses {
		i := i
		a := New(WithRandSource(func(n int) int {
			require.Equal(t, len(fallbackResponses), n)
			return i
		}))
		result := a.Analyze(context.Background(), "can you sort my week", nil)
		assert.Equal(t, fallbackResponses[i], result.Response)
	}
}

// Without a generator, an unmatched command goes straight to the
// static tier.
func TestAnalyzeNoGenerator(t *testing.T) {
	a := New(WithRandSource(func(n int) int { return 0 }))

	result := a.Analyze(context.Background(), "can you sort my week", nil)

	assert.Equal(t, models.IntentConversation, result.Intent)
	assert.Equal(t, FallbackConfidence, result.Confidence)
	assert.Equal(t, fallbackResponses[0], result.Response)
}

func TestAnalyzeGenerativeTimeoutBound(t *testing.T) {
	gen := &deadlineGen{}
	a := New(
		WithGenerator(gen),
		WithTimeout(5*time.Second),
		WithRandSource(func(n int) int { return 0 }),
	)

	before := time.Now()
	a.Analyze(context.Background(), "can you sort my week", nil)

	require.Equal(t, 1, gen.calls)
	require.True(t, gen.hadDeadline, "generative call must carry a deadline")
	remaining := gen.deadline.Sub(before)
	assert.Greater(t, remaining, 4*time.Second)
	assert.LessOrEqual(t, remaining, 5*time.Second+time.Second)
}

// A malformed reply from the generative tier degrades to the static
// fallback instead of surfacing an error.
func TestAnalyzeUnparseableReplyFallsThrough(t *testing.T) {
	gen := &mocks.Generator{Replies: []string{"I cannot answer that in JSON, sorry."}}
	a := New(
		WithGenerator(ai.NewFallbackAdapter(gen, nil)),
		WithRandSource(func(n int) int { return 1 }),
	)

	result := a.Analyze(context.Background(), "can you sort my week", nil)

	assert.Equal(t, 1, gen.Calls)
	assert.Equal(t, FallbackConfidence, result.Confidence)
	assert.Equal(t, fallbackResponses[1], result.Response)
}

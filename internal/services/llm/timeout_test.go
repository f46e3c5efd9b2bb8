package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/tobyvann/lectern/internal/common"
	"github.com/tobyvann/lectern/internal/interfaces"
	"github.com/tobyvann/lectern/internal/models"
)

// drainedLimiter returns a limiter whose only token is already spent, so the
// next Wait would block for an hour without a deadline.
func drainedLimiter(t *testing.T) *rate.Limiter {
	t.Helper()
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, limiter.Allow())
	return limiter
}

func TestGeminiChatBoundedWithoutCallerDeadline(t *testing.T) {
	svc := &GeminiService{
		config:  &common.GeminiConfig{Model: "gemini-2.0-flash"},
		logger:  common.GetLogger(),
		limiter: drainedLimiter(t),
		timeout: 50 * time.Millisecond,
	}

	start := time.Now()
	_, err := svc.Chat(context.Background(), []interfaces.Message{{Role: "user", Content: "q"}})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second, "call must not hang past the service timeout")

	var genErr *models.GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestGeminiEmbedBatchBoundedWithoutCallerDeadline(t *testing.T) {
	svc := &GeminiService{
		config:  &common.GeminiConfig{EmbeddingModel: "text-embedding-004", EmbeddingDimensions: 768},
		logger:  common.GetLogger(),
		limiter: drainedLimiter(t),
		timeout: 50 * time.Millisecond,
	}

	start := time.Now()
	_, err := svc.EmbedBatch(context.Background(), []string{"ping"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second, "call must not hang past the service timeout")

	var embErr *models.EmbeddingError
	assert.ErrorAs(t, err, &embErr)
}

func TestClaudeChatBoundedWithoutCallerDeadline(t *testing.T) {
	svc := &ClaudeService{
		config:    &common.ClaudeConfig{Model: "claude-3-5-haiku-20241022"},
		logger:    common.GetLogger(),
		limiter:   drainedLimiter(t),
		maxTokens: 64,
		timeout:   50 * time.Millisecond,
	}

	start := time.Now()
	_, err := svc.Chat(context.Background(), []interfaces.Message{{Role: "user", Content: "q"}})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second, "call must not hang past the service timeout")

	var genErr *models.GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestNewClaudeServiceTimeoutDefaults(t *testing.T) {
	svc, err := NewClaudeService(&common.ClaudeConfig{APIKey: "test-key"}, common.GetLogger())
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, svc.timeout)
}

func TestNewClaudeServiceTimeoutConfigured(t *testing.T) {
	svc, err := NewClaudeService(&common.ClaudeConfig{APIKey: "test-key", Timeout: "15s"}, common.GetLogger())
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, svc.timeout)
}

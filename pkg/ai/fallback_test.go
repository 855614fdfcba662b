package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	result *BatchResult
	err    error
	calls  int
}

func (s *stubClassifier) ClassifyMessages(ctx context.Context, batch []MessageInput) (*BatchResult, error) {
	s.calls++
	return s.result, s.err
}

func TestFallbackService_PrimarySucceeds(t *testing.T) {
	primary := &stubClassifier{result: &BatchResult{Model: "gpt-4.1"}}
	secondary := &stubClassifier{result: &BatchResult{Model: "llama3"}}
	svc := NewFallbackService(primary, secondary)

	result, err := svc.ClassifyMessages(context.Background(), sampleBatch())
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1", result.Model)
	assert.Zero(t, secondary.calls)
}

func TestFallbackService_ConnectionErrorFallsBack(t *testing.T) {
	primary := &stubClassifier{err: errors.New("dial tcp 127.0.0.1:443: connection refused")}
	secondary := &stubClassifier{result: &BatchResult{Model: "llama3"}}
	svc := NewFallbackService(primary, secondary)

	result, err := svc.ClassifyMessages(context.Background(), sampleBatch())
	require.NoError(t, err)
	assert.Equal(t, "llama3", result.Model)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestFallbackService_MalformedOutputNotRetried(t *testing.T) {
	primary := &stubClassifier{err: fmt.Errorf("%w: no JSON array found", ErrMalformedOutput)}
	secondary := &stubClassifier{result: &BatchResult{Model: "llama3"}}
	svc := NewFallbackService(primary, secondary)

	_, err := svc.ClassifyMessages(context.Background(), sampleBatch())
	require.ErrorIs(t, err, ErrMalformedOutput)
	assert.Zero(t, secondary.calls, "a schema failure is not a provider outage")
}

func TestIsQuotaError(t *testing.T) {
	assert.True(t, isQuotaError(errors.New("openai API error (429): insufficient_quota")))
	assert.False(t, isQuotaError(errors.New("invalid request")))
	assert.False(t, isQuotaError(nil))
}

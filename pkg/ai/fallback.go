package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
)

// FallbackService routes classification between two providers:
// OpenAI first (better structured output), Ollama when OpenAI is
// unreachable or out of quota. Malformed output is never retried on the
// other provider blindly - the batch simply fails and is retried by the
// next invocation.
type FallbackService struct {
	openai ClassifierService
	ollama ClassifierService
}

// NewFallbackService creates a new fallback service with both providers
func NewFallbackService(openai, ollama ClassifierService) *FallbackService {
	return &FallbackService{
		openai: openai,
		ollama: ollama,
	}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	}

	for _, indicator := range connectionIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	quotaIndicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"insufficient_quota",
	}

	for _, indicator := range quotaIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// ClassifyMessages tries OpenAI first, falls back to Ollama on connection
// or quota errors.
func (f *FallbackService) ClassifyMessages(ctx context.Context, batch []MessageInput) (*BatchResult, error) {
	if f.openai != nil {
		result, err := f.openai.ClassifyMessages(ctx, batch)
		if err == nil {
			return result, nil
		}

		if errors.Is(err, ErrMalformedOutput) {
			return nil, err
		}

		if isConnectionError(err) || isQuotaError(err) {
			log.Printf("[AI] OpenAI unavailable: %v, falling back to Ollama", err)
		} else {
			log.Printf("[AI] OpenAI error: %v, falling back to Ollama", err)
		}
	}

	if f.ollama != nil {
		result, err := f.ollama.ClassifyMessages(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("ollama classification failed: %w", err)
		}
		return result, nil
	}

	return nil, fmt.Errorf("no AI provider available for classification")
}

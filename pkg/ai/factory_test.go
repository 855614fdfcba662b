package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClassifierService(t *testing.T) {
	t.Run("openai requires api key", func(t *testing.T) {
		_, err := NewClassifierService(Config{Provider: ProviderOpenAI})
		require.Error(t, err)
	})

	t.Run("openai", func(t *testing.T) {
		svc, err := NewClassifierService(Config{Provider: ProviderOpenAI, OpenAIAPIKey: "sk-test"})
		require.NoError(t, err)
		assert.IsType(t, &OpenAIService{}, svc)
	})

	t.Run("ollama", func(t *testing.T) {
		svc, err := NewClassifierService(Config{Provider: ProviderOllama})
		require.NoError(t, err)
		assert.IsType(t, &OllamaService{}, svc)
	})

	t.Run("auto with key builds fallback", func(t *testing.T) {
		svc, err := NewClassifierService(Config{Provider: ProviderAuto, OpenAIAPIKey: "sk-test"})
		require.NoError(t, err)
		assert.IsType(t, &FallbackService{}, svc)
	})

	t.Run("auto without key uses ollama", func(t *testing.T) {
		svc, err := NewClassifierService(Config{Provider: ProviderAuto})
		require.NoError(t, err)
		assert.IsType(t, &OllamaService{}, svc)
	})
}

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBatch() []MessageInput {
	return []MessageInput{
		{ID: "C1:101.000000", Author: "Ann Chen", Text: "blocked on the staging deploy"},
		{ID: "C1:102.000000", Author: "Bob", Text: "can someone review my PR?"},
	}
}

func sampleTags() []TagResult {
	return []TagResult{
		{MessageID: "C1:101.000000", IsBlocker: true, Confidence: 0.9},
		{MessageID: "C1:102.000000", IsQuestion: true, Confidence: 0.8},
	}
}

func TestBuildClassifyPrompt(t *testing.T) {
	prompt := buildClassifyPrompt(sampleBatch())

	assert.Contains(t, prompt, "[message_id=C1:101.000000] Ann Chen:")
	assert.Contains(t, prompt, "[message_id=C1:102.000000] Bob:")
	assert.Contains(t, prompt, `"blocked on the staging deploy"`)

	// Missing author falls back to a placeholder rather than an empty label.
	prompt = buildClassifyPrompt([]MessageInput{{ID: "C1:103.000000", Text: "hi"}})
	assert.Contains(t, prompt, "[message_id=C1:103.000000] unknown:")
}

func TestParseTagResults(t *testing.T) {
	plain := `[{"message_id": "C1:101.000000", "is_blocker": true, "confidence": 0.9}]`

	tests := []struct {
		name string
		raw  string
	}{
		{"plain array", plain},
		{"json fence", "```json\n" + plain + "\n```"},
		{"bare fence", "```\n" + plain + "\n```"},
		{"leading prose", "Here is the classification:\n" + plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags, err := parseTagResults(tt.raw)
			require.NoError(t, err)
			require.Len(t, tags, 1)
			assert.Equal(t, "C1:101.000000", tags[0].MessageID)
			assert.True(t, tags[0].IsBlocker)
		})
	}
}

func TestParseTagResults_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"no array", `{"message_id": "C1:101.000000"}`},
		{"truncated", `[{"message_id": "C1:101.000000"`},
		{"prose only", "I could not classify these messages."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTagResults(tt.raw)
			assert.ErrorIs(t, err, ErrMalformedOutput)
		})
	}
}

func TestValidateTagResults(t *testing.T) {
	batch := sampleBatch()

	require.NoError(t, validateTagResults(batch, sampleTags()))

	t.Run("count mismatch", func(t *testing.T) {
		err := validateTagResults(batch, sampleTags()[:1])
		assert.ErrorIs(t, err, ErrMalformedOutput)
	})

	t.Run("unknown message id", func(t *testing.T) {
		tags := sampleTags()
		tags[1].MessageID = "C9:999.000000"
		err := validateTagResults(batch, tags)
		assert.ErrorIs(t, err, ErrMalformedOutput)
	})

	t.Run("duplicate message id", func(t *testing.T) {
		tags := sampleTags()
		tags[1].MessageID = tags[0].MessageID
		err := validateTagResults(batch, tags)
		assert.ErrorIs(t, err, ErrMalformedOutput)
	})

	t.Run("confidence out of range", func(t *testing.T) {
		tags := sampleTags()
		tags[0].Confidence = 1.2
		err := validateTagResults(batch, tags)
		assert.ErrorIs(t, err, ErrMalformedOutput)

		tags = sampleTags()
		tags[0].Confidence = -0.1
		err = validateTagResults(batch, tags)
		assert.ErrorIs(t, err, ErrMalformedOutput)
	})
}

func TestFinishBatch_NormalizesMentions(t *testing.T) {
	batch := sampleBatch()
	raw, err := json.Marshal(sampleTags())
	require.NoError(t, err)

	result, err := finishBatch("gpt-4.1", batch, string(raw))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1", result.Model)
	for _, tag := range result.Tags {
		assert.NotNil(t, tag.Mentions)
	}
}

func TestOpenAIService_ClassifyMessages(t *testing.T) {
	batch := sampleBatch()
	tagsJSON, err := json.Marshal(sampleTags())
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var payload struct {
			Model       string  `json:"model"`
			Temperature float64 `json:"temperature"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "gpt-4.1", payload.Model)
		assert.Zero(t, payload.Temperature)

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": string(tagsJSON)}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc := NewOpenAIService("sk-test", server.URL, "gpt-4.1")

	result, err := svc.ClassifyMessages(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1", result.Model)
	require.Len(t, result.Tags, 2)
	assert.True(t, result.Tags[0].IsBlocker)
	assert.True(t, result.Tags[1].IsQuestion)
}

func TestOpenAIService_MalformedCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "sorry, I cannot do that"}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc := NewOpenAIService("sk-test", server.URL, "gpt-4.1")

	_, err := svc.ClassifyMessages(context.Background(), sampleBatch())
	assert.ErrorIs(t, err, ErrMalformedOutput)
}

func TestOllamaService_ClassifyMessages(t *testing.T) {
	batch := sampleBatch()
	tagsJSON, err := json.Marshal(sampleTags())
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		fmt.Fprintf(w, `{"response": %q}`, string(tagsJSON))
	}))
	defer server.Close()

	svc := NewOllamaService(server.URL, "llama3.2")

	result, err := svc.ClassifyMessages(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, "llama3.2", result.Model)
	assert.Len(t, result.Tags, 2)
}

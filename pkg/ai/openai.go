package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OpenAIService implements ClassifierService against the OpenAI chat
// completions API (or any compatible endpoint).
type OpenAIService struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewOpenAIService creates a new OpenAI classifier
func NewOpenAIService(apiKey, baseURL, model string) *OpenAIService {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	if model == "" {
		model = "gpt-4.1"
	}
	return &OpenAIService{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  &http.Client{},
	}
}

// ClassifyMessages implements ClassifierService. Temperature is pinned to
// zero so repeated classification of the same batch is stable.
func (o *OpenAIService) ClassifyMessages(ctx context.Context, batch []MessageInput) (*BatchResult, error) {
	url := o.baseURL + "/v1/chat/completions"

	payload := map[string]interface{}{
		"model":       o.model,
		"temperature": 0,
		"messages": []map[string]string{
			{"role": "system", "content": classifySystemPrompt},
			{"role": "user", "content": buildClassifyPrompt(batch)},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrMalformedOutput)
	}

	return finishBatch(o.model, batch, result.Choices[0].Message.Content)
}

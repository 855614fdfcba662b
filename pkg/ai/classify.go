package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedOutput marks classifier responses that failed strict-JSON
// parsing or schema validation. The whole batch is rejected; no partial or
// guessed tags are ever written.
var ErrMalformedOutput = errors.New("malformed classifier output")

const classifySystemPrompt = "You are a classifier for team chat messages. Return ONLY a valid JSON array. No commentary, no markdown."

// buildClassifyPrompt enumerates the batch into a single user prompt.
func buildClassifyPrompt(batch []MessageInput) string {
	var b strings.Builder
	b.WriteString("Classify each of the following team chat messages.\n\n")
	b.WriteString("Return a JSON array with EXACTLY one object per message_id:\n")
	b.WriteString(`{
  "message_id": string (copied verbatim from the input),
  "is_blocker": boolean,
  "is_urgent": boolean,
  "is_decision": boolean,
  "is_question": boolean,
  "is_action_item": boolean,
  "mentions": array of person names mentioned (may be empty),
  "inferred_owner": string or null,
  "inferred_deadline": string or null,
  "confidence": number (0 to 1)
}`)
	b.WriteString("\n\nMESSAGES:\n")
	for _, m := range batch {
		author := m.Author
		if author == "" {
			author = "unknown"
		}
		fmt.Fprintf(&b, "[message_id=%s] %s: %q\n", m.ID, author, m.Text)
	}
	b.WriteString("\nJSON OUTPUT:")
	return b.String()
}

// parseTagResults parses raw model text into tag results. Markdown fences
// are stripped before the strict parse since some models add them despite
// instructions.
func parseTagResults(raw string) ([]TagResult, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	text = strings.TrimSpace(text)

	jsonStart := strings.Index(text, "[")
	jsonEnd := strings.LastIndex(text, "]")
	if jsonStart == -1 || jsonEnd <= jsonStart {
		return nil, fmt.Errorf("%w: no JSON array found", ErrMalformedOutput)
	}
	text = text[jsonStart : jsonEnd+1]

	var tags []TagResult
	if err := json.Unmarshal([]byte(text), &tags); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return tags, nil
}

// validateTagResults enforces the response schema before anything is
// persisted: one object per submitted message id, confidence within [0,1].
// Any violation rejects the whole batch.
func validateTagResults(batch []MessageInput, tags []TagResult) error {
	if len(tags) != len(batch) {
		return fmt.Errorf("%w: expected %d objects, got %d", ErrMalformedOutput, len(batch), len(tags))
	}

	expected := make(map[string]bool, len(batch))
	for _, m := range batch {
		expected[m.ID] = false
	}

	for _, t := range tags {
		seen, ok := expected[t.MessageID]
		if !ok {
			return fmt.Errorf("%w: unknown message_id %q", ErrMalformedOutput, t.MessageID)
		}
		if seen {
			return fmt.Errorf("%w: duplicate message_id %q", ErrMalformedOutput, t.MessageID)
		}
		expected[t.MessageID] = true

		if t.Confidence < 0 || t.Confidence > 1 {
			return fmt.Errorf("%w: confidence %v out of range for %q", ErrMalformedOutput, t.Confidence, t.MessageID)
		}
	}
	return nil
}

// finishBatch runs parse + validate and normalizes optional fields to safe
// defaults (empty mentions list instead of nil).
func finishBatch(model string, batch []MessageInput, raw string) (*BatchResult, error) {
	tags, err := parseTagResults(raw)
	if err != nil {
		return nil, err
	}
	if err := validateTagResults(batch, tags); err != nil {
		return nil, err
	}

	for i := range tags {
		if tags[i].Mentions == nil {
			tags[i].Mentions = []string{}
		}
	}

	return &BatchResult{Model: model, Tags: tags}, nil
}

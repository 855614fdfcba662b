package ai

import "context"

// MessageInput is one message submitted for classification.
type MessageInput struct {
	ID     string
	Author string
	Text   string
}

// TagResult carries the classifier's verdict for a single message.
type TagResult struct {
	MessageID        string   `json:"message_id"`
	IsBlocker        bool     `json:"is_blocker"`
	IsUrgent         bool     `json:"is_urgent"`
	IsDecision       bool     `json:"is_decision"`
	IsQuestion       bool     `json:"is_question"`
	IsActionItem     bool     `json:"is_action_item"`
	Mentions         []string `json:"mentions"`
	InferredOwner    *string  `json:"inferred_owner"`
	InferredDeadline *string  `json:"inferred_deadline"`
	Confidence       float64  `json:"confidence"`
}

// BatchResult is a validated classifier response: exactly one tag per
// submitted message, plus the model identity that produced it.
type BatchResult struct {
	Model string
	Tags  []TagResult
}

// ClassifierService is the interface for batch message classification.
// Implement this interface to add new AI providers (OpenAI, Ollama, etc.)
type ClassifierService interface {
	ClassifyMessages(ctx context.Context, batch []MessageInput) (*BatchResult, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)

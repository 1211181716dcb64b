package services

import (
	"context"
	"errors"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var ErrEmptyResponse = errors.New("llm returned an empty response")

type ChatMessage struct {
	Role    string
	Content string
}

type ChatRequest struct {
	Messages    []ChatMessage
	Temperature float32
	// JSONMode asks the provider to return a single JSON object.
	JSONMode  bool
	MaxTokens int
}

// LLMService is a chat-completion backend.
type LLMService interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
	Name() string
}

// EmbeddingService turns text into vectors for the guideline index.
type EmbeddingService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

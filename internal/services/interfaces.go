package services

import (
	"context"
	"encoding/json"
)

// GeminiService defines the upstream generative API operations
type GeminiService interface {
	// GenerateContent sends the prompt with the requested response schema and
	// returns the text of the first candidate's first part, unmodified
	GenerateContent(ctx context.Context, apiKey string, prompt string, schema json.RawMessage) (string, error)
}

package models

import "encoding/json"

// ResponseMimeTypeJSON asks the model to answer with a JSON document
const ResponseMimeTypeJSON = "application/json"

// GenerateContentRequest is the body sent to the generateContent endpoint
type GenerateContentRequest struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

// Content is a single turn of the conversation
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part holds one piece of text in a content turn
type Part struct {
	Text string `json:"text"`
}

// GenerationConfig requests structured JSON output.
// ResponseSchema is forwarded verbatim.
type GenerationConfig struct {
	ResponseMimeType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

// GenerateContentResponse is the subset of the upstream reply the proxy reads
type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one generated answer
type Candidate struct {
	Content      *Content `json:"content"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// NewGenerateContentRequest builds a single user turn carrying the prompt
func NewGenerateContentRequest(prompt string, schema json.RawMessage) *GenerateContentRequest {
	return &GenerateContentRequest{
		Contents: []Content{
			{Role: "user", Parts: []Part{{Text: prompt}}},
		},
		GenerationConfig: GenerationConfig{
			ResponseMimeType: ResponseMimeTypeJSON,
			ResponseSchema:   schema,
		},
	}
}

package models

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidJSON is returned when the request body is not a JSON document
	ErrInvalidJSON = errors.New("Invalid JSON in request body.")
	// ErrMissingPrompt is returned when the body carries no usable prompt
	ErrMissingPrompt = errors.New(`Missing "prompt" in request body.`)
)

var validate = validator.New()

// emptySchema is sent upstream when the caller supplies no responseSchema
var emptySchema = json.RawMessage(`{}`)

// ProxyRequest is the body a client posts to the proxy
type ProxyRequest struct {
	Prompt         string          `json:"prompt" validate:"required"`
	ResponseSchema json.RawMessage `json:"responseSchema,omitempty"`
}

// ParseProxyRequest decodes and validates a client body.
// Any body that is valid JSON but has no non-empty string "prompt" field
// (including null, arrays and non-string prompts) yields ErrMissingPrompt.
func ParseProxyRequest(body []byte) (*ProxyRequest, error) {
	if !json.Valid(body) {
		return nil, ErrInvalidJSON
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, ErrMissingPrompt
	}

	req := &ProxyRequest{}
	if raw, ok := fields["prompt"]; ok {
		if err := json.Unmarshal(raw, &req.Prompt); err != nil {
			return nil, ErrMissingPrompt
		}
	}
	if err := validate.Struct(req); err != nil {
		return nil, ErrMissingPrompt
	}

	req.ResponseSchema = emptySchema
	if raw, ok := fields["responseSchema"]; ok && !isNullish(raw) {
		req.ResponseSchema = raw
	}

	return req, nil
}

// isNullish mirrors the falsy values a client may send to mean "no schema"
func isNullish(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "null", "false", "0", `""`:
		return true
	}
	return false
}

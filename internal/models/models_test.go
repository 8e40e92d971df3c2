package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseProxyRequest(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantErr    error
		wantPrompt string
		wantSchema string
	}{
		{name: "prompt only", body: `{"prompt":"list gluten free breads"}`, wantPrompt: "list gluten free breads", wantSchema: `{}`},
		{name: "prompt and schema", body: `{"prompt":"p","responseSchema":{"type":"ARRAY","items":{"type":"STRING"}}}`, wantPrompt: "p", wantSchema: `{"type":"ARRAY","items":{"type":"STRING"}}`},
		{name: "null schema defaults", body: `{"prompt":"p","responseSchema":null}`, wantPrompt: "p", wantSchema: `{}`},
		{name: "not json", body: `not-json`, wantErr: ErrInvalidJSON},
		{name: "empty body", body: ``, wantErr: ErrInvalidJSON},
		{name: "truncated", body: `{"prompt":`, wantErr: ErrInvalidJSON},
		{name: "empty object", body: `{}`, wantErr: ErrMissingPrompt},
		{name: "empty prompt", body: `{"prompt":""}`, wantErr: ErrMissingPrompt},
		{name: "null body", body: `null`, wantErr: ErrMissingPrompt},
		{name: "array body", body: `[1,2]`, wantErr: ErrMissingPrompt},
		{name: "numeric prompt", body: `{"prompt":42}`, wantErr: ErrMissingPrompt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseProxyRequest([]byte(tt.body))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Prompt != tt.wantPrompt {
				t.Errorf("expected prompt %q, got %q", tt.wantPrompt, req.Prompt)
			}
			if string(req.ResponseSchema) != tt.wantSchema {
				t.Errorf("expected schema %s, got %s", tt.wantSchema, req.ResponseSchema)
			}
		})
	}
}

func TestNewGenerateContentRequest(t *testing.T) {
	payload := NewGenerateContentRequest("hello", json.RawMessage(`{"type":"OBJECT"}`))

	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `{"contents":[{"role":"user","parts":[{"text":"hello"}]}],"generationConfig":{"responseMimeType":"application/json","responseSchema":{"type":"OBJECT"}}}`
	if string(b) != want {
		t.Errorf("unexpected payload\n got: %s\nwant: %s", b, want)
	}
}

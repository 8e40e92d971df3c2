package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"glutenscope-proxy/internal/config"
	"glutenscope-proxy/internal/models"
)

// maxErrorBodyBytes bounds how much of an upstream error body is relayed
const maxErrorBodyBytes = 64 << 10

// geminiService implements the GeminiService interface over HTTP
type geminiService struct {
	baseURL    string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	logger     logrus.FieldLogger
}

// NewGeminiService creates a new Gemini service instance
func NewGeminiService(cfg config.GeminiConfig, httpClient *http.Client, logger logrus.FieldLogger) GeminiService {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &geminiService{
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		httpClient: httpClient,
		logger:     logger,
	}
}

// GenerateContent calls the generateContent endpoint once. There are no retries.
func (s *geminiService) GenerateContent(ctx context.Context, apiKey string, prompt string, schema json.RawMessage) (string, error) {
	if apiKey == "" {
		return "", ErrAPIKeyNotConfigured
	}

	payload, err := json.Marshal(models.NewGenerateContentRequest(prompt, schema))
	if err != nil {
		return "", fmt.Errorf("failed to encode Gemini payload: %w", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint(apiKey), bytes.NewReader(payload))
	if err != nil {
		return "", redactTransportError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", redactTransportError(err)
	}
	defer resp.Body.Close()

	s.logger.WithFields(logrus.Fields{
		"model":           s.model,
		"upstream_status": resp.StatusCode,
		"latency_ms":      float64(time.Since(start).Nanoseconds()) / 1000000,
	}).Debug("Gemini API responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		if err != nil {
			return "", fmt.Errorf("failed to read Gemini error body: %w", redactTransportError(err))
		}
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result models.GenerateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode Gemini response: %w", redactTransportError(err))
	}

	return extractText(&result)
}

// endpoint builds the generateContent URL with the key as a query parameter
func (s *geminiService) endpoint(apiKey string) string {
	q := url.Values{}
	q.Set("key", apiKey)
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?%s", s.baseURL, url.PathEscape(s.model), q.Encode())
}

// extractText returns candidates[0].content.parts[0].text
func extractText(result *models.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 {
		return "", &ShapeError{Reason: "no candidates"}
	}
	content := result.Candidates[0].Content
	if content == nil {
		return "", &ShapeError{Reason: "candidate has no content"}
	}
	if len(content.Parts) == 0 {
		return "", &ShapeError{Reason: "candidate content has no parts"}
	}
	return content.Parts[0].Text, nil
}

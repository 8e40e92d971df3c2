package services

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrAPIKeyNotConfigured is returned when no API key is available
var ErrAPIKeyNotConfigured = errors.New("Gemini API key not configured.")

// UpstreamError reports a non-success status from the upstream API
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Gemini API responded with status %d: %s", e.StatusCode, e.Body)
}

// ShapeError reports a success response that lacks the generated text
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "unexpected Gemini response shape: " + e.Reason
}

// redactTransportError drops the request URL, which carries the API key,
// from errors returned by the HTTP client
func redactTransportError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request failed: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

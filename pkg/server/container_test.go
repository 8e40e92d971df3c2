package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"glutenscope-proxy/internal/config"
	"glutenscope-proxy/pkg/lambda"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Environment:  "test",
		LogLevel:     "error",
		MaxBodyBytes: 1 << 20,
		Gemini: config.GeminiConfig{
			BaseURL: baseURL,
			Model:   "gemini-2.0-flash",
			Timeout: time.Second,
		},
		CORS: config.CORSConfig{
			AllowedOrigin:  "https://glutenscope.example",
			AllowedHeaders: "Content-Type",
			AllowedMethods: config.ParseMethods("GET, POST, OPTIONS"),
		},
	}
}

// TestNewContainer verifies that the container can be created successfully
func TestNewContainer(t *testing.T) {
	container, err := NewContainer(testConfig("http://127.0.0.1:0"))
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}

	if container.GeminiService == nil {
		t.Error("GeminiService is nil")
	}
	if container.ProxyHandler == nil {
		t.Error("ProxyHandler is nil")
	}
	if container.Logger == nil {
		t.Error("Logger is nil")
	}

	if err := container.Close(); err != nil {
		t.Errorf("Failed to close container: %v", err)
	}
}

func TestNewContainerNilConfig(t *testing.T) {
	if _, err := NewContainer(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

// TestContainerWiring runs a request through the wired handler
func TestContainerWiring(t *testing.T) {
	var gotKey string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"wired"}]}}]}`)
	}))
	defer upstream.Close()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	container, err := NewContainer(testConfig(upstream.URL),
		WithKeySource(func() string { return "container-key" }),
		WithHTTPClient(upstream.Client()),
		WithLogger(logger),
	)
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}
	defer container.Close()

	resp := container.ProxyHandler.Handle(context.Background(), &lambda.Request{
		Method: http.MethodPost,
		Body:   []byte(`{"prompt":"p"}`),
	})

	if resp.StatusCode != http.StatusOK || string(resp.Body) != `"wired"` {
		t.Fatalf("unexpected response %d %s", resp.StatusCode, resp.Body)
	}
	if gotKey != "container-key" {
		t.Errorf("expected key from key source, got %q", gotKey)
	}
	if resp.Headers["Access-Control-Allow-Origin"] != "https://glutenscope.example" {
		t.Errorf("configured origin not applied: %v", resp.Headers)
	}
	if resp.Headers["Access-Control-Allow-Methods"] != "GET, POST, OPTIONS" {
		t.Errorf("configured methods not applied: %v", resp.Headers)
	}
	if resp.Headers["Vary"] != "Origin" {
		t.Errorf("expected Vary: Origin for a specific origin")
	}
}

package server

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"glutenscope-proxy/internal/config"
	"glutenscope-proxy/internal/handlers"
	"glutenscope-proxy/internal/logging"
	"glutenscope-proxy/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *logrus.Logger
	GeminiService services.GeminiService
	ProxyHandler  *handlers.GeminiProxyHandler

	httpClient *http.Client
}

// Option customizes container construction
type Option func(*options)

type options struct {
	keySource  config.KeySource
	httpClient *http.Client
	logger     *logrus.Logger
}

// WithKeySource overrides where the API key is read from
func WithKeySource(ks config.KeySource) Option {
	return func(o *options) { o.keySource = ks }
}

// WithHTTPClient overrides the client used for upstream calls
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLogger overrides the application logger
func WithLogger(l *logrus.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	o := &options{keySource: config.EnvKeySource}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.New(cfg.LogLevel, cfg.IsProduction())
	}
	if o.httpClient == nil {
		// The service enforces the per-call deadline; this only backstops it
		o.httpClient = &http.Client{Timeout: cfg.Gemini.Timeout + cfg.Gemini.Timeout/2}
	}

	geminiService := services.NewGeminiService(cfg.Gemini, o.httpClient, o.logger)

	container := &Container{
		Config:        cfg,
		Logger:        o.logger,
		GeminiService: geminiService,
		ProxyHandler:  handlers.NewGeminiProxyHandler(geminiService, o.keySource, cfg, o.logger),
		httpClient:    o.httpClient,
	}

	return container, nil
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
	return nil
}

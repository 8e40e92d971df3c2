package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"glutenscope-proxy/internal/config"
	"glutenscope-proxy/internal/middleware"
	"glutenscope-proxy/internal/models"
	"glutenscope-proxy/internal/services"
	"glutenscope-proxy/pkg/lambda"
)

const (
	msgMethodNotAllowed = "Method not allowed."
	msgBodyTooLarge     = "Request body too large."
	backendErrorPrefix  = "Backend error: "
)

// GeminiProxyHandler forwards client prompts to the Gemini API
type GeminiProxyHandler struct {
	geminiService services.GeminiService
	keySource     config.KeySource
	cors          config.CORSConfig
	maxBodyBytes  int64
	logger        logrus.FieldLogger
}

// NewGeminiProxyHandler creates a new proxy handler
func NewGeminiProxyHandler(geminiService services.GeminiService, keySource config.KeySource, cfg *config.Config, logger logrus.FieldLogger) *GeminiProxyHandler {
	if keySource == nil {
		keySource = config.EnvKeySource
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	cors := cfg.CORS
	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = config.ParseMethods("POST, OPTIONS")
	}
	return &GeminiProxyHandler{
		geminiService: geminiService,
		keySource:     keySource,
		cors:          cors,
		maxBodyBytes:  cfg.MaxBodyBytes,
		logger:        logger,
	}
}

// Proxy handles the proxy endpoint for the gin router
// @Summary Generate structured content
// @Description Forwards the prompt to Gemini with the server-side key and returns the generated JSON text as a JSON string
// @Tags gemini
// @Accept json
// @Produce json
// @Param request body models.ProxyRequest true "Prompt and optional response schema"
// @Success 200 {string} string "Generated JSON text"
// @Failure 400 {object} models.ErrorResponse
// @Failure 405 {object} models.ErrorResponse
// @Failure 413 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/gemini-proxy [post]
func (h *GeminiProxyHandler) Proxy(c *gin.Context) {
	req, err := lambda.FromHTTP(c.Request, h.maxBodyBytes)
	if err != nil {
		req = &lambda.Request{Method: c.Request.Method, Path: c.Request.URL.Path}
		h.logger.WithError(err).Warn("Failed to read request body")
	}
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		req.RequestID = id
	}

	lambda.WriteHTTP(c.Writer, h.Handle(c.Request.Context(), req))
}

// ServeHTTP lets the handler be mounted directly on net/http runtimes
func (h *GeminiProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := lambda.FromHTTP(r, h.maxBodyBytes)
	if err != nil {
		req = &lambda.Request{Method: r.Method, Path: r.URL.Path}
		h.logger.WithError(err).Warn("Failed to read request body")
	}
	lambda.WriteHTTP(w, h.Handle(r.Context(), req))
}

// Handle runs one proxy invocation. It always returns a well-formed response.
func (h *GeminiProxyHandler) Handle(ctx context.Context, req *lambda.Request) (resp *lambda.Response) {
	start := time.Now()
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	log := h.logger.WithFields(logrus.Fields{
		"request_id": req.RequestID,
		"method":     req.Method,
	})
	log.Debug("Proxy request received")

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Proxy handler panicked")
			resp = h.errorResponse(http.StatusInternalServerError, backendErrorPrefix+"internal error")
		}
		log.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"latency_ms":  float64(time.Since(start).Nanoseconds()) / 1000000,
		}).Info("Proxy request completed")
	}()

	method := strings.ToUpper(req.Method)
	if method == http.MethodOptions {
		return h.newResponse(http.StatusNoContent, nil)
	}
	if !h.methodAllowed(method) {
		resp = h.errorResponse(http.StatusMethodNotAllowed, msgMethodNotAllowed)
		resp.SetHeader("Allow", strings.Join(h.cors.AllowedMethods, ", "))
		return resp
	}

	apiKey := h.keySource()
	if apiKey == "" {
		log.Error("GEMINI_API_KEY is not configured")
		return h.errorResponse(http.StatusInternalServerError, services.ErrAPIKeyNotConfigured.Error())
	}

	if req.BodyTooLarge {
		return h.errorResponse(http.StatusRequestEntityTooLarge, msgBodyTooLarge)
	}

	proxyReq, err := models.ParseProxyRequest(req.Body)
	if err != nil {
		log.WithError(err).Warn("Rejected proxy request body")
		return h.errorResponse(http.StatusBadRequest, err.Error())
	}
	log.Debug("Proxy request body parsed")

	text, err := h.geminiService.GenerateContent(ctx, apiKey, proxyReq.Prompt, proxyReq.ResponseSchema)
	if err != nil {
		return h.upstreamFailure(log, err)
	}

	body, err := encodeJSON(text)
	if err != nil {
		return h.upstreamFailure(log, err)
	}
	return h.newResponse(http.StatusOK, body)
}

// encodeJSON marshals v without HTML escaping so generated text is relayed byte for byte
func encodeJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// upstreamFailure converts any error raised while calling Gemini into a 500
func (h *GeminiProxyHandler) upstreamFailure(log logrus.FieldLogger, err error) *lambda.Response {
	var upstreamErr *services.UpstreamError
	var shapeErr *services.ShapeError
	switch {
	case errors.As(err, &upstreamErr):
		log.WithField("upstream_status", upstreamErr.StatusCode).Error("Gemini API returned an error status")
	case errors.As(err, &shapeErr):
		log.WithError(err).Error("Gemini API returned an unexpected response")
	default:
		log.WithError(err).Error("Error calling Gemini API")
	}
	return h.errorResponse(http.StatusInternalServerError, backendErrorPrefix+err.Error())
}

func (h *GeminiProxyHandler) methodAllowed(method string) bool {
	for _, m := range h.cors.AllowedMethods {
		if m == method {
			return true
		}
	}
	return false
}

// newResponse builds a response carrying the CORS headers
func (h *GeminiProxyHandler) newResponse(status int, body []byte) *lambda.Response {
	resp := &lambda.Response{StatusCode: status, Body: body}
	for k, v := range h.corsHeaders() {
		resp.SetHeader(k, v)
	}
	if body != nil {
		resp.SetHeader("Content-Type", "application/json")
	}
	return resp
}

func (h *GeminiProxyHandler) errorResponse(status int, message string) *lambda.Response {
	body, err := encodeJSON(models.ErrorResponse{Error: message})
	if err != nil {
		body = []byte(`{"error":"Backend error"}`)
	}
	return h.newResponse(status, body)
}

func (h *GeminiProxyHandler) corsHeaders() map[string]string {
	origin := h.cors.AllowedOrigin
	if origin == "" {
		origin = "*"
	}
	headers := map[string]string{
		"Access-Control-Allow-Origin":  origin,
		"Access-Control-Allow-Headers": h.cors.AllowedHeaders,
		"Access-Control-Allow-Methods": strings.Join(h.cors.AllowedMethods, ", "),
	}
	if headers["Access-Control-Allow-Headers"] == "" {
		headers["Access-Control-Allow-Headers"] = "Content-Type"
	}
	if origin != "*" {
		headers["Vary"] = "Origin"
	}
	return headers
}

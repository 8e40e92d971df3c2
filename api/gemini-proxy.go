// Package handler is the Vercel Go runtime entrypoint for the proxy.
package handler

import (
	"net/http"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"glutenscope-proxy/internal/config"
	"glutenscope-proxy/pkg/server"
)

var (
	proxy    http.Handler
	initOnce sync.Once
)

// newProxy builds the proxy handler, or a handler reporting why it could not
func newProxy(opts ...server.Option) http.Handler {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		return configErrorHandler(err)
	}
	container, err := server.NewContainer(cfg, opts...)
	if err != nil {
		return configErrorHandler(err)
	}
	return container.ProxyHandler
}

// configErrorHandler answers every request with a 500 carrying the CORS
// headers read straight from the environment
func configErrorHandler(cause error) http.Handler {
	logrus.WithError(cause).Error("Failed to initialize proxy")

	methods := strings.Join(config.ParseMethods(config.GetEnv("CORS_ALLOWED_METHODS", "POST, OPTIONS")), ", ")
	origin := config.GetEnv("CORS_ALLOWED_ORIGIN", "*")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", methods)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Backend error: configuration failed"}`))
	})
}

// Handler is the entry point for Vercel's Go runtime
func Handler(w http.ResponseWriter, r *http.Request) {
	initOnce.Do(func() {
		proxy = newProxy()
	})
	proxy.ServeHTTP(w, r)
}

// Package server is the HTTP surface of the gateway.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vvakame/shopgate/internal/auth"
	"github.com/vvakame/shopgate/internal/config"
	"github.com/vvakame/shopgate/internal/log"
)

const (
	GraphQLPath = "/graphql"
	HealthPath  = "/healthz"
	MetricsPath = "/metrics"
)

// ShutdownTimeout bounds how long in-flight requests may drain.
const ShutdownTimeout = 10 * time.Second

// NewHandler routes the GraphQL endpoint and the operational endpoints.
// HTTP metrics are registered to reg and served from it.
func NewHandler(ctx context.Context, cfg *config.Config, es graphql.ExecutableSchema, reg *prometheus.Registry) http.Handler {
	logger := log.FromContext(ctx)

	var verifier auth.Verifier
	if cfg.JWTSecret != "" {
		verifier = auth.NewHMACVerifier(cfg.JWTSecret)
	}

	r := mux.NewRouter()
	r.Use(metricsMiddleware(reg))

	r.Handle(GraphQLPath, handler.NewDefaultServer(es)).Methods(http.MethodGet, http.MethodPost, http.MethodOptions)
	if cfg.Playground {
		r.Handle("/", playground.Handler("shopgate", GraphQLPath)).Methods(http.MethodGet)
	}
	r.HandleFunc(HealthPath, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle(MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found")
	})

	// applied outermost first
	middlewares := []mux.MiddlewareFunc{
		requestLogger(logger),
		corsMiddleware(cfg.CORSAllowedOrigins),
	}
	if cfg.RateLimit.RPS > 0 {
		middlewares = append(middlewares, newRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Handler)
	}
	middlewares = append(middlewares, auth.Middleware(verifier))

	var h http.Handler = r
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// ListenAndServe serves h on addr until ctx is done, then drains in-flight
// requests for at most ShutdownTimeout.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	logger := log.FromContext(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Package gateway assembles the composed shop schema, bound to the downstream
// services, into a graphql.ExecutableSchema.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vvakame/shopgate/internal/backend"
	"github.com/vvakame/shopgate/internal/config"
	"github.com/vvakame/shopgate/internal/execute"
	"github.com/vvakame/shopgate/internal/loader"
	"github.com/vvakame/shopgate/internal/log"
	"github.com/vvakame/shopgate/internal/resolver"
	"github.com/vvakame/shopgate/internal/schema"
	"github.com/vvakame/shopgate/internal/upstream"
)

var _ graphql.ExecutableSchema = (*Gateway)(nil)

type GatewayConfig struct {
	Services config.Services
	// UpstreamTimeout bounds every downstream call. Zero keeps the client default.
	UpstreamTimeout time.Duration
	// Registerer receives the downstream call metrics. optional
	Registerer prometheus.Registerer
	// HTTPClient replaces the transport of every downstream client. optional
	HTTPClient *http.Client
}

// ConfigFrom picks the gateway settings out of the process configuration.
func ConfigFrom(cfg *config.Config, reg prometheus.Registerer) *GatewayConfig {
	return &GatewayConfig{
		Services:        cfg.Services,
		UpstreamTimeout: cfg.UpstreamTimeout.Std(),
		Registerer:      reg,
	}
}

type Gateway struct {
	*execute.Executor

	composed *schema.Composed
	clients  *backend.Clients
}

func NewGateway(ctx context.Context, cfg *GatewayConfig) (*Gateway, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	var opts []upstream.Option
	if cfg.UpstreamTimeout > 0 {
		opts = append(opts, upstream.WithTimeout(cfg.UpstreamTimeout))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, upstream.WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.Registerer != nil {
		opts = append(opts, upstream.WithMetrics(upstream.NewMetrics(cfg.Registerer)))
	}
	clients := backend.NewClients(cfg.Services, opts...)

	composed, err := schema.Compose(resolver.New(clients).Modules()...)
	if err != nil {
		return nil, fmt.Errorf("compose schema: %w", err)
	}

	g := &Gateway{
		composed: composed,
		clients:  clients,
	}
	// loaders live exactly as long as one operation
	g.Executor = composed.Executor(execute.WithContextHook(func(ctx context.Context) context.Context {
		return loader.WithLoaders(ctx, loader.NewLoaders(clients))
	}))

	log.FromContext(ctx).Info("schema composed", "modules", composed.Modules())

	return g, nil
}

func validate(cfg *GatewayConfig) error {
	if cfg == nil {
		return fmt.Errorf("gateway config is required")
	}

	for _, name := range config.ServiceNames {
		raw := cfg.Services.URL(name)
		if raw == "" {
			return fmt.Errorf("%s service url is required", name)
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s service url: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
			return fmt.Errorf("%s service url must be an absolute http(s) url: %q", name, raw)
		}
	}

	return nil
}

// SDL prints the composed schema.
func (g *Gateway) SDL() string {
	return g.composed.SDL()
}

// Clients exposes the downstream clients, e.g. for readiness probes.
func (g *Gateway) Clients() *backend.Clients {
	return g.clients
}

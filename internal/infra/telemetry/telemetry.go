package telemetry

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/config"
)

// Provider is the telemetry handle owned by the application. It wraps
// the tracer provider so callers shut everything down through one
// object.
type Provider struct {
	tracer *TracerProvider
}

// Attach configures trace exporting and returns a provider handle. An
// empty OTLP endpoint disables tracing and yields a no-op provider.
func Attach(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (*Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Telemetry.OTLPEndpoint == "" {
		return &Provider{}, nil
	}

	tracer, err := NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, fmt.Errorf("init tracer provider: %w", err)
	}

	return &Provider{tracer: tracer}, nil
}

// Shutdown flushes and stops the underlying exporters.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.tracer == nil {
		return nil
	}
	return p.tracer.Shutdown(ctx)
}

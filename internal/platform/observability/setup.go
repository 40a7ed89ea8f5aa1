package observability

import (
	"context"
	"log/slog"
)

// Config captures observability toggles.
type Config struct {
	Enabled bool
}

// ShutdownFunc allows callers to tear down any observability exporters.
type ShutdownFunc func(context.Context) error

// Setup builds the metric set. A disabled config yields a nil *Metrics, whose
// methods are no-ops.
func Setup(ctx context.Context, cfg Config, logger *slog.Logger) (*Metrics, ShutdownFunc, error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled {
		if logger != nil {
			logger.InfoContext(ctx, "[OBSERVABILITY] disabled")
		}
		return nil, noop, nil
	}

	metrics := NewMetrics(logger)
	if logger != nil {
		logger.InfoContext(ctx, "[OBSERVABILITY] metrics enabled")
	}
	return metrics, noop, nil
}

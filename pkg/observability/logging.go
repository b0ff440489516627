package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/funchain/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that log every node visit and run completion.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, "node_enter",
				"run_id", e.RunID,
				"node_id", e.NodeID,
				"input", e.Input,
			)
		},
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			attrs := []any{"run_id", e.RunID, "node_id", e.NodeID}
			if e.Step != nil {
				if v, ok := e.Step.Outcome.Value(); ok {
					attrs = append(attrs, "output", v)
				} else {
					attrs = append(attrs, "error", e.Step.Outcome.Err())
				}
			}
			logger.DebugContext(ctx, "node_leave", attrs...)
		},
		OnRunComplete: func(ctx context.Context, e *domain.RunEvent) {
			level := slog.LevelInfo
			attrs := []any{
				"run_id", e.RunID,
				"status", e.Result.Status,
				"final", e.Result.Final,
				"steps", len(e.Result.Trace),
				"duration", e.Duration,
			}
			if e.Result.Err != nil {
				level = slog.LevelWarn
				attrs = append(attrs, "error", e.Result.Err)
			}
			logger.Log(ctx, level, "run_complete", attrs...)
		},
	}
}

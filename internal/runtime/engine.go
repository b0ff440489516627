// Package runtime walks a chain snapshot and evaluates each node's equation.
package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/funchain/pkg/chain"
	"github.com/aretw0/funchain/pkg/domain"
	"github.com/aretw0/funchain/pkg/expr"
	"github.com/google/uuid"
)

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine evaluates chains. It holds no per-run state, so one Engine serves concurrent runs.
type Engine struct {
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
}

// NewEngine creates an engine with the given options.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run feeds initial through the chain starting at entry and returns the full trace.
//
// A node whose equation fails to evaluate is recorded as a failed step and the running value
// is carried over unchanged. Traversal ends when a node has no successor or the successor
// does not resolve. Visiting more nodes than the snapshot holds means the links form a cycle;
// the run then fails with domain.ErrCycleDetected and keeps the partial trace.
func (e *Engine) Run(ctx context.Context, snap *chain.Snapshot, entry string, initial float64) *domain.Result {
	start := e.now()
	res := &domain.Result{
		RunID:   uuid.NewString(),
		Entry:   entry,
		Initial: domain.Value(initial),
		Final:   domain.Value(initial),
		Status:  domain.StatusRunning,
	}
	log := e.logger.With("run_id", res.RunID)
	log.Debug("run started", "entry", entry, "initial", res.Initial)

	current := res.Initial
	limit := snap.Len()
	hops := 0
	for id := entry; ; {
		node, ok := snap.Lookup(id)
		if !ok {
			if id != "" {
				log.Debug("successor not found, stopping", "node_id", id)
			}
			break
		}
		if hops == limit {
			res.Status = domain.StatusFailed
			res.Err = fmt.Errorf("%w: %d hops exhausted at node %s", domain.ErrCycleDetected, hops, id)
			log.Warn("cycle detected", "node_id", id, "hops", hops)
			break
		}
		hops++

		step := e.visit(ctx, log, res.RunID, node, current)
		if v, ok := step.Outcome.Value(); ok {
			current = v
		}
		res.Trace = append(res.Trace, step)
		id = node.Next
	}

	res.Final = current
	if res.Status == domain.StatusRunning {
		res.Status = domain.StatusCompleted
	}

	duration := e.now().Sub(start)
	log.Debug("run finished", "status", res.Status, "final", res.Final, "steps", len(res.Trace), "duration", duration)
	if e.hooks.OnRunComplete != nil {
		e.hooks.OnRunComplete(ctx, &domain.RunEvent{
			EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventRunComplete, RunID: res.RunID},
			Result:    res,
			Duration:  duration,
		})
	}
	return res
}

func (e *Engine) visit(ctx context.Context, log *slog.Logger, runID string, node domain.FunctionNode, input domain.Value) domain.Step {
	event := &domain.NodeEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventNodeEnter, RunID: runID},
		NodeID:    node.ID,
		Equation:  node.Equation,
		Input:     input,
	}
	if e.hooks.OnNodeEnter != nil {
		e.hooks.OnNodeEnter(ctx, event)
	}

	step := domain.Step{NodeID: node.ID, Input: input}
	v, err := expr.Evaluate(node.Equation, input.Float())
	if err != nil {
		step.Outcome = domain.Failed(err)
		log.Warn("node evaluation failed", "node_id", node.ID, "equation", node.Equation, "error", err)
	} else {
		step.Outcome = domain.Ok(domain.Value(v))
		log.Debug("node evaluated", "node_id", node.ID, "input", input, "output", domain.Value(v))
	}

	if e.hooks.OnNodeLeave != nil {
		leave := *event
		leave.EventBase = domain.EventBase{Timestamp: e.now(), Type: domain.EventNodeLeave, RunID: runID}
		leave.Step = &step
		e.hooks.OnNodeLeave(ctx, &leave)
	}
	return step
}

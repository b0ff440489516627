package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeEnter   EventType = "node_enter"
	EventNodeLeave   EventType = "node_leave"
	EventRunComplete EventType = "run_complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// NodeEvent represents entry into or exit from a node during a run.
// Step is only set on leave events.
type NodeEvent struct {
	EventBase
	NodeID   string `json:"node_id"`
	Equation string `json:"equation"`
	Input    Value  `json:"input"`
	Step     *Step  `json:"step,omitempty"`
}

// RunEvent is emitted once per run after traversal stops.
type RunEvent struct {
	EventBase
	Result   *Result       `json:"result"`
	Duration time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for engine observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnNodeEnter   func(context.Context, *NodeEvent)
	OnNodeLeave   func(context.Context, *NodeEvent)
	OnRunComplete func(context.Context, *RunEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnNodeEnter:   chain(h.OnNodeEnter, other.OnNodeEnter),
		OnNodeLeave:   chain(h.OnNodeLeave, other.OnNodeLeave),
		OnRunComplete: chain(h.OnRunComplete, other.OnRunComplete),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}

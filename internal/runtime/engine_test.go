package runtime_test

import (
	"context"
	"math"
	"testing"

	"github.com/aretw0/funchain/internal/runtime"
	"github.com/aretw0/funchain/pkg/chain"
	"github.com/aretw0/funchain/pkg/domain"
	"github.com/aretw0/funchain/pkg/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNodes() []domain.FunctionNode {
	return []domain.FunctionNode{
		{ID: "F1", Equation: "x^2", Next: "F2"},
		{ID: "F2", Equation: "2*x+4", Next: "F4"},
		{ID: "F3", Equation: "x^2+20"},
		{ID: "F4", Equation: "x-2", Next: "F5"},
		{ID: "F5", Equation: "x/2", Next: "F3"},
	}
}

func snapshot(t *testing.T, nodes []domain.FunctionNode) *chain.Snapshot {
	t.Helper()
	c, err := chain.New(nodes)
	require.NoError(t, err)
	return c.Snapshot()
}

func outputs(t *testing.T, res *domain.Result) []float64 {
	t.Helper()
	out := make([]float64, 0, len(res.Trace))
	for _, s := range res.Trace {
		v, ok := s.Outcome.Value()
		require.True(t, ok, "step %s failed: %v", s.NodeID, s.Outcome.Err())
		out = append(out, v.Float())
	}
	return out
}

func TestEngine_Run_SeedChain(t *testing.T) {
	engine := runtime.NewEngine()
	res := engine.Run(context.Background(), snapshot(t, seedNodes()), "F1", 2)

	assert.Equal(t, domain.StatusCompleted, res.Status)
	assert.NoError(t, res.Err)
	assert.Equal(t, domain.Value(45), res.Final)
	assert.Equal(t, []string{"F1", "F2", "F4", "F5", "F3"}, res.Visited())
	assert.Equal(t, []float64{4, 12, 10, 5, 45}, outputs(t, res))
	assert.Equal(t, domain.Value(2), res.Trace[0].Input)
	assert.NotEmpty(t, res.RunID)
}

func TestEngine_Run_Cycle(t *testing.T) {
	nodes := []domain.FunctionNode{
		{ID: "F4", Equation: "x-2", Next: "F5"},
		{ID: "F5", Equation: "x/2", Next: "F4"},
	}
	res := runtime.NewEngine().Run(context.Background(), snapshot(t, nodes), "F4", 10)

	assert.Equal(t, domain.StatusFailed, res.Status)
	assert.ErrorIs(t, res.Err, domain.ErrCycleDetected)
	assert.Len(t, res.Trace, 2)
	assert.Equal(t, []float64{8, 4}, outputs(t, res))
	assert.Equal(t, domain.Value(4), res.Final)
}

func TestEngine_Run_SelfLoop(t *testing.T) {
	nodes := []domain.FunctionNode{{ID: "A", Equation: "x+1", Next: "A"}}
	res := runtime.NewEngine().Run(context.Background(), snapshot(t, nodes), "A", 0)

	assert.ErrorIs(t, res.Err, domain.ErrCycleDetected)
	assert.Len(t, res.Trace, 1)
}

func TestEngine_Run_DanglingSuccessor(t *testing.T) {
	nodes := []domain.FunctionNode{{ID: "A", Equation: "x*3", Next: "ghost"}}
	res := runtime.NewEngine().Run(context.Background(), snapshot(t, nodes), "A", 2)

	assert.Equal(t, domain.StatusCompleted, res.Status)
	assert.NoError(t, res.Err)
	assert.Equal(t, domain.Value(6), res.Final)
}

func TestEngine_Run_MissingEntry(t *testing.T) {
	res := runtime.NewEngine().Run(context.Background(), snapshot(t, seedNodes()), "nope", 7)

	assert.Equal(t, domain.StatusCompleted, res.Status)
	assert.Empty(t, res.Trace)
	assert.Equal(t, domain.Value(7), res.Final)
}

func TestEngine_Run_EmptyChain(t *testing.T) {
	res := runtime.NewEngine().Run(context.Background(), snapshot(t, nil), "", 3)

	assert.Equal(t, domain.StatusCompleted, res.Status)
	assert.Empty(t, res.Trace)
	assert.Equal(t, domain.Value(3), res.Final)
}

func TestEngine_Run_FailureKeepsRunningValue(t *testing.T) {
	nodes := []domain.FunctionNode{
		{ID: "A", Equation: "x+1", Next: "B"},
		{ID: "B", Equation: "x+", Next: "C"},
		{ID: "C", Equation: "x*10"},
	}
	res := runtime.NewEngine().Run(context.Background(), snapshot(t, nodes), "A", 1)

	assert.Equal(t, domain.StatusCompleted, res.Status)
	require.Len(t, res.Trace, 3)
	assert.ErrorIs(t, res.Trace[1].Outcome.Err(), expr.ErrEmptyResult)
	assert.Equal(t, domain.Value(2), res.Trace[2].Input)
	assert.Equal(t, domain.Value(20), res.Final)

	failed := res.Failures()
	require.Len(t, failed, 1)
	assert.Equal(t, "B", failed[0].NodeID)
}

func TestEngine_Run_NonFiniteIsNotFailure(t *testing.T) {
	nodes := []domain.FunctionNode{
		{ID: "A", Equation: "x/0", Next: "B"},
		{ID: "B", Equation: "x-1"},
	}
	res := runtime.NewEngine().Run(context.Background(), snapshot(t, nodes), "A", 1)

	v, ok := res.Trace[0].Outcome.Value()
	require.True(t, ok)
	assert.True(t, math.IsInf(v.Float(), 1))

	// +Inf has no textual form the tokenizer accepts, so the next node is missing an
	// operand. The run keeps +Inf.
	assert.ErrorIs(t, res.Trace[1].Outcome.Err(), expr.ErrEmptyResult)
	assert.True(t, math.IsInf(res.Final.Float(), 1))
	assert.Equal(t, domain.StatusCompleted, res.Status)
}

func TestEngine_Run_Idempotent(t *testing.T) {
	engine := runtime.NewEngine()
	snap := snapshot(t, seedNodes())

	first := engine.Run(context.Background(), snap, "F1", 2)
	second := engine.Run(context.Background(), snap, "F1", 2)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Final, second.Final)
	assert.Equal(t, first.Trace, second.Trace)
}

func TestEngine_Run_SnapshotIsolation(t *testing.T) {
	c, err := chain.New(seedNodes())
	require.NoError(t, err)
	snap := c.Snapshot()

	require.NoError(t, c.SetEquation("F3", "x"))

	engine := runtime.NewEngine()
	assert.Equal(t, domain.Value(45), engine.Run(context.Background(), snap, "F1", 2).Final)
	assert.Equal(t, domain.Value(5), engine.Run(context.Background(), c.Snapshot(), "F1", 2).Final)
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var entered, left []string
	var completed *domain.RunEvent

	hooks := domain.LifecycleHooks{
		OnNodeEnter: func(_ context.Context, e *domain.NodeEvent) {
			assert.Equal(t, domain.EventNodeEnter, e.Type)
			assert.Nil(t, e.Step)
			entered = append(entered, e.NodeID)
		},
		OnNodeLeave: func(_ context.Context, e *domain.NodeEvent) {
			assert.Equal(t, domain.EventNodeLeave, e.Type)
			require.NotNil(t, e.Step)
			assert.Equal(t, e.NodeID, e.Step.NodeID)
			left = append(left, e.NodeID)
		},
		OnRunComplete: func(_ context.Context, e *domain.RunEvent) {
			completed = e
		},
	}

	engine := runtime.NewEngine(runtime.WithLifecycleHooks(hooks), runtime.WithLogger(nil))
	res := engine.Run(context.Background(), snapshot(t, seedNodes()), "F1", 2)

	want := []string{"F1", "F2", "F4", "F5", "F3"}
	assert.Equal(t, want, entered)
	assert.Equal(t, want, left)
	require.NotNil(t, completed)
	assert.Equal(t, domain.EventRunComplete, completed.Type)
	assert.Equal(t, res.RunID, completed.RunID)
	assert.Same(t, res, completed.Result)
}

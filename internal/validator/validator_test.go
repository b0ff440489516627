package validator

import (
	"testing"

	"github.com/aretw0/funchain/pkg/chain"
	"github.com/aretw0/funchain/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(t *testing.T, nodes ...domain.FunctionNode) *chain.Snapshot {
	t.Helper()
	c, err := chain.New(nodes)
	require.NoError(t, err)
	return c.Snapshot()
}

func kinds(r *Report) []Kind {
	out := make([]Kind, len(r.Issues))
	for i, issue := range r.Issues {
		out[i] = issue.Kind
	}
	return out
}

func TestCheck_Valid(t *testing.T) {
	snap := snapshot(t,
		domain.FunctionNode{ID: "start", Equation: "x+1", Next: "a"},
		domain.FunctionNode{ID: "a", Equation: "x*2", Next: "b"},
		domain.FunctionNode{ID: "b", Equation: "x/0"},
	)

	r := Check(snap, "start")
	assert.Empty(t, r.Issues)
	assert.NoError(t, r.Err())
}

func TestCheck_Empty(t *testing.T) {
	r := Check(snapshot(t), "")
	assert.Empty(t, r.Issues)
}

func TestCheck_BrokenLinkAndUnreachable(t *testing.T) {
	snap := snapshot(t,
		domain.FunctionNode{ID: "start", Equation: "x", Next: "ghost_node"},
		domain.FunctionNode{ID: "island", Equation: "x"},
	)

	r := Check(snap, "start")
	assert.Equal(t, []Kind{KindDanglingLink, KindUnreachable}, kinds(r))
	assert.NoError(t, r.Err(), "warnings alone do not fail validation")
}

func TestCheck_Cycle(t *testing.T) {
	snap := snapshot(t,
		domain.FunctionNode{ID: "F4", Equation: "x-2", Next: "F5"},
		domain.FunctionNode{ID: "F5", Equation: "x/2", Next: "F4"},
	)

	r := Check(snap, "F4")
	require.Error(t, r.Err())
	assert.Equal(t, []Kind{KindCycle}, kinds(r))
	assert.Equal(t, "F4", r.Issues[0].NodeID)
	assert.Contains(t, r.Error(), "found 1 errors")
}

func TestCheck_UnreachableCycle(t *testing.T) {
	snap := snapshot(t,
		domain.FunctionNode{ID: "start", Equation: "x"},
		domain.FunctionNode{ID: "a", Equation: "x", Next: "b"},
		domain.FunctionNode{ID: "b", Equation: "x", Next: "a"},
	)

	r := Check(snap, "start")
	assert.NoError(t, r.Err())
	assert.Equal(t, []Kind{KindUnreachable, KindCycle, KindUnreachable, KindCycle}, kinds(r))
}

func TestCheck_Equations(t *testing.T) {
	c, err := chain.New([]domain.FunctionNode{
		{ID: "a", Equation: "x+", Next: "b"},
		{ID: "b", Equation: "2 3"},
	})
	require.NoError(t, err)

	r := Check(c.Snapshot(), "a")
	assert.Equal(t, []Kind{KindMalformedEquation, KindMalformedEquation}, kinds(r))
	assert.Len(t, r.Errors(), 2)
}

func TestCheck_MissingEntry(t *testing.T) {
	r := Check(snapshot(t, domain.FunctionNode{ID: "a", Equation: "x"}), "zzz")
	require.Error(t, r.Err())
	assert.Equal(t, KindMissingEntry, r.Issues[0].Kind)
}

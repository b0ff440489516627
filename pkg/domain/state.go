package domain

// RunStatus describes where a chain run is in its lifecycle.
type RunStatus string

const (
	StatusRunning   RunStatus = "running"   // Traversal in progress
	StatusCompleted RunStatus = "completed" // Reached a node without a resolvable successor
	StatusFailed    RunStatus = "failed"    // Hop bound exhausted (cycle)
)

// IsTerminal reports whether no further transitions are possible.
func (s RunStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

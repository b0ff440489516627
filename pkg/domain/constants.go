package domain

const (
	// DefaultInitialValue is the seed used when a chain definition does not provide one.
	DefaultInitialValue = 2.0

	// EndLabel is how a missing successor is displayed.
	EndLabel = "End"
)

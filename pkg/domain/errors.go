package domain

import "errors"

// ErrNodeNotFound is returned when an operation names a node id that is not in the chain.
var ErrNodeNotFound = errors.New("node not found")

// ErrCycleDetected is returned when a run visits more nodes than the chain holds.
var ErrCycleDetected = errors.New("cycle detected")

// ErrDuplicateNode is returned when a chain definition repeats a node id.
var ErrDuplicateNode = errors.New("duplicate node id")

// ErrEmptyNodeID is returned when a chain definition contains a node without an id.
var ErrEmptyNodeID = errors.New("node missing id")

// ErrRunNotFound is returned when a stored run result is requested by an unknown id.
var ErrRunNotFound = errors.New("run not found")

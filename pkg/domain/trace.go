package domain

import (
	"encoding/json"
	"errors"
	"strings"
)

// Outcome is the result of evaluating one node: either Ok with a value or Failed with an
// error. The zero Outcome is Failed with a nil error and should not be used.
type Outcome struct {
	value Value
	err   error
	ok    bool
}

// Ok returns a successful outcome.
func Ok(v Value) Outcome {
	return Outcome{value: v, ok: true}
}

// Failed returns a failed outcome.
func Failed(err error) Outcome {
	return Outcome{err: err}
}

// IsOk reports whether the node produced a value.
func (o Outcome) IsOk() bool {
	return o.ok
}

// Value returns the produced value and true, or zero and false for a failure.
func (o Outcome) Value() (Value, bool) {
	return o.value, o.ok
}

// Err returns the failure, or nil for a successful outcome.
func (o Outcome) Err() error {
	if o.ok {
		return nil
	}
	return o.err
}

func (o Outcome) String() string {
	if o.ok {
		return o.value.String()
	}
	if o.err == nil {
		return "error"
	}
	return "error: " + o.err.Error()
}

// Step records one node visit.
type Step struct {
	NodeID  string
	Input   Value
	Outcome Outcome
}

type stepJSON struct {
	NodeID string `json:"node_id"`
	Input  Value  `json:"input"`
	Output *Value `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// MarshalJSON flattens the outcome into "output" or "error".
func (s Step) MarshalJSON() ([]byte, error) {
	out := stepJSON{NodeID: s.NodeID, Input: s.Input}
	if v, ok := s.Outcome.Value(); ok {
		out.Output = &v
	} else if err := s.Outcome.Err(); err != nil {
		out.Error = err.Error()
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a step. Decoded failures keep their message only.
func (s *Step) UnmarshalJSON(data []byte) error {
	var in stepJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.NodeID = in.NodeID
	s.Input = in.Input
	if in.Output != nil {
		s.Outcome = Ok(*in.Output)
	} else {
		s.Outcome = Failed(errors.New(in.Error))
	}
	return nil
}

// Result is the trace of a single chain run.
type Result struct {
	// RunID identifies the run in logs and events.
	RunID string `json:"run_id"`
	// Entry is the node the run started from.
	Entry   string `json:"entry"`
	Initial Value  `json:"initial"`
	// Final is the last successfully computed value, or Initial if none was computed.
	Final  Value     `json:"final"`
	Status RunStatus `json:"status"`
	// Err is set when the run failed as a whole (ErrCycleDetected).
	Err   error  `json:"-"`
	Trace []Step `json:"trace"`
}

// MarshalJSON adds the run error as a string.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	out := struct {
		alias
		Error string `json:"error,omitempty"`
	}{alias: alias(r)}
	if out.Trace == nil {
		out.Trace = []Step{}
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a result encoded by MarshalJSON. A decoded run error keeps its
// message and still matches ErrCycleDetected with errors.Is.
func (r *Result) UnmarshalJSON(data []byte) error {
	type alias Result
	in := struct {
		*alias
		Error string `json:"error"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r.Err = nil
	if in.Error != "" {
		decoded := &decodedError{msg: in.Error}
		if strings.HasPrefix(in.Error, ErrCycleDetected.Error()) {
			decoded.cause = ErrCycleDetected
		}
		r.Err = decoded
	}
	return nil
}

type decodedError struct {
	msg   string
	cause error
}

func (e *decodedError) Error() string { return e.msg }

func (e *decodedError) Unwrap() error { return e.cause }

// Failures returns the steps whose evaluation failed.
func (r *Result) Failures() []Step {
	var failed []Step
	for _, s := range r.Trace {
		if !s.Outcome.IsOk() {
			failed = append(failed, s)
		}
	}
	return failed
}

// LastStep returns the most recent step recorded for nodeID.
func (r *Result) LastStep(nodeID string) (Step, bool) {
	for i := len(r.Trace) - 1; i >= 0; i-- {
		if r.Trace[i].NodeID == nodeID {
			return r.Trace[i], true
		}
	}
	return Step{}, false
}

// Visited returns the node ids of the trace in visit order.
func (r *Result) Visited() []string {
	ids := make([]string, len(r.Trace))
	for i, s := range r.Trace {
		ids[i] = s.NodeID
	}
	return ids
}

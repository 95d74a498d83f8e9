package lilduino

// ExecutionState holds the result and error slots of one command invocation.
// A subcommand shares the state of the topcommand that dispatched it.
type ExecutionState struct {
	currentResult Value
	hasResult     bool
	err           *CommandError
}

// NewExecutionState creates a new execution state
func NewExecutionState() *ExecutionState {
	return &ExecutionState{}
}

// SetResult sets the result value
func (s *ExecutionState) SetResult(value Value) {
	s.currentResult = value
	s.hasResult = value != nil
}

// GetResult returns the current result value
func (s *ExecutionState) GetResult() Value {
	return s.currentResult
}

// HasResult checks if a result value exists
func (s *ExecutionState) HasResult() bool {
	return s.hasResult
}

// SetError records the pending error. The first error wins; a handler that
// fails twice reports the cause, not the follow-on.
func (s *ExecutionState) SetError(err *CommandError) {
	if s.err == nil {
		s.err = err
	}
}

// Err returns the pending error, if any
func (s *ExecutionState) Err() *CommandError {
	return s.err
}

// String returns a string representation for debugging
func (s *ExecutionState) String() string {
	switch {
	case s.err != nil:
		return "ExecutionState(error: " + s.err.Message + ")"
	case s.hasResult:
		return "ExecutionState(has result)"
	}
	return "ExecutionState(no result)"
}

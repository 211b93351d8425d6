package embedfsm

import "fmt"

// ErrInvalidInitialState is returned by Build when the requested initial
// state id is not present in the supplied state table. The construction
// attempt is not recoverable; the caller must supply a registered id.
type ErrInvalidInitialState struct {
	State StateID
}

func (e *ErrInvalidInitialState) Error() string {
	return fmt.Sprintf("embedfsm: initial state %q not defined", e.State)
}

// ErrInvalidTargetState is returned by HandleEvent when a handler returns a
// state id absent from the machine's state table. This is a contract
// violation by handler-authoring code: the transition is aborted before any
// mutation, and callers should treat the machine instance as dead.
type ErrInvalidTargetState struct {
	From   StateID
	Event  EventID
	Target StateID
}

func (e *ErrInvalidTargetState) Error() string {
	return fmt.Sprintf("embedfsm: handler for state %q returned undefined state %q on event %q",
		e.From, e.Target, e.Event)
}

// ErrHook is returned when an OnEnter or OnExit hook fails. It wraps the
// original error, allowing inspection with errors.Is and errors.As.
type ErrHook struct {
	// Kind is "OnEnter" or "OnExit"
	Kind string
	// State is the state whose hook failed
	State StateID
	// Err is the original error returned by the hook
	Err error
}

func (e *ErrHook) Error() string {
	return fmt.Sprintf("embedfsm: %s hook failed for state %q: %v", e.Kind, e.State, e.Err)
}

// Unwrap provides compatibility with the standard library's errors package
func (e *ErrHook) Unwrap() error { return e.Err }

// ErrUnknownState is returned when restoring a snapshot that references a
// state id not defined in the machine's state table. This prevents the
// machine from entering an invalid, undeclared state.
type ErrUnknownState struct {
	State StateID
}

func (e *ErrUnknownState) Error() string {
	return fmt.Sprintf("embedfsm: unknown state %q in snapshot", e.State)
}

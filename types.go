package embedfsm

import "log/slog"

// StateID is a unique identifier for a state
type StateID string

// EventID is a unique identifier for an event type
type EventID string

// Handler is the per-state dispatch function. It receives the event being
// processed through the Context and must return the identifier of the state
// that should be active afterwards. Returning the current state's own id
// means "stay": no transition occurs and no hooks fire.
type Handler func(ctx *Context) StateID

// Hook is a side-effecting callback invoked when a state becomes active
// (OnEnter) or stops being active (OnExit)
type Hook func(ctx *Context) error

// StateChangeFunc is notified after each completed transition
type StateChangeFunc func(from, to StateID)

// Logger is the default logger used when none is provided
var Logger = slog.Default()

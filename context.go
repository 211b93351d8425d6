package embedfsm

import "log/slog"

// Context is passed to handlers and hooks and provides access to the machine
// being driven
type Context struct {
	Machine   *Machine
	Event     *Event  // Event being processed (nil during ForceState hooks)
	FromState StateID // State we're transitioning from
	ToState   StateID // State we're transitioning to
	Data      any     // User-provided application data
	Logger    *slog.Logger
}

// CurrentState returns the machine's current active state
func (c *Context) CurrentState() StateID {
	return c.Machine.Current()
}

// PreviousState returns the state active before the last transition
func (c *Context) PreviousState() StateID {
	return c.Machine.Previous()
}

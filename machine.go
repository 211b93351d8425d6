package embedfsm

import (
	"log/slog"
)

// Machine is the runtime FSM instance. It is synchronous and single-threaded
// by contract: HandleEvent is a direct call chain (dispatch -> handler ->
// optional exit/entry hooks) with no queuing, no background execution and no
// locking. Embedders with concurrent event sources must serialize them into
// a single caller, e.g. by running the machine behind a Dispatcher.
//
// Exactly one state is active at a time. The application context set with
// WithData is owned by the machine and must only be mutated from inside
// handler and hook calls.
type Machine struct {
	definition *Definition
	id         string

	current  StateID
	previous StateID

	data                any
	logger              *slog.Logger
	stateChangeCallback StateChangeFunc
}

// MachineOption is a functional option for configuring a Machine
type MachineOption func(*Machine)

// WithLogger sets the logger for the machine
func WithLogger(logger *slog.Logger) MachineOption {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithData sets the application data accessible via Context
func WithData(data any) MachineOption {
	return func(m *Machine) {
		m.data = data
	}
}

// WithStateChangeCallback sets a callback invoked after each transition
func WithStateChangeCallback(fn StateChangeFunc) MachineOption {
	return func(m *Machine) {
		m.stateChangeCallback = fn
	}
}

// WithID overrides the generated machine instance id used in log records
func WithID(id string) MachineOption {
	return func(m *Machine) {
		m.id = id
	}
}

// OnStateChange sets a callback invoked after each transition.
// Can be called after Build().
func (m *Machine) OnStateChange(fn StateChangeFunc) {
	m.stateChangeCallback = fn
}

// ID returns the machine instance id
func (m *Machine) ID() string {
	return m.id
}

// Current returns the current active state
func (m *Machine) Current() StateID {
	return m.current
}

// Previous returns the state that was active immediately before the last
// transition. Before the first transition it equals the initial state.
func (m *Machine) Previous() StateID {
	return m.previous
}

// Data returns the application data set with WithData
func (m *Machine) Data() any {
	return m.data
}

// HandleEvent dispatches a single event to the active state's handler and
// performs the resulting transition, if any.
//
// If the handler returns the current state's id, the call is a self-loop: no
// transition occurs and no hooks fire, only the handler's own side effects
// are observed. Otherwise the departing state's OnExit runs to completion,
// then the current/previous ids are updated, then the arriving state's
// OnEnter runs. Hooks therefore never observe an inconsistent
// current/previous pair.
//
// A handler returning an id absent from the state table is a contract
// violation: HandleEvent returns ErrInvalidTargetState without mutating the
// machine, and the caller should treat the instance as dead.
func (m *Machine) HandleEvent(event Event) error {
	state := m.definition.states[m.current]

	m.logger.Debug("event received", "event", event.ID, "state", state.label())

	ctx := m.makeContext(&event)
	ctx.FromState = m.current
	next := state.Handle(ctx)

	if next == m.current {
		m.logger.Debug("no transition", "event", event.ID, "state", state.label())
		return nil
	}

	target, ok := m.definition.states[next]
	if !ok {
		return &ErrInvalidTargetState{From: m.current, Event: event.ID, Target: next}
	}

	return m.transition(state, target, &event)
}

// ForceState forces a direct state change, bypassing the event-driven
// dispatch. This is useful for hybrid migrations where legacy code needs to
// set state directly. It runs the full exit/entry protocol and updates the
// previous state exactly like an ordinary transition.
func (m *Machine) ForceState(id StateID) error {
	target, ok := m.definition.states[id]
	if !ok {
		return &ErrUnknownState{State: id}
	}

	if id == m.current {
		return nil
	}

	return m.transition(m.definition.states[m.current], target, nil)
}

// transition performs the strictly ordered exit -> update -> enter sequence
func (m *Machine) transition(from, to *State, event *Event) error {
	if from.OnExit != nil {
		ctx := m.makeContext(event)
		ctx.FromState = from.ID
		ctx.ToState = to.ID
		if err := from.OnExit(ctx); err != nil {
			return &ErrHook{Kind: "OnExit", State: from.ID, Err: err}
		}
	}

	m.previous = from.ID
	m.current = to.ID

	if to.OnEnter != nil {
		ctx := m.makeContext(event)
		ctx.FromState = from.ID
		ctx.ToState = to.ID
		if err := to.OnEnter(ctx); err != nil {
			return &ErrHook{Kind: "OnEnter", State: to.ID, Err: err}
		}
	}

	m.logger.Debug("transition", "from", from.label(), "to", to.label())

	if m.stateChangeCallback != nil {
		m.stateChangeCallback(from.ID, to.ID)
	}

	return nil
}

// enterInitial runs the initial state's OnEnter during Build
func (m *Machine) enterInitial() error {
	state := m.definition.states[m.current]

	m.logger.Debug("entering initial state", "state", state.label())

	if state.OnEnter != nil {
		ctx := m.makeContext(nil)
		ctx.FromState = m.current
		ctx.ToState = m.current
		if err := state.OnEnter(ctx); err != nil {
			return &ErrHook{Kind: "OnEnter", State: state.ID, Err: err}
		}
	}

	return nil
}

// makeContext creates a context for handlers and hooks
func (m *Machine) makeContext(event *Event) *Context {
	return &Context{
		Machine: m,
		Event:   event,
		Data:    m.data,
		Logger:  m.logger,
	}
}

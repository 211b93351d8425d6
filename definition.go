package embedfsm

import (
	"fmt"

	"github.com/google/uuid"
)

// Definition holds the FSM structure before building a Machine. The state
// table is complete once Build is called; states cannot be added to or
// removed from a running machine.
type Definition struct {
	states  map[StateID]*State
	initial StateID
}

// NewDefinition creates a new FSM definition builder
func NewDefinition() *Definition {
	return &Definition{
		states: make(map[StateID]*State),
	}
}

// State adds a state to the definition. The handler is mandatory: it decides,
// per event, which state should be active next.
func (d *Definition) State(id StateID, handler Handler, opts ...StateOption) *Definition {
	s := &State{
		ID:     id,
		Handle: handler,
	}
	for _, opt := range opts {
		opt(s)
	}
	d.states[id] = s
	return d
}

// Initial sets the initial state
func (d *Definition) Initial(id StateID) *Definition {
	d.initial = id
	return d
}

// Validate checks the definition for errors
func (d *Definition) Validate() error {
	if len(d.states) == 0 {
		return fmt.Errorf("no states defined")
	}

	if d.initial == "" {
		return fmt.Errorf("no initial state defined")
	}

	if _, ok := d.states[d.initial]; !ok {
		return &ErrInvalidInitialState{State: d.initial}
	}

	for id, state := range d.states {
		if state.Handle == nil {
			return fmt.Errorf("state %q has no handler", id)
		}
	}

	return nil
}

// Build creates a Machine from the definition and enters the initial state.
// The initial state's OnEnter hook runs synchronously before Build returns,
// so a constructed machine is always fully inside its initial state.
func (d *Definition) Build(opts ...MachineOption) (*Machine, error) {
	if err := d.Validate(); err != nil {
		if inv, ok := err.(*ErrInvalidInitialState); ok {
			return nil, inv
		}
		return nil, fmt.Errorf("invalid definition: %w", err)
	}

	m := &Machine{
		definition: d,
		id:         uuid.NewString(),
		current:    d.initial,
		previous:   d.initial,
		logger:     Logger,
	}

	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("machine", m.id)

	if err := m.enterInitial(); err != nil {
		return nil, err
	}

	return m, nil
}

package embedfsm

// State defines a state in the machine. Handle is required; everything else
// is optional.
type State struct {
	ID   StateID
	Name string // Human-readable label for diagnostics; defaults to the ID

	OnEnter Hook
	OnExit  Hook

	Handle Handler
}

// label returns the diagnostic name of the state
func (s *State) label() string {
	if s.Name != "" {
		return s.Name
	}
	return string(s.ID)
}

// StateOption is a functional option for configuring a State
type StateOption func(*State)

// WithName sets the human-readable label used in logs and transition records
func WithName(name string) StateOption {
	return func(s *State) {
		s.Name = name
	}
}

// WithOnEnter sets the entry hook for the state
func WithOnEnter(fn func(*Context) error) StateOption {
	return func(s *State) {
		s.OnEnter = fn
	}
}

// WithOnExit sets the exit hook for the state
func WithOnExit(fn func(*Context) error) StateOption {
	return func(s *State) {
		s.OnExit = fn
	}
}

package embedfsm

import (
	"encoding/json"
	"fmt"
)

// machineSnapshot is the serializable representation of a machine's position.
// Application data is an opaque value owned by the embedder and is not part
// of the snapshot.
type machineSnapshot struct {
	Current  StateID `json:"current"`
	Previous StateID `json:"previous"`
}

// MarshalJSON implements the json.Marshaler interface
func (m *Machine) MarshalJSON() ([]byte, error) {
	snap := machineSnapshot{
		Current:  m.current,
		Previous: m.previous,
	}

	return json.Marshal(snap)
}

// UnmarshalJSON implements the json.Unmarshaler interface. It restores the
// machine's position without firing any hooks. Snapshot ids are validated
// against the state table so the machine can never be restored into an
// undeclared state.
func (m *Machine) UnmarshalJSON(data []byte) error {
	var snap machineSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to unmarshal machine snapshot: %w", err)
	}

	if _, ok := m.definition.states[snap.Current]; !ok {
		return &ErrUnknownState{State: snap.Current}
	}
	if _, ok := m.definition.states[snap.Previous]; !ok {
		return &ErrUnknownState{State: snap.Previous}
	}

	m.current = snap.Current
	m.previous = snap.Previous

	return nil
}

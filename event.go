package embedfsm

// Event carries data through the state machine. Payload is opaque to the
// engine: it is handed to the active state's handler for the duration of the
// call and never inspected or retained.
type Event struct {
	ID      EventID
	Payload any
}

package embedfsm

import (
	"context"
	"log/slog"
	"sync"
)

// Dispatcher serializes concurrent event sources into a single Machine. The
// engine itself is synchronous and unlocked; when events originate from more
// than one goroutine (timers, hardware adapters, network readers), they must
// be funneled through one queue before reaching HandleEvent. Dispatcher is
// that queue: a buffered channel drained by a single consumer goroutine.
//
// A contract violation or hook failure surfaced by HandleEvent is fatal to
// the dispatcher: the error is latched, the consumer stops, and subsequent
// sends are dropped. The machine is not given further events in a state the
// handler author never defined.
type Dispatcher struct {
	machine *Machine
	events  chan Event
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	timers  map[string]*timerEntry
	timerMu sync.Mutex

	mu  sync.Mutex
	err error
}

// DispatcherOption is a functional option for configuring a Dispatcher
type DispatcherOption func(*Dispatcher)

// WithQueueSize sets the event queue buffer size
func WithQueueSize(size int) DispatcherOption {
	return func(d *Dispatcher) {
		d.events = make(chan Event, size)
	}
}

// WithDispatcherLogger sets the logger for the dispatcher
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a dispatcher owning the given machine
func NewDispatcher(m *Machine, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		machine: m,
		events:  make(chan Event, 100),
		timers:  make(map[string]*timerEntry),
		logger:  m.logger,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Start begins the event loop
func (d *Dispatcher) Start(ctx context.Context) {
	d.ctx, d.cancel = context.WithCancel(ctx)
	d.done = make(chan struct{})
	go d.eventLoop()
}

// Stop shuts down the event loop and cancels all timers. It returns once the
// consumer goroutine has exited, after which the machine is safe to inspect
// from the calling goroutine again.
func (d *Dispatcher) Stop() {
	if d.cancel != nil {
		d.cancel()
		<-d.done
	}
	d.StopAllTimers()
}

// Err returns the error that stopped the dispatcher, if any
func (d *Dispatcher) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Machine returns the machine driven by this dispatcher
func (d *Dispatcher) Machine() *Machine {
	return d.machine
}

// Send queues an event for asynchronous processing. Events are delivered to
// the machine strictly in queue order. If the queue is full or the
// dispatcher has failed, the event is dropped with a warning.
func (d *Dispatcher) Send(event Event) {
	if err := d.Err(); err != nil {
		d.logger.Warn("dispatcher stopped, dropping event", "event", event.ID, "error", err)
		return
	}

	select {
	case d.events <- event:
	default:
		d.logger.Warn("event queue full, dropping event", "event", event.ID)
	}
}

// SendSync sends an event and waits for it to be processed, returning the
// HandleEvent result
func (d *Dispatcher) SendSync(event Event) error {
	done := make(chan error, 1)
	wrapper := Event{
		ID: event.ID,
		Payload: &syncEventPayload{
			original: event.Payload,
			done:     done,
		},
	}
	d.Send(wrapper)

	select {
	case err := <-done:
		return err
	case <-d.ctx.Done():
		if err := d.Err(); err != nil {
			return err
		}
		return d.ctx.Err()
	}
}

type syncEventPayload struct {
	original any
	done     chan error
}

// eventLoop processes events from the queue
func (d *Dispatcher) eventLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.ctx.Done():
			return
		case event := <-d.events:
			var syncDone chan error
			payload := event.Payload

			// Handle sync events
			if sp, ok := payload.(*syncEventPayload); ok {
				syncDone = sp.done
				payload = sp.original
			}

			err := d.machine.HandleEvent(Event{ID: event.ID, Payload: payload})
			if err != nil {
				d.fail(err)
			}

			if syncDone != nil {
				syncDone <- err
			}

			if err != nil {
				return
			}
		}
	}
}

// fail latches the first fatal error and stops the loop
func (d *Dispatcher) fail(err error) {
	d.mu.Lock()
	if d.err == nil {
		d.err = err
	}
	d.mu.Unlock()

	d.logger.Error("dispatcher stopping", "error", err)
	d.cancel()
}

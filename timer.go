package embedfsm

import (
	"time"
)

// The engine has no notion of wall-clock time: a timer-driven transition is
// modeled as a synthetic event delivered like any other. The dispatcher's
// named timers produce those events.

// timerEntry tracks a running timer
type timerEntry struct {
	timer    *time.Timer
	event    Event
	duration time.Duration
}

// StartTimer starts a named timer that will inject an event into the queue
// when it fires. If a timer with the same name exists, it is reset.
func (d *Dispatcher) StartTimer(name string, duration time.Duration, event Event) {
	d.timerMu.Lock()
	defer d.timerMu.Unlock()

	// Cancel existing timer with same name
	if existing, ok := d.timers[name]; ok {
		existing.timer.Stop()
		delete(d.timers, name)
	}

	t := time.AfterFunc(duration, func() {
		d.timerMu.Lock()
		// Check timer still exists (wasn't cancelled)
		if _, ok := d.timers[name]; ok {
			delete(d.timers, name)
			d.timerMu.Unlock()

			d.logger.Debug("timer fired", "name", name, "event", event.ID)
			d.Send(event)
		} else {
			d.timerMu.Unlock()
		}
	})

	d.timers[name] = &timerEntry{
		timer:    t,
		event:    event,
		duration: duration,
	}

	d.logger.Debug("timer started", "name", name, "duration", duration, "event", event.ID)
}

// StopTimer stops a timer by name. No-op if timer doesn't exist.
func (d *Dispatcher) StopTimer(name string) {
	d.timerMu.Lock()
	defer d.timerMu.Unlock()

	if entry, ok := d.timers[name]; ok {
		entry.timer.Stop()
		delete(d.timers, name)
		d.logger.Debug("timer stopped", "name", name)
	}
}

// StopAllTimers stops all running timers
func (d *Dispatcher) StopAllTimers() {
	d.timerMu.Lock()
	defer d.timerMu.Unlock()

	for name, entry := range d.timers {
		entry.timer.Stop()
		d.logger.Debug("timer stopped (cleanup)", "name", name)
	}
	d.timers = make(map[string]*timerEntry)
}

// TimerActive checks if a timer is currently running
func (d *Dispatcher) TimerActive(name string) bool {
	d.timerMu.Lock()
	defer d.timerMu.Unlock()
	_, ok := d.timers[name]
	return ok
}

// ResetTimer stops and restarts a timer with a new duration (preserving the
// event)
func (d *Dispatcher) ResetTimer(name string, duration time.Duration) {
	d.timerMu.Lock()
	entry, ok := d.timers[name]
	if !ok {
		d.timerMu.Unlock()
		return
	}
	event := entry.event
	entry.timer.Stop()
	delete(d.timers, name)
	d.timerMu.Unlock()

	d.StartTimer(name, duration, event)
}

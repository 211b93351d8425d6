package embedfsm

import (
	"testing"
)

// Printer fixture: a small job-processing machine with a page counter kept in
// the application data. The counter resets when PRINTING is entered and is
// incremented by the PRINTING handler on every tick, including the self-loop
// ticks that cause no transition.

const (
	stateReady    StateID = "ready"
	statePrinting StateID = "printing"
	stateJam      StateID = "paper_error"
)

const (
	evPrintRequest     EventID = "print_request"
	evContinuePrinting EventID = "continue_printing"
	evErrorNoPaper     EventID = "error_no_paper"
	evCancelCommand    EventID = "cancel_command"
	evClearError       EventID = "clear_error"
)

type printerJob struct {
	pagesPrinted int
	pagesPerJob  int
}

func newPrinter(t *testing.T, pagesPerJob int) (*Machine, *printerJob) {
	t.Helper()

	job := &printerJob{pagesPerJob: pagesPerJob}

	m, err := NewDefinition().
		State(stateReady, func(c *Context) StateID {
			if c.Event.ID == evPrintRequest {
				return statePrinting
			}
			return stateReady
		}, WithName("READY")).
		State(statePrinting, func(c *Context) StateID {
			j := c.Data.(*printerJob)
			switch c.Event.ID {
			case evContinuePrinting:
				j.pagesPrinted++
				if j.pagesPrinted >= j.pagesPerJob {
					return stateReady
				}
				return statePrinting
			case evErrorNoPaper:
				return stateJam
			case evCancelCommand:
				return stateReady
			default:
				return statePrinting
			}
		},
			WithName("PRINTING"),
			WithOnEnter(func(c *Context) error {
				c.Data.(*printerJob).pagesPrinted = 0
				return nil
			}),
		).
		State(stateJam, func(c *Context) StateID {
			if c.Event.ID == evClearError {
				return stateReady
			}
			return stateJam
		}, WithName("ERROR")).
		Initial(stateReady).
		Build(WithData(job))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	return m, job
}

func send(t *testing.T, m *Machine, id EventID) {
	t.Helper()
	if err := m.HandleEvent(Event{ID: id}); err != nil {
		t.Fatalf("handle %s failed: %v", id, err)
	}
}

func TestPrinterStartsJob(t *testing.T) {
	m, _ := newPrinter(t, 5)

	send(t, m, evPrintRequest)

	if m.Current() != statePrinting {
		t.Errorf("expected %s, got %s", statePrinting, m.Current())
	}
	if m.Previous() != stateReady {
		t.Errorf("expected previous %s, got %s", stateReady, m.Previous())
	}
}

func TestPrinterTicksBelowThreshold(t *testing.T) {
	m, job := newPrinter(t, 5)
	send(t, m, evPrintRequest)

	for i := 1; i <= 4; i++ {
		send(t, m, evContinuePrinting)
		if m.Current() != statePrinting {
			t.Fatalf("tick %d: expected to stay in %s, got %s", i, statePrinting, m.Current())
		}
		if job.pagesPrinted != i {
			t.Fatalf("tick %d: expected %d pages, got %d", i, i, job.pagesPrinted)
		}
	}
}

func TestPrinterFinishesJobAtThreshold(t *testing.T) {
	m, job := newPrinter(t, 5)
	send(t, m, evPrintRequest)

	for i := 0; i < 5; i++ {
		send(t, m, evContinuePrinting)
	}

	if m.Current() != stateReady {
		t.Errorf("expected %s after final page, got %s", stateReady, m.Current())
	}
	if job.pagesPrinted != 5 {
		t.Errorf("expected 5 pages, got %d", job.pagesPrinted)
	}
}

func TestPrinterPaperOutOverridesCounter(t *testing.T) {
	m, _ := newPrinter(t, 5)
	send(t, m, evPrintRequest)
	send(t, m, evContinuePrinting)
	send(t, m, evContinuePrinting)

	send(t, m, evErrorNoPaper)

	if m.Current() != stateJam {
		t.Errorf("expected %s, got %s", stateJam, m.Current())
	}
	if m.Previous() != statePrinting {
		t.Errorf("expected previous %s, got %s", statePrinting, m.Previous())
	}
}

func TestPrinterErrorIgnoresOtherEvents(t *testing.T) {
	m, _ := newPrinter(t, 5)
	send(t, m, evPrintRequest)
	send(t, m, evErrorNoPaper)

	for _, id := range []EventID{evPrintRequest, evContinuePrinting, evCancelCommand} {
		send(t, m, id)
		if m.Current() != stateJam {
			t.Fatalf("event %s must be ignored in %s, got %s", id, stateJam, m.Current())
		}
	}
}

func TestPrinterClearErrorReturnsToReady(t *testing.T) {
	m, _ := newPrinter(t, 5)
	send(t, m, evPrintRequest)
	send(t, m, evErrorNoPaper)

	send(t, m, evClearError)

	if m.Current() != stateReady {
		t.Errorf("expected %s, got %s", stateReady, m.Current())
	}
	if m.Previous() != stateJam {
		t.Errorf("expected previous %s, got %s", stateJam, m.Previous())
	}
}

func TestPrinterCounterResetsOnReentry(t *testing.T) {
	m, job := newPrinter(t, 5)
	send(t, m, evPrintRequest)
	send(t, m, evContinuePrinting)
	send(t, m, evContinuePrinting)
	send(t, m, evCancelCommand)

	// New job: the PRINTING entry hook must zero the counter again
	send(t, m, evPrintRequest)
	if job.pagesPrinted != 0 {
		t.Errorf("expected counter reset on re-entry, got %d", job.pagesPrinted)
	}

	send(t, m, evContinuePrinting)
	if job.pagesPrinted != 1 {
		t.Errorf("expected 1 page in new job, got %d", job.pagesPrinted)
	}
}

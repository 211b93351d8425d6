package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	dotenv "github.com/joho/godotenv"
	envconf "github.com/sethvargo/go-envconfig"

	"github.com/embedfsm/embedfsm"
)

// Printer simulation: drives the READY/PRINTING/ERROR machine behind a
// dispatcher. Page ticks arrive from a goroutine, the paper-out fault and its
// recovery arrive from named timers, so every event source is serialized
// through the same queue.

const (
	stateReady    embedfsm.StateID = "ready"
	statePrinting embedfsm.StateID = "printing"
	stateJam      embedfsm.StateID = "paper_error"
)

const (
	evPrintRequest     embedfsm.EventID = "print_request"
	evContinuePrinting embedfsm.EventID = "continue_printing"
	evErrorNoPaper     embedfsm.EventID = "error_no_paper"
	evClearError       embedfsm.EventID = "clear_error"
)

type AppConfig struct {
	Env           string        `env:"ENV, default=dev"`
	PagesPerJob   int           `env:"PAGES_PER_JOB, default=5"`
	PageInterval  time.Duration `env:"PAGE_INTERVAL, default=200ms"`
	PaperOutAfter time.Duration `env:"PAPER_OUT_AFTER, default=1500ms"`
	RepairTime    time.Duration `env:"REPAIR_TIME, default=1s"`
}

type printerJob struct {
	pagesPrinted int
	pagesPerJob  int
	jobsDone     int
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := dotenv.Load(); err != nil {
		log.Println("Warning! No .env file found")
	}

	var c AppConfig
	envconf.MustProcess(ctx, &c)

	logger := configureLogger(c)

	job := &printerJob{pagesPerJob: c.PagesPerJob}

	machine, err := buildPrinter(job, logger)
	if err != nil {
		logger.Error("failed to build printer machine", "error", err)
		os.Exit(1)
	}

	d := embedfsm.NewDispatcher(machine,
		embedfsm.WithDispatcherLogger(logger.With("component", "dispatcher")),
	)

	machine.OnStateChange(func(from, to embedfsm.StateID) {
		logger.Info("printer state changed", "from", from, "to", to)
		if to == stateReady {
			// Queue the next job once the printer settles
			d.StartTimer("next_job", c.PageInterval, embedfsm.Event{ID: evPrintRequest})
		}
	})

	d.Start(ctx)

	// Page ticks from a separate goroutine; the dispatcher serializes them
	// with the timer-driven fault events below.
	go func() {
		ticker := time.NewTicker(c.PageInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				d.Send(embedfsm.Event{ID: evContinuePrinting})
			}
		}
	}()

	// One simulated paper-out fault, repaired after RepairTime
	d.StartTimer("paper_out", c.PaperOutAfter, embedfsm.Event{ID: evErrorNoPaper})
	d.StartTimer("repair", c.PaperOutAfter+c.RepairTime, embedfsm.Event{ID: evClearError})

	if err := d.SendSync(embedfsm.Event{ID: evPrintRequest}); err != nil {
		logger.Error("failed to start first job", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	d.Stop()

	logger.Info("simulation finished",
		"jobs_done", job.jobsDone,
		"final_state", machine.Current(),
	)
	if err := d.Err(); err != nil {
		logger.Error("dispatcher failed", "error", err)
		os.Exit(1)
	}
}

func buildPrinter(job *printerJob, logger *slog.Logger) (*embedfsm.Machine, error) {
	return embedfsm.NewDefinition().
		State(stateReady, func(c *embedfsm.Context) embedfsm.StateID {
			if c.Event.ID == evPrintRequest {
				return statePrinting
			}
			return stateReady
		}, embedfsm.WithName("READY")).
		State(statePrinting, func(c *embedfsm.Context) embedfsm.StateID {
			j := c.Data.(*printerJob)
			switch c.Event.ID {
			case evContinuePrinting:
				j.pagesPrinted++
				c.Logger.Info("printed page", "page", j.pagesPrinted, "of", j.pagesPerJob)
				if j.pagesPrinted >= j.pagesPerJob {
					j.jobsDone++
					return stateReady
				}
				return statePrinting
			case evErrorNoPaper:
				return stateJam
			default:
				return statePrinting
			}
		},
			embedfsm.WithName("PRINTING"),
			embedfsm.WithOnEnter(func(c *embedfsm.Context) error {
				c.Data.(*printerJob).pagesPrinted = 0
				return nil
			}),
		).
		State(stateJam, func(c *embedfsm.Context) embedfsm.StateID {
			if c.Event.ID == evClearError {
				return stateReady
			}
			return stateJam
		},
			embedfsm.WithName("ERROR"),
			embedfsm.WithOnEnter(func(c *embedfsm.Context) error {
				c.Logger.Warn("printer jammed, waiting for repair")
				return nil
			}),
		).
		Initial(stateReady).
		Build(
			embedfsm.WithData(job),
			embedfsm.WithLogger(logger.With("component", "printer")),
		)
}

func configureLogger(c AppConfig) *slog.Logger {
	var logger *slog.Logger
	switch c.Env {
	case "dev":
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case "prod":
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		panic(fmt.Sprintf("incorrect env type: %s. possible values: dev, prod", c.Env))
	}
	return logger
}

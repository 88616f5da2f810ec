// Package schedule triggers archive jobs from a cron expression.
package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/robfig/cron/v3"

	"github.com/raoulx24/kback/internal/logging"
	"github.com/raoulx24/kback/internal/mailbox"
	"github.com/raoulx24/kback/internal/worker"
)

const ErrInvalidSchedule = errors.ConstError("invalid schedule expression")

// Scheduler puts a job for source into the mailbox on every tick. A single
// worker drains the mailbox, so ticks that arrive while an archive is being
// written collapse into one.
type Scheduler struct {
	source   string
	schedule cron.Schedule
	cron     *cron.Cron
	mb       *mailbox.Mailbox[worker.Job]
	worker   *worker.Worker
	log      logging.Logger
}

// Parse validates a standard five-field cron expression or descriptor
// such as "@daily" or "@every 6h".
func Parse(expr string) (cron.Schedule, error) {
	s, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, errors.Annotatef(ErrInvalidSchedule, "%q: %v", expr, err)
	}
	return s, nil
}

// New builds a scheduler for source. w must consume from mb.
func New(expr, source string, w *worker.Worker, mb *mailbox.Mailbox[worker.Job], log logging.Logger) (*Scheduler, error) {
	sched, err := Parse(expr)
	if err != nil {
		return nil, errors.Trace(err)
	}

	cl := cronLogger{log}
	s := &Scheduler{
		source:   source,
		schedule: sched,
		cron:     cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl))),
		mb:       mb,
		worker:   w,
		log:      log,
	}
	s.cron.Schedule(sched, cron.FuncJob(func() { s.Trigger(time.Now()) }))
	return s, nil
}

// Next returns the first activation after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Trigger queues a job as if the schedule had fired at t.
func (s *Scheduler) Trigger(t time.Time) {
	if replaced := s.mb.Put(worker.Job{Source: s.source, Scheduled: t}); replaced {
		s.log.Warn("previous scheduled backup still pending, coalescing", "source", s.source)
	}
}

// Run starts the cron loop and the worker and blocks until ctx is done.
// The archive in progress, if any, is allowed to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.worker.Start(ctx)
	}()

	s.cron.Start()
	s.log.Info("backup schedule started", "source", s.source, "next", s.Next(time.Now()))

	<-ctx.Done()

	stopped := s.cron.Stop()
	<-stopped.Done()
	s.mb.Close()
	wg.Wait()

	s.log.Info("backup schedule stopped")
	return nil
}

// cronLogger routes cron's own logging into ours.
type cronLogger struct {
	log logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(keysAndValues, "err", err)...)
}

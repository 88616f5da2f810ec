// Package worker runs archive jobs one at a time.
package worker

import (
	"context"
	"time"

	"github.com/juju/clock"

	"github.com/raoulx24/kback/internal/logging"
	"github.com/raoulx24/kback/internal/mailbox"
)

// Archiver creates one archive of source inside backupDir.
type Archiver interface {
	Create(ctx context.Context, source, backupDir string) (string, error)
}

// Result is the outcome of one job.
type Result struct {
	Job      Job
	Archive  string
	Err      error
	Duration time.Duration
}

// Worker takes jobs from a mailbox and archives them sequentially, so no two
// archives are ever written at the same time.
type Worker struct {
	backupDir string
	archiver  Archiver
	log       logging.Logger
	clock     clock.Clock
	mb        *mailbox.Mailbox[Job]

	// OnResult, when set, is called after every job.
	OnResult func(Result)
}

// New creates a worker writing into backupDir.
func New(backupDir string, a Archiver, log logging.Logger, clk clock.Clock, mb *mailbox.Mailbox[Job]) *Worker {
	log.Debug("creating worker", "backupDir", backupDir)
	if clk == nil {
		clk = clock.WallClock
	}
	return &Worker{
		backupDir: backupDir,
		archiver:  a,
		log:       log,
		clock:     clk,
		mb:        mb,
	}
}

// Start processes jobs until the mailbox is closed.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info("starting worker")
	for {
		job, ok := w.mb.Take()
		if !ok {
			w.log.Debug("mailbox closed, worker exiting")
			return
		}
		res := w.Handle(ctx, job)
		if w.OnResult != nil {
			w.OnResult(res)
		}
	}
}

// Handle archives one job and logs the outcome.
func (w *Worker) Handle(ctx context.Context, job Job) Result {
	started := w.clock.Now()
	path, err := w.archiver.Create(ctx, job.Source, w.backupDir)
	res := Result{Job: job, Archive: path, Err: err, Duration: w.clock.Now().Sub(started)}

	if err != nil {
		w.log.Error("backup failed", "source", job.Source, "err", err)
		return res
	}
	w.log.Info("backup created", "source", job.Source, "archive", path, "took", res.Duration)
	return res
}

package worker

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/kback/internal/logging"
	"github.com/raoulx24/kback/internal/mailbox"
)

type fakeArchiver struct {
	mu      sync.Mutex
	sources []string
	err     error
	active  int
	overlap bool
}

func (f *fakeArchiver) Create(_ context.Context, source, backupDir string) (string, error) {
	f.mu.Lock()
	f.active++
	if f.active > 1 {
		f.overlap = true
	}
	f.sources = append(f.sources, source)
	f.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	f.active--
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return filepath.Join(backupDir, filepath.Base(source)+".tar.gz"), nil
}

func TestWorker_Handle(t *testing.T) {
	clk := testclock.NewClock(time.Now())
	fa := &fakeArchiver{}
	w := New("/var/backups", fa, logging.Discard(), clk, mailbox.New[Job]())

	res := w.Handle(context.Background(), Job{Source: "/etc/nginx"})
	require.NoError(t, res.Err)
	assert.Equal(t, "/var/backups/nginx.tar.gz", res.Archive)
	assert.Equal(t, []string{"/etc/nginx"}, fa.sources)
}

func TestWorker_HandleError(t *testing.T) {
	fa := &fakeArchiver{err: errors.New("disk full")}
	w := New("/var/backups", fa, logging.Discard(), nil, mailbox.New[Job]())

	res := w.Handle(context.Background(), Job{Source: "/etc"})
	assert.EqualError(t, res.Err, "disk full")
	assert.Empty(t, res.Archive)
}

func TestWorker_StartRunsJobsSequentially(t *testing.T) {
	mb := mailbox.New[Job]()
	fa := &fakeArchiver{}
	w := New("/var/backups", fa, logging.Discard(), nil, mb)

	results := make(chan Result, 10)
	w.OnResult = func(r Result) { results <- r }

	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()

	for i := 0; i < 3; i++ {
		mb.Put(Job{Source: "/srv/data"})
		select {
		case r := <-results:
			require.NoError(t, r.Err)
		case <-time.After(time.Second):
			t.Fatal("job not processed")
		}
	}

	mb.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after Close")
	}

	fa.mu.Lock()
	defer fa.mu.Unlock()
	assert.Len(t, fa.sources, 3)
	assert.False(t, fa.overlap)
}

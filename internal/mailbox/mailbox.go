// Package mailbox provides a single-slot, latest-wins hand-off between a
// producer and one consumer.
package mailbox

import "sync"

// Mailbox is a single-slot buffer where the latest job always wins.
// It is NOT a queue. It holds at most one pending job.
type Mailbox[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	job    *T
	closed bool
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	m := &Mailbox[T]{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Put stores a job, replacing any pending one, and reports whether a pending
// job was replaced. It never blocks. Puts after Close are dropped.
func (m *Mailbox[T]) Put(j T) (replaced bool) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	replaced = m.job != nil
	m.job = &j
	m.mu.Unlock()
	m.cond.Signal()
	return replaced
}

// Take blocks until a job is available or the mailbox is closed. ok is
// false once the mailbox is closed.
func (m *Mailbox[T]) Take() (job T, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for m.job == nil && !m.closed {
		m.cond.Wait()
	}
	if m.closed {
		return job, false
	}

	job = *m.job
	m.job = nil
	return job, true
}

// Close discards any pending job and wakes every waiting Take.
func (m *Mailbox[T]) Close() {
	m.mu.Lock()
	m.closed = true
	m.job = nil
	m.mu.Unlock()
	m.cond.Broadcast()
}

// HasJob reports whether a job is currently waiting.
func (m *Mailbox[T]) HasJob() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.job != nil
}

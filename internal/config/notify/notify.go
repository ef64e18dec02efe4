// Package notify provides deferred warning delivery for configuration
// processing.
//
// Warnings raised while a merge is in progress are queued and handed to
// the host's notifier only after the current operation finishes, so
// they never interleave with in-progress setup output. Delivery order
// relative to other deferred work is not guaranteed and a kicked flush
// cannot be cancelled.
package notify

import (
	"fmt"
	"sync"

	"github.com/dshills/buftab/internal/host"
)

// Queue collects warnings and delivers them to a host notifier.
type Queue struct {
	mu       sync.Mutex
	notifier host.Notifier
	pending  []string
	seen     map[string]bool
	sync     bool
	wg       sync.WaitGroup
}

// Option configures a Queue.
type Option func(*Queue)

// WithSyncDelivery makes Kick deliver inline instead of deferred.
// Used by tests that need deterministic ordering.
func WithSyncDelivery() Option {
	return func(q *Queue) {
		q.sync = true
	}
}

// New creates a warning queue delivering to the given notifier.
// A nil notifier is allowed; warnings are then discarded on flush.
func New(notifier host.Notifier, opts ...Option) *Queue {
	q := &Queue{
		notifier: notifier,
		seen:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Warn queues a warning message.
func (q *Queue) Warn(msg string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, msg)
}

// Warnf queues a formatted warning message.
func (q *Queue) Warnf(format string, args ...any) {
	q.Warn(fmt.Sprintf(format, args...))
}

// WarnOnce queues a warning only the first time key is seen. Repeated
// merges do not re-announce the same deprecated option.
func (q *Queue) WarnOnce(key, msg string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.seen[key] {
		return
	}
	q.seen[key] = true
	q.pending = append(q.pending, msg)
}

// Pending returns the queued warnings without delivering them.
func (q *Queue) Pending() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]string, len(q.pending))
	copy(out, q.pending)
	return out
}

// Kick schedules delivery of all queued warnings. In deferred mode the
// flush runs on its own goroutine after the caller returns to the event
// loop.
func (q *Queue) Kick() {
	if q.sync {
		q.Flush()
		return
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.Flush()
	}()
}

// Flush delivers all queued warnings in queue order and clears the
// queue.
func (q *Queue) Flush() {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	notifier := q.notifier
	q.mu.Unlock()

	if notifier == nil {
		return
	}
	for _, msg := range pending {
		notifier.Warn(msg)
	}
}

// Wait blocks until any kicked flushes complete. Test helper.
func (q *Queue) Wait() {
	q.wg.Wait()
}

// Reset clears pending warnings and the once-keys. Test helper.
func (q *Queue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = nil
	q.seen = make(map[string]bool)
}

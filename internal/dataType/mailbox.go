package dataType

import "sync"

// Mailbox is an unbounded FIFO queue of envelopes. Push never blocks, so
// actors can send to each other's mailboxes without deadlocking even when
// a delivery fans out into further deliveries. Pop blocks until an
// envelope arrives or the mailbox is closed and drained.
type Mailbox struct {
	mu      sync.Mutex
	cond    *sync.Cond
	entries []Envelope
	closed  bool
}

func NewMailbox() *Mailbox {
	mb := &Mailbox{
		entries: make([]Envelope, 0, 64),
	}
	mb.cond = sync.NewCond(&mb.mu)
	return mb
}

// Push appends an envelope and reports whether it was accepted. Pushing
// to a closed mailbox drops the envelope.
func (mb *Mailbox) Push(env Envelope) bool {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if mb.closed {
		return false
	}
	mb.entries = append(mb.entries, env)
	mb.cond.Signal()
	return true
}

// Pop removes the oldest envelope, blocking while the mailbox is open and
// empty. The second return is false once the mailbox is closed and drained.
func (mb *Mailbox) Pop() (Envelope, bool) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	for len(mb.entries) == 0 && !mb.closed {
		mb.cond.Wait()
	}
	if len(mb.entries) == 0 {
		return Envelope{}, false
	}
	env := mb.entries[0]
	mb.entries = mb.entries[1:]
	return env, true
}

// Close wakes all blocked readers. Queued envelopes can still be drained.
func (mb *Mailbox) Close() {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.closed = true
	mb.cond.Broadcast()
}

func (mb *Mailbox) Len() int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return len(mb.entries)
}

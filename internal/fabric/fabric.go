package fabric

import (
	"sync"
	"sync/atomic"

	"cocochain/internal/dataType"
	"cocochain/internal/metrics"
)

// Fabric is the in-process broadcast medium. Every participant owns a
// mailbox; a broadcast lands exactly once in every mailbox except the
// sender's, in send order per sender. There is no loss and no retry.
//
// The in-flight group counts envelopes between enqueue and the end of
// receiver processing. Cascaded sends are added before the triggering
// envelope is marked done, so Settle only returns once the whole causal
// chain has drained. An injection that starts from a drained fabric must
// not overlap another injector's Settle: callers pairing Broadcast or
// Post with Settle from more than one goroutine serialize the pair.
type Fabric struct {
	mailboxes []*dataType.Mailbox
	inflight  sync.WaitGroup
	overhead  atomic.Int64
	mset      *metrics.Set
}

func NewFabric(participants int, mset *metrics.Set) *Fabric {
	f := &Fabric{
		mailboxes: make([]*dataType.Mailbox, participants),
		mset:      mset,
	}
	for i := range f.mailboxes {
		f.mailboxes[i] = dataType.NewMailbox()
	}
	return f
}

func (f *Fabric) Size() int {
	return len(f.mailboxes)
}

func (f *Fabric) Mailbox(i int) *dataType.Mailbox {
	return f.mailboxes[i]
}

// Broadcast fans env out to every participant except the sender and
// charges one overhead message per receiver. A sender id outside the
// participant range marks an external injection and reaches everyone.
func (f *Fabric) Broadcast(env dataType.Envelope, senderID int) {
	delivered := 0
	for i, mb := range f.mailboxes {
		if i == senderID {
			continue
		}
		f.inflight.Add(1)
		if !mb.Push(env) {
			f.inflight.Done()
			continue
		}
		delivered++
	}
	f.overhead.Add(int64(delivered))
	if f.mset != nil {
		f.mset.Deliveries.Add(float64(delivered))
	}
}

// Post delivers a control envelope to one participant without charging
// protocol overhead. The scheduler uses it for ticks and sweeps.
func (f *Fabric) Post(env dataType.Envelope, to int) {
	f.inflight.Add(1)
	if !f.mailboxes[to].Push(env) {
		f.inflight.Done()
	}
}

// Done marks one delivered envelope as fully processed.
func (f *Fabric) Done() {
	f.inflight.Done()
}

// Settle blocks until no envelope is in flight anywhere on the fabric.
func (f *Fabric) Settle() {
	f.inflight.Wait()
}

// Overhead returns the total protocol messages charged so far.
func (f *Fabric) Overhead() int64 {
	return f.overhead.Load()
}

// Shutdown closes every mailbox. Call only after a final Settle.
func (f *Fabric) Shutdown() {
	for _, mb := range f.mailboxes {
		mb.Close()
	}
}

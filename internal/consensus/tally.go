package consensus

import (
	"math"

	"github.com/google/uuid"
)

// txTally tracks the votes one node has collected for one transaction.
// Only the first vote per sender counts; later votes from the same sender
// are discarded regardless of content.
type txTally struct {
	bySender  map[int]bool
	accepts   int
	firstSeen float64
}

// Tally is a node's local vote book. Nodes are single-writer actors, so
// the tally needs no locking of its own.
type Tally struct {
	required int
	tallies  map[uuid.UUID]*txTally
}

// RequiredVotes returns the finalization threshold for an estimated
// network size: ceil(estimate * fraction). The estimate is fixed
// configuration, never live membership.
func RequiredVotes(estimatedSize int, fraction float64) int {
	return int(math.Ceil(float64(estimatedSize) * fraction))
}

func NewTally(required int) *Tally {
	return &Tally{
		required: required,
		tallies:  make(map[uuid.UUID]*txTally),
	}
}

func (t *Tally) Required() int {
	return t.required
}

// Record stores a vote and reports whether it counted. Duplicate senders
// for the same transaction do not count.
func (t *Tally) Record(txID uuid.UUID, senderID int, accept bool, now float64) bool {
	entry, ok := t.tallies[txID]
	if !ok {
		entry = &txTally{
			bySender:  make(map[int]bool),
			firstSeen: now,
		}
		t.tallies[txID] = entry
	}
	if _, seen := entry.bySender[senderID]; seen {
		return false
	}
	entry.bySender[senderID] = accept
	if accept {
		entry.accepts++
	}
	return true
}

// Counts returns the distinct-sender vote count and the accepting subset.
func (t *Tally) Counts(txID uuid.UUID) (total, accepts int) {
	entry, ok := t.tallies[txID]
	if !ok {
		return 0, 0
	}
	return len(entry.bySender), entry.accepts
}

// Decided reports whether the transaction has enough votes to settle and,
// when it does, whether the accepting votes carry it.
func (t *Tally) Decided(txID uuid.UUID) (decided, accepted bool) {
	total, accepts := t.Counts(txID)
	if total < t.required {
		return false, false
	}
	return true, accepts >= t.required
}

func (t *Tally) Drop(txID uuid.UUID) {
	delete(t.tallies, txID)
}

func (t *Tally) Size() int {
	return len(t.tallies)
}

// Sweep drops tallies first seen before cutoff and returns how many went.
func (t *Tally) Sweep(cutoff float64) int {
	removed := 0
	for id, entry := range t.tallies {
		if entry.firstSeen < cutoff {
			delete(t.tallies, id)
			removed++
		}
	}
	return removed
}

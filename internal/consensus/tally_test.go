package consensus

import (
	"testing"

	"github.com/google/uuid"
)

func TestRequiredVotes(t *testing.T) {
	tests := []struct {
		size     int
		fraction float64
		want     int
	}{
		{50, 0.67, 34}, // ceil(33.5), never the truncated 33
		{4, 0.67, 3},
		{5, 0.67, 4},
		{6, 0.67, 5},
		{3, 0.67, 3},
		{10, 0.5, 5},
		{1, 1.0, 1},
	}
	for _, tt := range tests {
		if got := RequiredVotes(tt.size, tt.fraction); got != tt.want {
			t.Errorf("RequiredVotes(%d, %v) = %d, want %d", tt.size, tt.fraction, got, tt.want)
		}
	}
}

func TestTallyDeduplicatesSenders(t *testing.T) {
	tl := NewTally(3)
	txID := uuid.New()

	if !tl.Record(txID, 1, true, 0) {
		t.Errorf("Expected first vote from sender 1 to count")
	}
	// Test duplicate: same sender again, regardless of content
	if tl.Record(txID, 1, true, 0) {
		t.Errorf("Expected repeated vote from sender 1 to be discarded")
	}
	if tl.Record(txID, 1, false, 0) {
		t.Errorf("Expected conflicting vote from sender 1 to be discarded")
	}

	total, accepts := tl.Counts(txID)
	if total != 1 || accepts != 1 {
		t.Errorf("Counts = (%d, %d), want (1, 1)", total, accepts)
	}
}

func TestTallyDecides(t *testing.T) {
	tl := NewTally(3)
	txID := uuid.New()

	tl.Record(txID, 1, true, 0)
	tl.Record(txID, 2, true, 0)
	if decided, _ := tl.Decided(txID); decided {
		t.Errorf("Decided below the threshold")
	}

	tl.Record(txID, 3, true, 0)
	decided, accepted := tl.Decided(txID)
	if !decided || !accepted {
		t.Errorf("Decided = (%v, %v), want (true, true)", decided, accepted)
	}
}

func TestTallyRejectsWhenAcceptsFallShort(t *testing.T) {
	tl := NewTally(3)
	txID := uuid.New()

	tl.Record(txID, 1, true, 0)
	tl.Record(txID, 2, true, 0)
	tl.Record(txID, 3, false, 0)

	decided, accepted := tl.Decided(txID)
	if !decided {
		t.Fatalf("Expected a decision at the vote threshold")
	}
	if accepted {
		t.Errorf("Expected rejection with only 2 of 3 accepts")
	}
}

func TestTallyUnknownTransaction(t *testing.T) {
	tl := NewTally(3)
	total, accepts := tl.Counts(uuid.New())
	if total != 0 || accepts != 0 {
		t.Errorf("Counts for unknown tx = (%d, %d), want (0, 0)", total, accepts)
	}
	if decided, _ := tl.Decided(uuid.New()); decided {
		t.Errorf("Unknown tx must not be decided")
	}
}

func TestTallyDropAndSize(t *testing.T) {
	tl := NewTally(2)
	a, b := uuid.New(), uuid.New()
	tl.Record(a, 1, true, 0)
	tl.Record(b, 1, true, 0)

	if tl.Size() != 2 {
		t.Errorf("Size = %d, want 2", tl.Size())
	}
	tl.Drop(a)
	if tl.Size() != 1 {
		t.Errorf("Size after Drop = %d, want 1", tl.Size())
	}
	if total, _ := tl.Counts(a); total != 0 {
		t.Errorf("Dropped tally still counts %d votes", total)
	}
}

func TestTallySweepByFirstSeen(t *testing.T) {
	tl := NewTally(2)
	old, fresh := uuid.New(), uuid.New()
	tl.Record(old, 1, true, 1.0)
	tl.Record(fresh, 1, true, 8.0)

	if removed := tl.Sweep(5.0); removed != 1 {
		t.Errorf("Sweep removed %d tallies, want 1", removed)
	}
	if total, _ := tl.Counts(old); total != 0 {
		t.Errorf("Stale tally survived the sweep")
	}
	if total, _ := tl.Counts(fresh); total != 1 {
		t.Errorf("Fresh tally lost to the sweep")
	}
}

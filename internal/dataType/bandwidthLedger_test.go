package dataType

import (
	"sync"
	"testing"
)

func TestBandwidthLedgerAccumulates(t *testing.T) {
	bl := NewBandwidthLedger(4)

	bl.Add("urban|intra", 1.5)
	bl.Add("urban|intra", 0.5)
	bl.Add("rural|inter", 0.25)

	if got := bl.Total("urban|intra"); got != 2.0 {
		t.Errorf("Expected urban|intra total 2.0, got %v", got)
	}
	if got := bl.Total("rural|inter"); got != 0.25 {
		t.Errorf("Expected rural|inter total 0.25, got %v", got)
	}
	if got := bl.Total("missing"); got != 0 {
		t.Errorf("Expected unknown key total 0, got %v", got)
	}

	snap := bl.Snapshot()
	if len(snap) != 2 {
		t.Errorf("Expected 2 snapshot entries, got %d", len(snap))
	}
	if snap["urban|intra"] != 2.0 {
		t.Errorf("Snapshot urban|intra = %v, want 2.0", snap["urban|intra"])
	}

	bl.Reset("urban|intra")
	if got := bl.Total("urban|intra"); got != 0 {
		t.Errorf("Expected 0 after Reset, got %v", got)
	}
}

func TestBandwidthLedgerConcurrentAdds(t *testing.T) {
	bl := NewBandwidthLedger(8)
	keys := []string{"urban|intra", "interurban|inter", "rural|io"}

	const workers = 8
	const addsPerWorker = 100

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < addsPerWorker; i++ {
				for _, k := range keys {
					bl.Add(k, 0.5)
				}
			}
		}()
	}
	wg.Wait()

	want := float64(workers*addsPerWorker) * 0.5
	for _, k := range keys {
		if got := bl.Total(k); got != want {
			t.Errorf("Total(%q) = %v, want %v", k, got, want)
		}
	}
}

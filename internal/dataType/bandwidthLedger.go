package dataType

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

type ledgerBucket struct {
	mu     sync.RWMutex
	totals map[uint64]float64
	names  map[uint64]string
}

func newLedgerBucket() *ledgerBucket {
	return &ledgerBucket{
		totals: make(map[uint64]float64),
		names:  make(map[uint64]string),
	}
}

// BandwidthLedger accumulates simulated traffic volume per key, e.g.
// "urban|intra" or "rural|inter". Keys are sharded across buckets by
// xxhash so domains running in parallel do not contend on one lock.
type BandwidthLedger struct {
	buckets     []*ledgerBucket
	bucketCount uint64
}

func NewBandwidthLedger(bucketCount int) *BandwidthLedger {
	bl := &BandwidthLedger{
		buckets:     make([]*ledgerBucket, bucketCount),
		bucketCount: uint64(bucketCount),
	}
	for i := 0; i < bucketCount; i++ {
		bl.buckets[i] = newLedgerBucket()
	}
	return bl
}

func (bl *BandwidthLedger) getBucket(key string) *ledgerBucket {
	h := xxhash.Sum64String(key)
	idx := h % bl.bucketCount
	return bl.buckets[idx]
}

func (bl *BandwidthLedger) Add(key string, mb float64) {
	bucket := bl.getBucket(key)
	bucket.mu.Lock()
	defer bucket.mu.Unlock()
	hashKey := xxhash.Sum64String(key)
	bucket.totals[hashKey] += mb
	bucket.names[hashKey] = key
}

func (bl *BandwidthLedger) Total(key string) float64 {
	bucket := bl.getBucket(key)
	bucket.mu.RLock()
	defer bucket.mu.RUnlock()
	return bucket.totals[xxhash.Sum64String(key)]
}

func (bl *BandwidthLedger) Reset(key string) {
	bucket := bl.getBucket(key)
	bucket.mu.Lock()
	defer bucket.mu.Unlock()
	hashKey := xxhash.Sum64String(key)
	delete(bucket.totals, hashKey)
	delete(bucket.names, hashKey)
}

// Snapshot returns all keyed totals at once.
func (bl *BandwidthLedger) Snapshot() map[string]float64 {
	out := make(map[string]float64)
	for _, bucket := range bl.buckets {
		bucket.mu.RLock()
		for hashKey, total := range bucket.totals {
			out[bucket.names[hashKey]] = total
		}
		bucket.mu.RUnlock()
	}
	return out
}

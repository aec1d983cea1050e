package concept

import (
	"math"
	"math/rand/v2"
	"testing"

	"cocochain/internal/config"
	"cocochain/internal/dataType"
)

func testVector() dataType.ConceptVector {
	return dataType.ConceptVector{
		Data:      []float64{1, -2, 0.5, 3, -0.25, 0, 1.5, -1.5, 2, -3},
		Timestamp: 1,
		NodeID:    5,
	}
}

func TestCorruptorZeroProbabilityIsNoOp(t *testing.T) {
	c := NewCorruptor(config.CorruptionRules{Probability: 0, ScaleSpread: 0.5}, rand.New(rand.NewPCG(1, 1)))
	cv := testVector()
	want := testVector()

	if c.Apply(&cv) {
		t.Errorf("Expected Apply to report no corruption at probability 0")
	}
	if cv.Corrupted {
		t.Errorf("Expected Corrupted flag to stay false")
	}
	for i := range cv.Data {
		if cv.Data[i] != want.Data[i] {
			t.Errorf("Component %d mutated: %v -> %v", i, want.Data[i], cv.Data[i])
		}
	}
}

func TestCorruptorScalesWithinSpread(t *testing.T) {
	rules := config.CorruptionRules{
		Probability: 1,
		ScaleSpread: 0.5,
	}
	c := NewCorruptor(rules, rand.New(rand.NewPCG(2, 7)))

	cv := testVector()
	want := testVector()
	if !c.Apply(&cv) {
		t.Fatalf("Expected Apply to corrupt at probability 1")
	}
	if !cv.Corrupted {
		t.Errorf("Expected Corrupted flag to be set")
	}

	// Every component is rescaled by a factor in [0.5, 1.5): sign kept,
	// magnitude bounded.
	for i := range cv.Data {
		if want.Data[i] == 0 {
			if cv.Data[i] != 0 {
				t.Errorf("Zero component %d became %v", i, cv.Data[i])
			}
			continue
		}
		ratio := cv.Data[i] / want.Data[i]
		if ratio < 0.5 || ratio >= 1.5 {
			t.Errorf("Component %d scaled by %v, want [0.5, 1.5)", i, ratio)
		}
	}
}

func TestCorruptorExtremeReplacesOneComponent(t *testing.T) {
	rules := config.CorruptionRules{
		Probability:        1,
		ScaleSpread:        0,
		ExtremeProbability: 1,
		ExtremeLow:         -10,
		ExtremeHigh:        10,
	}
	c := NewCorruptor(rules, rand.New(rand.NewPCG(3, 9)))

	cv := testVector()
	want := testVector()
	if !c.Apply(&cv) {
		t.Fatalf("Expected Apply to corrupt at probability 1")
	}

	// With zero spread the scale pass is the identity, so exactly one
	// component may differ and it must sit inside the extreme range.
	changed := 0
	for i := range cv.Data {
		if cv.Data[i] == want.Data[i] {
			continue
		}
		changed++
		if cv.Data[i] < rules.ExtremeLow || cv.Data[i] >= rules.ExtremeHigh {
			t.Errorf("Replacement %v outside [%v, %v)", cv.Data[i], rules.ExtremeLow, rules.ExtremeHigh)
		}
	}
	if changed > 1 {
		t.Errorf("Expected at most one replaced component, got %d", changed)
	}
}

func TestCorruptedDigestStillMatches(t *testing.T) {
	// Corruption happens before digesting: a corrupted payload shipped
	// with its own digest passes the digest check and only the
	// statistical rules can flag it.
	c := NewCorruptor(config.CorruptionRules{
		Probability:        1,
		ScaleSpread:        0.5,
		ExtremeProbability: 0.5,
		ExtremeLow:         -10,
		ExtremeHigh:        10,
	}, rand.New(rand.NewPCG(4, 11)))

	cv := testVector()
	c.Apply(&cv)
	digest := DigestOf(cv.Data)
	if recomputed := DigestOf(cv.Data); recomputed != digest {
		t.Errorf("Digest over corrupted payload not stable: %q vs %q", digest, recomputed)
	}
	for _, v := range cv.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("Corruption produced non-finite component %v", v)
		}
	}
}

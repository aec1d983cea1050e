package check

import (
	"math"
	"testing"

	"cocochain/internal/concept"
	"cocochain/internal/config"
	"cocochain/internal/dataType"
	"cocochain/internal/verdict"
)

func testRules() config.VerifierRules {
	return config.VerifierRules{
		Enabled:             true,
		VarianceLimit:       2.0,
		ExtremeLimit:        5.0,
		ActivationThreshold: 0.8,
		SimilarityThreshold: 0.2,
		ReferenceComponent:  0.5,
	}
}

func makeTx(data []float64) *dataType.Transaction {
	return &dataType.Transaction{
		Concept: dataType.ConceptVector{Data: data, NodeID: 1},
		Digest:  concept.DigestOf(data),
	}
}

func repeat(val float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = val
	}
	return out
}

func alternating(val float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = val
		if i%2 == 1 {
			out[i] = -val
		}
	}
	return out
}

func TestVerifierAcceptsCleanPayload(t *testing.T) {
	vf := NewVerifier(testRules())

	v := vf.Verify(makeTx(repeat(0.5, 10)))
	if v.Rejected() {
		t.Errorf("Expected clean payload to pass, got reason %s", v.Reason())
	}
	if v.Get() != verdict.Accept {
		t.Errorf("Expected Accept, got %v", v.Get())
	}
}

func TestVerifierSafeRegionAlwaysPasses(t *testing.T) {
	// No component above the activation threshold and variance under the
	// ceiling: the similarity rule can never trigger, so these all pass.
	vf := NewVerifier(testRules())

	payloads := [][]float64{
		repeat(0, 10),
		repeat(-0.5, 10), // cosine vs the all-0.5 vector would be -1, but the gate stays closed
		alternating(0.8, 10),
		{0.1, -0.2, 0.3, -0.4, 0.5, -0.6, 0.7, -0.8, 0.25, 0},
	}
	for i, data := range payloads {
		if v := vf.Verify(makeTx(data)); v.Rejected() {
			t.Errorf("Payload %d rejected with reason %s, want accept", i, v.Reason())
		}
	}
}

func TestVerifierRejectsDigestMismatch(t *testing.T) {
	vf := NewVerifier(testRules())

	tx := makeTx(repeat(0.5, 10))
	tx.Digest = "tampered"
	v := vf.Verify(tx)
	if !v.Rejected() || v.Reason() != verdict.ReasonDigestMismatch {
		t.Errorf("Expected digest_mismatch reject, got %v/%s", v.Get(), v.Reason())
	}
}

func TestVerifierRejectsHighVariance(t *testing.T) {
	vf := NewVerifier(testRules())

	// Population variance 25, every magnitude still at the extreme limit
	v := vf.Verify(makeTx(alternating(5, 10)))
	if !v.Rejected() || v.Reason() != verdict.ReasonHighVariance {
		t.Errorf("Expected high_variance reject, got %v/%s", v.Get(), v.Reason())
	}
}

func TestVerifierRejectsExtremeValue(t *testing.T) {
	vf := NewVerifier(testRules())

	// Constant payload: variance 0, magnitude above the ceiling
	v := vf.Verify(makeTx(repeat(5.5, 10)))
	if !v.Rejected() || v.Reason() != verdict.ReasonExtremeValue {
		t.Errorf("Expected extreme_value reject, got %v/%s", v.Get(), v.Reason())
	}

	// Exactly at the limit is still plausible
	v = vf.Verify(makeTx(repeat(5.0, 10)))
	if v.Rejected() {
		t.Errorf("Magnitude at the limit rejected with %s, want accept", v.Reason())
	}
}

func TestVerifierRejectsLowSimilarity(t *testing.T) {
	vf := NewVerifier(testRules())

	// Alternating signs: orthogonal to the constant reference, variance 1
	v := vf.Verify(makeTx(alternating(1, 10)))
	if !v.Rejected() || v.Reason() != verdict.ReasonLowSimilarity {
		t.Errorf("Expected low_semantic_similarity reject, got %v/%s", v.Get(), v.Reason())
	}
}

func TestVerifierRuleOrder(t *testing.T) {
	vf := NewVerifier(testRules())

	// Fails every rule at once: the first rule in the chain names the reason
	data := alternating(6, 10)
	tx := makeTx(data)
	tx.Digest = "tampered"
	if v := vf.Verify(tx); v.Reason() != verdict.ReasonDigestMismatch {
		t.Errorf("Expected digest rule to decide first, got %s", v.Reason())
	}

	// With the digest fixed, variance decides before the extreme rule
	if v := vf.Verify(makeTx(data)); v.Reason() != verdict.ReasonHighVariance {
		t.Errorf("Expected variance rule to decide before extreme, got %s", v.Reason())
	}
}

func TestVerifierSimilarityBoundaryInclusive(t *testing.T) {
	// A payload over the activation threshold with middling similarity
	data := []float64{1.0, -0.9, 0.6, 0.5, 0.4, -0.3, 0.5, 0.5, 0.2, 0.1}
	reference := repeat(0.5, len(data))
	sim := Cosine(data, reference)
	if sim <= 0 || sim >= 1 {
		t.Fatalf("Fixture similarity %v not usable as a threshold boundary", sim)
	}

	// Exactly at the threshold passes
	rules := testRules()
	rules.SimilarityThreshold = sim
	if v := NewVerifier(rules).Verify(makeTx(data)); v.Rejected() {
		t.Errorf("Similarity equal to the threshold rejected with %s, want accept", v.Reason())
	}

	// One ulp above rejects
	rules.SimilarityThreshold = math.Nextafter(sim, 2)
	if v := NewVerifier(rules).Verify(makeTx(data)); !v.Rejected() || v.Reason() != verdict.ReasonLowSimilarity {
		t.Errorf("Similarity below the threshold accepted, want low_semantic_similarity")
	}
}

func TestVerifierDisabledAcceptsAnything(t *testing.T) {
	rules := testRules()
	rules.Enabled = false
	vf := NewVerifier(rules)

	tx := makeTx(repeat(100, 10))
	tx.Digest = "tampered"
	if v := vf.Verify(tx); v.Rejected() {
		t.Errorf("Disabled verifier rejected with %s", v.Reason())
	}
}

func TestCosine(t *testing.T) {
	a := []float64{1, 0, 0}

	if got := Cosine(a, a); math.Abs(got-1) > 1e-12 {
		t.Errorf("Cosine of a vector with itself = %v, want 1", got)
	}
	if got := Cosine(a, []float64{0, 1, 0}); got != 0 {
		t.Errorf("Cosine of orthogonal vectors = %v, want 0", got)
	}
	if got := Cosine(a, []float64{0, 0, 0}); got != 0 {
		t.Errorf("Cosine against a zero vector = %v, want 0", got)
	}
	if got := Cosine(a, []float64{1, 0}); got != 0 {
		t.Errorf("Cosine of mismatched lengths = %v, want 0", got)
	}
	if got := Cosine(a, []float64{-1, 0, 0}); math.Abs(got+1) > 1e-12 {
		t.Errorf("Cosine of opposite vectors = %v, want -1", got)
	}
}

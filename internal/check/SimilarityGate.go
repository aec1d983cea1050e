package check

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"cocochain/internal/config"
	"cocochain/internal/dataType"
	"cocochain/internal/verdict"
)

// SimilarityGate applies the cosine similarity check, but only to
// payloads with at least one high-activation component. Similarity below
// the threshold rejects; exactly at the threshold passes.
func SimilarityGate(tx *dataType.Transaction, rules *config.VerifierRules, v *verdict.Verdict) {
	active := false
	for _, val := range tx.Concept.Data {
		if math.Abs(val) > rules.ActivationThreshold {
			active = true
			break
		}
	}
	if !active {
		return
	}

	reference := make([]float64, len(tx.Concept.Data))
	for i := range reference {
		reference[i] = rules.ReferenceComponent
	}

	if Cosine(tx.Concept.Data, reference) < rules.SimilarityThreshold {
		v.Set(verdict.Reject)
		v.SetReason(verdict.ReasonLowSimilarity)
	}
}

// Cosine returns the cosine similarity of two vectors, 0 when either has
// zero norm or the lengths disagree.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}
	return floats.Dot(a, b) / (normA * normB)
}

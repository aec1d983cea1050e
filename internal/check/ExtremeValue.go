package check

import (
	"math"

	"cocochain/internal/config"
	"cocochain/internal/dataType"
	"cocochain/internal/verdict"
)

// ExtremeValue rejects payloads carrying any component outside the
// plausible magnitude ceiling.
func ExtremeValue(tx *dataType.Transaction, rules *config.VerifierRules, v *verdict.Verdict) {
	for _, val := range tx.Concept.Data {
		if math.Abs(val) > rules.ExtremeLimit {
			v.Set(verdict.Reject)
			v.SetReason(verdict.ReasonExtremeValue)
			return
		}
	}
}

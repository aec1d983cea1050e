package check

import (
	"gonum.org/v1/gonum/stat"

	"cocochain/internal/config"
	"cocochain/internal/dataType"
	"cocochain/internal/verdict"
)

// VarianceBound rejects payloads whose population variance exceeds the
// configured ceiling. Systematic rescaling corruption inflates variance,
// which is what this rule keys on.
func VarianceBound(tx *dataType.Transaction, rules *config.VerifierRules, v *verdict.Verdict) {
	variance := stat.PopVariance(tx.Concept.Data, nil)
	if variance > rules.VarianceLimit {
		v.Set(verdict.Reject)
		v.SetReason(verdict.ReasonHighVariance)
	}
}

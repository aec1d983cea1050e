package check

import (
	"cocochain/internal/concept"
	"cocochain/internal/config"
	"cocochain/internal/dataType"
	"cocochain/internal/verdict"
)

// DigestMatch recomputes the semantic digest over the payload the
// transaction actually carries and rejects on any mismatch.
func DigestMatch(tx *dataType.Transaction, rules *config.VerifierRules, v *verdict.Verdict) {
	computed := concept.DigestOf(tx.Concept.Data)
	if computed != tx.Digest {
		v.Set(verdict.Reject)
		v.SetReason(verdict.ReasonDigestMismatch)
	}
}

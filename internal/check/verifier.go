package check

import (
	"cocochain/internal/config"
	"cocochain/internal/dataType"
	"cocochain/internal/verdict"
)

type CheckFunc func(*dataType.Transaction, *config.VerifierRules, *verdict.Verdict)

// Verifier runs the semantic integrity rules in order and stops at the
// first one that decides. A transaction that survives every rule is
// accepted. Verifier is stateless and safe to share across nodes.
type Verifier struct {
	rules  config.VerifierRules
	checks []CheckFunc
}

func NewVerifier(rules config.VerifierRules) *Verifier {
	checkFuncs := make([]CheckFunc, 0)
	checkFuncs = append(checkFuncs, DigestMatch)
	checkFuncs = append(checkFuncs, VarianceBound)
	checkFuncs = append(checkFuncs, ExtremeValue)
	checkFuncs = append(checkFuncs, SimilarityGate)

	return &Verifier{
		rules:  rules,
		checks: checkFuncs,
	}
}

func (vf *Verifier) Verify(tx *dataType.Transaction) *verdict.Verdict {
	v := verdict.NewVerdict()

	if !vf.rules.Enabled {
		v.Set(verdict.Accept)
		return v
	}

	for _, checkFunc := range vf.checks {
		checkFunc(tx, &vf.rules, v)
		if v.Get() != verdict.Undecided {
			break
		}
	}

	if v.Get() == verdict.Undecided {
		v.Set(verdict.Accept)
	}
	return v
}

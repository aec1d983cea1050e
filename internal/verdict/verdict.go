package verdict

type Outcome int

const (
	Undecided Outcome = iota // 0：Undecided
	Accept                   // 1：Pass
	Reject                   // 2：Deny
)

type Reason int

const (
	ReasonNone Reason = iota
	ReasonDigestMismatch
	ReasonHighVariance
	ReasonExtremeValue
	ReasonLowSimilarity
)

func (r Reason) String() string {
	switch r {
	case ReasonDigestMismatch:
		return "digest_mismatch"
	case ReasonHighVariance:
		return "high_variance"
	case ReasonExtremeValue:
		return "extreme_value"
	case ReasonLowSimilarity:
		return "low_semantic_similarity"
	default:
		return "none"
	}
}

// Verdict saves the result of the verification
type Verdict struct {
	result Outcome
	reason Reason
}

func NewVerdict() *Verdict {
	return &Verdict{result: Undecided, reason: ReasonNone}
}

func (v *Verdict) Get() Outcome {
	return v.result
}

func (v *Verdict) Set(new Outcome) {
	v.result = new
}

func (v *Verdict) Reason() Reason {
	return v.reason
}

func (v *Verdict) SetReason(r Reason) {
	v.reason = r
}

// Rejected reports whether the verdict ended in a deny
func (v *Verdict) Rejected() bool {
	return v.result == Reject
}

package verdict

import "testing"

func TestVerdictLifecycle(t *testing.T) {
	v := NewVerdict()

	// Fresh verdicts are undecided and carry no reason
	if v.Get() != Undecided {
		t.Errorf("Expected new verdict to be Undecided, got %v", v.Get())
	}
	if v.Rejected() {
		t.Errorf("Expected new verdict not to be rejected")
	}
	if v.Reason() != ReasonNone {
		t.Errorf("Expected ReasonNone, got %v", v.Reason())
	}

	v.Set(Accept)
	if v.Get() != Accept || v.Rejected() {
		t.Errorf("Expected Accept after Set, got %v", v.Get())
	}

	v.Set(Reject)
	v.SetReason(ReasonHighVariance)
	if !v.Rejected() {
		t.Errorf("Expected verdict to be rejected after Set(Reject)")
	}
	if v.Reason() != ReasonHighVariance {
		t.Errorf("Expected ReasonHighVariance, got %v", v.Reason())
	}
}

func TestReasonString(t *testing.T) {
	tests := []struct {
		reason Reason
		want   string
	}{
		{ReasonNone, "none"},
		{ReasonDigestMismatch, "digest_mismatch"},
		{ReasonHighVariance, "high_variance"},
		{ReasonExtremeValue, "extreme_value"},
		{ReasonLowSimilarity, "low_semantic_similarity"},
	}
	for _, tt := range tests {
		if got := tt.reason.String(); got != tt.want {
			t.Errorf("Reason(%d).String() = %q, want %q", tt.reason, got, tt.want)
		}
	}
}

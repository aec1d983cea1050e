package dataType

import "testing"

func TestVirtualClock(t *testing.T) {
	c := NewVirtualClock()
	if c.Now() != 0 {
		t.Errorf("Expected fresh clock at 0, got %v", c.Now())
	}

	if got := c.Advance(0.25); got != 0.25 {
		t.Errorf("Advance returned %v, want 0.25", got)
	}
	if got := c.Advance(0.25); got != 0.5 {
		t.Errorf("Advance returned %v, want 0.5", got)
	}
	if c.Now() != 0.5 {
		t.Errorf("Expected Now 0.5, got %v", c.Now())
	}

	c.Set(12)
	if c.Now() != 12 {
		t.Errorf("Expected Now 12 after Set, got %v", c.Now())
	}
}

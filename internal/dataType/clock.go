package dataType

import "sync"

// VirtualClock tracks simulated time in abstract units. The scheduler is
// the only writer; nodes read it for timestamps, ages and deadlines.
type VirtualClock struct {
	mu  sync.RWMutex
	now float64
}

func NewVirtualClock() *VirtualClock {
	return &VirtualClock{}
}

func (c *VirtualClock) Now() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Advance moves the clock forward by d units and returns the new time.
func (c *VirtualClock) Advance(d float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
	return c.now
}

func (c *VirtualClock) Set(t float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

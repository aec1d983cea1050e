package concept

import (
	"math/rand/v2"

	"cocochain/internal/config"
	"cocochain/internal/dataType"
)

// Corruptor applies the adversarial payload mutation: every component is
// rescaled by a bounded random factor and sometimes one component is
// replaced with an extreme value. Corruption happens before digesting, so
// the shipped digest still matches the corrupted payload.
type Corruptor struct {
	rules config.CorruptionRules
	rng   *rand.Rand
}

func NewCorruptor(rules config.CorruptionRules, rng *rand.Rand) *Corruptor {
	return &Corruptor{rules: rules, rng: rng}
}

// Apply mutates cv in place with the configured probability and reports
// whether it did.
func (c *Corruptor) Apply(cv *dataType.ConceptVector) bool {
	if c.rng.Float64() >= c.rules.Probability {
		return false
	}
	cv.Corrupted = true

	for i := range cv.Data {
		cv.Data[i] *= 1.0 + c.uniform(-c.rules.ScaleSpread, c.rules.ScaleSpread)
	}

	if c.rng.Float64() < c.rules.ExtremeProbability {
		idx := c.rng.IntN(len(cv.Data))
		cv.Data[idx] = c.uniform(c.rules.ExtremeLow, c.rules.ExtremeHigh)
	}
	return true
}

func (c *Corruptor) uniform(low, high float64) float64 {
	return low + c.rng.Float64()*(high-low)
}

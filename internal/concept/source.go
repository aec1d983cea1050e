package concept

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"cocochain/internal/dataType"
)

// Source draws concept vectors with independent standard normal
// components. Every source owns its PCG stream, so nodes sample
// deterministically for a given seed no matter how deliveries interleave.
type Source struct {
	dim    int
	normal distuv.Normal
}

func NewSource(dim int, rng *rand.Rand) *Source {
	return &Source{
		dim: dim,
		normal: distuv.Normal{
			Mu:    0,
			Sigma: 1,
			Src:   rng,
		},
	}
}

func (s *Source) Dimension() int {
	return s.dim
}

// Next samples a fresh component slice.
func (s *Source) Next() []float64 {
	data := make([]float64, s.dim)
	for i := range data {
		data[i] = s.normal.Rand()
	}
	return data
}

// NextVector samples a concept vector stamped with the origin and the
// current virtual time.
func (s *Source) NextVector(nodeID int, domain string, now float64) dataType.ConceptVector {
	return dataType.ConceptVector{
		Data:      s.Next(),
		Timestamp: now,
		NodeID:    nodeID,
		Domain:    domain,
	}
}

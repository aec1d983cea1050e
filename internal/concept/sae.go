package concept

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SAE is a linear semantic autoencoder pair. Each domain owns one; the
// encoding matrix compresses concept payloads for inter-domain exchange
// and the decoding matrix rebuilds an approximation on the receiving side.
type SAE struct {
	inputDim  int
	latentDim int
	encoding  *mat.Dense
	decoding  *mat.Dense
}

// NewSAE draws both matrices with N(0, 0.1) entries from rng.
func NewSAE(inputDim, latentDim int, rng *rand.Rand) (*SAE, error) {
	if latentDim >= inputDim || latentDim <= 0 {
		return nil, fmt.Errorf("sae dims %d->%d do not compress", inputDim, latentDim)
	}
	normal := distuv.Normal{Mu: 0, Sigma: 0.1, Src: rng}

	enc := make([]float64, latentDim*inputDim)
	for i := range enc {
		enc[i] = normal.Rand()
	}
	dec := make([]float64, inputDim*latentDim)
	for i := range dec {
		dec[i] = normal.Rand()
	}

	return &SAE{
		inputDim:  inputDim,
		latentDim: latentDim,
		encoding:  mat.NewDense(latentDim, inputDim, enc),
		decoding:  mat.NewDense(inputDim, latentDim, dec),
	}, nil
}

func (s *SAE) InputDim() int {
	return s.inputDim
}

func (s *SAE) LatentDim() int {
	return s.latentDim
}

// Encode compresses a concept payload into the latent space.
func (s *SAE) Encode(data []float64) ([]float64, error) {
	if len(data) != s.inputDim {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidDimension, len(data), s.inputDim)
	}
	out := mat.NewVecDense(s.latentDim, nil)
	out.MulVec(s.encoding, mat.NewVecDense(s.inputDim, data))
	return out.RawVector().Data, nil
}

// Decode rebuilds a full-dimension approximation from a latent payload.
func (s *SAE) Decode(encoded []float64) ([]float64, error) {
	if len(encoded) != s.latentDim {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidDimension, len(encoded), s.latentDim)
	}
	out := mat.NewVecDense(s.inputDim, nil)
	out.MulVec(s.decoding, mat.NewVecDense(s.latentDim, encoded))
	return out.RawVector().Data, nil
}

// ReconstructionError returns the RMSE between an original payload and
// its decoded approximation.
func ReconstructionError(original, decoded []float64) float64 {
	if len(original) != len(decoded) || len(original) == 0 {
		return math.NaN()
	}
	var sum float64
	for i := range original {
		d := original[i] - decoded[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(original)))
}

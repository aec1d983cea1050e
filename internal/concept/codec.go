package concept

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDimension is returned when a payload disagrees with the
// codec's configured dimension.
var ErrInvalidDimension = errors.New("concept vector has wrong dimension")

const digestHexLen = 16

// Codec computes semantic digests. The digest covers the components
// formatted at fixed precision, so equal payloads always digest equally
// and any component change propagates into the digest.
type Codec struct {
	dim int
}

func NewCodec(dim int) *Codec {
	return &Codec{dim: dim}
}

// Digest returns the semantic digest of data: SHA-256 over the
// ";"-joined components at 6 decimal places, truncated to 16 hex chars.
func (c *Codec) Digest(data []float64) (string, error) {
	if len(data) != c.dim {
		return "", fmt.Errorf("%w: got %d, want %d", ErrInvalidDimension, len(data), c.dim)
	}
	return DigestOf(data), nil
}

// DigestOf digests arbitrary-length payloads. Verifiers use it to
// recompute digests over whatever a transaction actually carries.
func DigestOf(data []float64) string {
	parts := make([]string, len(data))
	for i, val := range data {
		parts[i] = fmt.Sprintf("%.6f", val)
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, ";")))
	return hex.EncodeToString(sum[:])[:digestHexLen]
}

// Package poseidon wraps the iden3 Poseidon permutation behind a reusable
// handle. The underlying round constants are expensive to set up, so a
// single engine is initialized lazily and shared process-wide.
package poseidon

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/iden3/go-iden3-crypto/poseidon"
	"github.com/kamiyo-ai/kamiyo-zk/crypto/fields"
	"github.com/kamiyo-ai/kamiyo-zk/types"
)

// maxChunkLen is the widest Poseidon instance the circom circuits use.
const maxChunkLen = 16

// Hasher is a handle over the Poseidon engine. The zero value is ready to
// use; NewHasher and the shared Default exist for callers that inject the
// handle. A Hasher is safe for concurrent use.
type Hasher struct {
	init sync.Once
}

var (
	defaultHasher *Hasher
	defaultOnce   sync.Once
)

// NewHasher returns a new Poseidon hasher handle.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Default returns the shared process-wide hasher, constructing it on first
// use. Concurrent first callers are serialized by sync.Once.
func Default() *Hasher {
	defaultOnce.Do(func() {
		defaultHasher = NewHasher()
	})
	return defaultHasher
}

// warm forces the engine's round constants to be unpacked before the first
// real hash, so the cost is paid exactly once per handle.
func (h *Hasher) warm() {
	h.init.Do(func() {
		if _, err := poseidon.Hash([]*big.Int{big.NewInt(0)}); err != nil {
			panic(fmt.Sprintf("poseidon engine initialization failed: %v", err))
		}
	})
}

// Hash compresses an ordered list of scalar field elements into one field
// element. It is deterministic and order sensitive. Inputs are validated
// against the scalar field modulus first; out-of-range values are rejected,
// never reduced.
func (h *Hasher) Hash(inputs ...*big.Int) (*big.Int, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no inputs provided", types.ErrValidation)
	}
	if len(inputs) > maxChunkLen*maxChunkLen {
		return nil, fmt.Errorf("%w: too many inputs (%d)", types.ErrValidation, len(inputs))
	}
	for i, input := range inputs {
		if err := fields.CheckScalar(fmt.Sprintf("input %d", i), input); err != nil {
			return nil, err
		}
	}
	h.warm()
	if len(inputs) <= maxChunkLen {
		return poseidon.Hash(inputs)
	}
	// fold wide inputs chunk-wise, then hash the chunk digests
	hashes := []*big.Int{}
	for start := 0; start < len(inputs); start += maxChunkLen {
		end := start + maxChunkLen
		if end > len(inputs) {
			end = len(inputs)
		}
		hash, err := poseidon.Hash(inputs[start:end])
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, hash)
	}
	return poseidon.Hash(hashes)
}

// Package registry maintains the append-only merkle tree of agent identity
// commitments and produces the membership proofs consumed by the circuits.
package registry

import (
	"fmt"
	"math/big"

	"github.com/kamiyo-ai/kamiyo-zk/crypto/hash/poseidon"
	"github.com/kamiyo-ai/kamiyo-zk/types"
)

// Proof holds the merkle membership proof of a leaf commitment: one sibling
// per tree level, one direction bit per level (0 means the leaf side is the
// left child) and the resulting root.
type Proof struct {
	Siblings []*big.Int
	Indices  []uint8
	Root     *big.Int
}

// Provider supplies merkle membership proofs for identity commitments. It is
// an injected capability: the service wires the persistent Registry, tests
// may wire the deterministic TestProvider.
type Provider interface {
	// GenProof returns the membership proof for the given leaf commitment.
	GenProof(leaf *big.Int) (*Proof, error)
	// Root returns the current tree root.
	Root() (*big.Int, error)
}

// Fold recomputes the root by folding a leaf upward through the proof,
// hashing (current, sibling) when the direction bit is 0 and
// (sibling, current) when it is 1.
func Fold(h *poseidon.Hasher, leaf *big.Int, siblings []*big.Int, indices []uint8) (*big.Int, error) {
	if len(siblings) != len(indices) {
		return nil, fmt.Errorf("%w: %d siblings but %d direction bits",
			types.ErrValidation, len(siblings), len(indices))
	}
	current := leaf
	for i, sibling := range siblings {
		var err error
		switch indices[i] {
		case 0:
			current, err = h.Hash(current, sibling)
		case 1:
			current, err = h.Hash(sibling, current)
		default:
			return nil, fmt.Errorf("%w: direction bit %d at level %d", types.ErrValidation, indices[i], i)
		}
		if err != nil {
			return nil, err
		}
	}
	return current, nil
}

package registry

import (
	"math/big"

	"github.com/kamiyo-ai/kamiyo-zk/crypto/fields"
	"github.com/kamiyo-ai/kamiyo-zk/crypto/hash/poseidon"
	"github.com/kamiyo-ai/kamiyo-zk/types"
)

// TestProvider is a deterministic, in-memory Provider for integration
// testing without a populated registry. For a given seed and leaf it always
// returns the same sibling vector and direction bits, and a root computed by
// folding the leaf upward, so proof and circuit inputs stay mutually
// consistent. The root is reproducible but meaningless outside the test.
type TestProvider struct {
	hasher *poseidon.Hasher
	seed   *big.Int
	depth  int
}

// NewTestProvider returns a provider producing deterministic proofs derived
// from the given seed.
func NewTestProvider(h *poseidon.Hasher, seed *big.Int) *TestProvider {
	if h == nil {
		h = poseidon.Default()
	}
	return &TestProvider{
		hasher: h,
		seed:   new(big.Int).Mod(seed, fields.ScalarModulus),
		depth:  types.AgentTreeMaxLevels,
	}
}

// GenProof derives a deterministic sibling per level from the seed and the
// leaf, alternates direction bits from the seed, and folds the leaf to the
// root.
func (p *TestProvider) GenProof(leaf *big.Int) (*Proof, error) {
	siblings := make([]*big.Int, p.depth)
	indices := make([]uint8, p.depth)
	for level := 0; level < p.depth; level++ {
		sibling, err := p.hasher.Hash(p.seed, leaf, big.NewInt(int64(level)))
		if err != nil {
			return nil, err
		}
		siblings[level] = sibling
		indices[level] = uint8(p.seed.Bit(level))
	}
	root, err := Fold(p.hasher, leaf, siblings, indices)
	if err != nil {
		return nil, err
	}
	return &Proof{
		Siblings: siblings,
		Indices:  indices,
		Root:     root,
	}, nil
}

// Root returns the root for a zero leaf, which is the only root the provider
// can produce without a leaf. Callers should use the root carried by
// GenProof instead.
func (p *TestProvider) Root() (*big.Int, error) {
	proof, err := p.GenProof(big.NewInt(0))
	if err != nil {
		return nil, err
	}
	return proof.Root, nil
}

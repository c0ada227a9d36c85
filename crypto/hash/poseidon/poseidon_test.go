package poseidon

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
	iden3poseidon "github.com/iden3/go-iden3-crypto/poseidon"
	"github.com/kamiyo-ai/kamiyo-zk/crypto/fields"
)

func TestHashMatchesEngine(t *testing.T) {
	c := qt.New(t)
	h := NewHasher()
	inputs := []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)}
	got, err := h.Hash(inputs...)
	c.Assert(err, qt.IsNil)
	want, err := iden3poseidon.Hash(inputs)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Cmp(want), qt.Equals, 0)
}

func TestHashDeterministic(t *testing.T) {
	c := qt.New(t)
	h := Default()
	a, err := h.Hash(big.NewInt(7), big.NewInt(11))
	c.Assert(err, qt.IsNil)
	b, err := h.Hash(big.NewInt(7), big.NewInt(11))
	c.Assert(err, qt.IsNil)
	c.Assert(a.Cmp(b), qt.Equals, 0)
	// two handles agree
	c2, err := NewHasher().Hash(big.NewInt(7), big.NewInt(11))
	c.Assert(err, qt.IsNil)
	c.Assert(a.Cmp(c2), qt.Equals, 0)
}

func TestHashOrderSensitive(t *testing.T) {
	c := qt.New(t)
	h := Default()
	ab, err := h.Hash(big.NewInt(1), big.NewInt(2))
	c.Assert(err, qt.IsNil)
	ba, err := h.Hash(big.NewInt(2), big.NewInt(1))
	c.Assert(err, qt.IsNil)
	c.Assert(ab.Cmp(ba), qt.Not(qt.Equals), 0)
}

func TestHashInputValidation(t *testing.T) {
	c := qt.New(t)
	h := Default()
	_, err := h.Hash()
	c.Assert(err, qt.IsNotNil)
	_, err = h.Hash(nil)
	c.Assert(err, qt.IsNotNil)
	_, err = h.Hash(big.NewInt(-1))
	c.Assert(err, qt.IsNotNil)
	// values at or above the scalar modulus are rejected, not reduced
	_, err = h.Hash(fields.ScalarModulus)
	c.Assert(err, qt.IsNotNil)
	above := new(big.Int).Add(fields.ScalarModulus, big.NewInt(1))
	_, err = h.Hash(above)
	c.Assert(err, qt.IsNotNil)
	// too many inputs
	wide := make([]*big.Int, maxChunkLen*maxChunkLen+1)
	for i := range wide {
		wide[i] = big.NewInt(int64(i))
	}
	_, err = h.Hash(wide...)
	c.Assert(err, qt.IsNotNil)
}

func TestHashChunking(t *testing.T) {
	c := qt.New(t)
	h := Default()
	// 20 inputs fold into two chunks whose digests are hashed again
	inputs := make([]*big.Int, 20)
	for i := range inputs {
		inputs[i] = big.NewInt(int64(i + 1))
	}
	got, err := h.Hash(inputs...)
	c.Assert(err, qt.IsNil)
	first, err := iden3poseidon.Hash(inputs[:maxChunkLen])
	c.Assert(err, qt.IsNil)
	second, err := iden3poseidon.Hash(inputs[maxChunkLen:])
	c.Assert(err, qt.IsNil)
	want, err := iden3poseidon.Hash([]*big.Int{first, second})
	c.Assert(err, qt.IsNil)
	c.Assert(got.Cmp(want), qt.Equals, 0)
	// chunked output stays in the scalar field
	c.Assert(fields.InScalarField(got), qt.IsTrue)
}

func TestHashZeroValueHasher(t *testing.T) {
	c := qt.New(t)
	// the zero value needs no construction
	var h Hasher
	got, err := h.Hash(big.NewInt(1), big.NewInt(2))
	c.Assert(err, qt.IsNil)
	want, err := Default().Hash(big.NewInt(1), big.NewInt(2))
	c.Assert(err, qt.IsNil)
	c.Assert(got.Cmp(want), qt.Equals, 0)
}

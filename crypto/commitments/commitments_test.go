package commitments

import (
	"bytes"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
	iden3poseidon "github.com/iden3/go-iden3-crypto/poseidon"
	"github.com/kamiyo-ai/kamiyo-zk/crypto/fields"
)

// repeated31 returns the big-endian integer of 31 copies of b, the secret
// shape used across these tests.
func repeated31(b byte) *big.Int {
	return new(big.Int).SetBytes(bytes.Repeat([]byte{b}, 31))
}

func TestIdentityDeterministic(t *testing.T) {
	c := qt.New(t)
	b := NewBuilder(nil)
	owner := repeated31(0x01)
	agentID := repeated31(0x02)
	registration := repeated31(0x03)

	first, err := b.Identity(owner, agentID, registration)
	c.Assert(err, qt.IsNil)
	second, err := b.Identity(owner, agentID, registration)
	c.Assert(err, qt.IsNil)
	c.Assert(first.Cmp(second), qt.Equals, 0)
	c.Assert(fields.InScalarField(first), qt.IsTrue)

	// the derivation is exactly one Poseidon call over the three secrets
	want, err := iden3poseidon.Hash([]*big.Int{owner, agentID, registration})
	c.Assert(err, qt.IsNil)
	c.Assert(first.Cmp(want), qt.Equals, 0)
}

func TestNullifierEpochSeparation(t *testing.T) {
	c := qt.New(t)
	b := NewBuilder(nil)
	owner := repeated31(0x01)
	agentID := repeated31(0x02)
	registration := repeated31(0x03)

	n100, err := b.Nullifier(owner, agentID, registration, big.NewInt(100))
	c.Assert(err, qt.IsNil)
	n101, err := b.Nullifier(owner, agentID, registration, big.NewInt(101))
	c.Assert(err, qt.IsNil)
	c.Assert(n100.Cmp(n101), qt.Not(qt.Equals), 0)

	// same epoch twice yields the same nullifier
	again, err := b.Nullifier(owner, agentID, registration, big.NewInt(100))
	c.Assert(err, qt.IsNil)
	c.Assert(n100.Cmp(again), qt.Equals, 0)
}

func TestNullifierComponentSensitivity(t *testing.T) {
	c := qt.New(t)
	b := NewBuilder(nil)
	owner := repeated31(0x01)
	agentID := repeated31(0x02)
	registration := repeated31(0x03)
	epoch := big.NewInt(7)

	base, err := b.Nullifier(owner, agentID, registration, epoch)
	c.Assert(err, qt.IsNil)

	variants := [][4]*big.Int{
		{repeated31(0x04), agentID, registration, epoch},
		{owner, repeated31(0x04), registration, epoch},
		{owner, agentID, repeated31(0x04), epoch},
		{owner, agentID, registration, big.NewInt(8)},
	}
	for i, v := range variants {
		n, err := b.Nullifier(v[0], v[1], v[2], v[3])
		c.Assert(err, qt.IsNil)
		c.Assert(n.Cmp(base), qt.Not(qt.Equals), 0, qt.Commentf("variant %d collided", i))
	}
}

func TestVoteCommitmentHidesVote(t *testing.T) {
	c := qt.New(t)
	b := NewBuilder(nil)
	salt := repeated31(0x05)
	actionHash := big.NewInt(12345)

	yes, err := b.VoteCommitment(true, salt, actionHash)
	c.Assert(err, qt.IsNil)
	no, err := b.VoteCommitment(false, salt, actionHash)
	c.Assert(err, qt.IsNil)
	c.Assert(yes.Cmp(no), qt.Not(qt.Equals), 0)

	// a different salt moves the commitment even for the same vote
	otherSalt, err := b.VoteCommitment(true, repeated31(0x06), actionHash)
	c.Assert(err, qt.IsNil)
	c.Assert(yes.Cmp(otherSalt), qt.Not(qt.Equals), 0)

	// bound to the action
	otherAction, err := b.VoteCommitment(true, salt, big.NewInt(54321))
	c.Assert(err, qt.IsNil)
	c.Assert(yes.Cmp(otherAction), qt.Not(qt.Equals), 0)
}

func TestVoteNullifierScopedToAction(t *testing.T) {
	c := qt.New(t)
	b := NewBuilder(nil)
	owner := repeated31(0x01)
	agentID := repeated31(0x02)
	registration := repeated31(0x03)

	n1, err := b.VoteNullifier(owner, agentID, registration, big.NewInt(1))
	c.Assert(err, qt.IsNil)
	n2, err := b.VoteNullifier(owner, agentID, registration, big.NewInt(2))
	c.Assert(err, qt.IsNil)
	c.Assert(n1.Cmp(n2), qt.Not(qt.Equals), 0)
}

func TestBidCommitment(t *testing.T) {
	c := qt.New(t)
	b := NewBuilder(nil)
	salt := repeated31(0x07)
	actionHash := big.NewInt(99)

	bid1, err := b.BidCommitment(big.NewInt(1000), salt, actionHash)
	c.Assert(err, qt.IsNil)
	bid2, err := b.BidCommitment(big.NewInt(1001), salt, actionHash)
	c.Assert(err, qt.IsNil)
	c.Assert(bid1.Cmp(bid2), qt.Not(qt.Equals), 0)
}

func TestSignalCommitmentComponents(t *testing.T) {
	c := qt.New(t)
	b := NewBuilder(nil)
	secret := repeated31(0x08)
	nullifier := big.NewInt(777)

	base, err := b.SignalCommitment(big.NewInt(1), big.NewInt(0), big.NewInt(80),
		big.NewInt(500), big.NewInt(10000), secret, nullifier)
	c.Assert(err, qt.IsNil)
	flipped, err := b.SignalCommitment(big.NewInt(1), big.NewInt(1), big.NewInt(80),
		big.NewInt(500), big.NewInt(10000), secret, nullifier)
	c.Assert(err, qt.IsNil)
	c.Assert(base.Cmp(flipped), qt.Not(qt.Equals), 0)
}

func TestReputationCommitment(t *testing.T) {
	c := qt.New(t)
	b := NewBuilder(nil)
	secret := repeated31(0x09)

	r1, err := b.ReputationCommitment(big.NewInt(850), big.NewInt(120), secret)
	c.Assert(err, qt.IsNil)
	r2, err := b.ReputationCommitment(big.NewInt(851), big.NewInt(120), secret)
	c.Assert(err, qt.IsNil)
	c.Assert(r1.Cmp(r2), qt.Not(qt.Equals), 0)

	// argument order matters: swapping score and count changes the output
	swapped, err := b.ReputationCommitment(big.NewInt(120), big.NewInt(850), secret)
	c.Assert(err, qt.IsNil)
	c.Assert(r1.Cmp(swapped), qt.Not(qt.Equals), 0)
}

func TestActionHash(t *testing.T) {
	c := qt.New(t)
	b := NewBuilder(nil)

	h1, err := b.ActionHash(big.NewInt(1), []byte("upgrade-policy"))
	c.Assert(err, qt.IsNil)
	c.Assert(fields.InScalarField(h1), qt.IsTrue)
	h2, err := b.ActionHash(big.NewInt(2), []byte("upgrade-policy"))
	c.Assert(err, qt.IsNil)
	c.Assert(h1.Cmp(h2), qt.Not(qt.Equals), 0)

	// only the first 31 bytes of the payload are bound
	longA := append(bytes.Repeat([]byte{0xaa}, 31), 0x01)
	longB := append(bytes.Repeat([]byte{0xaa}, 31), 0x02)
	hA, err := b.ActionHash(big.NewInt(1), longA)
	c.Assert(err, qt.IsNil)
	hB, err := b.ActionHash(big.NewInt(1), longB)
	c.Assert(err, qt.IsNil)
	c.Assert(hA.Cmp(hB), qt.Equals, 0)

	_, err = b.ActionHash(big.NewInt(1), nil)
	c.Assert(err, qt.IsNotNil)
}

func TestRejectsOutOfRangeInputs(t *testing.T) {
	c := qt.New(t)
	b := NewBuilder(nil)
	above := new(big.Int).Add(fields.ScalarModulus, big.NewInt(1))
	_, err := b.Identity(above, big.NewInt(1), big.NewInt(2))
	c.Assert(err, qt.IsNotNil)
	_, err = b.Nullifier(big.NewInt(1), big.NewInt(2), big.NewInt(3), above)
	c.Assert(err, qt.IsNotNil)
	c.Assert(CheckSecret("secret", above), qt.IsNotNil)
}

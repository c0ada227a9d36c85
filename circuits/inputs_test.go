package circuits

import (
	"errors"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/kamiyo-ai/kamiyo-zk/registry"
	"github.com/kamiyo-ai/kamiyo-zk/types"
)

func testKeys() AgentKeys {
	return AgentKeys{
		OwnerSecret:        secretOf(0x01),
		RegistrationSecret: secretOf(0x03),
		AgentID:            agentIDOf(0x02),
	}
}

func secretOf(b byte) types.Secret {
	var s types.Secret
	for i := range s {
		s[i] = b
	}
	return s
}

func agentIDOf(b byte) types.AgentID {
	var id types.AgentID
	for i := range id {
		id[i] = b
	}
	return id
}

func testMerkle(t *testing.T, leaf *big.Int) *registry.Proof {
	t.Helper()
	proof, err := registry.NewTestProvider(nil, big.NewInt(31337)).GenProof(leaf)
	qt.Assert(t, err, qt.IsNil)
	return proof
}

func TestAgentIdentityAssembly(t *testing.T) {
	c := qt.New(t)
	a := NewAssembler(nil)
	keys := testKeys()
	merkle := testMerkle(t, big.NewInt(1))

	asm, err := a.AgentIdentity(&AgentIdentityRequest{
		Keys:   keys,
		Epoch:  big.NewInt(100),
		Merkle: merkle,
	})
	c.Assert(err, qt.IsNil)
	// public signals in declared order: root, nullifier, epoch
	c.Assert(asm.PublicInputs, qt.HasLen, 3)
	c.Assert(asm.PublicInputs[0].Cmp(merkle.Root), qt.Equals, 0)
	c.Assert(asm.PublicInputs[1].Cmp(asm.Nullifier), qt.Equals, 0)
	c.Assert(asm.PublicInputs[2].Int64(), qt.Equals, int64(100))
	// the signal map carries decimal strings
	c.Assert(asm.Signals["epoch"], qt.Equals, "100")
	c.Assert(asm.Signals["nullifier"], qt.Equals, asm.Nullifier.String())
	c.Assert(asm.Signals["owner_secret"], qt.Equals, keys.OwnerSecret.BigInt().String())
	path, ok := asm.Signals["merkle_path"].([]string)
	c.Assert(ok, qt.IsTrue)
	c.Assert(path, qt.HasLen, types.AgentTreeMaxLevels)
	indices, ok := asm.Signals["path_indices"].([]string)
	c.Assert(ok, qt.IsTrue)
	c.Assert(indices, qt.HasLen, types.AgentTreeMaxLevels)

	// different epochs derive different nullifiers
	asm101, err := a.AgentIdentity(&AgentIdentityRequest{
		Keys:   keys,
		Epoch:  big.NewInt(101),
		Merkle: merkle,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(asm.Nullifier.Cmp(asm101.Nullifier), qt.Not(qt.Equals), 0)
}

func TestAgentIdentityDepthMismatch(t *testing.T) {
	c := qt.New(t)
	a := NewAssembler(nil)
	merkle := testMerkle(t, big.NewInt(1))
	// truncate the proof to 18 levels; assembly must reject it, not pad it
	short := &registry.Proof{
		Siblings: merkle.Siblings[:18],
		Indices:  merkle.Indices[:18],
		Root:     merkle.Root,
	}
	_, err := a.AgentIdentity(&AgentIdentityRequest{
		Keys:   testKeys(),
		Epoch:  big.NewInt(100),
		Merkle: short,
	})
	c.Assert(errors.Is(err, types.ErrValidation), qt.IsTrue)

	// missing proof is rejected too
	_, err = a.AgentIdentity(&AgentIdentityRequest{
		Keys:  testKeys(),
		Epoch: big.NewInt(100),
	})
	c.Assert(errors.Is(err, types.ErrValidation), qt.IsTrue)
}

func TestAnonymousVoteAssembly(t *testing.T) {
	c := qt.New(t)
	a := NewAssembler(nil)
	merkle := testMerkle(t, big.NewInt(1))
	actionHash := big.NewInt(987654321)

	yes, err := a.AnonymousVote(&AnonymousVoteRequest{
		Keys:       testKeys(),
		Merkle:     merkle,
		ActionHash: actionHash,
		Vote:       true,
		VoteSalt:   secretOf(0x05),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(yes.PublicInputs, qt.HasLen, 4)
	c.Assert(yes.PublicInputs[0].Cmp(merkle.Root), qt.Equals, 0)
	c.Assert(yes.PublicInputs[1].Cmp(yes.Nullifier), qt.Equals, 0)
	c.Assert(yes.PublicInputs[2].Cmp(yes.Commitments["vote_commitment"]), qt.Equals, 0)
	c.Assert(yes.PublicInputs[3].Cmp(actionHash), qt.Equals, 0)
	c.Assert(yes.Signals["vote"], qt.Equals, "1")

	// the opposite vote with the same salt commits differently
	no, err := a.AnonymousVote(&AnonymousVoteRequest{
		Keys:       testKeys(),
		Merkle:     merkle,
		ActionHash: actionHash,
		Vote:       false,
		VoteSalt:   secretOf(0x05),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(no.Signals["vote"], qt.Equals, "0")
	c.Assert(yes.Commitments["vote_commitment"].Cmp(no.Commitments["vote_commitment"]), qt.Not(qt.Equals), 0)
	// but the nullifier is vote-independent
	c.Assert(yes.Nullifier.Cmp(no.Nullifier), qt.Equals, 0)
}

func TestSealedBidAssembly(t *testing.T) {
	c := qt.New(t)
	a := NewAssembler(nil)
	merkle := testMerkle(t, big.NewInt(1))

	asm, err := a.SealedBid(&SealedBidRequest{
		AnonymousVoteRequest: AnonymousVoteRequest{
			Keys:       testKeys(),
			Merkle:     merkle,
			ActionHash: big.NewInt(5555),
			Vote:       true,
			VoteSalt:   secretOf(0x05),
		},
		BidAmount: big.NewInt(250000),
		BidSalt:   secretOf(0x06),
	})
	c.Assert(err, qt.IsNil)
	// public signals extend the vote circuit with the bid commitment
	c.Assert(asm.PublicInputs, qt.HasLen, 5)
	c.Assert(asm.PublicInputs[4].Cmp(asm.Commitments["bid_commitment"]), qt.Equals, 0)
	c.Assert(asm.Signals["bid_amount"], qt.Equals, "250000")
	c.Assert(asm.Commitments["vote_commitment"], qt.IsNotNil)
}

func TestPrivateSignalAssembly(t *testing.T) {
	c := qt.New(t)
	a := NewAssembler(nil)
	merkle := testMerkle(t, big.NewInt(1))

	asm, err := a.PrivateSignal(&PrivateSignalRequest{
		Keys:         testKeys(),
		Epoch:        big.NewInt(12),
		Merkle:       merkle,
		SignalType:   big.NewInt(1),
		Direction:    true,
		Confidence:   big.NewInt(85),
		Magnitude:    big.NewInt(300),
		StakeAmount:  big.NewInt(10000),
		SignalSecret: secretOf(0x08),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(asm.PublicInputs, qt.HasLen, 4)
	c.Assert(asm.PublicInputs[1].Cmp(asm.Nullifier), qt.Equals, 0)
	c.Assert(asm.PublicInputs[2].Cmp(asm.Commitments["signal_commitment"]), qt.Equals, 0)
	c.Assert(asm.Signals["direction"], qt.Equals, "1")
	c.Assert(asm.Signals["stake_amount"], qt.Equals, "10000")
}

func TestReputationThresholdAssembly(t *testing.T) {
	c := qt.New(t)
	a := NewAssembler(nil)

	asm, err := a.ReputationThreshold(&ReputationThresholdRequest{
		MinReputation:    big.NewInt(700),
		MinTransactions:  big.NewInt(50),
		ReputationScore:  big.NewInt(850),
		TransactionCount: big.NewInt(120),
		ReputationSecret: secretOf(0x09),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(asm.PublicInputs, qt.HasLen, 3)
	c.Assert(asm.Nullifier, qt.IsNil)
	c.Assert(asm.PublicInputs[2].Cmp(asm.Commitments["reputation_commitment"]), qt.Equals, 0)

	// a score below the public minimum is rejected before any proving work
	_, err = a.ReputationThreshold(&ReputationThresholdRequest{
		MinReputation:    big.NewInt(900),
		MinTransactions:  big.NewInt(50),
		ReputationScore:  big.NewInt(850),
		TransactionCount: big.NewInt(120),
		ReputationSecret: secretOf(0x09),
	})
	c.Assert(errors.Is(err, types.ErrValidation), qt.IsTrue)

	// a transaction count below the minimum is rejected too
	_, err = a.ReputationThreshold(&ReputationThresholdRequest{
		MinReputation:    big.NewInt(700),
		MinTransactions:  big.NewInt(500),
		ReputationScore:  big.NewInt(850),
		TransactionCount: big.NewInt(120),
		ReputationSecret: secretOf(0x09),
	})
	c.Assert(errors.Is(err, types.ErrValidation), qt.IsTrue)

	// the count must fit in 32 bits
	_, err = a.ReputationThreshold(&ReputationThresholdRequest{
		MinReputation:    big.NewInt(700),
		MinTransactions:  big.NewInt(50),
		ReputationScore:  big.NewInt(850),
		TransactionCount: new(big.Int).Lsh(big.NewInt(1), 33),
		ReputationSecret: secretOf(0x09),
	})
	c.Assert(errors.Is(err, types.ErrValidation), qt.IsTrue)
}

func TestAssemblyPurity(t *testing.T) {
	c := qt.New(t)
	a := NewAssembler(nil)
	merkle := testMerkle(t, big.NewInt(1))
	req := func() *AgentIdentityRequest {
		return &AgentIdentityRequest{
			Keys:   testKeys(),
			Epoch:  big.NewInt(100),
			Merkle: merkle,
		}
	}
	first, err := a.AgentIdentity(req())
	c.Assert(err, qt.IsNil)
	second, err := a.AgentIdentity(req())
	c.Assert(err, qt.IsNil)
	c.Assert(first.Nullifier.Cmp(second.Nullifier), qt.Equals, 0)
	c.Assert(first.Signals, qt.DeepEquals, second.Signals)
}

func TestHelpers(t *testing.T) {
	c := qt.New(t)
	arr := []*big.Int{big.NewInt(1), big.NewInt(2)}
	padded := BigIntArrayToStringArray(arr, 4)
	c.Assert(padded, qt.DeepEquals, []string{"1", "2", "0", "0"})
	c.Assert(BoolToBigInt(true).Int64(), qt.Equals, int64(1))
	c.Assert(BoolToBigInt(false).Int64(), qt.Equals, int64(0))
	c.Assert(IndicesToStringArray([]uint8{0, 1, 1}), qt.DeepEquals, []string{"0", "1", "1"})
}

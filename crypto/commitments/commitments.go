// Package commitments derives the Poseidon commitments and one-time
// nullifiers of the agent protocol. All functions are pure: identical inputs
// in identical order always produce identical outputs, and the argument
// order of every hash is part of the protocol.
package commitments

import (
	"fmt"
	"math/big"

	"github.com/kamiyo-ai/kamiyo-zk/crypto/fields"
	"github.com/kamiyo-ai/kamiyo-zk/crypto/hash/poseidon"
	"github.com/kamiyo-ai/kamiyo-zk/types"
)

// Builder derives commitments and nullifiers using an explicit Poseidon
// handle. It holds no other state.
type Builder struct {
	hasher *poseidon.Hasher
}

// NewBuilder returns a Builder using the given hasher. If h is nil, the
// shared process-wide hasher is used.
func NewBuilder(h *poseidon.Hasher) *Builder {
	if h == nil {
		h = poseidon.Default()
	}
	return &Builder{hasher: h}
}

// Identity derives the identity commitment binding the agent to its secrets:
//
//	H(ownerSecret, agentID, registrationSecret)
func (b *Builder) Identity(ownerSecret, agentID, registrationSecret *big.Int) (*big.Int, error) {
	return b.hasher.Hash(ownerSecret, agentID, registrationSecret)
}

// Nullifier derives the one-time nullifier for the given epoch:
//
//	H(ownerSecret, agentID, registrationSecret, epoch)
//
// The owner secret is always part of the preimage; without it anyone who
// learns the agent ID and registration secret could forge nullifiers.
func (b *Builder) Nullifier(ownerSecret, agentID, registrationSecret, epoch *big.Int) (*big.Int, error) {
	return b.hasher.Hash(ownerSecret, agentID, registrationSecret, epoch)
}

// VoteNullifier derives the one-time nullifier scoped to a single action:
//
//	H(ownerSecret, agentID, registrationSecret, actionHash)
func (b *Builder) VoteNullifier(ownerSecret, agentID, registrationSecret, actionHash *big.Int) (*big.Int, error) {
	return b.hasher.Hash(ownerSecret, agentID, registrationSecret, actionHash)
}

// VoteCommitment hides a boolean vote behind a salt, bound to the action:
//
//	H(vote, voteSalt, actionHash)
func (b *Builder) VoteCommitment(vote bool, voteSalt, actionHash *big.Int) (*big.Int, error) {
	v := big.NewInt(0)
	if vote {
		v = big.NewInt(1)
	}
	return b.hasher.Hash(v, voteSalt, actionHash)
}

// BidCommitment hides a sealed bid amount behind a salt, bound to the
// action:
//
//	H(bidAmount, bidSalt, actionHash)
func (b *Builder) BidCommitment(bidAmount, bidSalt, actionHash *big.Int) (*big.Int, error) {
	return b.hasher.Hash(bidAmount, bidSalt, actionHash)
}

// SignalCommitment binds all fields of a private trading signal together
// with its stake and the agent nullifier:
//
//	H(signalType, direction, confidence, magnitude, stakeAmount, secret, agentNullifier)
func (b *Builder) SignalCommitment(signalType, direction, confidence, magnitude,
	stakeAmount, secret, agentNullifier *big.Int,
) (*big.Int, error) {
	return b.hasher.Hash(signalType, direction, confidence, magnitude, stakeAmount, secret, agentNullifier)
}

// ReputationCommitment binds a reputation score and transaction count to a
// secret:
//
//	H(reputationScore, transactionCount, reputationSecret)
func (b *Builder) ReputationCommitment(reputationScore, transactionCount, reputationSecret *big.Int) (*big.Int, error) {
	return b.hasher.Hash(reputationScore, transactionCount, reputationSecret)
}

// ActionHash reduces an opaque action payload into the field:
//
//	H(actionType, H(actionData[0:31]))
//
// Only the first 31 bytes of the payload enter the inner hash so it always
// decodes below the scalar modulus.
func (b *Builder) ActionHash(actionType *big.Int, actionData []byte) (*big.Int, error) {
	if len(actionData) == 0 {
		return nil, fmt.Errorf("%w: empty action data", types.ErrValidation)
	}
	n := len(actionData)
	if n > types.SecretSize {
		n = types.SecretSize
	}
	inner, err := b.hasher.Hash(new(big.Int).SetBytes(actionData[:n]))
	if err != nil {
		return nil, err
	}
	return b.hasher.Hash(actionType, inner)
}

// CheckSecret validates that a raw secret decodes to a canonical scalar
// field element. 31-byte secrets always pass; anything else is rejected
// before hashing.
func CheckSecret(name string, secret *big.Int) error {
	return fields.CheckScalar(name, secret)
}

package types

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// AgentID identifies an agent in the registry. It is bound to the owner
// address and a nonce via Keccak256, truncated to 31 bytes so that it always
// fits in the bn254 scalar field. It is derived once and reused across
// proofs.
type AgentID [AgentIDSize]byte

// NewAgentID derives the agent identifier for the given owner address and
// nonce.
func NewAgentID(owner common.Address, nonce uint64) AgentID {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, nonce)
	hash := crypto.Keccak256(owner.Bytes(), buf)
	var id AgentID
	copy(id[:], hash[:AgentIDSize])
	return id
}

// AgentIDFromBytes builds an AgentID from a byte slice of exactly
// AgentIDSize bytes.
func AgentIDFromBytes(b []byte) (AgentID, error) {
	var id AgentID
	if len(b) != AgentIDSize {
		return id, fmt.Errorf("invalid agent ID length: got %d bytes, expected %d", len(b), AgentIDSize)
	}
	copy(id[:], b)
	return id, nil
}

// Bytes returns the identifier as a byte slice.
func (a AgentID) Bytes() []byte {
	return a[:]
}

// BigInt returns the identifier as a big-endian field element.
func (a AgentID) BigInt() *big.Int {
	return new(big.Int).SetBytes(a[:])
}

// String returns a human readable representation of the agent ID.
func (a AgentID) String() string {
	return hex.EncodeToString(a[:])
}

// Secret is a private random value owned by the caller. It is never
// persisted and should be wiped with Zero once the proving session no longer
// needs it.
type Secret [SecretSize]byte

// SecretFromBytes builds a Secret from a byte slice of exactly SecretSize
// bytes.
func SecretFromBytes(b []byte) (Secret, error) {
	var s Secret
	if len(b) != SecretSize {
		return s, fmt.Errorf("invalid secret length: got %d bytes, expected %d", len(b), SecretSize)
	}
	copy(s[:], b)
	return s, nil
}

// BigInt returns the secret as a big-endian field element. At 31 bytes it is
// always below the scalar field modulus.
func (s *Secret) BigInt() *big.Int {
	return new(big.Int).SetBytes(s[:])
}

// Zero wipes the secret from memory.
func (s *Secret) Zero() {
	for i := range s {
		s[i] = 0
	}
}

// String redacts the secret value. Secrets must never end up in logs.
func (s *Secret) String() string {
	return "[redacted]"
}

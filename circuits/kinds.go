// Package circuits defines the supported circuit kinds, assembles their
// named input vectors and manages the proving artifacts (witness generation
// program and proving key) each kind requires.
package circuits

import (
	"fmt"

	"github.com/kamiyo-ai/kamiyo-zk/config"
	"github.com/kamiyo-ai/kamiyo-zk/types"
)

// CircuitKind identifies one of the supported proving circuits.
type CircuitKind string

const (
	// AgentIdentity proves registry membership of an identity commitment
	// and reveals the epoch nullifier.
	AgentIdentity CircuitKind = "agent-identity"
	// PrivateSignal proves a staked trading signal commitment from a
	// registered agent.
	PrivateSignal CircuitKind = "private-signal"
	// AnonymousVote proves a hidden vote commitment bound to an action.
	AnonymousVote CircuitKind = "anonymous-vote"
	// SealedBid proves a hidden vote plus a sealed bid amount bound to an
	// action.
	SealedBid CircuitKind = "sealed-bid"
	// ReputationThreshold proves a reputation score and transaction count
	// above public thresholds.
	ReputationThreshold CircuitKind = "reputation-threshold"
)

// Kinds lists every supported circuit kind.
func Kinds() []CircuitKind {
	return []CircuitKind{
		AgentIdentity,
		PrivateSignal,
		AnonymousVote,
		SealedBid,
		ReputationThreshold,
	}
}

// ByName parses a circuit kind from its string form.
func ByName(name string) (CircuitKind, error) {
	for _, kind := range Kinds() {
		if string(kind) == name {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: unknown circuit kind %q", types.ErrValidation, name)
}

// mustHash decodes a sha256 hex constant from config. Config hashes are
// compile-time constants, so a malformed one is a programming error.
func mustHash(hexHash string) []byte {
	var h types.HexBytes
	if err := h.SetString(hexHash); err != nil {
		panic(fmt.Sprintf("malformed artifact hash constant %q: %v", hexHash, err))
	}
	return h
}

// ArtifactSet returns the artifact descriptors of a circuit kind: the
// witness generation program, the proving key and the verification key.
func (k CircuitKind) ArtifactSet() (*CircuitArtifacts, error) {
	switch k {
	case AgentIdentity:
		return NewCircuitArtifacts(
			&Artifact{RemoteURL: config.AgentIdentityCircuitURL, Hash: mustHash(config.AgentIdentityCircuitHash)},
			&Artifact{RemoteURL: config.AgentIdentityProvingKeyURL, Hash: mustHash(config.AgentIdentityProvingKeyHash)},
			&Artifact{RemoteURL: config.AgentIdentityVerificationKeyURL, Hash: mustHash(config.AgentIdentityVerificationKeyHash)},
		), nil
	case PrivateSignal:
		return NewCircuitArtifacts(
			&Artifact{RemoteURL: config.PrivateSignalCircuitURL, Hash: mustHash(config.PrivateSignalCircuitHash)},
			&Artifact{RemoteURL: config.PrivateSignalProvingKeyURL, Hash: mustHash(config.PrivateSignalProvingKeyHash)},
			&Artifact{RemoteURL: config.PrivateSignalVerificationKeyURL, Hash: mustHash(config.PrivateSignalVerificationKeyHash)},
		), nil
	case AnonymousVote:
		return NewCircuitArtifacts(
			&Artifact{RemoteURL: config.AnonymousVoteCircuitURL, Hash: mustHash(config.AnonymousVoteCircuitHash)},
			&Artifact{RemoteURL: config.AnonymousVoteProvingKeyURL, Hash: mustHash(config.AnonymousVoteProvingKeyHash)},
			&Artifact{RemoteURL: config.AnonymousVoteVerificationKeyURL, Hash: mustHash(config.AnonymousVoteVerificationKeyHash)},
		), nil
	case SealedBid:
		return NewCircuitArtifacts(
			&Artifact{RemoteURL: config.SealedBidCircuitURL, Hash: mustHash(config.SealedBidCircuitHash)},
			&Artifact{RemoteURL: config.SealedBidProvingKeyURL, Hash: mustHash(config.SealedBidProvingKeyHash)},
			&Artifact{RemoteURL: config.SealedBidVerificationKeyURL, Hash: mustHash(config.SealedBidVerificationKeyHash)},
		), nil
	case ReputationThreshold:
		return NewCircuitArtifacts(
			&Artifact{RemoteURL: config.ReputationThresholdCircuitURL, Hash: mustHash(config.ReputationThresholdCircuitHash)},
			&Artifact{RemoteURL: config.ReputationThresholdProvingKeyURL, Hash: mustHash(config.ReputationThresholdProvingKeyHash)},
			&Artifact{RemoteURL: config.ReputationThresholdVerificationKeyURL, Hash: mustHash(config.ReputationThresholdVerificationKeyHash)},
		), nil
	}
	return nil, fmt.Errorf("%w: unknown circuit kind %q", types.ErrValidation, k)
}

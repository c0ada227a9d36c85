package circuits

import (
	"fmt"
	"math/big"

	"github.com/kamiyo-ai/kamiyo-zk/crypto/fields"
	"github.com/kamiyo-ai/kamiyo-zk/registry"
	"github.com/kamiyo-ai/kamiyo-zk/types"
)

// AgentKeys groups the secrets that bind a prover to a registered agent
// identity. The secrets are wiped by the proving session once the witness
// has been assembled.
type AgentKeys struct {
	OwnerSecret        types.Secret
	RegistrationSecret types.Secret
	AgentID            types.AgentID
}

// Wipe zeroes both secrets.
func (k *AgentKeys) Wipe() {
	k.OwnerSecret.Zero()
	k.RegistrationSecret.Zero()
}

// AgentIdentityRequest holds the inputs to prove registry membership of an
// identity commitment for a given epoch.
type AgentIdentityRequest struct {
	Keys   AgentKeys
	Epoch  *big.Int
	Merkle *registry.Proof
}

// PrivateSignalRequest holds the inputs to prove a staked trading signal
// commitment from a registered agent.
type PrivateSignalRequest struct {
	Keys   AgentKeys
	Epoch  *big.Int
	Merkle *registry.Proof

	SignalType   *big.Int
	Direction    bool
	Confidence   *big.Int
	Magnitude    *big.Int
	StakeAmount  *big.Int
	SignalSecret types.Secret
}

// AnonymousVoteRequest holds the inputs to prove a hidden vote bound to an
// action hash.
type AnonymousVoteRequest struct {
	Keys       AgentKeys
	Merkle     *registry.Proof
	ActionHash *big.Int

	Vote     bool
	VoteSalt types.Secret
}

// SealedBidRequest holds the inputs to prove a hidden vote plus a sealed bid
// amount bound to an action hash.
type SealedBidRequest struct {
	AnonymousVoteRequest

	BidAmount *big.Int
	BidSalt   types.Secret
}

// ReputationThresholdRequest holds the inputs to prove a reputation score and
// transaction count above public thresholds, without revealing them.
type ReputationThresholdRequest struct {
	MinReputation    *big.Int
	MinTransactions  *big.Int
	ReputationScore  *big.Int
	TransactionCount *big.Int
	ReputationSecret types.Secret
}

// checkMerkle validates a merkle proof has the configured depth and that its
// members are scalar field elements.
func checkMerkle(p *registry.Proof) error {
	if p == nil {
		return fmt.Errorf("%w: missing merkle proof", types.ErrValidation)
	}
	if len(p.Siblings) != types.AgentTreeMaxLevels {
		return fmt.Errorf("%w: merkle path has %d siblings, expected %d",
			types.ErrValidation, len(p.Siblings), types.AgentTreeMaxLevels)
	}
	if len(p.Indices) != types.AgentTreeMaxLevels {
		return fmt.Errorf("%w: merkle path has %d direction bits, expected %d",
			types.ErrValidation, len(p.Indices), types.AgentTreeMaxLevels)
	}
	for i, sibling := range p.Siblings {
		if err := fields.CheckScalar(fmt.Sprintf("merkle sibling %d", i), sibling); err != nil {
			return err
		}
	}
	for i, bit := range p.Indices {
		if bit > 1 {
			return fmt.Errorf("%w: merkle direction bit %d is %d, expected 0 or 1",
				types.ErrValidation, i, bit)
		}
	}
	return fields.CheckScalar("registry root", p.Root)
}

// Validate checks the request fields without clamping or reducing any value.
func (r *AgentIdentityRequest) Validate() error {
	if err := fields.CheckScalar("epoch", r.Epoch); err != nil {
		return err
	}
	return checkMerkle(r.Merkle)
}

// Validate checks the request fields without clamping or reducing any value.
func (r *PrivateSignalRequest) Validate() error {
	if err := fields.CheckScalar("epoch", r.Epoch); err != nil {
		return err
	}
	for name, n := range map[string]*big.Int{
		"signal type":  r.SignalType,
		"confidence":   r.Confidence,
		"magnitude":    r.Magnitude,
		"stake amount": r.StakeAmount,
	} {
		if err := fields.CheckScalar(name, n); err != nil {
			return err
		}
	}
	return checkMerkle(r.Merkle)
}

// Validate checks the request fields without clamping or reducing any value.
func (r *AnonymousVoteRequest) Validate() error {
	if err := fields.CheckScalar("action hash", r.ActionHash); err != nil {
		return err
	}
	return checkMerkle(r.Merkle)
}

// Validate checks the request fields without clamping or reducing any value.
func (r *SealedBidRequest) Validate() error {
	if err := r.AnonymousVoteRequest.Validate(); err != nil {
		return err
	}
	return fields.CheckScalar("bid amount", r.BidAmount)
}

// Validate checks the request fields without clamping or reducing any value.
// A score below the minimum reputation or a transaction count below the
// minimum is rejected here, before any proving work starts.
func (r *ReputationThresholdRequest) Validate() error {
	for name, n := range map[string]*big.Int{
		"minimum reputation":   r.MinReputation,
		"minimum transactions": r.MinTransactions,
		"reputation score":     r.ReputationScore,
		"transaction count":    r.TransactionCount,
	} {
		if err := fields.CheckScalar(name, n); err != nil {
			return err
		}
	}
	if r.TransactionCount.Cmp(new(big.Int).SetUint64(types.MaxTransactionCount)) > 0 {
		return fmt.Errorf("%w: transaction count exceeds 32-bit range", types.ErrValidation)
	}
	if r.ReputationScore.Cmp(r.MinReputation) < 0 {
		return fmt.Errorf("%w: reputation score below minimum", types.ErrValidation)
	}
	if r.TransactionCount.Cmp(r.MinTransactions) < 0 {
		return fmt.Errorf("%w: transaction count below minimum", types.ErrValidation)
	}
	return nil
}

package circuits

import (
	"fmt"
	"math/big"

	"github.com/kamiyo-ai/kamiyo-zk/crypto/commitments"
	"github.com/kamiyo-ai/kamiyo-zk/types"
)

// Assembly is the result of assembling a proving request: the full named
// signal map for the witness calculator, the public signals in declared
// order, and the derived values the caller needs to publish alongside the
// proof.
type Assembly struct {
	// Signals maps circuit signal names to decimal strings (or arrays of
	// decimal strings for vectors).
	Signals map[string]any
	// PublicInputs holds the public signals in the circuit's declared order.
	PublicInputs []*big.Int
	// Nullifier is the derived nullifier, when the circuit has one.
	Nullifier *big.Int
	// Commitments holds the derived commitments by signal name.
	Commitments map[string]*big.Int
}

// Assembler derives commitments and nullifiers from typed requests and
// produces the named signal vectors of each circuit kind.
type Assembler struct {
	builder *commitments.Builder
}

// NewAssembler returns an Assembler backed by the given commitment builder.
// A nil builder uses the default Poseidon hasher.
func NewAssembler(b *commitments.Builder) *Assembler {
	if b == nil {
		b = commitments.NewBuilder(nil)
	}
	return &Assembler{builder: b}
}

// identitySignals appends the private identity and merkle signals shared by
// all membership circuits.
func identitySignals(signals map[string]any, r *AgentIdentityRequest) {
	signals["owner_secret"] = r.Keys.OwnerSecret.BigInt().String()
	signals["agent_id"] = r.Keys.AgentID.BigInt().String()
	signals["registration_secret"] = r.Keys.RegistrationSecret.BigInt().String()
	signals["merkle_path"] = BigIntArrayToStringArray(r.Merkle.Siblings, types.AgentTreeMaxLevels)
	signals["path_indices"] = IndicesToStringArray(r.Merkle.Indices)
}

// AgentIdentity assembles the inputs of the agent identity circuit. Public
// signals: registry root, nullifier, epoch.
func (a *Assembler) AgentIdentity(r *AgentIdentityRequest) (*Assembly, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	nullifier, err := a.builder.Nullifier(
		r.Keys.OwnerSecret.BigInt(),
		r.Keys.AgentID.BigInt(),
		r.Keys.RegistrationSecret.BigInt(),
		r.Epoch)
	if err != nil {
		return nil, fmt.Errorf("could not derive nullifier: %w", err)
	}
	signals := map[string]any{
		"registry_root": r.Merkle.Root.String(),
		"nullifier":     nullifier.String(),
		"epoch":         r.Epoch.String(),
	}
	identitySignals(signals, r)
	return &Assembly{
		Signals:      signals,
		PublicInputs: []*big.Int{r.Merkle.Root, nullifier, r.Epoch},
		Nullifier:    nullifier,
		Commitments:  map[string]*big.Int{},
	}, nil
}

// PrivateSignal assembles the inputs of the private signal circuit. Public
// signals: registry root, agent nullifier, signal commitment, epoch.
func (a *Assembler) PrivateSignal(r *PrivateSignalRequest) (*Assembly, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	agentNullifier, err := a.builder.Nullifier(
		r.Keys.OwnerSecret.BigInt(),
		r.Keys.AgentID.BigInt(),
		r.Keys.RegistrationSecret.BigInt(),
		r.Epoch)
	if err != nil {
		return nil, fmt.Errorf("could not derive agent nullifier: %w", err)
	}
	signalCommitment, err := a.builder.SignalCommitment(
		r.SignalType, BoolToBigInt(r.Direction), r.Confidence, r.Magnitude,
		r.StakeAmount, r.SignalSecret.BigInt(), agentNullifier)
	if err != nil {
		return nil, fmt.Errorf("could not derive signal commitment: %w", err)
	}
	signals := map[string]any{
		"registry_root":     r.Merkle.Root.String(),
		"agent_nullifier":   agentNullifier.String(),
		"signal_commitment": signalCommitment.String(),
		"epoch":             r.Epoch.String(),
		"signal_type":       r.SignalType.String(),
		"direction":         BoolToBigInt(r.Direction).String(),
		"confidence":        r.Confidence.String(),
		"magnitude":         r.Magnitude.String(),
		"stake_amount":      r.StakeAmount.String(),
		"signal_secret":     r.SignalSecret.BigInt().String(),
	}
	identitySignals(signals, &AgentIdentityRequest{Keys: r.Keys, Epoch: r.Epoch, Merkle: r.Merkle})
	return &Assembly{
		Signals:      signals,
		PublicInputs: []*big.Int{r.Merkle.Root, agentNullifier, signalCommitment, r.Epoch},
		Nullifier:    agentNullifier,
		Commitments:  map[string]*big.Int{"signal_commitment": signalCommitment},
	}, nil
}

// AnonymousVote assembles the inputs of the anonymous vote circuit. Public
// signals: registry root, vote nullifier, vote commitment, action hash.
func (a *Assembler) AnonymousVote(r *AnonymousVoteRequest) (*Assembly, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return a.voteAssembly(r)
}

// SealedBid assembles the inputs of the sealed bid circuit. Public signals:
// registry root, vote nullifier, vote commitment, action hash, bid commitment.
func (a *Assembler) SealedBid(r *SealedBidRequest) (*Assembly, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	asm, err := a.voteAssembly(&r.AnonymousVoteRequest)
	if err != nil {
		return nil, err
	}
	bidCommitment, err := a.builder.BidCommitment(r.BidAmount, r.BidSalt.BigInt(), r.ActionHash)
	if err != nil {
		return nil, fmt.Errorf("could not derive bid commitment: %w", err)
	}
	asm.Signals["bid_commitment"] = bidCommitment.String()
	asm.Signals["bid_amount"] = r.BidAmount.String()
	asm.Signals["bid_salt"] = r.BidSalt.BigInt().String()
	asm.PublicInputs = append(asm.PublicInputs, bidCommitment)
	asm.Commitments["bid_commitment"] = bidCommitment
	return asm, nil
}

// voteAssembly builds the shared part of the vote and sealed bid circuits.
func (a *Assembler) voteAssembly(r *AnonymousVoteRequest) (*Assembly, error) {
	voteNullifier, err := a.builder.VoteNullifier(
		r.Keys.OwnerSecret.BigInt(),
		r.Keys.AgentID.BigInt(),
		r.Keys.RegistrationSecret.BigInt(),
		r.ActionHash)
	if err != nil {
		return nil, fmt.Errorf("could not derive vote nullifier: %w", err)
	}
	voteCommitment, err := a.builder.VoteCommitment(r.Vote, r.VoteSalt.BigInt(), r.ActionHash)
	if err != nil {
		return nil, fmt.Errorf("could not derive vote commitment: %w", err)
	}
	signals := map[string]any{
		"registry_root":   r.Merkle.Root.String(),
		"vote_nullifier":  voteNullifier.String(),
		"vote_commitment": voteCommitment.String(),
		"action_hash":     r.ActionHash.String(),
		"vote":            BoolToBigInt(r.Vote).String(),
		"vote_salt":       r.VoteSalt.BigInt().String(),
	}
	identitySignals(signals, &AgentIdentityRequest{Keys: r.Keys, Merkle: r.Merkle})
	return &Assembly{
		Signals:      signals,
		PublicInputs: []*big.Int{r.Merkle.Root, voteNullifier, voteCommitment, r.ActionHash},
		Nullifier:    voteNullifier,
		Commitments:  map[string]*big.Int{"vote_commitment": voteCommitment},
	}, nil
}

// ReputationThreshold assembles the inputs of the reputation threshold
// circuit. Public signals: minimum reputation, minimum transactions,
// reputation commitment.
func (a *Assembler) ReputationThreshold(r *ReputationThresholdRequest) (*Assembly, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	reputationCommitment, err := a.builder.ReputationCommitment(
		r.ReputationScore, r.TransactionCount, r.ReputationSecret.BigInt())
	if err != nil {
		return nil, fmt.Errorf("could not derive reputation commitment: %w", err)
	}
	signals := map[string]any{
		"min_reputation":        r.MinReputation.String(),
		"min_transactions":      r.MinTransactions.String(),
		"reputation_commitment": reputationCommitment.String(),
		"reputation_score":      r.ReputationScore.String(),
		"transaction_count":     r.TransactionCount.String(),
		"reputation_secret":     r.ReputationSecret.BigInt().String(),
	}
	return &Assembly{
		Signals:      signals,
		PublicInputs: []*big.Int{r.MinReputation, r.MinTransactions, reputationCommitment},
		Nullifier:    nil,
		Commitments:  map[string]*big.Int{"reputation_commitment": reputationCommitment},
	}, nil
}

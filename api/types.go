package api

import (
	"github.com/kamiyo-ai/kamiyo-zk/types"
)

// RegisterAgent is the request to register an identity commitment in the
// agent registry.
type RegisterAgent struct {
	Commitment types.HexBytes `json:"commitment"`
}

// RegisterAgentResponse is the response to a registration request.
type RegisterAgentResponse struct {
	Index int64 `json:"index"`
}

// RegistryRoot is the response to a registry root request.
type RegistryRoot struct {
	Root types.HexBytes `json:"root"`
}

// RegistryProof is the merkle proof of a registered identity commitment.
type RegistryProof struct {
	Root     types.HexBytes  `json:"root"`
	Siblings []*types.BigInt `json:"siblings"`
	Indices  []uint8         `json:"indices"`
}

// ProofRequest is the request body of the proof generation endpoint. Only
// the fields the requested circuit uses are required; extra fields are
// ignored.
type ProofRequest struct {
	// identity secrets, shared by the membership circuits
	OwnerSecret        types.HexBytes `json:"ownerSecret,omitempty"`
	AgentID            types.HexBytes `json:"agentId,omitempty"`
	RegistrationSecret types.HexBytes `json:"registrationSecret,omitempty"`
	Epoch              *types.BigInt  `json:"epoch,omitempty"`
	// vote and sealed bid circuits
	ActionHash *types.BigInt  `json:"actionHash,omitempty"`
	Vote       *bool          `json:"vote,omitempty"`
	VoteSalt   types.HexBytes `json:"voteSalt,omitempty"`
	BidAmount  *types.BigInt  `json:"bidAmount,omitempty"`
	BidSalt    types.HexBytes `json:"bidSalt,omitempty"`
	// private signal circuit
	SignalType   *types.BigInt  `json:"signalType,omitempty"`
	Direction    *bool          `json:"direction,omitempty"`
	Confidence   *types.BigInt  `json:"confidence,omitempty"`
	Magnitude    *types.BigInt  `json:"magnitude,omitempty"`
	StakeAmount  *types.BigInt  `json:"stakeAmount,omitempty"`
	SignalSecret types.HexBytes `json:"signalSecret,omitempty"`
	// reputation threshold circuit
	MinReputation    *types.BigInt  `json:"minReputation,omitempty"`
	MinTransactions  *types.BigInt  `json:"minTransactions,omitempty"`
	ReputationScore  *types.BigInt  `json:"reputationScore,omitempty"`
	TransactionCount *types.BigInt  `json:"transactionCount,omitempty"`
	ReputationSecret types.HexBytes `json:"reputationSecret,omitempty"`
}

// EncodedProofResponse is the verifier byte layout of a generated proof.
type EncodedProofResponse struct {
	A types.HexBytes `json:"a"`
	B types.HexBytes `json:"b"`
	C types.HexBytes `json:"c"`
}

// ProofResponse is the response of the proof generation endpoint.
type ProofResponse struct {
	Proof        EncodedProofResponse     `json:"proof"`
	PublicInputs []*types.BigInt          `json:"publicInputs"`
	Nullifier    *types.BigInt            `json:"nullifier,omitempty"`
	Commitments  map[string]*types.BigInt `json:"commitments,omitempty"`
}

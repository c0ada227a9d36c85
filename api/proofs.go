package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kamiyo-ai/kamiyo-zk/circuits"
	"github.com/kamiyo-ai/kamiyo-zk/crypto/commitments"
	"github.com/kamiyo-ai/kamiyo-zk/prover"
	"github.com/kamiyo-ai/kamiyo-zk/registry"
	"github.com/kamiyo-ai/kamiyo-zk/types"
)

// generateProof assembles the circuit request from the body, generates the
// proof and returns it in the verifier byte layout together with the public
// inputs and the derived nullifier and commitments.
func (a *API) generateProof(w http.ResponseWriter, r *http.Request) {
	kind, err := circuits.ByName(chi.URLParam(r, ProofsURLParam))
	if err != nil {
		ErrUnknownCircuit.Withf("%s", chi.URLParam(r, ProofsURLParam)).Write(w)
		return
	}
	var req ProofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	var result *prover.Result
	switch kind {
	case circuits.AgentIdentity:
		result, err = a.proveAgentIdentity(r, &req)
	case circuits.PrivateSignal:
		result, err = a.provePrivateSignal(r, &req)
	case circuits.AnonymousVote:
		result, err = a.proveAnonymousVote(r, &req)
	case circuits.SealedBid:
		result, err = a.proveSealedBid(r, &req)
	case circuits.ReputationThreshold:
		result, err = a.proveReputationThreshold(r, &req)
	}
	if err != nil {
		writeProofError(w, err)
		return
	}
	publicInputs := make([]*types.BigInt, len(result.PublicInputs))
	for i, p := range result.PublicInputs {
		publicInputs[i] = (*types.BigInt)(p)
	}
	resultCommitments := map[string]*types.BigInt{}
	for name, c := range result.Commitments {
		resultCommitments[name] = (*types.BigInt)(c)
	}
	httpWriteJSON(w, &ProofResponse{
		Proof: EncodedProofResponse{
			A: result.Encoded.A[:],
			B: result.Encoded.B[:],
			C: result.Encoded.C[:],
		},
		PublicInputs: publicInputs,
		Nullifier:    (*types.BigInt)(result.Nullifier),
		Commitments:  resultCommitments,
	})
}

// writeProofError maps a proving pipeline error to an API error response.
func writeProofError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrCommitmentNotFound):
		ErrCommitmentNotFound.WithErr(err).Write(w)
	case errors.Is(err, types.ErrValidation):
		ErrInvalidProofRequest.WithErr(err).Write(w)
	case errors.Is(err, types.ErrArtifact):
		ErrArtifactUnavailable.WithErr(err).Write(w)
	case errors.Is(err, types.ErrEncoding):
		ErrProofEncodingFailed.WithErr(err).Write(w)
	case errors.Is(err, types.ErrProofGeneration):
		ErrProofGenerationFailed.WithErr(err).Write(w)
	default:
		ErrGenericInternalServerError.WithErr(err).Write(w)
	}
}

// wipeBytes zeroes a decoded secret buffer. The typed copies handed to the
// engine are wiped there; this covers the raw request buffers, which must
// not outlive the proving session either.
func wipeBytes(b types.HexBytes) {
	for i := range b {
		b[i] = 0
	}
}

// requireFields rejects the request if any named numeric field is absent,
// so a missing field is never silently treated as zero.
func requireFields(fields map[string]*types.BigInt) error {
	for name, v := range fields {
		if v == nil {
			return fmt.Errorf("%w: missing %s", types.ErrValidation, name)
		}
	}
	return nil
}

// agentKeys parses the identity secrets of the request and fetches the
// merkle proof of the derived identity commitment from the registry.
func (a *API) agentKeys(req *ProofRequest) (circuits.AgentKeys, *registry.Proof, error) {
	defer func() {
		wipeBytes(req.OwnerSecret)
		wipeBytes(req.RegistrationSecret)
	}()
	ownerSecret, err := types.SecretFromBytes(req.OwnerSecret)
	if err != nil {
		return circuits.AgentKeys{}, nil, fmt.Errorf("%w: owner secret: %v", types.ErrValidation, err)
	}
	registrationSecret, err := types.SecretFromBytes(req.RegistrationSecret)
	if err != nil {
		return circuits.AgentKeys{}, nil, fmt.Errorf("%w: registration secret: %v", types.ErrValidation, err)
	}
	agentID, err := types.AgentIDFromBytes(req.AgentID)
	if err != nil {
		return circuits.AgentKeys{}, nil, fmt.Errorf("%w: agent ID: %v", types.ErrValidation, err)
	}
	keys := circuits.AgentKeys{
		OwnerSecret:        ownerSecret,
		RegistrationSecret: registrationSecret,
		AgentID:            agentID,
	}
	identity, err := commitments.NewBuilder(nil).Identity(
		keys.OwnerSecret.BigInt(), keys.AgentID.BigInt(), keys.RegistrationSecret.BigInt())
	if err != nil {
		return circuits.AgentKeys{}, nil, err
	}
	proof, err := a.registry.GenProof(identity)
	if err != nil {
		return circuits.AgentKeys{}, nil, err
	}
	return keys, proof, nil
}

func (a *API) proveAgentIdentity(r *http.Request, req *ProofRequest) (*prover.Result, error) {
	if err := requireFields(map[string]*types.BigInt{"epoch": req.Epoch}); err != nil {
		return nil, err
	}
	keys, proof, err := a.agentKeys(req)
	if err != nil {
		return nil, err
	}
	return a.engine.ProveAgentIdentity(r.Context(), &circuits.AgentIdentityRequest{
		Keys:   keys,
		Epoch:  req.Epoch.MathBigInt(),
		Merkle: proof,
	})
}

func (a *API) provePrivateSignal(r *http.Request, req *ProofRequest) (*prover.Result, error) {
	defer wipeBytes(req.SignalSecret)
	if err := requireFields(map[string]*types.BigInt{
		"epoch":       req.Epoch,
		"signalType":  req.SignalType,
		"confidence":  req.Confidence,
		"magnitude":   req.Magnitude,
		"stakeAmount": req.StakeAmount,
	}); err != nil {
		return nil, err
	}
	keys, proof, err := a.agentKeys(req)
	if err != nil {
		return nil, err
	}
	signalSecret, err := types.SecretFromBytes(req.SignalSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: signal secret: %v", types.ErrValidation, err)
	}
	if req.Direction == nil {
		return nil, fmt.Errorf("%w: missing direction", types.ErrValidation)
	}
	return a.engine.ProvePrivateSignal(r.Context(), &circuits.PrivateSignalRequest{
		Keys:         keys,
		Epoch:        req.Epoch.MathBigInt(),
		Merkle:       proof,
		SignalType:   req.SignalType.MathBigInt(),
		Direction:    *req.Direction,
		Confidence:   req.Confidence.MathBigInt(),
		Magnitude:    req.Magnitude.MathBigInt(),
		StakeAmount:  req.StakeAmount.MathBigInt(),
		SignalSecret: signalSecret,
	})
}

func (a *API) voteRequest(r *http.Request, req *ProofRequest) (*circuits.AnonymousVoteRequest, error) {
	defer wipeBytes(req.VoteSalt)
	if err := requireFields(map[string]*types.BigInt{"actionHash": req.ActionHash}); err != nil {
		return nil, err
	}
	keys, proof, err := a.agentKeys(req)
	if err != nil {
		return nil, err
	}
	voteSalt, err := types.SecretFromBytes(req.VoteSalt)
	if err != nil {
		return nil, fmt.Errorf("%w: vote salt: %v", types.ErrValidation, err)
	}
	if req.Vote == nil {
		return nil, fmt.Errorf("%w: missing vote", types.ErrValidation)
	}
	return &circuits.AnonymousVoteRequest{
		Keys:       keys,
		Merkle:     proof,
		ActionHash: req.ActionHash.MathBigInt(),
		Vote:       *req.Vote,
		VoteSalt:   voteSalt,
	}, nil
}

func (a *API) proveAnonymousVote(r *http.Request, req *ProofRequest) (*prover.Result, error) {
	voteReq, err := a.voteRequest(r, req)
	if err != nil {
		return nil, err
	}
	return a.engine.ProveAnonymousVote(r.Context(), voteReq)
}

func (a *API) proveSealedBid(r *http.Request, req *ProofRequest) (*prover.Result, error) {
	defer wipeBytes(req.BidSalt)
	voteReq, err := a.voteRequest(r, req)
	if err != nil {
		return nil, err
	}
	if err := requireFields(map[string]*types.BigInt{"bidAmount": req.BidAmount}); err != nil {
		return nil, err
	}
	bidSalt, err := types.SecretFromBytes(req.BidSalt)
	if err != nil {
		return nil, fmt.Errorf("%w: bid salt: %v", types.ErrValidation, err)
	}
	return a.engine.ProveSealedBid(r.Context(), &circuits.SealedBidRequest{
		AnonymousVoteRequest: *voteReq,
		BidAmount:            req.BidAmount.MathBigInt(),
		BidSalt:              bidSalt,
	})
}

func (a *API) proveReputationThreshold(r *http.Request, req *ProofRequest) (*prover.Result, error) {
	defer wipeBytes(req.ReputationSecret)
	if err := requireFields(map[string]*types.BigInt{
		"minReputation":    req.MinReputation,
		"minTransactions":  req.MinTransactions,
		"reputationScore":  req.ReputationScore,
		"transactionCount": req.TransactionCount,
	}); err != nil {
		return nil, err
	}
	reputationSecret, err := types.SecretFromBytes(req.ReputationSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: reputation secret: %v", types.ErrValidation, err)
	}
	return a.engine.ProveReputationThreshold(r.Context(), &circuits.ReputationThresholdRequest{
		MinReputation:    req.MinReputation.MathBigInt(),
		MinTransactions:  req.MinTransactions.MathBigInt(),
		ReputationScore:  req.ReputationScore.MathBigInt(),
		TransactionCount: req.TransactionCount.MathBigInt(),
		ReputationSecret: reputationSecret,
	})
}

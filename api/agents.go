package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kamiyo-ai/kamiyo-zk/crypto/fields"
	"github.com/kamiyo-ai/kamiyo-zk/registry"
	"github.com/kamiyo-ai/kamiyo-zk/types"
)

// registerAgent appends an identity commitment to the agent registry and
// returns its leaf index.
func (a *API) registerAgent(w http.ResponseWriter, r *http.Request) {
	var req RegisterAgent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	commitment, err := fields.BytesToField(req.Commitment)
	if err != nil {
		ErrMalformedCommitment.WithErr(err).Write(w)
		return
	}
	index, err := a.registry.Add(commitment)
	if err != nil {
		switch {
		case errors.Is(err, registry.ErrCommitmentExists):
			ErrCommitmentExists.Write(w)
		case errors.Is(err, registry.ErrRegistryFull):
			ErrRegistryFull.Write(w)
		case errors.Is(err, types.ErrValidation):
			ErrMalformedCommitment.WithErr(err).Write(w)
		default:
			ErrGenericInternalServerError.WithErr(err).Write(w)
		}
		return
	}
	httpWriteJSON(w, &RegisterAgentResponse{Index: index})
}

// registryRoot returns the current root of the agent registry.
func (a *API) registryRoot(w http.ResponseWriter, r *http.Request) {
	root, err := a.registry.Root()
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	rootBytes, err := fields.FieldToBytes(root)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &RegistryRoot{Root: rootBytes})
}

// registryProof returns the merkle proof of a registered identity
// commitment, padded to the configured tree depth.
func (a *API) registryProof(w http.ResponseWriter, r *http.Request) {
	var commitmentBytes types.HexBytes
	if err := commitmentBytes.SetString(r.URL.Query().Get("commitment")); err != nil {
		ErrMalformedCommitment.WithErr(err).Write(w)
		return
	}
	commitment, err := fields.BytesToField(commitmentBytes)
	if err != nil {
		ErrMalformedCommitment.WithErr(err).Write(w)
		return
	}
	proof, err := a.registry.GenProof(commitment)
	if err != nil {
		if errors.Is(err, registry.ErrCommitmentNotFound) {
			ErrCommitmentNotFound.Write(w)
			return
		}
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	rootBytes, err := fields.FieldToBytes(proof.Root)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	siblings := make([]*types.BigInt, len(proof.Siblings))
	for i, s := range proof.Siblings {
		siblings[i] = (*types.BigInt)(s)
	}
	httpWriteJSON(w, &RegistryProof{
		Root:     rootBytes,
		Siblings: siblings,
		Indices:  proof.Indices,
	})
}

package prover

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"
	"time"

	rapidsnark "github.com/iden3/go-rapidsnark/prover"
	"github.com/iden3/go-rapidsnark/witness"
	"github.com/kamiyo-ai/kamiyo-zk/circuits"
	"github.com/kamiyo-ai/kamiyo-zk/log"
	"github.com/kamiyo-ai/kamiyo-zk/types"
	"golang.org/x/sync/singleflight"
)

// Engine generates proofs for the supported circuit kinds. It caches loaded
// artifact bytes per kind and deduplicates concurrent loads, so a burst of
// requests for the same circuit triggers a single load.
type Engine struct {
	assembler *circuits.Assembler
	flight    singleflight.Group
	mu        sync.RWMutex
	loaded    map[circuits.CircuitKind]*circuits.CircuitArtifacts
}

// NewEngine returns an Engine using the given assembler. A nil assembler
// uses the default Poseidon-backed one.
func NewEngine(assembler *circuits.Assembler) *Engine {
	if assembler == nil {
		assembler = circuits.NewAssembler(nil)
	}
	return &Engine{
		assembler: assembler,
		loaded:    map[circuits.CircuitKind]*circuits.CircuitArtifacts{},
	}
}

// Artifacts returns the loaded artifacts of a circuit kind, loading them from
// the local cache or downloading them on first use. Concurrent calls for the
// same kind share a single load.
func (e *Engine) Artifacts(ctx context.Context, kind circuits.CircuitKind) (*circuits.CircuitArtifacts, error) {
	e.mu.RLock()
	ca := e.loaded[kind]
	e.mu.RUnlock()
	if ca != nil {
		return ca, nil
	}
	v, err, _ := e.flight.Do(string(kind), func() (any, error) {
		e.mu.RLock()
		ca := e.loaded[kind]
		e.mu.RUnlock()
		if ca != nil {
			return ca, nil
		}
		ca, err := kind.ArtifactSet()
		if err != nil {
			return nil, err
		}
		start := time.Now()
		if err := ca.LoadAll(); err != nil {
			log.Debugw("artifacts not in local cache, downloading",
				"circuit", string(kind), "error", err.Error())
			if err := ca.DownloadAll(ctx); err != nil {
				return nil, err
			}
			if err := ca.LoadAll(); err != nil {
				return nil, err
			}
		}
		log.Infow("circuit artifacts ready",
			"circuit", string(kind), "took", time.Since(start).String())
		e.mu.Lock()
		e.loaded[kind] = ca
		e.mu.Unlock()
		return ca, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*circuits.CircuitArtifacts), nil
}

type proveResult struct {
	proof      string
	pubSignals string
	err        error
}

// Prove calculates the witness for the given named signals and generates a
// Groth16 proof for the circuit kind. The context bounds the proving work:
// on cancellation the call returns and a late backend result is discarded.
func (e *Engine) Prove(ctx context.Context, kind circuits.CircuitKind, signals map[string]any) (*Proof, error) {
	ca, err := e.Artifacts(ctx, kind)
	if err != nil {
		return nil, err
	}
	inputsJSON, err := json.Marshal(signals)
	if err != nil {
		return nil, fmt.Errorf("%w: could not encode signals: %v", types.ErrValidation, err)
	}
	finalInputs, err := witness.ParseInputs(inputsJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: could not parse signals: %v", types.ErrValidation, err)
	}
	resCh := make(chan proveResult, 1)
	go func() {
		calc, err := witness.NewCircom2WitnessCalculator(ca.WitnessProgram(), true)
		if err != nil {
			resCh <- proveResult{err: fmt.Errorf("%w: could not instance witness calculator: %v",
				types.ErrArtifact, err)}
			return
		}
		wtns, err := calc.CalculateWTNSBin(finalInputs, true)
		if err != nil {
			resCh <- proveResult{err: fmt.Errorf("%w: witness calculation failed: %v",
				types.ErrProofGeneration, err)}
			return
		}
		proof, pubSignals, err := rapidsnark.Groth16ProverRaw(ca.ProvingKey(), wtns)
		if err != nil {
			resCh <- proveResult{err: fmt.Errorf("%w: %v", types.ErrProofGeneration, err)}
			return
		}
		resCh <- proveResult{proof: proof, pubSignals: pubSignals}
	}()
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", types.ErrProofGeneration, ctx.Err())
	case res := <-resCh:
		if res.err != nil {
			return nil, res.err
		}
		return ParseProof(res.proof, res.pubSignals)
	}
}

// Result bundles everything a caller publishes after a successful proving
// session: the verifier-encoded proof, the raw proof, the public inputs in
// circuit order and the derived nullifier and commitments.
type Result struct {
	Encoded      *EncodedProof
	Proof        *Proof
	PublicInputs []*big.Int
	Nullifier    *big.Int
	Commitments  map[string]*big.Int
}

// prove runs the full proving session: proof generation, local verification
// against the circuit's verification key and re-encoding for the on-chain
// verifier. A proof that does not verify locally is never encoded.
func (e *Engine) prove(ctx context.Context, kind circuits.CircuitKind, asm *circuits.Assembly) (*Result, error) {
	proof, err := e.Prove(ctx, kind, asm.Signals)
	if err != nil {
		return nil, err
	}
	if err := e.Verify(ctx, kind, proof); err != nil {
		return nil, err
	}
	encoded, err := EncodeProof(proof)
	if err != nil {
		return nil, err
	}
	return &Result{
		Encoded:      encoded,
		Proof:        proof,
		PublicInputs: asm.PublicInputs,
		Nullifier:    asm.Nullifier,
		Commitments:  asm.Commitments,
	}, nil
}

// ProveAgentIdentity proves registry membership for an epoch. The request
// secrets are wiped before returning.
func (e *Engine) ProveAgentIdentity(ctx context.Context, r *circuits.AgentIdentityRequest) (*Result, error) {
	defer r.Keys.Wipe()
	asm, err := e.assembler.AgentIdentity(r)
	if err != nil {
		return nil, err
	}
	return e.prove(ctx, circuits.AgentIdentity, asm)
}

// ProvePrivateSignal proves a staked trading signal commitment. The request
// secrets are wiped before returning.
func (e *Engine) ProvePrivateSignal(ctx context.Context, r *circuits.PrivateSignalRequest) (*Result, error) {
	defer func() {
		r.Keys.Wipe()
		r.SignalSecret.Zero()
	}()
	asm, err := e.assembler.PrivateSignal(r)
	if err != nil {
		return nil, err
	}
	return e.prove(ctx, circuits.PrivateSignal, asm)
}

// ProveAnonymousVote proves a hidden vote bound to an action. The request
// secrets are wiped before returning.
func (e *Engine) ProveAnonymousVote(ctx context.Context, r *circuits.AnonymousVoteRequest) (*Result, error) {
	defer func() {
		r.Keys.Wipe()
		r.VoteSalt.Zero()
	}()
	asm, err := e.assembler.AnonymousVote(r)
	if err != nil {
		return nil, err
	}
	return e.prove(ctx, circuits.AnonymousVote, asm)
}

// ProveSealedBid proves a hidden vote plus a sealed bid amount. The request
// secrets are wiped before returning.
func (e *Engine) ProveSealedBid(ctx context.Context, r *circuits.SealedBidRequest) (*Result, error) {
	defer func() {
		r.Keys.Wipe()
		r.VoteSalt.Zero()
		r.BidSalt.Zero()
	}()
	asm, err := e.assembler.SealedBid(r)
	if err != nil {
		return nil, err
	}
	return e.prove(ctx, circuits.SealedBid, asm)
}

// ProveReputationThreshold proves reputation and transaction count above
// public thresholds. The request secret is wiped before returning.
func (e *Engine) ProveReputationThreshold(ctx context.Context, r *circuits.ReputationThresholdRequest) (*Result, error) {
	defer r.ReputationSecret.Zero()
	asm, err := e.assembler.ReputationThreshold(r)
	if err != nil {
		return nil, err
	}
	return e.prove(ctx, circuits.ReputationThreshold, asm)
}

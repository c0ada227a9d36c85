package prover

import (
	"context"
	"encoding/json"
	"fmt"

	rapidsnark "github.com/iden3/go-rapidsnark/types"
	"github.com/iden3/go-rapidsnark/verifier"
	"github.com/kamiyo-ai/kamiyo-zk/circuits"
	"github.com/kamiyo-ai/kamiyo-zk/types"
	"github.com/vocdoni/circom2gnark/parser"
)

// Verify checks a proof against the circuit's verification key artifact.
// The Prove methods run it on every generated proof before encoding; it is
// also usable standalone to re-check a proof before on-chain submission.
func (e *Engine) Verify(ctx context.Context, kind circuits.CircuitKind, p *Proof) error {
	ca, err := e.Artifacts(ctx, kind)
	if err != nil {
		return err
	}
	zkp := rapidsnark.ZKProof{Proof: p.Data, PubSignals: p.PubSignals}
	if err := verifier.VerifyGroth16(zkp, ca.VerifyingKey()); err != nil {
		return fmt.Errorf("%w: proof verification failed: %v", types.ErrProofGeneration, err)
	}
	return nil
}

// VerifyWithGnark converts the circom proof to the gnark format and verifies
// it with gnark's Groth16 backend. It is the cross-check path: a proof that
// passes both backends will also pass the on-chain pairing verifier.
func VerifyWithGnark(vkey []byte, p *Proof) error {
	proofJSON, err := json.Marshal(p.Data)
	if err != nil {
		return fmt.Errorf("%w: could not encode proof: %v", types.ErrEncoding, err)
	}
	circomProof, err := parser.UnmarshalCircomProofJSON(proofJSON)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrEncoding, err)
	}
	circomVKey, err := parser.UnmarshalCircomVerificationKeyJSON(vkey)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrEncoding, err)
	}
	gnarkProof, err := parser.ConvertCircomToGnark(circomProof, circomVKey, p.PubSignals)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrEncoding, err)
	}
	if ok, err := parser.VerifyProof(gnarkProof); !ok || err != nil {
		return fmt.Errorf("%w: proof verification failed: %v", types.ErrProofGeneration, err)
	}
	return nil
}

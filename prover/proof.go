// Package prover drives the Groth16 proving backend: it loads circuit
// artifacts, calculates witnesses, generates proofs and re-encodes them into
// the byte layout the on-chain pairing verifier consumes.
package prover

import (
	"encoding/json"
	"fmt"
	"math/big"

	rapidsnark "github.com/iden3/go-rapidsnark/types"
	"github.com/kamiyo-ai/kamiyo-zk/types"
)

// Proof holds a Groth16 proof as returned by the rapidsnark prover, together
// with its public signals. Coordinates are decimal strings.
type Proof struct {
	Data       *rapidsnark.ProofData
	PubSignals []string
}

// ParseProof decodes the JSON proof and public signals emitted by the
// rapidsnark prover and validates the proof dimensionality eagerly, so a
// malformed proof object fails here instead of during encoding.
func ParseProof(proofJSON, pubSignalsJSON string) (*Proof, error) {
	data := &rapidsnark.ProofData{}
	if err := json.Unmarshal([]byte(proofJSON), data); err != nil {
		return nil, fmt.Errorf("%w: could not decode proof: %v", types.ErrEncoding, err)
	}
	var pubSignals []string
	if err := json.Unmarshal([]byte(pubSignalsJSON), &pubSignals); err != nil {
		return nil, fmt.Errorf("%w: could not decode public signals: %v", types.ErrEncoding, err)
	}
	if err := checkProofShape(data); err != nil {
		return nil, err
	}
	for i, s := range pubSignals {
		if _, ok := new(big.Int).SetString(s, 10); !ok {
			return nil, fmt.Errorf("%w: public signal %d is not a decimal string", types.ErrEncoding, i)
		}
	}
	return &Proof{Data: data, PubSignals: pubSignals}, nil
}

// checkProofShape validates the snarkjs proof layout: A and C are projective
// G1 points of three decimal coordinates, B is a projective G2 point of three
// coordinate pairs.
func checkProofShape(data *rapidsnark.ProofData) error {
	if len(data.A) != 3 {
		return fmt.Errorf("%w: proof A has %d coordinates, expected 3", types.ErrEncoding, len(data.A))
	}
	if len(data.C) != 3 {
		return fmt.Errorf("%w: proof C has %d coordinates, expected 3", types.ErrEncoding, len(data.C))
	}
	if len(data.B) != 3 {
		return fmt.Errorf("%w: proof B has %d coordinate pairs, expected 3", types.ErrEncoding, len(data.B))
	}
	for i, pair := range data.B {
		if len(pair) != 2 {
			return fmt.Errorf("%w: proof B pair %d has %d elements, expected 2", types.ErrEncoding, i, len(pair))
		}
	}
	return nil
}

// PublicInputs parses the public signals as big integers.
func (p *Proof) PublicInputs() ([]*big.Int, error) {
	inputs := make([]*big.Int, len(p.PubSignals))
	for i, s := range p.PubSignals {
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("%w: public signal %d is not a decimal string", types.ErrEncoding, i)
		}
		inputs[i] = n
	}
	return inputs, nil
}

package prover

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/kamiyo-ai/kamiyo-zk/crypto/fields"
	"github.com/kamiyo-ai/kamiyo-zk/types"
)

// EncodedProof is the fixed byte layout the on-chain pairing verifier
// consumes: A and C are G1 points of two 32-byte big-endian limbs, B is a G2
// point of four limbs with each coordinate's sub-pair written in reversed
// order. A carries the negated Y coordinate, so the verifier can fold the
// proof into a single pairing product.
type EncodedProof struct {
	A [64]byte
	B [128]byte
	C [64]byte
}

// EncodeProof re-encodes a rapidsnark proof into the verifier byte layout.
// Every coordinate must parse as a decimal base field element; the resulting
// points are checked to be on the curve before the bytes are emitted.
func EncodeProof(p *Proof) (*EncodedProof, error) {
	if p == nil || p.Data == nil {
		return nil, fmt.Errorf("%w: nil proof", types.ErrEncoding)
	}
	if err := checkProofShape(p.Data); err != nil {
		return nil, err
	}
	ax, err := baseCoord("A.x", p.Data.A[0])
	if err != nil {
		return nil, err
	}
	ay, err := baseCoord("A.y", p.Data.A[1])
	if err != nil {
		return nil, err
	}
	cx, err := baseCoord("C.x", p.Data.C[0])
	if err != nil {
		return nil, err
	}
	cy, err := baseCoord("C.y", p.Data.C[1])
	if err != nil {
		return nil, err
	}
	bx0, err := baseCoord("B.x0", p.Data.B[0][0])
	if err != nil {
		return nil, err
	}
	bx1, err := baseCoord("B.x1", p.Data.B[0][1])
	if err != nil {
		return nil, err
	}
	by0, err := baseCoord("B.y0", p.Data.B[1][0])
	if err != nil {
		return nil, err
	}
	by1, err := baseCoord("B.y1", p.Data.B[1][1])
	if err != nil {
		return nil, err
	}
	// The proof comes in projective form with a trivial z coordinate.
	if p.Data.A[2] != "1" || p.Data.C[2] != "1" {
		return nil, fmt.Errorf("%w: non-affine G1 point", types.ErrEncoding)
	}
	if p.Data.B[2][0] != "1" || p.Data.B[2][1] != "0" {
		return nil, fmt.Errorf("%w: non-affine G2 point", types.ErrEncoding)
	}
	// Check the points are on the curve before emitting any bytes.
	var a, c bn254.G1Affine
	a.X.SetBigInt(ax)
	a.Y.SetBigInt(ay)
	if !a.IsOnCurve() {
		return nil, fmt.Errorf("%w: proof point A is not on the curve", types.ErrEncoding)
	}
	c.X.SetBigInt(cx)
	c.Y.SetBigInt(cy)
	if !c.IsOnCurve() {
		return nil, fmt.Errorf("%w: proof point C is not on the curve", types.ErrEncoding)
	}
	var b bn254.G2Affine
	b.X.A0.SetBigInt(bx0)
	b.X.A1.SetBigInt(bx1)
	b.Y.A0.SetBigInt(by0)
	b.Y.A1.SetBigInt(by1)
	if !b.IsOnCurve() {
		return nil, fmt.Errorf("%w: proof point B is not on the curve", types.ErrEncoding)
	}
	encoded := &EncodedProof{}
	copy(encoded.A[:32], limb(ax))
	copy(encoded.A[32:], limb(NegateBase(ay)))
	// G2 coordinates are written with the sub-pair order reversed.
	copy(encoded.B[:32], limb(bx1))
	copy(encoded.B[32:64], limb(bx0))
	copy(encoded.B[64:96], limb(by1))
	copy(encoded.B[96:], limb(by0))
	copy(encoded.C[:32], limb(cx))
	copy(encoded.C[32:], limb(cy))
	return encoded, nil
}

// NegateBase returns the additive inverse of y in the base field. Zero maps
// to zero, so applying it twice yields the original value.
func NegateBase(y *big.Int) *big.Int {
	if y.Sign() == 0 {
		return new(big.Int)
	}
	return new(big.Int).Sub(fields.BaseModulus, y)
}

// baseCoord parses a decimal coordinate and checks it is a canonical base
// field element.
func baseCoord(name, s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: coordinate %s is not a decimal string", types.ErrEncoding, name)
	}
	if n.Sign() < 0 || n.Cmp(fields.BaseModulus) >= 0 {
		return nil, fmt.Errorf("%w: coordinate %s is not a base field element", types.ErrEncoding, name)
	}
	return n, nil
}

// limb serializes a base field element as a 32-byte big-endian slice.
func limb(n *big.Int) []byte {
	buf := make([]byte, fp.Bytes)
	return n.FillBytes(buf)
}

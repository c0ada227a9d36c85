// Package fields implements the fixed-width byte codec for bn254 field
// elements and exposes the two modulus constants used across the proving
// pipeline. The scalar field modulus bounds everything that is hashed or
// proven; the base field modulus is used only for curve point coordinate
// negation.
package fields

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/kamiyo-ai/kamiyo-zk/types"
)

var (
	// ScalarModulus is the bn254 scalar field prime. Commitments,
	// nullifiers and every hashed value live in this field.
	ScalarModulus = fr.Modulus()
	// BaseModulus is the bn254 base field prime, over which G1 and G2
	// point coordinates are defined.
	BaseModulus = fp.Modulus()

	// maxUint256 bounds what FieldToBytes can represent in 32 bytes.
	maxUint256 = new(big.Int).Lsh(big.NewInt(1), 256)
)

// BytesToField decodes a 32-byte big-endian value into an integer. No
// implicit modular reduction is applied; the caller decides whether the
// result must be range checked against a modulus.
func BytesToField(b []byte) (*big.Int, error) {
	if len(b) != types.SerializedFieldSize {
		return nil, fmt.Errorf("%w: field element must be %d bytes, got %d",
			types.ErrValidation, types.SerializedFieldSize, len(b))
	}
	return new(big.Int).SetBytes(b), nil
}

// FieldToBytes encodes n as a 32-byte big-endian value, zero padded on the
// left. It fails for negative values and values that do not fit in 32
// bytes.
func FieldToBytes(n *big.Int) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil field element", types.ErrValidation)
	}
	if n.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative value %s", types.ErrValidation, n)
	}
	if n.Cmp(maxUint256) >= 0 {
		return nil, fmt.Errorf("%w: value %s does not fit in 32 bytes", types.ErrValidation, n)
	}
	b := make([]byte, types.SerializedFieldSize)
	n.FillBytes(b)
	return b, nil
}

// InScalarField reports whether n is a canonical scalar field element, that
// is, 0 <= n < ScalarModulus.
func InScalarField(n *big.Int) bool {
	return n != nil && n.Sign() >= 0 && n.Cmp(ScalarModulus) < 0
}

// CheckScalar returns a validation error if n is not a canonical scalar
// field element. Out-of-range values are rejected, never silently reduced.
func CheckScalar(name string, n *big.Int) error {
	if n == nil {
		return fmt.Errorf("%w: %s is nil", types.ErrValidation, name)
	}
	if !InScalarField(n) {
		return fmt.Errorf("%w: %s is not a scalar field element", types.ErrValidation, name)
	}
	return nil
}

package types

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// BigInt is a big.Int wrapper which marshals JSON to a string representation
// of the big number. Note that a nil pointer value marshals as the empty
// string.
type BigInt big.Int

// MarshalText returns the decimal string representation.
func (i *BigInt) MarshalText() ([]byte, error) {
	if i == nil {
		return []byte(""), nil
	}
	return i.MathBigInt().MarshalText()
}

// UnmarshalText parses a decimal string representation.
func (i *BigInt) UnmarshalText(data []byte) error {
	if i == nil {
		return fmt.Errorf("cannot unmarshal into nil BigInt")
	}
	return i.MathBigInt().UnmarshalText(data)
}

// MarshalCBOR encodes the number as a CBOR text string in decimal.
func (i *BigInt) MarshalCBOR() ([]byte, error) {
	if i == nil {
		return cbor.Marshal("")
	}
	return cbor.Marshal(i.MathBigInt().String())
}

// UnmarshalCBOR decodes a CBOR text string in decimal.
func (i *BigInt) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	if _, ok := i.MathBigInt().SetString(s, 10); !ok {
		return fmt.Errorf("cannot parse %q as BigInt", s)
	}
	return nil
}

// String returns the decimal string representation.
func (i *BigInt) String() string {
	if i == nil {
		return ""
	}
	return i.MathBigInt().String()
}

// SetUint64 sets the value and returns i.
func (i *BigInt) SetUint64(x uint64) *BigInt {
	return (*BigInt)(i.MathBigInt().SetUint64(x))
}

// SetBytes interprets buf as big-endian unsigned integer and returns i.
func (i *BigInt) SetBytes(buf []byte) *BigInt {
	return (*BigInt)(i.MathBigInt().SetBytes(buf))
}

// Equal reports whether i and j are equal. Nil pointers compare equal to
// zero values.
func (i *BigInt) Equal(j *BigInt) bool {
	return i.MathBigInt().Cmp(j.MathBigInt()) == 0
}

// MathBigInt converts b to a math/big *big.Int. A nil pointer converts to a
// zero value.
func (i *BigInt) MathBigInt() *big.Int {
	if i == nil {
		return new(big.Int)
	}
	return (*big.Int)(i)
}

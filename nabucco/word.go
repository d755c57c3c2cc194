// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package nabucco

import (
	"encoding/binary"
	"math/bits"

	"github.com/holiman/uint256"
)

// Word represents an arbitrary 256-bit (32 byte) word, the base unit of
// computation of the engine. Words are immutable values; all operations
// produce new Words. Arithmetic wraps modulo 2^256 unless the operation is
// explicitly a checked variant, in which case an overflow is signaled with
// ErrIntegerOverflow. Division and modulo by zero yield zero and are never
// an error.
//
// A Word can be interpreted as an unsigned integer, as a signed integer in
// two's complement, or as a 32-byte sequence. The numeric interpretations
// are big-endian.
type Word [32]byte

// NewWord creates a new Word instance from up to 4 uint64 arguments. The
// arguments are given in the order from most significant to least
// significant by padding leading zeros as needed. No argument results in a
// word of zero.
func NewWord(args ...uint64) (result Word) {
	if len(args) > 4 {
		panic("too many arguments")
	}
	offset := 4 - len(args)
	for i := 0; i < len(args); i++ {
		start := (offset + i) * 8
		binary.BigEndian.PutUint64(result[start:start+8], args[i])
	}
	return
}

// MaxWord is the largest representable Word, 2^256 - 1.
func MaxWord() (result Word) {
	for i := range result {
		result[i] = 0xff
	}
	return
}

// WordFromBytes creates a Word from a byte slice holding a big-endian
// number. Slices shorter than 32 bytes are widened numerically, padding
// with leading zero bytes; slices longer than 32 bytes are truncated to
// their low-order 32 bytes.
func WordFromBytes(data []byte) (result Word) {
	if len(data) > 32 {
		data = data[len(data)-32:]
	}
	copy(result[32-len(data):], data)
	return
}

// WordFromData creates a Word from a byte sequence. In contrast to
// WordFromBytes, sequences shorter than 32 bytes are widened by padding
// with trailing zero bytes, and longer sequences are truncated to their
// leading 32 bytes. This asymmetry mirrors the semantic distinction
// between widening numeric values and widening byte sequences.
func WordFromData(data []byte) (result Word) {
	copy(result[:], data)
	return
}

// WordFromUint256 converts a *uint256.Int to a Word. A nil input yields
// the zero Word.
func WordFromUint256(value *uint256.Int) (result Word) {
	if value == nil {
		return
	}
	return Word(value.Bytes32())
}

// ToUint256 returns the numeric value of the word as a fresh uint256.Int.
func (w Word) ToUint256() *uint256.Int {
	return new(uint256.Int).SetBytes32(w[:])
}

// Bytes returns a copy of the word's 32-byte big-endian representation.
func (w Word) Bytes() []byte {
	res := make([]byte, 32)
	copy(res, w[:])
	return res
}

// LowBytes returns the low-order n bytes of the word, the result of a
// truncating conversion to a narrower numeric width. n values of 32 or
// more return the full word.
func (w Word) LowBytes(n int) []byte {
	if n >= 32 {
		return w.Bytes()
	}
	res := make([]byte, n)
	copy(res, w[32-n:])
	return res
}

// Uint64 returns the low-order 64 bits of the word.
func (w Word) Uint64() uint64 {
	return binary.BigEndian.Uint64(w[24:32])
}

// IsUint64 returns true if the word fits into a uint64 without truncation.
func (w Word) IsUint64() bool {
	for _, b := range w[:24] {
		if b != 0 {
			return false
		}
	}
	return true
}

func (w Word) IsZero() bool {
	return w == Word{}
}

// Sign returns -1 if the word is negative in two's complement
// interpretation, 0 if it is zero, and 1 otherwise.
func (w Word) Sign() int {
	if w[0]&0x80 != 0 {
		return -1
	}
	if w.IsZero() {
		return 0
	}
	return 1
}

// Cmp compares two words as unsigned integers, returning -1, 0, or 1.
func (w Word) Cmp(o Word) int {
	for i := 0; i < 32; i++ {
		if w[i] != o[i] {
			if w[i] < o[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Slt returns true if w is less than o in signed interpretation.
func (w Word) Slt(o Word) bool {
	return w.ToUint256().Slt(o.ToUint256())
}

// Sgt returns true if w is greater than o in signed interpretation.
func (w Word) Sgt(o Word) bool {
	return w.ToUint256().Sgt(o.ToUint256())
}

// Add computes w + o, wrapping modulo 2^256.
func (w Word) Add(o Word) (z Word) {
	res, carry := bits.Add64(w.limb(0), o.limb(0), 0)
	binary.BigEndian.PutUint64(z[24:32], res)

	res, carry = bits.Add64(w.limb(1), o.limb(1), carry)
	binary.BigEndian.PutUint64(z[16:24], res)

	res, carry = bits.Add64(w.limb(2), o.limb(2), carry)
	binary.BigEndian.PutUint64(z[8:16], res)

	res, _ = bits.Add64(w.limb(3), o.limb(3), carry)
	binary.BigEndian.PutUint64(z[0:8], res)

	return z
}

// Sub computes w - o, wrapping modulo 2^256.
func (w Word) Sub(o Word) (z Word) {
	res, borrow := bits.Sub64(w.limb(0), o.limb(0), 0)
	binary.BigEndian.PutUint64(z[24:32], res)

	res, borrow = bits.Sub64(w.limb(1), o.limb(1), borrow)
	binary.BigEndian.PutUint64(z[16:24], res)

	res, borrow = bits.Sub64(w.limb(2), o.limb(2), borrow)
	binary.BigEndian.PutUint64(z[8:16], res)

	res, _ = bits.Sub64(w.limb(3), o.limb(3), borrow)
	binary.BigEndian.PutUint64(z[0:8], res)

	return z
}

// Mul computes w * o, wrapping modulo 2^256.
func (w Word) Mul(o Word) Word {
	return WordFromUint256(new(uint256.Int).Mul(w.ToUint256(), o.ToUint256()))
}

// Div computes the unsigned quotient w / o. Division by zero yields zero.
func (w Word) Div(o Word) Word {
	return WordFromUint256(new(uint256.Int).Div(w.ToUint256(), o.ToUint256()))
}

// Mod computes the unsigned remainder w % o. Modulo zero yields zero.
func (w Word) Mod(o Word) Word {
	return WordFromUint256(new(uint256.Int).Mod(w.ToUint256(), o.ToUint256()))
}

// SDiv computes the signed quotient of the two's complement interpretation
// of w and o. Division by zero yields zero.
func (w Word) SDiv(o Word) Word {
	return WordFromUint256(new(uint256.Int).SDiv(w.ToUint256(), o.ToUint256()))
}

// SMod computes the signed remainder of the two's complement
// interpretation of w and o. Modulo zero yields zero.
func (w Word) SMod(o Word) Word {
	return WordFromUint256(new(uint256.Int).SMod(w.ToUint256(), o.ToUint256()))
}

// Exp computes w ** o, wrapping modulo 2^256.
func (w Word) Exp(o Word) Word {
	return WordFromUint256(new(uint256.Int).Exp(w.ToUint256(), o.ToUint256()))
}

// AddChecked computes w + o, signaling ErrIntegerOverflow instead of
// wrapping if the mathematical result does not fit into 256 bits.
func (w Word) AddChecked(o Word) (Word, error) {
	res, overflow := new(uint256.Int).AddOverflow(w.ToUint256(), o.ToUint256())
	if overflow {
		return Word{}, ErrIntegerOverflow
	}
	return WordFromUint256(res), nil
}

// SubChecked computes w - o, signaling ErrIntegerOverflow if o > w.
func (w Word) SubChecked(o Word) (Word, error) {
	res, underflow := new(uint256.Int).SubOverflow(w.ToUint256(), o.ToUint256())
	if underflow {
		return Word{}, ErrIntegerOverflow
	}
	return WordFromUint256(res), nil
}

// MulChecked computes w * o, signaling ErrIntegerOverflow instead of
// wrapping if the mathematical result does not fit into 256 bits.
func (w Word) MulChecked(o Word) (Word, error) {
	res, overflow := new(uint256.Int).MulOverflow(w.ToUint256(), o.ToUint256())
	if overflow {
		return Word{}, ErrIntegerOverflow
	}
	return WordFromUint256(res), nil
}

// And computes the bit-wise conjunction of the two words.
func (w Word) And(o Word) (z Word) {
	for i := range z {
		z[i] = w[i] & o[i]
	}
	return
}

// Or computes the bit-wise disjunction of the two words.
func (w Word) Or(o Word) (z Word) {
	for i := range z {
		z[i] = w[i] | o[i]
	}
	return
}

// Xor computes the bit-wise exclusive disjunction of the two words.
func (w Word) Xor(o Word) (z Word) {
	for i := range z {
		z[i] = w[i] ^ o[i]
	}
	return
}

// Not computes the bit-wise negation of the word.
func (w Word) Not() (z Word) {
	for i := range z {
		z[i] = ^w[i]
	}
	return
}

// Shl shifts the word left by n bits. Shift amounts of 256 or more yield
// zero.
func (w Word) Shl(n uint) Word {
	if n >= 256 {
		return Word{}
	}
	return WordFromUint256(new(uint256.Int).Lsh(w.ToUint256(), n))
}

// Shr shifts the word right by n bits, filling with zero bits. Shift
// amounts of 256 or more yield zero.
func (w Word) Shr(n uint) Word {
	if n >= 256 {
		return Word{}
	}
	return WordFromUint256(new(uint256.Int).Rsh(w.ToUint256(), n))
}

// Sar shifts the word right by n bits, replicating the sign bit. Shift
// amounts of 256 or more saturate to all-zeros or all-ones depending on
// the sign.
func (w Word) Sar(n uint) Word {
	if n >= 256 {
		if w.Sign() < 0 {
			return MaxWord()
		}
		return Word{}
	}
	return WordFromUint256(new(uint256.Int).SRsh(w.ToUint256(), n))
}

func (w Word) String() string {
	return w.ToUint256().Hex()
}

// limb returns the index-th 64-bit group of the word, counting from the
// least significant end.
func (w Word) limb(index int) uint64 {
	start := 24 - index*8
	return binary.BigEndian.Uint64(w[start : start+8])
}

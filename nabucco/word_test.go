// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package nabucco

import (
	"bytes"
	"errors"
	"testing"

	"pgregory.net/rand"
)

func randomWord(rnd *rand.Rand) (w Word) {
	rnd.Read(w[:])
	return
}

func TestWord_AddIsCommutativeAndWraps(t *testing.T) {
	rnd := rand.New(0)
	for i := 0; i < 100; i++ {
		a, b := randomWord(rnd), randomWord(rnd)
		if a.Add(b) != b.Add(a) {
			t.Fatalf("addition is not commutative for %v and %v", a, b)
		}
	}

	if got := MaxWord().Add(NewWord(1)); got != (Word{}) {
		t.Errorf("MAX + 1 = %v, want 0", got)
	}
}

func TestWord_AddSubRoundTrip(t *testing.T) {
	rnd := rand.New(0)
	for i := 0; i < 100; i++ {
		a, b := randomWord(rnd), randomWord(rnd)
		if got := a.Add(b).Sub(b); got != a {
			t.Fatalf("(%v + %v) - %v = %v, want %v", a, b, b, got, a)
		}
	}
}

func TestWord_DivisionByZeroYieldsZero(t *testing.T) {
	five := NewWord(5)
	zero := Word{}

	if got := five.Div(zero); got != zero {
		t.Errorf("div(5,0) = %v, want 0", got)
	}
	if got := five.Mod(zero); got != zero {
		t.Errorf("mod(5,0) = %v, want 0", got)
	}
	if got := five.SDiv(zero); got != zero {
		t.Errorf("sdiv(5,0) = %v, want 0", got)
	}
	if got := five.SMod(zero); got != zero {
		t.Errorf("smod(5,0) = %v, want 0", got)
	}
}

func TestWord_WrappingAndCheckedArithmetic(t *testing.T) {
	tests := map[string]struct {
		wrapped func(a, b Word) Word
		checked func(a, b Word) (Word, error)
		a, b    Word
		want    Word // the wrapping result
		fault   bool // whether the checked variant must signal overflow
	}{
		"add without overflow": {
			wrapped: Word.Add, checked: Word.AddChecked,
			a: NewWord(1), b: NewWord(2), want: NewWord(3),
		},
		"add with overflow": {
			wrapped: Word.Add, checked: Word.AddChecked,
			a: MaxWord(), b: NewWord(1), want: Word{}, fault: true,
		},
		"sub without underflow": {
			wrapped: Word.Sub, checked: Word.SubChecked,
			a: NewWord(5), b: NewWord(3), want: NewWord(2),
		},
		"sub with underflow": {
			wrapped: Word.Sub, checked: Word.SubChecked,
			a: NewWord(0), b: NewWord(1), want: MaxWord(), fault: true,
		},
		"mul without overflow": {
			wrapped: Word.Mul, checked: Word.MulChecked,
			a: NewWord(6), b: NewWord(7), want: NewWord(42),
		},
		"mul with overflow": {
			wrapped: Word.Mul, checked: Word.MulChecked,
			a: MaxWord(), b: NewWord(2), want: MaxWord().Sub(NewWord(1)), fault: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if got := test.wrapped(test.a, test.b); got != test.want {
				t.Errorf("wrapping result = %v, want %v", got, test.want)
			}
			_, err := test.checked(test.a, test.b)
			if test.fault && !errors.Is(err, ErrIntegerOverflow) {
				t.Errorf("checked variant did not signal overflow, got %v", err)
			}
			if !test.fault && err != nil {
				t.Errorf("checked variant signaled unexpected error: %v", err)
			}
		})
	}
}

func TestWord_SignedOperations(t *testing.T) {
	minusOne := MaxWord()           // two's complement -1
	minusTwo := MaxWord().Sub(NewWord(1)) // -2

	if got := minusTwo.SDiv(minusOne); got != NewWord(2) {
		t.Errorf("sdiv(-2,-1) = %v, want 2", got)
	}
	if got := minusTwo.SMod(NewWord(3)); got != minusTwo {
		// the sign of the remainder follows the dividend
		t.Errorf("smod(-2,3) = %v, want -2", got)
	}
	if minusOne.Sign() != -1 {
		t.Errorf("sign(-1) = %d, want -1", minusOne.Sign())
	}
	if (Word{}).Sign() != 0 {
		t.Errorf("sign(0) != 0")
	}
	if NewWord(1).Sign() != 1 {
		t.Errorf("sign(1) != 1")
	}
	if !minusOne.Slt(NewWord(0)) {
		t.Errorf("-1 < 0 does not hold in signed comparison")
	}
	if !NewWord(0).Sgt(minusOne) {
		t.Errorf("0 > -1 does not hold in signed comparison")
	}
	if minusOne.Cmp(NewWord(0)) <= 0 {
		t.Errorf("-1 must be greater than 0 in unsigned comparison")
	}
}

func TestWord_Shifts(t *testing.T) {
	tests := map[string]struct {
		in    Word
		shift uint
		op    func(Word, uint) Word
		want  Word
	}{
		"shl small":          {NewWord(1), 4, Word.Shl, NewWord(16)},
		"shl out of range":   {MaxWord(), 256, Word.Shl, Word{}},
		"shr small":          {NewWord(16), 4, Word.Shr, NewWord(1)},
		"shr out of range":   {MaxWord(), 256, Word.Shr, Word{}},
		"sar positive":       {NewWord(16), 4, Word.Sar, NewWord(1)},
		"sar negative":       {MaxWord(), 8, Word.Sar, MaxWord()},
		"sar negative range": {MaxWord(), 300, Word.Sar, MaxWord()},
		"sar positive range": {NewWord(16), 300, Word.Sar, Word{}},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if got := test.op(test.in, test.shift); got != test.want {
				t.Errorf("got %v, want %v", got, test.want)
			}
		})
	}
}

func TestWord_BitwiseOperations(t *testing.T) {
	rnd := rand.New(0)
	for i := 0; i < 100; i++ {
		a, b := randomWord(rnd), randomWord(rnd)
		if got := a.And(b).Or(a.Xor(b)); got != a.Or(b) {
			t.Fatalf("(a&b)|(a^b) = %v, want %v", got, a.Or(b))
		}
		if got := a.Not().Not(); got != a {
			t.Fatalf("double negation of %v yields %v", a, got)
		}
		if got := a.Xor(a); got != (Word{}) {
			t.Fatalf("a^a = %v, want 0", got)
		}
	}
}

func TestWord_PaddingAsymmetry(t *testing.T) {
	data := []byte{0x12, 0x34}

	numeric := WordFromBytes(data)
	if numeric.Uint64() != 0x1234 {
		t.Errorf("numeric widening must left-pad, got %v", numeric)
	}

	sequence := WordFromData(data)
	if sequence[0] != 0x12 || sequence[1] != 0x34 || sequence[31] != 0 {
		t.Errorf("byte-sequence widening must right-pad, got %v", sequence)
	}

	if numeric == sequence {
		t.Errorf("numeric and sequence widening must differ for %x", data)
	}
}

func TestWord_TruncationTakesLowOrderBytes(t *testing.T) {
	w := NewWord(0x1122334455667788)

	if got := w.LowBytes(2); !bytes.Equal(got, []byte{0x77, 0x88}) {
		t.Errorf("LowBytes(2) = %x, want 7788", got)
	}
	if got := w.LowBytes(40); !bytes.Equal(got, w.Bytes()) {
		t.Errorf("LowBytes beyond width must return the full word")
	}

	long := make([]byte, 40)
	long[0] = 0xff // dropped by the truncating conversion
	long[39] = 0x01
	if got := WordFromBytes(long); got != NewWord(1) {
		t.Errorf("numeric truncation must take low-order bytes, got %v", got)
	}
}

func TestWord_Uint256RoundTrip(t *testing.T) {
	rnd := rand.New(0)
	for i := 0; i < 100; i++ {
		w := randomWord(rnd)
		if got := WordFromUint256(w.ToUint256()); got != w {
			t.Fatalf("uint256 round trip of %v yields %v", w, got)
		}
	}
	if got := WordFromUint256(nil); got != (Word{}) {
		t.Errorf("nil uint256 must convert to the zero word")
	}
}

func TestWord_Exp(t *testing.T) {
	if got := NewWord(2).Exp(NewWord(10)); got != NewWord(1024) {
		t.Errorf("2^10 = %v, want 1024", got)
	}
	if got := NewWord(0).Exp(NewWord(0)); got != NewWord(1) {
		t.Errorf("0^0 = %v, want 1", got)
	}
}

func TestWord_Uint64Properties(t *testing.T) {
	if !NewWord(42).IsUint64() {
		t.Errorf("42 must fit a uint64")
	}
	if MaxWord().IsUint64() {
		t.Errorf("MAX must not fit a uint64")
	}
	if got := NewWord(42).Uint64(); got != 42 {
		t.Errorf("Uint64() = %d, want 42", got)
	}
}

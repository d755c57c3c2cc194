// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package mvm

import (
	"bytes"
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/operavm/nabucco/nabucco"
)

func TestMemory_ExpansionCostsGrowQuadratically(t *testing.T) {
	tests := []struct {
		size uint64
		want nabucco.Gas
	}{
		{0, 0},
		{1, 3},
		{32, 3},
		{33, 6},
		{64, 6},
		{65, 9},
		{22 * 32, 66},          // last linear-dominated size
		{23 * 32, 70},          // quadratic component becomes visible
		{maxMemoryExpansionSize + 1, math.MaxInt64},
		{math.MaxUint64, math.MaxInt64},
	}

	for _, test := range tests {
		m := NewMemory()
		if got := m.getExpansionCosts(test.size); got != test.want {
			t.Errorf("getExpansionCosts(%d) = %d, want %d", test.size, got, test.want)
		}
	}
}

func TestMemory_ExpansionIsChargedOnlyForTheDelta(t *testing.T) {
	ctxt := &context{gas: 100}
	m := NewMemory()

	if err := m.expandMemory(0, 32, ctxt); err != nil {
		t.Fatalf("first expansion failed: %v", err)
	}
	if ctxt.gas != 97 {
		t.Fatalf("unexpected gas after first expansion: %d", ctxt.gas)
	}

	if err := m.expandMemory(32, 32, ctxt); err != nil {
		t.Fatalf("second expansion failed: %v", err)
	}
	if ctxt.gas != 94 {
		t.Errorf("unexpected gas after second expansion: %d", ctxt.gas)
	}
	if m.length() != 64 {
		t.Errorf("unexpected memory length: %d", m.length())
	}
}

func TestMemory_ExpansionRoundsUpToFullWords(t *testing.T) {
	ctxt := &context{gas: 100}
	m := NewMemory()

	if err := m.expandMemory(0, 1, ctxt); err != nil {
		t.Fatalf("expansion failed: %v", err)
	}
	if m.length() != 32 {
		t.Errorf("memory size not a multiple of the word size: %d", m.length())
	}
}

func TestMemory_ZeroSizeAccessDoesNotExpand(t *testing.T) {
	ctxt := &context{gas: 0}
	m := NewMemory()

	data, err := m.getSlice(math.MaxUint64, 0, ctxt)
	if err != nil {
		t.Fatalf("zero-sized access failed: %v", err)
	}
	if data != nil || m.length() != 0 {
		t.Errorf("zero-sized access expanded the memory")
	}
}

func TestMemory_ExpansionFailsOnInsufficientGas(t *testing.T) {
	ctxt := &context{gas: 2}
	m := NewMemory()

	if err := m.expandMemory(0, 32, ctxt); err != errOutOfGas {
		t.Errorf("expected out of gas, got %v", err)
	}
	if m.length() != 0 {
		t.Errorf("memory was expanded although charging failed")
	}
}

func TestMemory_ExpansionFailsOnOffsetOverflow(t *testing.T) {
	ctxt := &context{gas: 100}
	m := NewMemory()

	if err := m.expandMemory(math.MaxUint64, 2, ctxt); err != errGasUintOverflow {
		t.Errorf("expected gas overflow error, got %v", err)
	}
}

func TestMemory_SetAndReadWordRoundTrip(t *testing.T) {
	ctxt := &context{gas: 100}
	m := NewMemory()

	value := uint256.NewInt(0xdeadbeef)
	data := value.Bytes32()
	if err := m.set(8, data[:], ctxt); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	var restored uint256.Int
	if err := m.readWord(8, &restored, ctxt); err != nil {
		t.Fatalf("readWord failed: %v", err)
	}
	if restored != *value {
		t.Errorf("round trip changed value: %v != %v", &restored, value)
	}
}

func TestMemory_UntouchedMemoryReadsAsZero(t *testing.T) {
	ctxt := &context{gas: 100}
	m := NewMemory()

	data, err := m.getSlice(0, 32, ctxt)
	if err != nil {
		t.Fatalf("getSlice failed: %v", err)
	}
	if !bytes.Equal(data, make([]byte, 32)) {
		t.Errorf("fresh memory is not zero initialized: %x", data)
	}
}

func TestMemory_CopyDataPadsWithZeros(t *testing.T) {
	ctxt := &context{gas: 100}
	m := NewMemory()
	if err := m.set(0, []byte{1, 2, 3}, ctxt); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	target := make([]byte, 4)
	m.copyData(1, target)
	if !bytes.Equal(target, []byte{2, 3, 0, 0}) {
		t.Errorf("unexpected copy result: %v", target)
	}

	m.copyData(100, target)
	if !bytes.Equal(target, []byte{0, 0, 0, 0}) {
		t.Errorf("out of range copy not zero padded: %v", target)
	}
}

// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package mvm

import (
	"strings"
	"testing"
)

func TestOpCode_StringNamesAreUnique(t *testing.T) {
	seen := map[string]OpCode{}
	for i := 0; i < numOpCodes; i++ {
		op := OpCode(i)
		name := op.String()
		if strings.HasPrefix(name, "op(") {
			continue
		}
		if prev, found := seen[name]; found {
			t.Errorf("OpCodes %v and %v share the name %q", prev, op, name)
		}
		seen[name] = op
	}
}

func TestOpCode_StringOfSelectedOpCodes(t *testing.T) {
	tests := map[OpCode]string{
		STOP:    "STOP",
		PUSH0:   "PUSH0",
		PUSH1:   "PUSH1",
		PUSH32:  "PUSH32",
		DUP1:    "DUP1",
		SWAP16:  "SWAP16",
		JUMP_TO: "JUMP_TO",
		NOOP:    "NOOP",
		DATA:    "DATA",
		INVALID: "INVALID",
	}

	for op, want := range tests {
		if got := op.String(); got != want {
			t.Errorf("String() of %d = %q, want %q", uint16(op), got, want)
		}
	}
}

func TestOpCode_UndefinedOpCodesArePrintedNumerically(t *testing.T) {
	if got := OpCode(0xEF).String(); got != "op(0x00EF)" {
		t.Errorf("unexpected name for undefined OpCode: %q", got)
	}
}

func TestOpCode_HasArgument(t *testing.T) {
	withArgument := []OpCode{PUSH1, PUSH2, PUSH32, DATA, JUMP_TO, PC}
	withoutArgument := []OpCode{STOP, ADD, JUMPDEST, NOOP, CALL, INVALID}

	for _, op := range withArgument {
		if !op.HasArgument() {
			t.Errorf("%v should have an argument", op)
		}
	}
	for _, op := range withoutArgument {
		if op.HasArgument() {
			t.Errorf("%v should not have an argument", op)
		}
	}
}

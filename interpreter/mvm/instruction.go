// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package mvm

import (
	"bytes"
	"fmt"
)

// Instruction encodes a single instruction of the machine's internal code
// format. Instructions are fixed-width, carrying an optional 16-bit
// immediate argument. Wider immediates are spread over trailing DATA
// instructions.
type Instruction struct {
	// The op-code of this instruction.
	opcode OpCode
	// An argument value for this instruction.
	arg uint16
}

// Code is a sequence of instructions in the machine's internal format.
type Code []Instruction

func (i Instruction) String() string {
	if i.opcode.HasArgument() {
		return fmt.Sprintf("%v 0x%04x", i.opcode, i.arg)
	}
	return i.opcode.String()
}

func (c Code) String() string {
	var buffer bytes.Buffer
	for i, instruction := range c {
		buffer.WriteString(fmt.Sprintf("0x%04x: %v\n", i, instruction))
	}
	return buffer.String()
}

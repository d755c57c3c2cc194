// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package mvm

import "fmt"

type OpCode uint16

// opCodeMask defines the relevant trailing bits of an OpCode. Any two OpCodes
// with the same value when masked with opCodeMask are considered equal.
//
// The instruction set of the machine contains a number of OpCodes that are
// not part of the original byte code format. For those, values beyond the
// range [0-255] of single-byte OpCodes are used, requiring a 16-bit OpCode
// type. To keep property lookup tables small, only the trailing 9 bits are
// considered relevant.
const opCodeMask = 0x1ff

// numOpCodes is the maximum number of OpCodes that can be defined.
const numOpCodes = opCodeMask + 1

// The following constants define the OpCodes of the byte code format.
const (
	// Control flow
	STOP     OpCode = 0x00
	JUMP     OpCode = 0x56
	JUMPI    OpCode = 0x57
	PC       OpCode = 0x58
	JUMPDEST OpCode = 0x5B
	RETURN   OpCode = 0xF3
	REVERT   OpCode = 0xFD

	// Arithmetic
	ADD        OpCode = 0x01
	MUL        OpCode = 0x02
	SUB        OpCode = 0x03
	DIV        OpCode = 0x04
	SDIV       OpCode = 0x05
	MOD        OpCode = 0x06
	SMOD       OpCode = 0x07
	ADDMOD     OpCode = 0x08
	MULMOD     OpCode = 0x09
	EXP        OpCode = 0x0A
	SIGNEXTEND OpCode = 0x0B

	// Comparison operations
	LT     OpCode = 0x10
	GT     OpCode = 0x11
	SLT    OpCode = 0x12
	SGT    OpCode = 0x13
	EQ     OpCode = 0x14
	ISZERO OpCode = 0x15

	// Bit-pattern operations
	AND  OpCode = 0x16
	OR   OpCode = 0x17
	XOR  OpCode = 0x18
	NOT  OpCode = 0x19
	BYTE OpCode = 0x1A
	SHL  OpCode = 0x1B
	SHR  OpCode = 0x1C
	SAR  OpCode = 0x1D

	// Hashing
	SHA3 OpCode = 0x20

	// Environment
	ADDRESS        OpCode = 0x30
	BALANCE        OpCode = 0x31
	ORIGIN         OpCode = 0x32
	CALLER         OpCode = 0x33
	CALLVALUE      OpCode = 0x34
	CALLDATALOAD   OpCode = 0x35
	CALLDATASIZE   OpCode = 0x36
	CALLDATACOPY   OpCode = 0x37
	CODESIZE       OpCode = 0x38
	CODECOPY       OpCode = 0x39
	GASPRICE       OpCode = 0x3A
	EXTCODESIZE    OpCode = 0x3B
	EXTCODECOPY    OpCode = 0x3C
	RETURNDATASIZE OpCode = 0x3D
	RETURNDATACOPY OpCode = 0x3E
	EXTCODEHASH    OpCode = 0x3F

	// Block context
	COINBASE    OpCode = 0x41
	TIMESTAMP   OpCode = 0x42
	NUMBER      OpCode = 0x43
	PREVRANDAO  OpCode = 0x44
	GASLIMIT    OpCode = 0x45
	CHAINID     OpCode = 0x46
	SELFBALANCE OpCode = 0x47
	BASEFEE     OpCode = 0x48

	// Memory and storage
	POP     OpCode = 0x50
	MLOAD   OpCode = 0x51
	MSTORE  OpCode = 0x52
	MSTORE8 OpCode = 0x53
	SLOAD   OpCode = 0x54
	SSTORE  OpCode = 0x55
	MSIZE   OpCode = 0x59
	GAS     OpCode = 0x5A
	MCOPY   OpCode = 0x5E

	// Stack operations
	PUSH0  OpCode = 0x5F
	PUSH1  OpCode = 0x60
	PUSH2  OpCode = 0x61
	PUSH3  OpCode = 0x62
	PUSH4  OpCode = 0x63
	PUSH5  OpCode = 0x64
	PUSH6  OpCode = 0x65
	PUSH7  OpCode = 0x66
	PUSH8  OpCode = 0x67
	PUSH9  OpCode = 0x68
	PUSH10 OpCode = 0x69
	PUSH11 OpCode = 0x6A
	PUSH12 OpCode = 0x6B
	PUSH13 OpCode = 0x6C
	PUSH14 OpCode = 0x6D
	PUSH15 OpCode = 0x6E
	PUSH16 OpCode = 0x6F
	PUSH17 OpCode = 0x70
	PUSH18 OpCode = 0x71
	PUSH19 OpCode = 0x72
	PUSH20 OpCode = 0x73
	PUSH21 OpCode = 0x74
	PUSH22 OpCode = 0x75
	PUSH23 OpCode = 0x76
	PUSH24 OpCode = 0x77
	PUSH25 OpCode = 0x78
	PUSH26 OpCode = 0x79
	PUSH27 OpCode = 0x7A
	PUSH28 OpCode = 0x7B
	PUSH29 OpCode = 0x7C
	PUSH30 OpCode = 0x7D
	PUSH31 OpCode = 0x7E
	PUSH32 OpCode = 0x7F

	DUP1  OpCode = 0x80
	DUP2  OpCode = 0x81
	DUP3  OpCode = 0x82
	DUP4  OpCode = 0x83
	DUP5  OpCode = 0x84
	DUP6  OpCode = 0x85
	DUP7  OpCode = 0x86
	DUP8  OpCode = 0x87
	DUP9  OpCode = 0x88
	DUP10 OpCode = 0x89
	DUP11 OpCode = 0x8A
	DUP12 OpCode = 0x8B
	DUP13 OpCode = 0x8C
	DUP14 OpCode = 0x8D
	DUP15 OpCode = 0x8E
	DUP16 OpCode = 0x8F

	SWAP1  OpCode = 0x90
	SWAP2  OpCode = 0x91
	SWAP3  OpCode = 0x92
	SWAP4  OpCode = 0x93
	SWAP5  OpCode = 0x94
	SWAP6  OpCode = 0x95
	SWAP7  OpCode = 0x96
	SWAP8  OpCode = 0x97
	SWAP9  OpCode = 0x98
	SWAP10 OpCode = 0x99
	SWAP11 OpCode = 0x9A
	SWAP12 OpCode = 0x9B
	SWAP13 OpCode = 0x9C
	SWAP14 OpCode = 0x9D
	SWAP15 OpCode = 0x9E
	SWAP16 OpCode = 0x9F

	// Recursive calls
	CALL         OpCode = 0xF1
	CALLCODE     OpCode = 0xF2
	DELEGATECALL OpCode = 0xF4
	STATICCALL   OpCode = 0xFA

	// Invalid instruction
	INVALID OpCode = 0xFE
)

// The following constants define the extended instruction set produced by the
// code conversion. These OpCodes are not part of the byte code format.
const (
	// JUMP_TO is a special instruction that is used to jump to the end of the
	// current basic block.
	//
	// Since due to the usage of immediate arguments in instructions like PUSH2
	// the converted size of basic blocks can shrink compared to the original
	// byte code, gaps can appear between the end of a basic block and the
	// beginning of the next one indicated by a JUMPDEST instruction. Since all
	// JUMPDEST instructions have to remain at the same position in the code as
	// in the original byte code, since jump-destinations of JUMP and JUMPI
	// operations are computed dynamically, these gaps have to be filled with
	// NOOP instructions. To avoid having to process long sequences of NOOPs,
	// JUMP_TO instructions are used to skip them in a single step.
	//
	// The following restrictions are imposed on JUMP_TO instructions:
	//  - they must target the immediate succeeding JUMPDEST instruction
	//  - all instructions between the JUMP_TO and the JUMPDEST must be NOOPs
	//
	// These restrictions are enforced during the code conversion.
	JUMP_TO OpCode = iota + 0x100

	// NOOP is a special instruction that does nothing. It is used as a filler
	// instruction to pad basic blocks to the correct size.
	NOOP

	// DATA is a special instruction that is used to extend the size of OpCodes
	// that require more than the available 2-byte immediate arguments.
	// For instance, [PUSH4, 1, 2, 3, 4] in the original byte code gets
	// converted to [(PUSH4, 1<<8 | 2),(DATA, 3<<8 | 4)].
	// Since DATA is marked explicitly as such, jump-destination checks can be
	// conducted in O(1) by checking the OpCode of an instruction.
	DATA
)

var toString = map[OpCode]string{
	STOP: "STOP", JUMP: "JUMP", JUMPI: "JUMPI", PC: "PC",
	JUMPDEST: "JUMPDEST", RETURN: "RETURN", REVERT: "REVERT",

	ADD: "ADD", MUL: "MUL", SUB: "SUB", DIV: "DIV", SDIV: "SDIV",
	MOD: "MOD", SMOD: "SMOD", ADDMOD: "ADDMOD", MULMOD: "MULMOD",
	EXP: "EXP", SIGNEXTEND: "SIGNEXTEND",

	LT: "LT", GT: "GT", SLT: "SLT", SGT: "SGT", EQ: "EQ", ISZERO: "ISZERO",
	AND: "AND", OR: "OR", XOR: "XOR", NOT: "NOT", BYTE: "BYTE",
	SHL: "SHL", SHR: "SHR", SAR: "SAR",

	SHA3: "SHA3",

	ADDRESS: "ADDRESS", BALANCE: "BALANCE", ORIGIN: "ORIGIN",
	CALLER: "CALLER", CALLVALUE: "CALLVALUE", CALLDATALOAD: "CALLDATALOAD",
	CALLDATASIZE: "CALLDATASIZE", CALLDATACOPY: "CALLDATACOPY",
	CODESIZE: "CODESIZE", CODECOPY: "CODECOPY", GASPRICE: "GASPRICE",
	EXTCODESIZE: "EXTCODESIZE", EXTCODECOPY: "EXTCODECOPY",
	RETURNDATASIZE: "RETURNDATASIZE", RETURNDATACOPY: "RETURNDATACOPY",
	EXTCODEHASH: "EXTCODEHASH",

	COINBASE: "COINBASE", TIMESTAMP: "TIMESTAMP", NUMBER: "NUMBER",
	PREVRANDAO: "PREVRANDAO", GASLIMIT: "GASLIMIT", CHAINID: "CHAINID",
	SELFBALANCE: "SELFBALANCE", BASEFEE: "BASEFEE",

	POP: "POP", MLOAD: "MLOAD", MSTORE: "MSTORE", MSTORE8: "MSTORE8",
	SLOAD: "SLOAD", SSTORE: "SSTORE", MSIZE: "MSIZE", GAS: "GAS",
	MCOPY: "MCOPY",

	CALL: "CALL", CALLCODE: "CALLCODE", DELEGATECALL: "DELEGATECALL",
	STATICCALL: "STATICCALL",

	INVALID: "INVALID",

	JUMP_TO: "JUMP_TO", NOOP: "NOOP", DATA: "DATA",
}

// String returns the string representation of the OpCode.
func (o OpCode) String() string {
	if PUSH0 <= o && o <= PUSH32 {
		return fmt.Sprintf("PUSH%d", int(o)-int(PUSH0))
	}
	if DUP1 <= o && o <= DUP16 {
		return fmt.Sprintf("DUP%d", int(o)-int(DUP1)+1)
	}
	if SWAP1 <= o && o <= SWAP16 {
		return fmt.Sprintf("SWAP%d", int(o)-int(SWAP1)+1)
	}
	if str, ok := toString[o]; ok {
		return str
	}
	return fmt.Sprintf("op(0x%04X)", uint16(o))
}

// HasArgument returns true if the second 16-bit word of the instruction is
// argument data.
func (o OpCode) HasArgument() bool {
	if PUSH1 <= o && o <= PUSH32 {
		return true
	}
	switch o {
	case DATA, JUMP_TO, PC:
		return true
	}
	return false
}

// opCodePropertyMap is a generic property map for precomputed values.
// Its purpose is to provide a precomputed lookup table for OpCode properties
// that can be generated from a function that takes an OpCode as input.
type opCodePropertyMap[T any] struct {
	lookup [numOpCodes]T
}

// newOpCodePropertyMap creates a new OpCode property map. The property
// function shall be resilient to undefined OpCode values, and not panic. The
// zero value or a sentinel value shall be used in such cases.
func newOpCodePropertyMap[T any](property func(op OpCode) T) opCodePropertyMap[T] {
	lookup := [numOpCodes]T{}
	for i := 0; i < numOpCodes; i++ {
		lookup[i] = property(OpCode(i))
	}
	return opCodePropertyMap[T]{lookup}
}

func (p *opCodePropertyMap[T]) get(op OpCode) T {
	return p.lookup[op&opCodeMask]
}

// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package mvm

import (
	"fmt"
	"strings"
	"sync"

	"github.com/holiman/uint256"
)

const maxStackSize = 1024 // Maximum size of the operand stack allowed.

// stack is the 1024-element 256-bit word-wide operand stack of the machine.
// It is a fixed-size stack to prevent memory reallocation during execution.
// Boundaries are not checked. Users of the stack must prevent over- and
// underflow situations.
//
// Each stack consumes 1024 * 32 bytes = 32KB of memory. Thus, creating and
// destroying stacks could incur significant overhead. To mitigate this, a
// stack pool is provided to reuse stack instances. To obtain an empty stack
// from the pool, use NewStack(). To return a stack to the pool, use
// ReturnStack(s).
//
// The stack is not thread-safe. NewStack() and ReturnStack() are thread-safe.
type stack struct {
	data         [maxStackSize]uint256.Int
	stackPointer int
}

// push adds a copy of the given value to the top of the stack.
func (s *stack) push(d *uint256.Int) {
	s.data[s.stackPointer] = *d
	s.stackPointer++
}

// pushUndefined adds a value with an undefined content to the top of the
// stack and returns a pointer to this element. Use this function if the
// element on the top of the stack is directly set through the returned
// pointer.
func (s *stack) pushUndefined() *uint256.Int {
	s.stackPointer++
	return &s.data[s.stackPointer-1]
}

// pop removes the top element from the stack and returns a pointer to it. The
// obtained pointer is only valid until the next push operation.
func (s *stack) pop() *uint256.Int {
	s.stackPointer--
	return &s.data[s.stackPointer]
}

// peek returns a pointer to the top element of the stack without removing it.
// The returned pointer is only valid until the next operation on the stack.
func (s *stack) peek() *uint256.Int {
	return &s.data[s.len()-1]
}

// peekN returns a pointer to the n-th element from the top of the stack
// without removing it. The top element is at index 0. Thus, peekN(0) is
// equivalent to peek().
func (s *stack) peekN(n int) *uint256.Int {
	return &s.data[s.len()-n-1]
}

// len returns the number of elements on the stack.
func (s *stack) len() int {
	return s.stackPointer
}

// swap exchanges the top element with the n-th element from the top. The top
// element is at index 0. Thus, swap(0) is a no-op.
func (s *stack) swap(n int) {
	s.data[s.len()-n-1], s.data[s.len()-1] = s.data[s.len()-1], s.data[s.len()-n-1]
}

// dup duplicates the n-th element from the top and pushes it to the top of
// the stack. The top element is at index 0.
func (s *stack) dup(n int) {
	s.data[s.stackPointer] = s.data[s.stackPointer-n-1]
	s.stackPointer++
}

func (s *stack) String() string {
	toHex := func(z *uint256.Int) string {
		b := strings.Builder{}
		b.WriteString("0x")
		bytes := z.Bytes32()
		for i, cur := range bytes {
			b.WriteString(fmt.Sprintf("%02x", cur))
			if (i+1)%8 == 0 {
				b.WriteString(" ")
			}
		}
		return b.String()
	}

	b := strings.Builder{}
	for i := 0; i < s.len(); i++ {
		b.WriteString(fmt.Sprintf("    [%4d] %v\n", s.len()-i-1, toHex(s.peekN(i))))
	}
	return b.String()
}

// ------------------ Stack Pool ------------------

var stackPool = sync.Pool{
	New: func() interface{} {
		return &stack{}
	},
}

// NewStack returns a new stack instance from a reuse pool. Heavy stack users
// should use this function to prevent memory reallocation overhead.
// This function is thread-safe.
func NewStack() *stack {
	return stackPool.Get().(*stack)
}

// ReturnStack returns the stack to the reuse pool. Any stack may only be
// returned once to avoid concurrent re-use. This is not checked internally.
// This function is thread-safe.
func ReturnStack(s *stack) {
	s.stackPointer = 0
	stackPool.Put(s)
}

// ------------------ Stack Boundaries ------------------

// stackLimits defines the stack size bounds of a single OpCode.
type stackLimits struct {
	min int // The minimum stack size required by an OpCode.
	max int // The maximum stack size allowed before running an OpCode.
}

// stackUsage describes how many elements an OpCode pops from and pushes to
// the stack.
type stackUsage struct {
	popped, pushed int
}

// checkStackLimits checks that the OpCode will not make an out of bounds
// access with the current stack size.
func checkStackLimits(stackLen int, op OpCode) error {
	limits := precomputedStackLimits.get(op)
	if stackLen < limits.min {
		return errStackUnderflow
	}
	if stackLen > limits.max {
		return errStackOverflow
	}
	return nil
}

var precomputedStackLimits = newOpCodePropertyMap(func(op OpCode) stackLimits {
	usage := getStackUsage(op)
	max := maxStackSize
	if grow := usage.pushed - usage.popped; grow > 0 {
		max = maxStackSize - grow
	}
	return stackLimits{min: usage.popped, max: max}
})

func getStackUsage(op OpCode) stackUsage {
	if PUSH1 <= op && op <= PUSH32 {
		return stackUsage{0, 1}
	}
	if DUP1 <= op && op <= DUP16 {
		return stackUsage{int(op) - int(DUP1) + 1, int(op) - int(DUP1) + 2}
	}
	if SWAP1 <= op && op <= SWAP16 {
		n := int(op) - int(SWAP1) + 2
		return stackUsage{n, n}
	}

	switch op {
	case ADD, SUB, MUL, DIV, SDIV, MOD, SMOD, EXP, SIGNEXTEND,
		SHA3, LT, GT, SLT, SGT, EQ, AND, XOR, OR, BYTE,
		SHL, SHR, SAR:
		return stackUsage{2, 1}
	case ADDMOD, MULMOD:
		return stackUsage{3, 1}
	case ISZERO, NOT, BALANCE, CALLDATALOAD, EXTCODESIZE,
		EXTCODEHASH, MLOAD, SLOAD:
		return stackUsage{1, 1}
	case PUSH0, MSIZE, ADDRESS, ORIGIN, CALLER, CALLVALUE, CALLDATASIZE,
		CODESIZE, GASPRICE, COINBASE, TIMESTAMP, NUMBER,
		PREVRANDAO, GASLIMIT, PC, GAS, RETURNDATASIZE,
		SELFBALANCE, CHAINID, BASEFEE:
		return stackUsage{0, 1}
	case POP, JUMP:
		return stackUsage{1, 0}
	case MSTORE, MSTORE8, SSTORE, JUMPI, RETURN, REVERT:
		return stackUsage{2, 0}
	case CALLDATACOPY, CODECOPY, RETURNDATACOPY, MCOPY:
		return stackUsage{3, 0}
	case EXTCODECOPY:
		return stackUsage{4, 0}
	case CALL, CALLCODE:
		return stackUsage{7, 1}
	case STATICCALL, DELEGATECALL:
		return stackUsage{6, 1}
	}
	return stackUsage{0, 0}
}

// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package nabucco

import "fmt"

//go:generate mockgen -source interpreter.go -destination interpreter_mock.go -package nabucco

// Interpreter is a component capable of executing byte-code. It is the main
// part of the engine, though a full engine adds the ability to handle
// recursive contract calls and transaction handling.
// To obtain an Interpreter instance, client code should use NewInterpreter()
// provided by the registry file in this package.
type Interpreter interface {
	// Run executes the code provided by the parameters in the specified
	// context and returns the processing result. The resulting error is nil
	// whenever the code was correctly executed, even if the execution ended
	// in a revert or a fault; those outcomes are reported through the
	// result's Status. The error is not nil only if some problem within the
	// interpreter caused the execution to fail to process the provided
	// program. In such a case the result is undefined.
	// Interpreters are required to be thread-safe. Thus, multiple runs may
	// be conducted in parallel.
	Run(Parameters) (Result, error)
}

// Parameters summarizes the list of input parameters required for executing
// code.
type Parameters struct {
	BlockParameters
	TransactionParameters
	Context   RunContext
	Kind      CallKind
	Static    bool
	Depth     int
	Gas       Gas
	Recipient Address
	Sender    Address
	Input     Data
	Value     Value
	CodeHash  *Hash
	Code      Code
}

// BlockParameters contains information about the current block.
type BlockParameters struct {
	ChainID     Word
	BlockNumber int64
	Timestamp   int64
	Coinbase    Address
	GasLimit    Gas
	PrevRandao  Hash
	BaseFee     Value
}

// TransactionParameters contains information about the current transaction.
type TransactionParameters struct {
	Origin   Address
	GasPrice Value
}

// RunContext provides an interface to access and manipulate state and
// transaction properties as needed by individual instructions. The Call
// operation is the external-call dispatcher the engine delegates nested
// invocations to.
type RunContext interface {
	TransactionContext

	Call(kind CallKind, parameters CallParameters) (CallResult, error)
}

// TransactionContext is an interface to access and manipulate the world
// state within a transaction. All modifications on the world state are
// buffered in a transaction context, which can be snapshot and restored.
// The mutation discipline is strict nesting: a child context's pending
// changes become visible to its parent only if the child completes without
// reverting, and they are discarded by restoring the snapshot taken at
// child entry otherwise.
type TransactionContext interface {
	WorldState

	CreateSnapshot() Snapshot
	RestoreSnapshot(Snapshot)
}

// RunStatus describes the terminal state of an execution. Every run ends in
// exactly one of the listed states, and the state is observable by the
// caller together with a concrete reason code for failures.
type RunStatus byte

const (
	StatusHalted   RunStatus = iota // < execution ended with a STOP
	StatusReturned                  // < execution ended with a RETURN
	StatusReverted                  // < execution ended with a deliberate REVERT
	StatusFailed                    // < execution ended with a fault
)

func (s RunStatus) String() string {
	switch s {
	case StatusHalted:
		return "halted"
	case StatusReturned:
		return "returned"
	case StatusReverted:
		return "reverted"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("RunStatus(%d)", byte(s))
}

// FaultCode is a fixed numeric code identifying the internal-invariant
// violation or resource exhaustion that terminated an execution. Unlike a
// deliberate revert, a fault never carries a payload.
type FaultCode byte

const (
	FaultNone FaultCode = iota
	FaultStackUnderflow
	FaultStackOverflow
	FaultOutOfGas
	FaultInvalidInstruction
	FaultInvalidJump
	FaultMemoryOverflow
	FaultStaticContextViolation
	FaultCallDepthExceeded
)

func (f FaultCode) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultStackUnderflow:
		return "stack underflow"
	case FaultStackOverflow:
		return "stack overflow"
	case FaultOutOfGas:
		return "out of gas"
	case FaultInvalidInstruction:
		return "invalid instruction"
	case FaultInvalidJump:
		return "invalid jump destination"
	case FaultMemoryOverflow:
		return "memory offset overflow"
	case FaultStaticContextViolation:
		return "write in static context"
	case FaultCallDepthExceeded:
		return "call depth exceeded"
	}
	return fmt.Sprintf("FaultCode(%d)", byte(f))
}

// Result summarizes the result of a code execution.
type Result struct {
	Status    RunStatus
	Output    Data // return data of a RETURN, or the payload of a REVERT
	GasLeft   Gas
	GasRefund Gas
	Fault     FaultCode // set if and only if Status is StatusFailed
}

// Success returns true if the execution ended in a regular halt or return,
// false if it was reverted or faulted.
func (r Result) Success() bool {
	return r.Status == StatusHalted || r.Status == StatusReturned
}

// Data represents the input or output of contract invocations.
type Data []byte

// Gas represents the type used to represent gas values.
type Gas int64

// Snapshot identifies a recoverable point in the pending change-set of a
// transaction context.
type Snapshot int

// CallKind is an enum enabling the differentiation of the different types
// of recursive contract calls supported by the engine.
type CallKind int

const (
	Call CallKind = iota
	DelegateCall
	StaticCall
	CallCode
)

func (k CallKind) String() string {
	switch k {
	case Call:
		return "call"
	case StaticCall:
		return "static_call"
	case DelegateCall:
		return "delegate_call"
	case CallCode:
		return "call_code"
	default:
		return "unknown"
	}
}

type CallParameters struct {
	Sender      Address
	Recipient   Address // < the account whose storage the callee runs on
	Value       Value   // < ignored by static and delegate calls
	Input       Data
	Gas         Gas
	CodeAddress Address // < the account whose code is executed
}

type CallResult struct {
	Output  Data
	GasLeft Gas
	// GasRefund is the accumulated refund of the nested execution; it is
	// only merged into the caller on success.
	GasRefund Gas
	Success   bool // false if the execution ended in a revert or fault
}

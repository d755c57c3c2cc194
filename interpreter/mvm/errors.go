// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package mvm

import "github.com/operavm/nabucco/nabucco"

const (
	errGasUintOverflow        = nabucco.ConstError("gas uint64 overflow")
	errInvalidInstruction     = nabucco.ConstError("invalid instruction")
	errInvalidJump            = nabucco.ConstError("invalid jump destination")
	errOutOfGas               = nabucco.ConstError("out of gas")
	errOverflow               = nabucco.ConstError("offset or size overflow")
	errReturnDataOutOfBounds  = nabucco.ConstError("return data out of bounds")
	errStackOverflow          = nabucco.ConstError("stack overflow")
	errStackUnderflow         = nabucco.ConstError("stack underflow")
	errStaticContextViolation = nabucco.ConstError("write protection")
)

// faultFor classifies an execution violation reported by the instruction
// dispatch loop. The resulting code is reported to the caller as part of a
// failed execution result.
func faultFor(err error) nabucco.FaultCode {
	switch err {
	case errStackUnderflow:
		return nabucco.FaultStackUnderflow
	case errStackOverflow:
		return nabucco.FaultStackOverflow
	case errOutOfGas:
		return nabucco.FaultOutOfGas
	case errInvalidJump:
		return nabucco.FaultInvalidJump
	case errGasUintOverflow, errOverflow, errReturnDataOutOfBounds:
		return nabucco.FaultMemoryOverflow
	case errStaticContextViolation:
		return nabucco.FaultStaticContextViolation
	default:
		return nabucco.FaultInvalidInstruction
	}
}

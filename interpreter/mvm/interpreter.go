// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package mvm

import (
	"fmt"

	"github.com/operavm/nabucco/nabucco"
)

// status is an enumeration of the execution state of an interpreter run.
type status byte

const (
	statusRunning  status = iota // < all fine, ops are processed
	statusStopped                // < execution stopped with a STOP
	statusReverted               // < execution stopped with a REVERT
	statusReturned               // < execution stopped with a RETURN
)

// context is the execution environment of an interpreter run. It contains all
// the necessary state to execute a contract, including input parameters, the
// contract code, and internal execution state such as the program counter,
// stack, and memory. For each contract execution, a new context is created.
type context struct {
	// Inputs
	params  nabucco.Parameters
	context nabucco.RunContext
	code    Code // the contract code in converted format
	hasher  func([]byte) nabucco.Hash

	// Execution state
	pc     int32
	gas    nabucco.Gas
	refund nabucco.Gas
	stack  *stack
	memory *Memory

	// Intermediate data
	returnData []byte // < the result of the last nested contract call
}

// useGas reduces the gas level by the given amount. If the gas level drops
// below zero, the returned error signals the execution fault and the caller
// must stop the execution.
func (c *context) useGas(amount nabucco.Gas) error {
	if c.gas < 0 || amount < 0 || c.gas < amount {
		return errOutOfGas
	}
	c.gas -= amount
	return nil
}

// --- Interpreter ---

type runner interface {
	// run executes the contract code in the given context.
	// The returned error reports execution violations such as running out of
	// gas or a stack underflow; the returned status is only meaningful for a
	// nil error.
	run(*context) (status, error)
}

type interpreterConfig struct {
	runner runner
	hasher func([]byte) nabucco.Hash
}

func run(
	config interpreterConfig,
	params nabucco.Parameters,
	code Code,
) (nabucco.Result, error) {
	// Don't bother with the execution if there's no code.
	if len(code) == 0 {
		return nabucco.Result{
			Status:  nabucco.StatusHalted,
			GasLeft: params.Gas,
		}, nil
	}

	// Set up execution context.
	var ctxt = context{
		params:  params,
		context: params.Context,
		gas:     params.Gas,
		stack:   NewStack(),
		memory:  NewMemory(),
		code:    code,
		hasher:  config.hasher,
	}
	defer ReturnStack(ctxt.stack)

	if ctxt.hasher == nil {
		ctxt.hasher = Keccak256
	}
	if config.runner == nil {
		config.runner = vanillaRunner{}
	}
	status, err := config.runner.run(&ctxt)
	if err != nil {
		// Execution violations consume all gas and discard all effects of
		// the frame; they are regular outcomes, not runtime errors.
		return nabucco.Result{
			Status: nabucco.StatusFailed,
			Fault:  faultFor(err),
		}, nil
	}

	return generateResult(status, &ctxt)
}

func generateResult(status status, ctxt *context) (nabucco.Result, error) {
	switch status {
	case statusStopped:
		return nabucco.Result{
			Status:    nabucco.StatusHalted,
			GasLeft:   ctxt.gas,
			GasRefund: ctxt.refund,
		}, nil
	case statusReturned:
		return nabucco.Result{
			Status:    nabucco.StatusReturned,
			Output:    ctxt.returnData,
			GasLeft:   ctxt.gas,
			GasRefund: ctxt.refund,
		}, nil
	case statusReverted:
		// A revert returns its output and remaining gas, but forfeits all
		// accumulated refunds.
		return nabucco.Result{
			Status:  nabucco.StatusReverted,
			Output:  ctxt.returnData,
			GasLeft: ctxt.gas,
		}, nil
	default:
		return nabucco.Result{}, fmt.Errorf("unexpected error in interpreter, unknown status: %v", status)
	}
}

// --- Runners ---

// vanillaRunner is the default runner that executes the contract code without
// any additional features.
type vanillaRunner struct{}

func (r vanillaRunner) run(c *context) (status, error) {
	return steps(c, false)
}

// step executes the single instruction pointed to by the program counter.
func step(c *context) (status, error) {
	return steps(c, true)
}

// steps executes the contract code in the given context. If oneStepOnly is
// true, only the instruction pointed to by the program counter will be
// executed. It returns the status of the execution and an error if the
// contract execution yields any execution violation (i.e. out of gas, stack
// underflow, etc).
func steps(c *context, oneStepOnly bool) (status, error) {
	status := statusRunning
	for status == statusRunning {
		if int(c.pc) >= len(c.code) {
			return statusStopped, nil
		}

		op := c.code[c.pc].opcode

		// Check stack boundaries for every instruction
		if err := checkStackLimits(c.stack.len(), op); err != nil {
			return status, err
		}

		// Consume static gas price for the instruction before execution
		if err := c.useGas(staticGasPrices.get(op)); err != nil {
			return status, err
		}

		var err error

		// Execute instruction
		switch op {
		case POP:
			opPop(c)
		case PUSH0:
			opPush0(c)
		case PUSH1:
			opPush1(c)
		case PUSH2:
			opPush2(c)
		case PUSH3:
			opPush3(c)
		case PUSH4:
			opPush4(c)
		case PUSH5:
			opPush(c, 5)
		case PUSH6:
			opPush(c, 6)
		case PUSH7:
			opPush(c, 7)
		case PUSH8:
			opPush(c, 8)
		case PUSH9:
			opPush(c, 9)
		case PUSH10:
			opPush(c, 10)
		case PUSH11:
			opPush(c, 11)
		case PUSH12:
			opPush(c, 12)
		case PUSH13:
			opPush(c, 13)
		case PUSH14:
			opPush(c, 14)
		case PUSH15:
			opPush(c, 15)
		case PUSH16:
			opPush(c, 16)
		case PUSH17:
			opPush(c, 17)
		case PUSH18:
			opPush(c, 18)
		case PUSH19:
			opPush(c, 19)
		case PUSH20:
			opPush(c, 20)
		case PUSH21:
			opPush(c, 21)
		case PUSH22:
			opPush(c, 22)
		case PUSH23:
			opPush(c, 23)
		case PUSH24:
			opPush(c, 24)
		case PUSH25:
			opPush(c, 25)
		case PUSH26:
			opPush(c, 26)
		case PUSH27:
			opPush(c, 27)
		case PUSH28:
			opPush(c, 28)
		case PUSH29:
			opPush(c, 29)
		case PUSH30:
			opPush(c, 30)
		case PUSH31:
			opPush(c, 31)
		case PUSH32:
			opPush32(c)
		case JUMP:
			err = opJump(c)
		case JUMPI:
			err = opJumpi(c)
		case JUMPDEST:
			// nothing
		case JUMP_TO:
			opJumpTo(c)
		case NOOP:
			// nothing
		case SWAP1:
			opSwap(c, 1)
		case SWAP2:
			opSwap(c, 2)
		case SWAP3:
			opSwap(c, 3)
		case SWAP4:
			opSwap(c, 4)
		case SWAP5:
			opSwap(c, 5)
		case SWAP6:
			opSwap(c, 6)
		case SWAP7:
			opSwap(c, 7)
		case SWAP8:
			opSwap(c, 8)
		case SWAP9:
			opSwap(c, 9)
		case SWAP10:
			opSwap(c, 10)
		case SWAP11:
			opSwap(c, 11)
		case SWAP12:
			opSwap(c, 12)
		case SWAP13:
			opSwap(c, 13)
		case SWAP14:
			opSwap(c, 14)
		case SWAP15:
			opSwap(c, 15)
		case SWAP16:
			opSwap(c, 16)
		case DUP1:
			opDup(c, 1)
		case DUP2:
			opDup(c, 2)
		case DUP3:
			opDup(c, 3)
		case DUP4:
			opDup(c, 4)
		case DUP5:
			opDup(c, 5)
		case DUP6:
			opDup(c, 6)
		case DUP7:
			opDup(c, 7)
		case DUP8:
			opDup(c, 8)
		case DUP9:
			opDup(c, 9)
		case DUP10:
			opDup(c, 10)
		case DUP11:
			opDup(c, 11)
		case DUP12:
			opDup(c, 12)
		case DUP13:
			opDup(c, 13)
		case DUP14:
			opDup(c, 14)
		case DUP15:
			opDup(c, 15)
		case DUP16:
			opDup(c, 16)
		case ADD:
			opAdd(c)
		case SUB:
			opSub(c)
		case MUL:
			opMul(c)
		case DIV:
			opDiv(c)
		case SDIV:
			opSDiv(c)
		case MOD:
			opMod(c)
		case SMOD:
			opSMod(c)
		case ADDMOD:
			opAddMod(c)
		case MULMOD:
			opMulMod(c)
		case EXP:
			err = opExp(c)
		case SIGNEXTEND:
			opSignExtend(c)
		case LT:
			opLt(c)
		case GT:
			opGt(c)
		case SLT:
			opSlt(c)
		case SGT:
			opSgt(c)
		case EQ:
			opEq(c)
		case ISZERO:
			opIszero(c)
		case AND:
			opAnd(c)
		case OR:
			opOr(c)
		case XOR:
			opXor(c)
		case NOT:
			opNot(c)
		case BYTE:
			opByte(c)
		case SHL:
			opShl(c)
		case SHR:
			opShr(c)
		case SAR:
			opSar(c)
		case SHA3:
			err = opSha3(c)
		case ADDRESS:
			opAddress(c)
		case BALANCE:
			opBalance(c)
		case ORIGIN:
			opOrigin(c)
		case CALLER:
			opCaller(c)
		case CALLVALUE:
			opCallvalue(c)
		case CALLDATALOAD:
			opCallDataload(c)
		case CALLDATASIZE:
			opCallDatasize(c)
		case CALLDATACOPY:
			err = genericDataCopy(c, c.params.Input)
		case CODESIZE:
			opCodeSize(c)
		case CODECOPY:
			err = genericDataCopy(c, c.params.Code)
		case GASPRICE:
			opGasPrice(c)
		case EXTCODESIZE:
			opExtcodesize(c)
		case EXTCODECOPY:
			err = opExtCodeCopy(c)
		case EXTCODEHASH:
			opExtcodehash(c)
		case RETURNDATASIZE:
			opReturnDataSize(c)
		case RETURNDATACOPY:
			err = opReturnDataCopy(c)
		case COINBASE:
			opCoinbase(c)
		case TIMESTAMP:
			opTimestamp(c)
		case NUMBER:
			opNumber(c)
		case PREVRANDAO:
			opPrevRandao(c)
		case GASLIMIT:
			opGasLimit(c)
		case CHAINID:
			opChainId(c)
		case SELFBALANCE:
			opSelfbalance(c)
		case BASEFEE:
			opBaseFee(c)
		case MLOAD:
			err = opMload(c)
		case MSTORE:
			err = opMstore(c)
		case MSTORE8:
			err = opMstore8(c)
		case MSIZE:
			opMsize(c)
		case MCOPY:
			err = opMcopy(c)
		case SLOAD:
			err = opSload(c)
		case SSTORE:
			err = opSstore(c)
		case PC:
			opPc(c)
		case GAS:
			opGas(c)
		case CALL:
			err = opCall(c)
		case CALLCODE:
			err = opCallCode(c)
		case STATICCALL:
			err = opStaticCall(c)
		case DELEGATECALL:
			err = opDelegateCall(c)
		case RETURN:
			err = opEndWithResult(c)
			status = statusReturned
		case REVERT:
			err = opEndWithResult(c)
			status = statusReverted
		case STOP:
			status = opStop()
		default:
			err = errInvalidInstruction
		}

		if err != nil {
			return status, err
		}

		c.pc++

		if oneStepOnly {
			return status, nil
		}
	}
	return status, nil
}

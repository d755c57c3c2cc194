// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package scala

import (
	"github.com/operavm/nabucco/nabucco"
)

// MaxCallDepth is the maximum nesting level of contract calls. Calls issued
// at this depth are not executed; the reserved gas flows back to the caller.
const MaxCallDepth = 1024

// runContext is the call dispatcher handed to the interpreter. Each frame
// operates on a copy, so depth and static-mode changes never leak into the
// caller's frame.
type runContext struct {
	nabucco.TransactionContext
	interpreter           nabucco.Interpreter
	blockParameters       nabucco.BlockParameters
	transactionParameters nabucco.TransactionParameters
	depth                 int
	static                bool
}

func (r runContext) Call(kind nabucco.CallKind, parameters nabucco.CallParameters) (nabucco.CallResult, error) {
	if kind == nabucco.Call || kind == nabucco.CallCode {
		if !canTransferValue(r, parameters.Value, parameters.Sender, parameters.Recipient) {
			return nabucco.CallResult{GasLeft: parameters.Gas}, nil
		}
	}

	result, err := r.runFrame(kind, parameters)
	if err != nil {
		return nabucco.CallResult{}, err
	}
	return nabucco.CallResult{
		Output:    result.Output,
		GasLeft:   result.GasLeft,
		GasRefund: result.GasRefund,
		Success:   result.Success(),
	}, nil
}

// runFrame executes a single call frame and reports the interpreter's full
// verdict. State changes of the frame are rolled back unless the frame
// halted or returned regularly. A frame requested beyond the depth bound is
// not executed; its verdict carries the fault code and the untouched gas.
func (r runContext) runFrame(kind nabucco.CallKind, parameters nabucco.CallParameters) (nabucco.Result, error) {
	if r.depth >= MaxCallDepth {
		return nabucco.Result{
			Status:  nabucco.StatusFailed,
			Fault:   nabucco.FaultCallDepthExceeded,
			GasLeft: parameters.Gas,
		}, nil
	}
	r.depth++
	if kind == nabucco.StaticCall {
		r.static = true
	}

	snapshot := r.CreateSnapshot()
	if kind == nabucco.Call || kind == nabucco.CallCode {
		transferValue(r, parameters.Value, parameters.Sender, parameters.Recipient)
	}

	codeAddress := parameters.Recipient
	if kind == nabucco.CallCode || kind == nabucco.DelegateCall {
		codeAddress = parameters.CodeAddress
	}
	codeHash := r.GetCodeHash(codeAddress)

	result, err := r.interpreter.Run(nabucco.Parameters{
		BlockParameters:       r.blockParameters,
		TransactionParameters: r.transactionParameters,
		Context:               r,
		Kind:                  kind,
		Static:                r.static,
		Depth:                 r.depth - 1, // depth has already been incremented
		Gas:                   parameters.Gas,
		Recipient:             parameters.Recipient,
		Sender:                parameters.Sender,
		Input:                 parameters.Input,
		Value:                 parameters.Value,
		CodeHash:              &codeHash,
		Code:                  r.GetCode(codeAddress),
	})
	if err != nil || !result.Success() {
		r.RestoreSnapshot(snapshot)
	}
	return result, err
}

func canTransferValue(
	context nabucco.TransactionContext,
	value nabucco.Value,
	sender nabucco.Address,
	recipient nabucco.Address,
) bool {
	if value == (nabucco.Value{}) {
		return true
	}

	senderBalance := context.GetBalance(sender)
	if senderBalance.Cmp(value) < 0 {
		return false
	}

	if sender == recipient {
		return true
	}

	receiverBalance := context.GetBalance(recipient)
	updatedBalance := nabucco.Add(receiverBalance, value)
	if updatedBalance.Cmp(receiverBalance) < 0 || updatedBalance.Cmp(value) < 0 {
		return false
	}

	return true
}

// Only to be called after canTransferValue
func transferValue(
	context nabucco.TransactionContext,
	value nabucco.Value,
	sender nabucco.Address,
	recipient nabucco.Address,
) {
	if value == (nabucco.Value{}) {
		return
	}
	if sender == recipient {
		return
	}

	senderBalance := context.GetBalance(sender)
	receiverBalance := context.GetBalance(recipient)

	context.SetBalance(sender, nabucco.Sub(senderBalance, value))
	context.SetBalance(recipient, nabucco.Add(receiverBalance, value))
}

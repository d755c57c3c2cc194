// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

// Package scala provides a transaction processor running contract calls on
// a configurable interpreter. It covers the transaction-level concerns the
// interpreter is agnostic of: intrinsic gas, gas purchase and reimbursement,
// nonce handling, value transfers, and the recursive call dispatch with its
// snapshot discipline.
package scala

import (
	"fmt"

	"github.com/operavm/nabucco/nabucco"
)

const (
	TxGas            = 21_000
	TxDataNonZeroGas = 16
	TxDataZeroGas    = 4

	// MaxRefundQuotient caps the storage refund at gasUsed / MaxRefundQuotient.
	MaxRefundQuotient = 5
)

func init() {
	err := nabucco.RegisterProcessorFactory("scala", newProcessor)
	if err != nil {
		panic(fmt.Sprintf("failed to register processor: %v", err))
	}
}

func newProcessor(interpreter nabucco.Interpreter) nabucco.Processor {
	return &processor{
		interpreter: interpreter,
	}
}

type processor struct {
	interpreter nabucco.Interpreter
}

func (p *processor) Run(
	blockParams nabucco.BlockParameters,
	transaction nabucco.Transaction,
	context nabucco.TransactionContext,
) (nabucco.Receipt, error) {
	if err := validateTransaction(transaction, context); err != nil {
		return nabucco.Receipt{}, err
	}

	// The transaction is executable; from here on the state is mutated.
	buyGas(transaction, context)
	context.SetNonce(transaction.Sender, transaction.Nonce+1)

	gas := transaction.GasLimit - calculateIntrinsicGas(transaction)

	ctxt := runContext{
		TransactionContext: context,
		interpreter:        p.interpreter,
		blockParameters:    blockParams,
		transactionParameters: nabucco.TransactionParameters{
			Origin:   transaction.Sender,
			GasPrice: transaction.GasPrice,
		},
	}

	result, err := ctxt.runFrame(nabucco.Call, nabucco.CallParameters{
		Sender:      transaction.Sender,
		Recipient:   transaction.Recipient,
		Value:       transaction.Value,
		Input:       transaction.Input,
		Gas:         gas,
		CodeAddress: transaction.Recipient,
	})
	if err != nil {
		return nabucco.Receipt{}, err
	}

	gasUsed := transaction.GasLimit - result.GasLeft
	refund := result.GasRefund
	if maxRefund := gasUsed / MaxRefundQuotient; refund > maxRefund {
		refund = maxRefund
	}
	gasUsed -= refund

	refundGas(transaction, context, transaction.GasLimit-gasUsed)

	return nabucco.Receipt{
		Status:  result.Status,
		Output:  result.Output,
		GasUsed: gasUsed,
		Fault:   result.Fault,
	}, nil
}

func calculateIntrinsicGas(transaction nabucco.Transaction) nabucco.Gas {
	gas := nabucco.Gas(TxGas)

	// No overflow check is required here; triggering one would need an input
	// of roughly 2^64 / 16 bytes, beyond any real-world transaction.
	for _, inputByte := range transaction.Input {
		if inputByte != 0 {
			gas += TxDataNonZeroGas
		} else {
			gas += TxDataZeroGas
		}
	}

	return gas
}

// validateTransaction checks a transaction against the current state without
// mutating it. A rejected transaction leaves the world state untouched.
func validateTransaction(transaction nabucco.Transaction, context nabucco.TransactionContext) error {
	stateNonce := context.GetNonce(transaction.Sender)
	if transaction.Nonce != stateNonce {
		return fmt.Errorf("nonce mismatch: %v != %v", transaction.Nonce, stateNonce)
	}
	if stateNonce+1 < stateNonce {
		return fmt.Errorf("nonce overflow")
	}

	if intrinsicGas := calculateIntrinsicGas(transaction); transaction.GasLimit < intrinsicGas {
		return fmt.Errorf(
			"gas limit %d below intrinsic costs %d", transaction.GasLimit, intrinsicGas)
	}

	gasCosts := transaction.GasPrice.Scale(uint64(transaction.GasLimit))
	senderBalance := context.GetBalance(transaction.Sender)
	if senderBalance.Cmp(gasCosts) < 0 {
		return fmt.Errorf("insufficient balance: %v < %v", senderBalance, gasCosts)
	}

	if remainder := nabucco.Sub(senderBalance, gasCosts); remainder.Cmp(transaction.Value) < 0 {
		return fmt.Errorf(
			"insufficient balance for transferring %v", transaction.Value)
	}
	if transaction.Sender != transaction.Recipient && transaction.Value != (nabucco.Value{}) {
		recipientBalance := context.GetBalance(transaction.Recipient)
		if updated := nabucco.Add(recipientBalance, transaction.Value); updated.Cmp(recipientBalance) < 0 {
			return fmt.Errorf("balance overflow of account %v", transaction.Recipient)
		}
	}
	return nil
}

// Only to be called on a validated transaction.
func buyGas(transaction nabucco.Transaction, context nabucco.TransactionContext) {
	costs := transaction.GasPrice.Scale(uint64(transaction.GasLimit))
	senderBalance := context.GetBalance(transaction.Sender)
	context.SetBalance(transaction.Sender, nabucco.Sub(senderBalance, costs))
}

func refundGas(transaction nabucco.Transaction, context nabucco.TransactionContext, gasLeft nabucco.Gas) {
	refund := transaction.GasPrice.Scale(uint64(gasLeft))
	senderBalance := context.GetBalance(transaction.Sender)
	context.SetBalance(transaction.Sender, nabucco.Add(senderBalance, refund))
}

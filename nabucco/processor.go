// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package nabucco

//go:generate mockgen -source processor.go -destination processor_mock.go -package nabucco

// Processor is an interface for a component capable of executing
// transactions. Implementations execute individual transactions to progress
// a world state. In particular, they handle the charging of gas fees, the
// checking of nonces, and the execution of transactions using (potentially)
// recursive calls of contracts.
type Processor interface {
	// Run executes the transaction provided by the parameters in the
	// specified context.
	Run(BlockParameters, Transaction, TransactionContext) (Receipt, error)
}

// Transaction summarizes the parameters of a transaction to be executed.
type Transaction struct {
	Sender    Address // the sender of the transaction, paying for its execution
	Recipient Address // the receiver of the transaction
	Nonce     uint64  // the nonce of the sender account, used to prevent replays
	Input     Data    // the input data for the transaction
	Value     Value   // the amount of currency to transfer to the recipient
	GasLimit  Gas     // the maximum amount of gas the transaction may use
	GasPrice  Value   // the price of a unit of gas for this transaction
}

// Receipt summarizes the result of the execution of a transaction.
type Receipt struct {
	Status  RunStatus // the terminal state of the top-level execution
	Output  Data      // the output produced by the transaction
	GasUsed Gas       // gas used by the transaction
	Fault   FaultCode // set if and only if Status is StatusFailed
}

// Success returns true if the transaction completed without a revert or
// fault.
func (r Receipt) Success() bool {
	return r.Status == StatusHalted || r.Status == StatusReturned
}

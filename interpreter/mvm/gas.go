// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package mvm

import "github.com/operavm/nabucco/nabucco"

const (
	CallNewAccountGas    nabucco.Gas = 25000 // Paid for CALL when the destination address didn't exist prior.
	CallValueTransferGas nabucco.Gas = 9000  // Paid for CALL when the value transfer is non-zero.
	CallStipend          nabucco.Gas = 2300  // Free gas given at beginning of a value-transferring call.

	SloadGas           nabucco.Gas = 800   // Cost of a dirty or no-op SSTORE and of SLOAD.
	SstoreSentryGas    nabucco.Gas = 2300  // Minimum gas required to be present for an SSTORE, not consumed.
	SstoreSetGas       nabucco.Gas = 20000 // Once per SSTORE operation from clean zero to non-zero.
	SstoreResetGas     nabucco.Gas = 5000  // Once per SSTORE operation from clean non-zero to something else.
	SstoreClearsRefund nabucco.Gas = 15000 // Once per SSTORE operation clearing an originally existing slot.
)

var staticGasPrices = newOpCodePropertyMap(getStaticGasPriceInternal)

func getStaticGasPriceInternal(op OpCode) nabucco.Gas {
	if PUSH1 <= op && op <= PUSH32 {
		return 3
	}
	if DUP1 <= op && op <= DUP16 {
		return 3
	}
	if SWAP1 <= op && op <= SWAP16 {
		return 3
	}
	if LT <= op && op <= SAR {
		return 3
	}
	if COINBASE <= op && op <= BASEFEE {
		return 2
	}
	switch op {
	case POP:
		return 2
	case PUSH0:
		return 2
	case ADD, SUB:
		return 3
	case MUL, DIV, SDIV, MOD, SMOD:
		return 5
	case ADDMOD, MULMOD:
		return 8
	case EXP:
		return 10 // Plus 50 per byte of the exponent.
	case SIGNEXTEND:
		return 5
	case SHA3:
		return 30 // Plus 6 per word of hashed data.
	case ADDRESS, ORIGIN, CALLER, CALLVALUE, CALLDATASIZE, CODESIZE,
		GASPRICE, RETURNDATASIZE, PC, MSIZE, GAS:
		return 2
	case CALLDATALOAD, CALLDATACOPY, CODECOPY, RETURNDATACOPY, MCOPY:
		return 3
	case BALANCE, EXTCODESIZE, EXTCODECOPY, EXTCODEHASH:
		return 700
	case SELFBALANCE:
		return 5
	case MLOAD, MSTORE, MSTORE8:
		return 3
	case SLOAD:
		return 800
	case SSTORE:
		return 0 // Costs are handled in getDynamicCostsForSstore below.
	case JUMP:
		return 8
	case JUMPI:
		return 10
	case JUMPDEST:
		return 1
	case JUMP_TO, NOOP, DATA:
		return 0
	case CALL, CALLCODE, STATICCALL, DELEGATECALL:
		return 700
	case RETURN, STOP, REVERT:
		return 0
	}
	// Undefined OpCodes carry no static cost; they fault during dispatch.
	return 0
}

// getDynamicCostsForSstore returns the gas cost of an SSTORE operation based
// on the effect the store has relative to the slot's committed and current
// value.
//
//  1. If current value equals new value (this is a no-op), SloadGas is
//     deducted.
//  2. If current value does not equal new value:
//     2.1. If committed value equals current value (this slot has not been
//     changed by the current transaction):
//     2.1.1. If the committed value is 0, SstoreSetGas is deducted.
//     2.1.2. Otherwise, SstoreResetGas is deducted.
//     2.2. If the committed value does not equal the current value (the slot
//     is dirty), SloadGas is deducted.
func getDynamicCostsForSstore(status nabucco.StorageStatus) nabucco.Gas {
	switch status {
	case nabucco.StorageAdded:
		return SstoreSetGas
	case nabucco.StorageModified, nabucco.StorageDeleted:
		return SstoreResetGas
	default:
		return SloadGas
	}
}

// getRefundForSstore returns the refund counter adjustment of an SSTORE
// operation. Clearing a slot that existed at the start of the transaction
// earns a refund; re-creating a slot whose clearing was already refunded
// takes the refund back. Restoring a slot to its committed value refunds the
// difference between the charged and the no-op price.
func getRefundForSstore(status nabucco.StorageStatus) nabucco.Gas {
	switch status {
	case nabucco.StorageDeleted, nabucco.StorageModifiedDeleted:
		return SstoreClearsRefund
	case nabucco.StorageDeletedAdded:
		return -SstoreClearsRefund
	case nabucco.StorageAddedDeleted:
		return SstoreSetGas - SloadGas
	case nabucco.StorageModifiedRestored:
		return SstoreResetGas - SloadGas
	case nabucco.StorageDeletedRestored:
		return -SstoreClearsRefund + SstoreResetGas - SloadGas
	}
	return 0
}

// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

// Package state provides an in-memory implementation of the world state the
// engine operates on. All mutations are buffered in an undo journal, such
// that arbitrary points of the pending change-set can be snapshot and
// restored. The pending changes of a transaction only become the committed
// state by an explicit Commit call, simulating the persistence boundary of
// a chain.
package state

import (
	"bytes"

	"github.com/operavm/nabucco/nabucco"
	"golang.org/x/crypto/sha3"
)

// State is an implementation of nabucco.TransactionContext holding all
// accounts in memory. It is not thread-safe; the engine's execution model
// is strictly single-threaded and mutation order is determined by the
// call-stack nesting order alone.
type State struct {
	accounts map[nabucco.Address]*account
	undo     []func()
}

type account struct {
	balance nabucco.Value
	nonce   uint64
	code    nabucco.Code
	// storage is the pending view of the account's key/value table. Keys
	// that are absent read as the zero word; storing the zero word deletes
	// the entry on commit. The two representations are observably
	// identical.
	storage map[nabucco.Key]nabucco.Word
	// committed is the storage content sealed by the last Commit. It is
	// the reference point for storage status classification.
	committed map[nabucco.Key]nabucco.Word
}

func NewState() *State {
	return &State{accounts: map[nabucco.Address]*account{}}
}

func (s *State) getOrCreateAccount(addr nabucco.Address) *account {
	a, found := s.accounts[addr]
	if !found {
		a = &account{
			storage:   map[nabucco.Key]nabucco.Word{},
			committed: map[nabucco.Key]nabucco.Word{},
		}
		s.accounts[addr] = a
		s.undo = append(s.undo, func() { delete(s.accounts, addr) })
	}
	return a
}

func (s *State) AccountExists(addr nabucco.Address) bool {
	a, found := s.accounts[addr]
	if !found {
		return false
	}
	return a.balance != (nabucco.Value{}) || a.nonce != 0 || len(a.code) != 0
}

func (s *State) GetBalance(addr nabucco.Address) nabucco.Value {
	if a, found := s.accounts[addr]; found {
		return a.balance
	}
	return nabucco.Value{}
}

func (s *State) SetBalance(addr nabucco.Address, value nabucco.Value) {
	a := s.getOrCreateAccount(addr)
	old := a.balance
	a.balance = value
	s.undo = append(s.undo, func() { a.balance = old })
}

func (s *State) GetNonce(addr nabucco.Address) uint64 {
	if a, found := s.accounts[addr]; found {
		return a.nonce
	}
	return 0
}

func (s *State) SetNonce(addr nabucco.Address, nonce uint64) {
	a := s.getOrCreateAccount(addr)
	old := a.nonce
	a.nonce = nonce
	s.undo = append(s.undo, func() { a.nonce = old })
}

func (s *State) GetCode(addr nabucco.Address) nabucco.Code {
	if a, found := s.accounts[addr]; found {
		return nabucco.Code(bytes.Clone(a.code))
	}
	return nil
}

func (s *State) GetCodeHash(addr nabucco.Address) nabucco.Hash {
	return keccak256(s.GetCode(addr))
}

func (s *State) GetCodeSize(addr nabucco.Address) int {
	if a, found := s.accounts[addr]; found {
		return len(a.code)
	}
	return 0
}

func (s *State) SetCode(addr nabucco.Address, code nabucco.Code) {
	a := s.getOrCreateAccount(addr)
	old := a.code
	a.code = nabucco.Code(bytes.Clone(code))
	s.undo = append(s.undo, func() { a.code = old })
}

func (s *State) GetStorage(addr nabucco.Address, key nabucco.Key) nabucco.Word {
	if a, found := s.accounts[addr]; found {
		return a.storage[key]
	}
	return nabucco.Word{}
}

func (s *State) SetStorage(addr nabucco.Address, key nabucco.Key, value nabucco.Word) nabucco.StorageStatus {
	a := s.getOrCreateAccount(addr)
	committed := a.committed[key]
	current := a.storage[key]

	if value == (nabucco.Word{}) {
		delete(a.storage, key)
	} else {
		a.storage[key] = value
	}
	s.undo = append(s.undo, func() {
		if current == (nabucco.Word{}) {
			delete(a.storage, key)
		} else {
			a.storage[key] = current
		}
	})

	return nabucco.GetStorageStatus(committed, current, value)
}

// GetCommittedStorage returns the value the last Commit sealed for the
// given slot, ignoring all pending changes of the ongoing transaction.
func (s *State) GetCommittedStorage(addr nabucco.Address, key nabucco.Key) nabucco.Word {
	if a, found := s.accounts[addr]; found {
		return a.committed[key]
	}
	return nabucco.Word{}
}

func (s *State) CreateSnapshot() nabucco.Snapshot {
	return nabucco.Snapshot(len(s.undo))
}

func (s *State) RestoreSnapshot(snapshot nabucco.Snapshot) {
	for len(s.undo) > int(snapshot) {
		s.undo[len(s.undo)-1]()
		s.undo = s.undo[:len(s.undo)-1]
	}
}

// Commit seals the pending change-set of the current transaction. The
// pending storage values become the committed ones and the undo journal is
// discarded, making all changes final.
func (s *State) Commit() {
	for _, a := range s.accounts {
		a.committed = make(map[nabucco.Key]nabucco.Word, len(a.storage))
		for key, value := range a.storage {
			a.committed[key] = value
		}
	}
	s.undo = nil
}

func keccak256(data []byte) nabucco.Hash {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(data)
	var res nabucco.Hash
	hasher.Sum(res[:0])
	return res
}

// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package mvm

import (
	"sync"

	"github.com/operavm/nabucco/nabucco"
	"golang.org/x/crypto/sha3"
)

// Keccak256 computes the Keccak-256 hash of the given data. Hasher instances
// are pooled since executions hash frequently and the internal state of the
// hasher is expensive to allocate.
func Keccak256(data []byte) nabucco.Hash {
	hasher := keccakHasherPool.Get().(keccakHasher)
	hasher.Reset()
	hasher.Write(data)
	var res nabucco.Hash
	hasher.Read(res[:])
	keccakHasherPool.Put(hasher)
	return res
}

var keccakHasherPool = sync.Pool{New: func() any { return sha3.NewLegacyKeccak256() }}

// keccakHasher is the subset of the sha3 state implementation used for
// hashing. Read is used instead of Sum to avoid an internal state copy.
type keccakHasher interface {
	Reset()
	Write(in []byte) (int, error)
	Read(out []byte) (int, error)
}

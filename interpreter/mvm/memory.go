// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package mvm

import (
	"fmt"
	"math"

	"github.com/holiman/uint256"
	"github.com/operavm/nabucco/nabucco"
)

// Memory is the lazily growing, zero-initialized byte buffer of an execution
// frame. The buffer only ever grows, in multiples of 32 bytes, and growth is
// charged quadratically through the owning context's gas counter.
type Memory struct {
	store             []byte
	currentMemoryCost nabucco.Gas
}

func NewMemory() *Memory {
	return &Memory{}
}

func toValidMemorySize(size uint64) uint64 {
	fullWordsSize := nabucco.SizeInWords(size) * 32
	if size != 0 && fullWordsSize < size {
		return math.MaxUint64
	}
	return fullWordsSize
}

// maxMemoryExpansionSize caps the addressable memory such that the expansion
// cost computation cannot overflow an int64.
const maxMemoryExpansionSize = 0x1FFFFFFFE0

func (m *Memory) getExpansionCosts(size uint64) nabucco.Gas {
	if m.length() >= size {
		return 0
	}
	size = toValidMemorySize(size)

	if size > maxMemoryExpansionSize {
		return nabucco.Gas(math.MaxInt64)
	}

	words := nabucco.SizeInWords(size)
	newCosts := nabucco.Gas((words*words)/512 + (3 * words))
	return newCosts - m.currentMemoryCost
}

// expandMemory tries to expand memory to the given size. If the memory is
// already large enough or size is 0, it does nothing. If there is not enough
// gas in the context or an overflow occurs when adding offset and size, it
// returns an error.
func (m *Memory) expandMemory(offset, size uint64, c *context) error {
	if size == 0 {
		return nil
	}
	needed := offset + size
	if needed < offset { // overflow check
		return errGasUintOverflow
	}
	if m.length() < needed {
		fee := m.getExpansionCosts(needed)
		if err := c.useGas(fee); err != nil {
			return err
		}
		needed = toValidMemorySize(needed)
		m.currentMemoryCost += fee
		m.store = append(m.store, make([]byte, needed-m.length())...)
	}
	return nil
}

func (m *Memory) length() uint64 {
	return uint64(len(m.store))
}

// set writes the given value to the memory at the given offset, expanding
// and charging for the expansion as needed.
func (m *Memory) set(offset uint64, value []byte, c *context) error {
	if err := m.expandMemory(offset, uint64(len(value)), c); err != nil {
		return err
	}
	if size := uint64(len(value)); size > 0 {
		if offset+size > m.length() {
			return fmt.Errorf("memory too small, size %d, attempted to write %d bytes at %d", m.length(), size, offset)
		}
		copy(m.store[offset:offset+size], value)
	}
	return nil
}

// getSlice obtains a slice of size bytes from the memory at the given offset,
// expanding and charging for the expansion as needed. The returned slice is
// backed by the memory's internal data. Updates to the slice will thus affect
// the memory state. This connection is invalidated by any subsequent memory
// operation that may change the size of the memory.
func (m *Memory) getSlice(offset, size uint64, c *context) ([]byte, error) {
	if err := m.expandMemory(offset, size, c); err != nil {
		return nil, err
	}
	// memory is not expanded for a zero size independently of the offset,
	// so out of bounds access needs to be prevented here
	if size == 0 {
		return nil, nil
	}
	return m.store[offset : offset+size], nil
}

// readWord reads a 32-byte word from the memory at the given offset and
// stores that word in the provided target. Expands memory as needed and
// charges for it.
func (m *Memory) readWord(offset uint64, target *uint256.Int, c *context) error {
	data, err := m.getSlice(offset, 32, c)
	if err != nil {
		return err
	}
	target.SetBytes32(data)
	return nil
}

// copyData copies data from the memory, starting at the given offset, to the
// target slice, padding with zeros if offset+(target length) is greater than
// the memory size.
func (m *Memory) copyData(offset uint64, target []byte) {
	if m.length() < offset {
		copy(target, make([]byte, len(target)))
		return
	}

	// Copy what is available.
	covered := copy(target, m.store[offset:])

	// Pad the rest
	if covered < len(target) {
		copy(target[covered:], make([]byte, len(target)-covered))
	}
}

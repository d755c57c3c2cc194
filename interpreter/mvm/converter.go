// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package mvm

import (
	"math"
	"unsafe"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/operavm/nabucco/nabucco"
)

// ConversionConfig contains a set of configuration options for the code
// conversion.
type ConversionConfig struct {
	// CacheSize is the maximum size of the maintained code cache in bytes.
	// If set to 0, a default size is used. If negative, no cache is used.
	CacheSize int
}

// Converter converts byte code to the machine's internal code format.
type Converter struct {
	config ConversionConfig
	cache  *lru.Cache[nabucco.Hash, Code]
}

// NewConverter creates a new code converter with the provided configuration.
func NewConverter(config ConversionConfig) (*Converter, error) {
	if config.CacheSize == 0 {
		config.CacheSize = (1 << 28) // = 256MiB
	}

	var cache *lru.Cache[nabucco.Hash, Code]
	if config.CacheSize > 0 {
		var err error
		const instructionSize = int(unsafe.Sizeof(Instruction{}))
		capacity := config.CacheSize / maxCachedCodeLength / instructionSize
		cache, err = lru.New[nabucco.Hash, Code](capacity)
		if err != nil {
			return nil, err
		}
	}
	return &Converter{
		config: config,
		cache:  cache,
	}, nil
}

// Convert converts byte code to internal code. If the provided code hash is
// not nil, it is assumed to be a valid hash of the code and is used to cache
// the conversion result. If the hash is nil, the conversion result is not
// cached.
func (c *Converter) Convert(code []byte, codeHash *nabucco.Hash) Code {
	if c.cache == nil || codeHash == nil {
		return convert(code)
	}

	res, exists := c.cache.Get(*codeHash)
	if exists {
		return res
	}

	res = convert(code)
	if len(res) > maxCachedCodeLength {
		return res
	}

	c.cache.Add(*codeHash, res)
	return res
}

// maxCachedCodeLength is the maximum length of a code in bytes that is
// retained in the cache. To avoid excessive memory usage, longer codes are
// not cached.
const maxCachedCodeLength = 1<<14 + 1<<13 // = 24_576 bytes

// --- code builder ---

type codeBuilder struct {
	code    []Instruction
	nextPos int
}

func newCodeBuilder(codelength int) codeBuilder {
	return codeBuilder{make([]Instruction, codelength), 0}
}

func (b *codeBuilder) length() int {
	return b.nextPos
}

func (b *codeBuilder) appendOp(opcode OpCode, arg uint16) *codeBuilder {
	b.code[b.nextPos].opcode = opcode
	b.code[b.nextPos].arg = arg
	b.nextPos++
	return b
}

func (b *codeBuilder) appendCode(opcode OpCode) *codeBuilder {
	b.code[b.nextPos].opcode = opcode
	b.nextPos++
	return b
}

func (b *codeBuilder) appendData(data uint16) *codeBuilder {
	return b.appendOp(DATA, data)
}

func (b *codeBuilder) padNoOpsUntil(pos int) {
	for i := b.nextPos; i < pos; i++ {
		b.code[i].opcode = NOOP
	}
	b.nextPos = pos
}

func (b *codeBuilder) toCode() Code {
	return b.code[0:b.nextPos]
}

func convert(code []byte) Code {
	res := newCodeBuilder(len(code))

	// Convert each individual instruction.
	for i := 0; i < len(code); {
		// Handle jump destinations
		if OpCode(code[i]) == JUMPDEST {
			// Jump destinations have to remain at the same position as in
			// the original byte code. The gap left by instructions with
			// immediate arguments is filled with NOOPs, skipped over by a
			// single JUMP_TO.
			if res.length() < i {
				res.appendOp(JUMP_TO, uint16(i))
			}
			res.padNoOpsUntil(i)
			res.appendCode(JUMPDEST)
			i++
			continue
		}

		i += appendInstruction(&res, i, code) + 1
	}
	return res.toCode()
}

func appendInstruction(res *codeBuilder, pos int, code []byte) int {
	op := OpCode(code[pos])

	// The position of a PC instruction is baked into its immediate argument
	// at conversion time, since converted instruction positions no longer
	// match byte code positions.
	if op == PC {
		if pos > math.MaxUint16 {
			res.appendCode(INVALID)
			return 0
		}
		res.appendOp(PC, uint16(pos))
		return 0
	}

	if PUSH1 <= op && op <= PUSH32 {
		// Determine the number of bytes to be pushed.
		numBytes := int(op) - int(PUSH1) + 1

		var data []byte
		// If there are not enough bytes left in the code, the rest is
		// zero-padded on the right.
		if len(code) < pos+numBytes+2 {
			extension := (pos + numBytes + 2 - len(code)) / 2
			if (pos+numBytes+2-len(code))%2 > 0 {
				extension++
			}
			if extension > 0 {
				res.code = rightPadSlice(res.code, len(res.code)+extension)
			}
			data = rightPadSlice(code[pos+1:], numBytes+1)
		} else {
			data = code[pos+1 : pos+1+numBytes]
		}

		// Fix the op-codes of the resulting instructions
		if numBytes == 1 {
			res.appendOp(PUSH1, uint16(data[0])<<8)
		} else {
			res.appendOp(PUSH1+OpCode(numBytes-1), uint16(data[0])<<8|uint16(data[1]))
		}

		// Fix the arguments by packing them in pairs into the instructions.
		for i := 2; i < numBytes-1; i += 2 {
			res.appendData(uint16(data[i])<<8 | uint16(data[i+1]))
		}
		if numBytes > 1 && numBytes%2 == 1 {
			res.appendData(uint16(data[numBytes-1]) << 8)
		}

		return numBytes
	}

	// All the rest converts to a single instruction.
	res.appendCode(op)
	return 0
}

// rightPadSlice returns a slice of the requested size whose leading elements
// are the elements of the input, followed by zero values.
func rightPadSlice[T any](data []T, size int) []T {
	res := make([]T, size)
	copy(res, data)
	return res
}

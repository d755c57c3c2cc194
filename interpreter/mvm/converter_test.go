// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package mvm

import (
	"testing"

	"github.com/operavm/nabucco/nabucco"
)

func TestConvert_SingleInstructionsAreKept(t *testing.T) {
	code := []byte{byte(ADD), byte(MUL), byte(STOP)}
	want := Code{{opcode: ADD}, {opcode: MUL}, {opcode: STOP}}

	got := convert(code)
	if len(got) != len(want) {
		t.Fatalf("unexpected code length, got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("instruction %d differs, got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestConvert_PushArgumentsArePackedIntoInstructions(t *testing.T) {
	tests := map[string]struct {
		code []byte
		want Code
	}{
		"push1": {
			[]byte{byte(PUSH1), 0x12},
			Code{{PUSH1, 0x1200}},
		},
		"push2": {
			[]byte{byte(PUSH2), 0x12, 0x34},
			Code{{PUSH2, 0x1234}},
		},
		"push3": {
			[]byte{byte(PUSH3), 0x12, 0x34, 0x56},
			Code{{PUSH3, 0x1234}, {DATA, 0x5600}},
		},
		"push4": {
			[]byte{byte(PUSH4), 0x12, 0x34, 0x56, 0x78},
			Code{{PUSH4, 0x1234}, {DATA, 0x5678}},
		},
		"truncated push2 is zero padded": {
			[]byte{byte(PUSH2), 0x12},
			Code{{PUSH2, 0x1200}},
		},
		"truncated push4 is zero padded": {
			[]byte{byte(PUSH4), 0x12},
			Code{{PUSH4, 0x1200}, {DATA, 0x0000}},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got := convert(test.code)
			if len(got) != len(test.want) {
				t.Fatalf("unexpected code length, got %d, want %d", len(got), len(test.want))
			}
			for i := range test.want {
				if got[i] != test.want[i] {
					t.Errorf("instruction %d differs, got %v, want %v", i, got[i], test.want[i])
				}
			}
		})
	}
}

func TestConvert_JumpDestinationsKeepTheirPosition(t *testing.T) {
	// The PUSH2 argument shrinks the converted code, the gap before the
	// JUMPDEST at byte position 4 is bridged by a JUMP_TO and NOOPs.
	code := []byte{byte(PUSH2), 0x12, 0x34, byte(STOP), byte(JUMPDEST)}

	got := convert(code)
	if got[4].opcode != JUMPDEST {
		t.Errorf("expected JUMPDEST at position 4, got %v", got[4].opcode)
	}
	if got[2].opcode != JUMP_TO || got[2].arg != 4 {
		t.Errorf("expected JUMP_TO 4 bridging the gap, got %v", got[2])
	}
	if got[3].opcode != NOOP {
		t.Errorf("expected NOOP filler, got %v", got[3].opcode)
	}
}

func TestConvert_PcPositionsAreBakedIntoArguments(t *testing.T) {
	code := []byte{byte(PUSH2), 0x12, 0x34, byte(PC)}

	got := convert(code)
	if got[1].opcode != PC || got[1].arg != 3 {
		t.Errorf("expected PC with baked position 3, got %v", got[1])
	}
}

func TestConverter_ResultsAreCachedByCodeHash(t *testing.T) {
	converter, err := NewConverter(ConversionConfig{})
	if err != nil {
		t.Fatalf("failed to create converter: %v", err)
	}

	code := []byte{byte(PUSH1), 0x01, byte(STOP)}
	hash := Keccak256(code)

	first := converter.Convert(code, &hash)
	second := converter.Convert(code, &hash)

	if len(first) == 0 || len(second) == 0 {
		t.Fatalf("conversion produced no code")
	}
	// The cached result is returned as-is, sharing the backing array.
	if &first[0] != &second[0] {
		t.Errorf("expected cached conversion result to be reused")
	}
}

func TestConverter_CacheCanBeDisabled(t *testing.T) {
	converter, err := NewConverter(ConversionConfig{CacheSize: -1})
	if err != nil {
		t.Fatalf("failed to create converter: %v", err)
	}

	code := []byte{byte(PUSH1), 0x01, byte(STOP)}
	hash := nabucco.Hash{0x01}

	first := converter.Convert(code, &hash)
	second := converter.Convert(code, &hash)
	if &first[0] == &second[0] {
		t.Errorf("expected conversions to be independent without a cache")
	}
}

// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package nabucco

import (
	"math"
	"testing"
)

func TestGetStorageStatus_CoversAllTransitions(t *testing.T) {
	x := NewWord(1)
	y := NewWord(2)
	z := NewWord(3)
	zero := Word{}

	tests := map[string]struct {
		committed, current, new Word
		want                    StorageStatus
	}{
		"unchanged":         {x, y, y, StorageAssigned},
		"added":             {zero, zero, z, StorageAdded},
		"deleted":           {x, x, zero, StorageDeleted},
		"modified":          {x, x, z, StorageModified},
		"deleted added":     {x, zero, z, StorageDeletedAdded},
		"modified deleted":  {x, y, zero, StorageModifiedDeleted},
		"deleted restored":  {x, zero, x, StorageDeletedRestored},
		"added deleted":     {zero, y, zero, StorageAddedDeleted},
		"modified restored": {x, y, x, StorageModifiedRestored},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got := GetStorageStatus(test.committed, test.current, test.new)
			if got != test.want {
				t.Errorf("GetStorageStatus(%v,%v,%v) = %v, want %v",
					test.committed, test.current, test.new, got, test.want)
			}
		})
	}
}

func TestSizeInWords_RoundsUpAndSaturates(t *testing.T) {
	tests := []struct {
		size uint64
		want uint64
	}{
		{0, 0},
		{1, 1},
		{32, 1},
		{33, 2},
		{64, 2},
		{math.MaxUint64, math.MaxUint64/32 + 1},
	}

	for _, test := range tests {
		if got := SizeInWords(test.size); got != test.want {
			t.Errorf("SizeInWords(%d) = %d, want %d", test.size, got, test.want)
		}
	}
}

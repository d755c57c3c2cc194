// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package nabucco

// ConstError is an error type for constant error values. Errors of this
// type can be defined as constants, making them immune to accidental
// modification and comparable with errors.Is.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

// ErrIntegerOverflow is signaled by the checked (non-wrapping) Word
// operations when the mathematical result does not fit into 256 bits.
const ErrIntegerOverflow = ConstError("integer overflow")

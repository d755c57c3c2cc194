// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package nabucco

import (
	"errors"
	"fmt"
	"testing"
)

func TestConstError_Error(t *testing.T) {
	const myError = ConstError("this is a constant error")
	if myError.Error() != "this is a constant error" {
		t.Errorf("unexpected error message: %s", myError.Error())
	}
	if !errors.Is(myError, ConstError("this is a constant error")) {
		t.Errorf("errors with identical messages must be identical")
	}
}

func TestConstError_CanBeWrappedAndUnwrapped(t *testing.T) {
	const myError = ConstError("inner")
	wrapped := fmt.Errorf("outer: %w", myError)
	if !errors.Is(wrapped, myError) {
		t.Errorf("wrapped error is not identified by errors.Is")
	}
}

func TestConstError_Empty(t *testing.T) {
	const emptyError ConstError = ""
	if emptyError.Error() != "" {
		t.Errorf("unexpected message for empty error: %s", emptyError.Error())
	}
}

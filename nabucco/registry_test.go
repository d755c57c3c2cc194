// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package nabucco

import (
	"strings"
	"testing"
)

type testInterpreter struct{}

func (testInterpreter) Run(Parameters) (Result, error) {
	return Result{}, nil
}

func TestRegistry_InterpreterLookupIsCaseInsensitive(t *testing.T) {
	name := "test-interpreter-case"
	err := RegisterInterpreterFactory(name, func(any) (Interpreter, error) {
		return testInterpreter{}, nil
	})
	if err != nil {
		t.Fatalf("failed to register factory: %v", err)
	}

	for _, variant := range []string{name, strings.ToUpper(name)} {
		if _, err := NewInterpreter(variant); err != nil {
			t.Errorf("lookup of %q failed: %v", variant, err)
		}
	}
}

func TestRegistry_UnknownInterpreterIsReported(t *testing.T) {
	if _, err := NewInterpreter("never-registered"); err == nil {
		t.Errorf("expected lookup of unknown interpreter to fail")
	}
}

func TestRegistry_DuplicateRegistrationIsRejected(t *testing.T) {
	name := "test-interpreter-duplicate"
	factory := func(any) (Interpreter, error) { return testInterpreter{}, nil }
	if err := RegisterInterpreterFactory(name, factory); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if err := RegisterInterpreterFactory(name, factory); err == nil {
		t.Errorf("duplicate registration was not rejected")
	}
}

func TestRegistry_NilFactoryIsRejected(t *testing.T) {
	if err := RegisterInterpreterFactory("test-nil-factory", nil); err == nil {
		t.Errorf("nil factory was not rejected")
	}
	if err := RegisterProcessorFactory("test-nil-factory", nil); err == nil {
		t.Errorf("nil processor factory was not rejected")
	}
}

func TestRegistry_TooManyConfigurationsAreRejected(t *testing.T) {
	if _, err := NewInterpreter("anything", 1, 2); err == nil {
		t.Errorf("expected configuration list to be rejected")
	}
}

func TestRegistry_RegisteredInterpretersCanBeEnumerated(t *testing.T) {
	name := "test-interpreter-enumerate"
	err := RegisterInterpreterFactory(name, func(any) (Interpreter, error) {
		return testInterpreter{}, nil
	})
	if err != nil {
		t.Fatalf("failed to register factory: %v", err)
	}
	all := GetAllRegisteredInterpreters()
	if _, found := all[name]; !found {
		t.Errorf("registered interpreter %q not enumerated", name)
	}
}

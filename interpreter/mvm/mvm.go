// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

// Package mvm implements the virtual machine of this project. Byte code is
// converted into a fixed-width internal instruction format before execution,
// allowing immediate arguments to be decoded once per code instead of once
// per step. Conversion results are cached by code hash.
package mvm

import (
	"fmt"

	"github.com/operavm/nabucco/nabucco"
)

// Registers the machine as a possible interpreter implementation.
func init() {
	configs := map[string]Config{
		// This is the default configuration to be used for production
		// purposes.
		"mvm": {},

		// A diagnostics configuration tracing every executed instruction.
		"mvm-logging": {
			runner: newLoggingRunner(nil),
		},

		// A configuration without code caching, for memory-constrained
		// setups and for cache-independence testing.
		"mvm-no-code-cache": {
			ConversionConfig: ConversionConfig{
				CacheSize: -1,
			},
		},
	}

	for name, config := range configs {
		config := config
		err := nabucco.RegisterInterpreterFactory(
			name,
			func(any) (nabucco.Interpreter, error) {
				return NewVm(config)
			},
		)
		if err != nil {
			panic(fmt.Sprintf("failed to register interpreter %q: %v", name, err))
		}
	}
}

type Config struct {
	ConversionConfig
	// Hasher overrides the Keccak-256 implementation used by hashing
	// instructions. If nil, the built-in implementation is used.
	Hasher func([]byte) nabucco.Hash
	runner runner
}

type mvm struct {
	config    Config
	converter *Converter
}

func NewVm(config Config) (*mvm, error) {
	converter, err := NewConverter(config.ConversionConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create converter: %v", err)
	}
	return &mvm{config: config, converter: converter}, nil
}

func (v *mvm) Run(params nabucco.Parameters) (nabucco.Result, error) {
	converted := v.converter.Convert(params.Code, params.CodeHash)

	config := interpreterConfig{
		runner: v.config.runner,
		hasher: v.config.Hasher,
	}

	return run(config, params, converted)
}

// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package mvm

import (
	"github.com/sirupsen/logrus"
)

// loggingRunner is a runner that traces the execution of the contract code
// through a logrus logger, one entry per executed instruction. It is intended
// for diagnostics only; tracing is orders of magnitude slower than the
// vanilla runner.
type loggingRunner struct {
	log *logrus.Logger
}

// newLoggingRunner creates a runner tracing to the given logger. If the
// logger is nil, the logrus standard logger is used.
func newLoggingRunner(log *logrus.Logger) loggingRunner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return loggingRunner{log: log}
}

func (l loggingRunner) run(c *context) (status, error) {
	status := statusRunning
	var err error
	for status == statusRunning {
		if int(c.pc) < len(c.code) {
			top := "-empty-"
			if c.stack.len() > 0 {
				top = c.stack.peek().Hex()
			}
			l.log.WithFields(logrus.Fields{
				"pc":  c.pc,
				"op":  c.code[c.pc].opcode.String(),
				"gas": c.gas,
				"top": top,
			}).Debug("step")
		}
		status, err = step(c)
		if err != nil {
			return status, err
		}
	}
	return status, nil
}

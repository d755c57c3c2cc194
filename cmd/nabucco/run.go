// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/dsnet/golib/unitconv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/operavm/nabucco/nabucco"
	"github.com/operavm/nabucco/state"

	_ "github.com/operavm/nabucco/interpreter/mvm"
	_ "github.com/operavm/nabucco/processor/scala"
)

var RunCmd = cli.Command{
	Action:    doRun,
	Name:      "run",
	Usage:     "Run a transaction against a contract on a fresh in-memory state",
	ArgsUsage: "<code in hex>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "interpreter",
			Usage: "the registered interpreter implementation to use",
			Value: "mvm",
		},
		&cli.StringFlag{
			Name:  "input",
			Usage: "the call data passed to the contract, in hex",
		},
		&cli.Uint64Flag{
			Name:  "value",
			Usage: "the amount of currency sent along with the transaction",
		},
		&cli.Uint64Flag{
			Name:  "gas",
			Usage: "the gas limit of the transaction",
			Value: 10_000_000,
		},
		&cli.Uint64Flag{
			Name:  "gas-price",
			Usage: "the price of a unit of gas",
			Value: 1,
		},
		&cli.BoolFlag{
			Name:  "trace",
			Usage: "log every executed instruction",
		},
	},
}

var (
	senderAddress   = nabucco.Address{1}
	contractAddress = nabucco.Address{2}
)

func doRun(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("expected the contract code as the only argument")
	}
	code, err := decodeHex(context.Args().Get(0))
	if err != nil {
		return fmt.Errorf("invalid code: %w", err)
	}
	input, err := decodeHex(context.String("input"))
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	interpreterName := context.String("interpreter")
	if context.Bool("trace") {
		logrus.SetLevel(logrus.DebugLevel)
		interpreterName = "mvm-logging"
	}

	interpreter, err := nabucco.NewInterpreter(interpreterName)
	if err != nil {
		return err
	}
	processor, err := nabucco.NewProcessor("scala", interpreter)
	if err != nil {
		return err
	}

	transaction := nabucco.Transaction{
		Sender:    senderAddress,
		Recipient: contractAddress,
		Input:     input,
		Value:     nabucco.NewValue(context.Uint64("value")),
		GasLimit:  nabucco.Gas(context.Uint64("gas")),
		GasPrice:  nabucco.NewValue(context.Uint64("gas-price")),
	}

	world := state.NewState()
	world.SetBalance(senderAddress, nabucco.NewValue(0, 1)) // 2^64, enough for any run
	world.SetCode(contractAddress, code)
	world.Commit()

	start := time.Now()
	receipt, err := processor.Run(nabucco.BlockParameters{
		BlockNumber: 1,
		Timestamp:   time.Now().Unix(),
		GasLimit:    transaction.GasLimit,
	}, transaction, world)
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("transaction rejected: %w", err)
	}

	fmt.Printf("Status:   %v\n", receipt.Status)
	if receipt.Status == nabucco.StatusFailed {
		fmt.Printf("Fault:    %v\n", receipt.Fault)
	}
	if len(receipt.Output) > 0 {
		fmt.Printf("Output:   0x%x\n", receipt.Output)
	}
	fmt.Printf("Gas used: %sgas\n", unitconv.FormatPrefix(float64(receipt.GasUsed), unitconv.SI, 2))
	fmt.Printf("Duration: %v (~%sgas/s)\n", elapsed,
		unitconv.FormatPrefix(float64(receipt.GasUsed)/elapsed.Seconds(), unitconv.SI, 2))
	return nil
}

func decodeHex(data string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(data, "0x"))
}

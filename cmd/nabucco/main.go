// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:      "nabucco",
		Usage:     "Nabucco Virtual Machine Driver",
		Copyright: "(c) 2025 The Nabucco Authors",
		Flags:     []cli.Flag{},
		Commands: []*cli.Command{
			&RunCmd,
			&ListCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

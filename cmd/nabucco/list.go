// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package main

import (
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"

	"github.com/operavm/nabucco/nabucco"
)

var ListCmd = cli.Command{
	Action: doList,
	Name:   "list",
	Usage:  "List all registered interpreter implementations",
}

func doList(context *cli.Context) error {
	names := maps.Keys(nabucco.GetAllRegisteredInterpreters())
	sort.Strings(names)
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

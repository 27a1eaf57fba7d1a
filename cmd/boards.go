// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Sketchbridge Authors

package cmd

import (
	"fmt"
	"sort"

	"github.com/sketchbridge/sketchbridge/pkg/arduinocli"
	"github.com/spf13/cobra"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List board names known to arduino-cli",
	Long: `List every board name arduino-cli knows about, with its
fully-qualified board identifier. The name column is what goes in a
layout file's "board" field.`,
	Args: cobra.NoArgs,
	RunE: runBoards,
}

func init() {
	rootCmd.AddCommand(boardsCmd)
}

func runBoards(cmd *cobra.Command, args []string) error {
	cli := arduinocli.New("", nil)
	boards, err := cli.Boards()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(boards))
	width := 0
	for name := range boards {
		names = append(names, name)
		if len(name) > width {
			width = len(name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("%-*s  %s\n", width, name, boards[name])
	}
	return nil
}

// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Sketchbridge Authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var generateOutput string

var generateCmd = &cobra.Command{
	Use:   "generate <layout.json>",
	Short: "Generate firmware source for a device layout",
	Long: `Generate the firmware sketch for a device layout without touching any
hardware. The source is printed to stdout, or written to a file with
--output.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Write source to file instead of stdout")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	l, err := loadLayout(args[0])
	if err != nil {
		return err
	}

	session, err := l.newSession(false)
	if err != nil {
		return err
	}
	defer session.Close()

	source, err := session.GenerateSource()
	if err != nil {
		return err
	}

	if generateOutput == "" {
		fmt.Print(source)
		return nil
	}
	if err := os.WriteFile(generateOutput, []byte(source), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %v", generateOutput, err)
	}
	fmt.Printf("Wrote %s (%d devices)\n", generateOutput, len(l.Devices))
	return nil
}

// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Sketchbridge Authors

package cmd

import (
	"errors"
	"fmt"

	"github.com/sketchbridge/sketchbridge/pkg/arduinocli"
	"github.com/sketchbridge/sketchbridge/pkg/mcu"
	"github.com/spf13/cobra"
)

var uploadForce bool

var uploadCmd = &cobra.Command{
	Use:   "upload <layout.json>",
	Short: "Compile and flash firmware for a device layout",
	Long: `Generate the firmware sketch for a device layout, compile it with
arduino-cli, and flash it over the serial port. The sketch is cached and
the compile/flash step is skipped when the generated source has not
changed since the last upload; --force flashes regardless.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVarP(&uploadForce, "force", "f", false, "Flash even if the sketch is unchanged")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	l, err := loadLayout(args[0])
	if err != nil {
		return err
	}

	session, err := l.newSession(true)
	if err != nil {
		return err
	}
	defer session.Close()

	fmt.Printf("Board: %s, %d devices\n", session.Board(), len(l.Devices))
	if err := session.Sync(uploadForce); err != nil {
		var buildErr *arduinocli.BuildError
		if errors.As(err, &buildErr) {
			fmt.Println(buildErr.Output)
		}
		if errors.Is(err, arduinocli.ErrUnavailable) {
			return fmt.Errorf("arduino-cli is required for upload: %v", err)
		}
		if errors.Is(err, mcu.ErrUnknownBoard) {
			return fmt.Errorf("%v (run \"sketchbridge boards\" to list known board names)", err)
		}
		return err
	}

	fmt.Printf("Firmware up to date on %s\n", session.Board())
	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Sketchbridge Authors
//
// Sketchbridge - Microcontroller Firmware Generator and Serial Bridge
//
// A CLI tool for generating microcontroller firmware from a device layout,
// flashing it through arduino-cli, and exchanging plain-text commands with
// the running firmware over serial or WebSocket links.

package main

import (
	"os"

	"github.com/sketchbridge/sketchbridge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

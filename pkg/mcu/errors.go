// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Sketchbridge Authors

package mcu

import (
	"errors"
	"fmt"
)

// PinConflictError reports an attach attempt on a pin that is already
// claimed by another peripheral. Pins are claimed for the lifetime of the
// session; there is no un-claim.
type PinConflictError struct {
	Pin int
}

func (e *PinConflictError) Error() string {
	return fmt.Sprintf("pin %d already in use", e.Pin)
}

// ErrNotConnected is returned by runtime protocol operations on a session
// that was created without a serial port.
var ErrNotConnected = errors.New("session has no open serial transport")

// ErrReadTimeout is returned when a blocking read exceeds the transport's
// configured read timeout. The protocol layer itself imposes no timeout;
// this is the only bound a caller gets on an acknowledgement wait.
var ErrReadTimeout = errors.New("serial read timed out")

// ErrUnknownBoard is returned by Sync when the session's board name is not
// present in the toolchain's board index.
var ErrUnknownBoard = errors.New("board not known to arduino-cli")

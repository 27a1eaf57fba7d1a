// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Sketchbridge Authors

package mcu

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Transport is the byte stream between the host and the running firmware.
// The serial port is the usual implementation; tests substitute an
// in-memory fake.
type Transport interface {
	io.ReadWriteCloser
}

// Reopener is implemented by transports that can release the underlying
// port for an upload cycle and reacquire it afterwards. The upload tool
// needs exclusive access to the port.
type Reopener interface {
	Reopen() error
}

// SerialTransport is a Transport over a local serial port.
type SerialTransport struct {
	portName string
	mode     *serial.Mode
	timeout  time.Duration
	port     serial.Port
}

// DialSerial opens a serial port in 8N1 framing. A zero readTimeout leaves
// reads fully blocking; otherwise a read that returns no data within the
// timeout fails with ErrReadTimeout.
func DialSerial(portName string, baudRate int, readTimeout time.Duration) (*SerialTransport, error) {
	t := &SerialTransport{
		portName: portName,
		mode: &serial.Mode{
			BaudRate: baudRate,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		},
		timeout: readTimeout,
	}
	if err := t.Reopen(); err != nil {
		return nil, err
	}
	return t, nil
}

// Reopen (re)acquires the serial port with the transport's original mode.
func (t *SerialTransport) Reopen() error {
	port, err := serial.Open(t.portName, t.mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %v", t.portName, err)
	}
	if t.timeout > 0 {
		if err := port.SetReadTimeout(t.timeout); err != nil {
			port.Close()
			return fmt.Errorf("failed to set read timeout on %s: %v", t.portName, err)
		}
	}
	t.port = port
	return nil
}

func (t *SerialTransport) Read(p []byte) (int, error) {
	if t.port == nil {
		return 0, ErrNotConnected
	}
	n, err := t.port.Read(p)
	if err == nil && n == 0 && t.timeout > 0 {
		// go.bug.st/serial reports an expired read timeout as an empty
		// read. Surface it as an error so acknowledgement waits stay
		// bounded by the configured timeout.
		return 0, ErrReadTimeout
	}
	return n, err
}

// Write fails with ErrNotConnected while the port is released, which
// happens after Close and for the whole of an upload cycle. A failed
// upload leaves the port released; callers see the error instead of a
// crash and can Sync again.
func (t *SerialTransport) Write(p []byte) (int, error) {
	if t.port == nil {
		return 0, ErrNotConnected
	}
	return t.port.Write(p)
}

// Close drains the port buffers and releases the port.
func (t *SerialTransport) Close() error {
	if t.port == nil {
		return nil
	}
	t.port.ResetInputBuffer()
	t.port.ResetOutputBuffer()
	err := t.port.Close()
	t.port = nil
	return err
}

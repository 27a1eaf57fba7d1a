// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Sketchbridge Authors

package mcu

import (
	"strconv"
	"strings"
)

// ResponseOrigin selects which framing terminator a read applies: command
// frames and data frames use different terminators on the wire.
type ResponseOrigin int

const (
	OriginCommand ResponseOrigin = iota
	OriginData
)

// IsAck reports whether a response line acknowledges a command or data
// frame. Any line containing "ok" counts, case-insensitive.
func IsAck(line string) bool {
	return strings.Contains(strings.ToLower(line), "ok")
}

// SendCommand writes a command code and blocks until the firmware
// acknowledges it. The frame is re-sent on every unacknowledged read:
// at-least-once delivery. Duplicate delivery is safe because every
// generated dispatch handler is an idempotent pin write or response send.
//
// There is no protocol-level timeout. The wait is bounded only by the
// transport's read timeout, which surfaces here as a transport error.
func (s *Session) SendCommand(code int) error {
	if s.transport == nil {
		return ErrNotConnected
	}
	frame := strconv.Itoa(code) + s.cmdTerminator
	for {
		if _, err := s.transport.Write([]byte(frame)); err != nil {
			return err
		}
		response, err := s.ReadResponse(OriginCommand)
		if err != nil {
			return err
		}
		if IsAck(response) {
			return nil
		}
	}
}

// SendData writes a payload string on the data channel and blocks until the
// firmware acknowledges it, with the same re-send policy as SendCommand.
// Whitespace inside the payload is substituted with the session's reserved
// token before framing; the firmware-side parser restores it.
func (s *Session) SendData(payload string) error {
	if s.transport == nil {
		return ErrNotConnected
	}
	substituted := strings.ReplaceAll(payload, " ", s.whitespaceSub)
	substituted = strings.ReplaceAll(substituted, "\t", s.whitespaceSub)
	frame := substituted + s.dataTerminator
	for {
		if _, err := s.transport.Write([]byte(frame)); err != nil {
			return err
		}
		response, err := s.ReadResponse(OriginData)
		if err != nil {
			return err
		}
		if IsAck(response) {
			return nil
		}
	}
}

// ReadResponse reads one response line, delimited by the terminator
// matching the request origin, and returns it with the terminator and
// surrounding whitespace stripped.
func (s *Session) ReadResponse(origin ResponseOrigin) (string, error) {
	if s.transport == nil {
		return "", ErrNotConnected
	}
	terminator := s.cmdTerminator
	if origin == OriginData {
		terminator = s.dataTerminator
	}
	raw, err := s.readUntil(terminator)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.TrimSuffix(raw, terminator)), nil
}

// readUntil accumulates bytes until the terminator sequence is seen.
// Byte-at-a-time keeps the session free of read-ahead state that would go
// stale when the port is closed and reopened around an upload.
func (s *Session) readUntil(terminator string) (string, error) {
	var buf strings.Builder
	one := make([]byte, 1)
	for {
		n, err := s.transport.Read(one)
		if err != nil {
			return "", err
		}
		if n == 0 {
			continue
		}
		buf.WriteByte(one[0])
		if strings.HasSuffix(buf.String(), terminator) {
			return buf.String(), nil
		}
	}
}

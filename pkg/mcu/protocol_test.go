// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Sketchbridge Authors

package mcu

import (
	"io"
	"log"
	"testing"
)

// fakeTransport scripts firmware behavior for protocol tests: reads are
// served from a queue, writes are recorded. Reading past the queue returns
// io.EOF, standing in for a transport failure.
type fakeTransport struct {
	pending  []byte
	writes   []string
	closed   int
	reopened int
}

func (f *fakeTransport) queue(s string) {
	f.pending = append(f.pending, s...)
}

func (f *fakeTransport) Read(p []byte) (int, error) {
	if len(f.pending) == 0 {
		return 0, io.EOF
	}
	n := copy(p, f.pending)
	f.pending = f.pending[n:]
	return n, nil
}

func (f *fakeTransport) Write(p []byte) (int, error) {
	f.writes = append(f.writes, string(p))
	return len(p), nil
}

func (f *fakeTransport) Close() error {
	f.closed++
	return nil
}

func (f *fakeTransport) Reopen() error {
	f.reopened++
	return nil
}

func newTestSession(t *testing.T) (*Session, *fakeTransport) {
	t.Helper()
	transport := &fakeTransport{}
	session := NewWithTransport(Config{
		SketchDir: t.TempDir(),
		Logger:    log.New(io.Discard, "", 0),
	}, transport)
	return session, transport
}

func TestSendCommand_AckVariants(t *testing.T) {
	tests := []struct {
		name string
		ack  string
	}{
		{name: "lowercase", ack: "ok\n"},
		{name: "uppercase", ack: "OK\n"},
		{name: "mixed case", ack: "Ok\n"},
		{name: "surrounding whitespace", ack: "  OK  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, transport := newTestSession(t)
			transport.queue(tt.ack)

			if err := session.SendCommand(3); err != nil {
				t.Fatalf("SendCommand: %v", err)
			}
			if len(transport.writes) != 1 || transport.writes[0] != "3\n" {
				t.Errorf("writes = %q, want [\"3\\n\"]", transport.writes)
			}
		})
	}
}

func TestSendCommand_ResendsUntilAck(t *testing.T) {
	session, transport := newTestSession(t)
	// Two non-ack lines before the acknowledgement: the command frame is
	// re-sent for each failed read.
	transport.queue("garbage\n")
	transport.queue("5\n")
	transport.queue("ok\n")

	if err := session.SendCommand(7); err != nil {
		t.Fatalf("SendCommand: %v", err)
	}
	if len(transport.writes) != 3 {
		t.Errorf("command written %d times, want 3 (re-send per retry)", len(transport.writes))
	}
	for i, frame := range transport.writes {
		if frame != "7\n" {
			t.Errorf("write %d = %q, want \"7\\n\"", i, frame)
		}
	}
}

func TestSendCommand_TransportError(t *testing.T) {
	session, _ := newTestSession(t)

	if err := session.SendCommand(1); err != io.EOF {
		t.Errorf("SendCommand on dead transport = %v, want io.EOF", err)
	}
}

func TestSendCommand_Offline(t *testing.T) {
	session := newSession(Config{Logger: log.New(io.Discard, "", 0)})

	if err := session.SendCommand(0); err != ErrNotConnected {
		t.Errorf("SendCommand offline = %v, want ErrNotConnected", err)
	}
}

func TestSendData_SubstitutesWhitespace(t *testing.T) {
	session, transport := newTestSession(t)
	transport.queue("ok\r\n")

	if err := session.SendData("set point 90"); err != nil {
		t.Fatalf("SendData: %v", err)
	}
	want := "set||point||90\r\n"
	if len(transport.writes) != 1 || transport.writes[0] != want {
		t.Errorf("writes = %q, want [%q]", transport.writes, want)
	}
}

func TestSendData_UsesDataTerminator(t *testing.T) {
	session, transport := newTestSession(t)
	// A command-terminated ack must not satisfy a data wait: the first
	// "ok\n" lacks the \r\n framing, so the read keeps going until the
	// data-terminated ack arrives.
	transport.queue("ok\nok\r\n")

	if err := session.SendData("45"); err != nil {
		t.Fatalf("SendData: %v", err)
	}
	if len(transport.writes) != 1 {
		t.Errorf("data frame written %d times, want 1", len(transport.writes))
	}
}

func TestReadResponse_StripsTerminator(t *testing.T) {
	session, transport := newTestSession(t)
	transport.queue("  23.50 45.10  \n")

	response, err := session.ReadResponse(OriginCommand)
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if response != "23.50 45.10" {
		t.Errorf("response = %q, want \"23.50 45.10\"", response)
	}
}

func TestReadResponse_DataOrigin(t *testing.T) {
	session, transport := newTestSession(t)
	transport.queue("payload\r\n")

	response, err := session.ReadResponse(OriginData)
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if response != "payload" {
		t.Errorf("response = %q, want \"payload\"", response)
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Sketchbridge Authors

package mcu

import (
	"errors"
	"io"
	"log"
	"os"
	"testing"

	"github.com/sketchbridge/sketchbridge/pkg/arduinocli"
)

// fakeToolchain stands in for arduino-cli in sync tests.
type fakeToolchain struct {
	available  bool
	formatting bool
	boards     map[string]string
	boardCalls int
	uploads    int
	formats    int
	uploadErr  error
}

func (f *fakeToolchain) Available() bool {
	return f.available
}

func (f *fakeToolchain) Formatting() bool {
	return f.formatting
}

func (f *fakeToolchain) Boards() (map[string]string, error) {
	f.boardCalls++
	if !f.available {
		return nil, arduinocli.ErrUnavailable
	}
	return f.boards, nil
}

func (f *fakeToolchain) Upload(sketchDir, port, fqbn string) error {
	f.uploads++
	return f.uploadErr
}

func (f *fakeToolchain) Format(path string) error {
	f.formats++
	return nil
}

func newSyncSession(t *testing.T, toolchain Toolchain) (*Session, *fakeTransport) {
	t.Helper()
	transport := &fakeTransport{}
	session := NewWithTransport(Config{
		Board:     "Arduino Uno",
		SketchDir: t.TempDir(),
		Toolchain: toolchain,
		Logger:    log.New(io.Discard, "", 0),
	}, transport)
	return session, transport
}

func unoToolchain() *fakeToolchain {
	return &fakeToolchain{
		available: true,
		boards:    map[string]string{"Arduino Uno": "arduino:avr:uno"},
	}
}

func TestSync_SkipsWhenUnchanged(t *testing.T) {
	toolchain := unoToolchain()
	session, _ := newSyncSession(t, toolchain)
	if _, err := session.AttachLED(7); err != nil {
		t.Fatalf("AttachLED: %v", err)
	}

	if err := session.Sync(false); err != nil {
		t.Fatalf("first Sync: %v", err)
	}
	if err := session.Sync(false); err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if toolchain.uploads != 1 {
		t.Errorf("uploads = %d, want 1 (second sync is a hash-match no-op)", toolchain.uploads)
	}
}

func TestSync_ForceAlwaysUploads(t *testing.T) {
	toolchain := unoToolchain()
	session, _ := newSyncSession(t, toolchain)
	if _, err := session.AttachLED(7); err != nil {
		t.Fatalf("AttachLED: %v", err)
	}

	if err := session.Sync(false); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := session.Sync(true); err != nil {
		t.Fatalf("forced Sync: %v", err)
	}
	if toolchain.uploads != 2 {
		t.Errorf("uploads = %d, want 2 (force bypasses the hash check)", toolchain.uploads)
	}
}

func TestSync_NewAttachmentTriggersUpload(t *testing.T) {
	toolchain := unoToolchain()
	session, _ := newSyncSession(t, toolchain)
	if _, err := session.AttachLED(7); err != nil {
		t.Fatalf("AttachLED: %v", err)
	}

	if err := session.Sync(false); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if _, err := session.AttachRelay(8); err != nil {
		t.Fatalf("AttachRelay: %v", err)
	}
	if err := session.Sync(false); err != nil {
		t.Fatalf("Sync after attach: %v", err)
	}
	if toolchain.uploads != 2 {
		t.Errorf("uploads = %d, want 2 (new peripheral changes the hash)", toolchain.uploads)
	}
}

func TestSync_CyclesTransportAroundUpload(t *testing.T) {
	toolchain := unoToolchain()
	session, transport := newSyncSession(t, toolchain)
	if _, err := session.AttachLED(7); err != nil {
		t.Fatalf("AttachLED: %v", err)
	}

	if err := session.Sync(false); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if transport.closed != 1 || transport.reopened != 1 {
		t.Errorf("transport closed %d times and reopened %d times, want 1 and 1",
			transport.closed, transport.reopened)
	}
}

func TestSync_UnknownBoard(t *testing.T) {
	toolchain := unoToolchain()
	session, _ := newSyncSession(t, toolchain)
	session.cfg.Board = "Imaginary Board"

	if err := session.Sync(false); !errors.Is(err, ErrUnknownBoard) {
		t.Errorf("Sync with unknown board = %v, want ErrUnknownBoard", err)
	}
}

func TestSync_BuildErrorPropagates(t *testing.T) {
	toolchain := unoToolchain()
	toolchain.uploadErr = &arduinocli.BuildError{Stage: "compile", Output: "boom"}
	session, _ := newSyncSession(t, toolchain)

	err := session.Sync(false)
	var buildErr *arduinocli.BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("Sync = %v, want BuildError", err)
	}
	if buildErr.Stage != "compile" {
		t.Errorf("stage = %q, want compile", buildErr.Stage)
	}
}

func TestSync_ToolUnavailableStillWritesSketch(t *testing.T) {
	toolchain := &fakeToolchain{}
	session, _ := newSyncSession(t, toolchain)
	if _, err := session.AttachLED(7); err != nil {
		t.Fatalf("AttachLED: %v", err)
	}

	err := session.Sync(false)
	if !errors.Is(err, arduinocli.ErrUnavailable) {
		t.Fatalf("Sync without arduino-cli = %v, want ErrUnavailable", err)
	}
	// Generation must survive a missing toolchain.
	if _, statErr := os.Stat(session.SketchPath()); statErr != nil {
		t.Errorf("generated sketch missing: %v", statErr)
	}
	if toolchain.boardCalls != 0 {
		t.Errorf("boardCalls = %d, want 0 (missing tool is reported before board lookup)", toolchain.boardCalls)
	}
}

func TestSync_FailedUploadLeavesSessionDisconnected(t *testing.T) {
	toolchain := unoToolchain()
	toolchain.uploadErr = &arduinocli.BuildError{Stage: "upload", Output: "port busy"}
	transport := &SerialTransport{}
	session := NewWithTransport(Config{
		Board:     "Arduino Uno",
		SketchDir: t.TempDir(),
		Toolchain: toolchain,
		Logger:    log.New(io.Discard, "", 0),
	}, transport)
	if _, err := session.AttachLED(7); err != nil {
		t.Fatalf("AttachLED: %v", err)
	}

	err := session.Sync(false)
	var buildErr *arduinocli.BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("Sync = %v, want BuildError", err)
	}

	// The serial port stays released after the failed upload. Protocol
	// operations on the session must surface an error, not crash.
	if err := session.SendCommand(0); !errors.Is(err, ErrNotConnected) {
		t.Errorf("SendCommand after failed upload = %v, want ErrNotConnected", err)
	}
	if _, err := session.ReadResponse(OriginCommand); !errors.Is(err, ErrNotConnected) {
		t.Errorf("ReadResponse after failed upload = %v, want ErrNotConnected", err)
	}
}

func TestSync_FormatsWhenAvailable(t *testing.T) {
	toolchain := unoToolchain()
	toolchain.formatting = true
	session, _ := newSyncSession(t, toolchain)

	if err := session.Sync(false); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if toolchain.formats != 1 {
		t.Errorf("formats = %d, want 1", toolchain.formats)
	}
}

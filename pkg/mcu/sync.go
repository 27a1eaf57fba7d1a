// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Sketchbridge Authors

package mcu

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sketchbridge/sketchbridge/pkg/arduinocli"
	"github.com/sketchbridge/sketchbridge/pkg/sketch"
)

const (
	sketchDirName  = "sketchbridge"
	sketchFileName = "sketchbridge.ino"
)

// GenerateSource assembles the firmware source for everything attached so
// far. Peripherals attached after this call are not included until the next
// generation.
func (s *Session) GenerateSource() (string, error) {
	return sketch.Generate(sketch.Config{
		BaudRate:       s.cfg.BaudRate,
		CmdTerminator:  s.cmdTerminator,
		DataTerminator: s.dataTerminator,
		WhitespaceSub:  s.whitespaceSub,
	}, s.descriptors)
}

// SketchPath returns the cache location of the generated sketch.
func (s *Session) SketchPath() string {
	return filepath.Join(s.sketchDir(), sketchFileName)
}

func (s *Session) sketchDir() string {
	if s.cfg.SketchDir != "" {
		return s.cfg.SketchDir
	}
	return filepath.Join(os.TempDir(), sketchDirName)
}

// Sync regenerates the firmware and flashes it to the board if anything
// changed since the last upload. The comparison is by content hash of the
// cached sketch file, so an unchanged session is an idempotent no-op unless
// force is set.
func (s *Session) Sync(force bool) error {
	dir := s.sketchDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating sketch directory: %v", err)
	}
	path := filepath.Join(dir, sketchFileName)

	previousHash := ""
	if data, err := os.ReadFile(path); err == nil {
		previousHash = hashBytes(data)
	}

	source, err := s.GenerateSource()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		return fmt.Errorf("writing sketch: %v", err)
	}

	toolchain := s.Toolchain()
	if toolchain.Formatting() {
		// Formatting failure is logged, not fatal.
		if err := toolchain.Format(path); err != nil {
			s.logger.Printf("formatting %s failed: %v", path, err)
		}
	}

	written, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("rereading sketch: %v", err)
	}
	if hashBytes(written) == previousHash && !force {
		s.logger.Printf("generated sketch matches previous upload, skipping")
		return nil
	}

	if !toolchain.Available() {
		return fmt.Errorf("flashing firmware requires arduino-cli: %w", arduinocli.ErrUnavailable)
	}
	boards, err := toolchain.Boards()
	if err != nil {
		return err
	}
	fqbn, ok := boards[s.cfg.Board]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBoard, s.cfg.Board)
	}

	// The uploader needs exclusive access to the port.
	if s.transport != nil {
		if err := s.transport.Close(); err != nil {
			return err
		}
	}
	if err := toolchain.Upload(dir, s.cfg.Port, fqbn); err != nil {
		return err
	}
	if reopener, ok := s.transport.(Reopener); ok {
		if err := reopener.Reopen(); err != nil {
			return err
		}
	}
	s.logger.Printf("firmware uploaded to %s (%s)", s.cfg.Board, fqbn)
	return nil
}

// Toolchain returns the session's toolchain, constructing the default
// arduino-cli wrapper on first use so offline work never probes for tools.
func (s *Session) Toolchain() Toolchain {
	if s.toolchain == nil {
		s.toolchain = arduinocli.New("", s.logger)
	}
	return s.toolchain
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Sketchbridge Authors

package arduinocli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrUnavailable is returned when an operation requires arduino-cli and the
// tool was not found on the host. Absence of the tool degrades the library
// to generation-only: peripheral registration and code generation keep
// working, compile and upload do not.
var ErrUnavailable = errors.New("arduino-cli not found")

// BuildError carries the captured diagnostic output of a failed compile or
// upload. The pipeline never retries a build automatically.
type BuildError struct {
	Stage  string // "compile" or "upload"
	Output string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Stage, strings.TrimSpace(e.Output))
}

// requiredLibraries pins the firmware libraries the generated sketches
// depend on. Versions are checked against `arduino-cli lib list` and
// installed or updated on first use.
var requiredLibraries = map[string]string{
	"Servo":              "1.2.1",
	"DHT sensor library": "1.4.6",
}

var versionPattern = regexp.MustCompile(`\d+\.\d+\.\d+`)

// CLI wraps the arduino-cli and clang-format executables. Both are optional
// collaborators: construction probes for them and records what is present
// rather than failing.
type CLI struct {
	workDir    string
	available  bool
	formatting bool
	logger     *log.Logger
}

// New probes for arduino-cli and clang-format. workDir, when non-empty, is
// used as the working directory for every invocation (matching a portable
// arduino-cli install that keeps its configuration beside the binary).
func New(workDir string, logger *log.Logger) *CLI {
	if logger == nil {
		logger = log.Default()
	}
	c := &CLI{workDir: workDir, logger: logger}
	if err := c.run(nil, "arduino-cli", "version"); err == nil {
		c.available = true
	} else {
		c.logger.Printf("arduino-cli not found, compile and upload disabled: %v", err)
	}
	if err := c.run(nil, "clang-format", "--version"); err == nil {
		c.formatting = true
	} else {
		c.logger.Printf("clang-format not found, generated code will not be formatted")
	}
	if c.available {
		if err := c.EnsureLibraries(requiredLibraries); err != nil {
			c.logger.Printf("firmware library setup failed: %v", err)
		}
	}
	return c
}

// Available reports whether arduino-cli was found.
func (c *CLI) Available() bool {
	return c.available
}

// Formatting reports whether clang-format was found.
func (c *CLI) Formatting() bool {
	return c.formatting
}

func (c *CLI) run(stdout *bytes.Buffer, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = c.workDir
	if stdout != nil {
		cmd.Stdout = stdout
	}
	return cmd.Run()
}

func (c *CLI) runCaptured(name string, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Dir = c.workDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// Boards returns the board-name to fully-qualified-board-name mapping known
// to arduino-cli.
func (c *CLI) Boards() (map[string]string, error) {
	if !c.available {
		return nil, ErrUnavailable
	}
	stdout, stderr, err := c.runCaptured("arduino-cli", "board", "listall", "--format", "json")
	if err != nil {
		return nil, fmt.Errorf("board listing failed: %v: %s", err, strings.TrimSpace(stderr))
	}
	return parseBoards([]byte(stdout))
}

// InstalledLibraries returns the name to version mapping of libraries known
// to the local arduino-cli library index.
func (c *CLI) InstalledLibraries() (map[string]string, error) {
	if !c.available {
		return nil, ErrUnavailable
	}
	stdout, stderr, err := c.runCaptured("arduino-cli", "lib", "list", "--format", "json")
	if err != nil {
		return nil, fmt.Errorf("library listing failed: %v: %s", err, strings.TrimSpace(stderr))
	}
	return parseLibraries([]byte(stdout))
}

// InstallLibrary installs a firmware library by name. version is either
// "latest" or a dotted semantic version.
func (c *CLI) InstallLibrary(name, version string) error {
	if !c.available {
		return ErrUnavailable
	}
	if version != "latest" && !versionPattern.MatchString(version) {
		return fmt.Errorf("invalid library version %q", version)
	}
	spec := name
	if version != "latest" {
		spec = name + "@" + version
	}
	_, stderr, err := c.runCaptured("arduino-cli", "lib", "install", spec)
	if err != nil {
		return fmt.Errorf("installing %s: %v: %s", spec, err, strings.TrimSpace(stderr))
	}
	return nil
}

// EnsureLibraries installs or updates every library in required that is
// missing or version-mismatched.
func (c *CLI) EnsureLibraries(required map[string]string) error {
	installed, err := c.InstalledLibraries()
	if err != nil {
		return err
	}
	for name, version := range required {
		if installed[name] == version {
			continue
		}
		c.logger.Printf("installing %s@%s", name, version)
		if err := c.InstallLibrary(name, version); err != nil {
			return err
		}
	}
	return nil
}

// Compile compiles the sketch directory for the given board.
func (c *CLI) Compile(sketchDir, fqbn string) error {
	if !c.available {
		return ErrUnavailable
	}
	abs, err := filepath.Abs(sketchDir)
	if err != nil {
		return err
	}
	_, stderr, err := c.runCaptured("arduino-cli", "compile", "--fqbn", fqbn, abs)
	if err != nil {
		return &BuildError{Stage: "compile", Output: stderr}
	}
	return nil
}

// Upload compiles and flashes the sketch directory to the board on the
// given serial port. The caller must have released the port first; the
// uploader needs exclusive access.
func (c *CLI) Upload(sketchDir, port, fqbn string) error {
	if err := c.Compile(sketchDir, fqbn); err != nil {
		return err
	}
	abs, err := filepath.Abs(sketchDir)
	if err != nil {
		return err
	}
	_, stderr, err := c.runCaptured("arduino-cli", "upload", "-p", port, "--fqbn", fqbn, abs)
	if err != nil {
		return &BuildError{Stage: "upload", Output: stderr}
	}
	return nil
}

// Format reformats a generated source file in place with clang-format,
// using the style file bundled with the package. Formatting is best-effort;
// the caller logs failures and moves on.
func (c *CLI) Format(path string) error {
	if !c.formatting {
		return ErrUnavailable
	}
	stylePath := filepath.Join(filepath.Dir(path), ".clang-format")
	if err := os.WriteFile(stylePath, []byte(clangStyle), 0o644); err != nil {
		return err
	}
	_, stderr, err := c.runCaptured("clang-format", "-i", path, "-style=file:"+stylePath)
	if err != nil {
		return fmt.Errorf("formatting %s: %v: %s", path, err, strings.TrimSpace(stderr))
	}
	return nil
}

type boardList struct {
	Boards []struct {
		Name string `json:"name"`
		FQBN string `json:"fqbn"`
	} `json:"boards"`
}

func parseBoards(data []byte) (map[string]string, error) {
	var list boardList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing board list: %v", err)
	}
	boards := make(map[string]string, len(list.Boards))
	for _, b := range list.Boards {
		boards[b.Name] = b.FQBN
	}
	return boards, nil
}

type libraryList []struct {
	Library struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"library"`
}

func parseLibraries(data []byte) (map[string]string, error) {
	var list libraryList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing library list: %v", err)
	}
	libraries := make(map[string]string, len(list))
	for _, l := range list {
		libraries[l.Library.Name] = l.Library.Version
	}
	return libraries, nil
}

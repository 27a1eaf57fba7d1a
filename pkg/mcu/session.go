// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Sketchbridge Authors

package mcu

import (
	"log"
	"time"

	"github.com/sketchbridge/sketchbridge/pkg/sketch"
)

// Session defaults. The terminators distinguish command frames from data
// frames on the wire; the whitespace token stands in for spaces inside data
// payloads because the firmware-side parser is whitespace sensitive.
const (
	DefaultBaudRate       = 9600
	DefaultBoard          = "Arduino Uno"
	defaultCmdTerminator  = "\n"
	defaultDataTerminator = "\r\n"
	defaultWhitespaceSub  = "||"
)

// Toolchain is the slice of the arduino-cli wrapper the sync pipeline
// needs. *arduinocli.CLI satisfies it; tests substitute a fake.
type Toolchain interface {
	Available() bool
	Formatting() bool
	Boards() (map[string]string, error)
	Upload(sketchDir, port, fqbn string) error
	Format(path string) error
}

// Config describes one microcontroller attachment.
type Config struct {
	// Port is the serial device path. Empty creates an offline session:
	// peripherals can be attached and firmware generated, but runtime
	// protocol operations fail with ErrNotConnected.
	Port     string
	BaudRate int
	// Board is the human board name resolved to a fully-qualified board
	// identifier at upload time.
	Board string
	// ReadTimeout bounds blocking reads on the serial transport. Zero
	// means fully blocking; acknowledgement waits then have no upper
	// bound at all.
	ReadTimeout time.Duration
	// SketchDir overrides the fixed temporary directory the generated
	// sketch is cached in. Mainly for tests.
	SketchDir string
	// Toolchain overrides the default arduino-cli wrapper.
	Toolchain Toolchain
	Logger    *log.Logger
}

// Session is one attached microcontroller: its transport, its registered
// peripherals, the claimed-pin set, and the command-code allocator.
//
// A session has a strict two-phase lifecycle: attach everything and Sync
// during setup, then exchange commands at runtime. Nothing here is safe for
// concurrent use; the design assumes a single goroutine drives both phases.
type Session struct {
	cfg       Config
	transport Transport
	toolchain Toolchain
	logger    *log.Logger

	allocator   *commandAllocator
	pins        *pinSet
	descriptors []*sketch.Descriptor

	cmdTerminator  string
	dataTerminator string
	whitespaceSub  string
}

// New creates a session. When cfg.Port is non-empty the serial port is
// opened immediately.
func New(cfg Config) (*Session, error) {
	s := newSession(cfg)
	if cfg.Port != "" {
		transport, err := DialSerial(cfg.Port, s.cfg.BaudRate, cfg.ReadTimeout)
		if err != nil {
			return nil, err
		}
		s.transport = transport
	}
	return s, nil
}

// NewWithTransport creates a session over an already-open transport, for
// callers that bridge the firmware over something other than a local
// serial port.
func NewWithTransport(cfg Config, transport Transport) *Session {
	s := newSession(cfg)
	s.transport = transport
	return s
}

func newSession(cfg Config) *Session {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.Board == "" {
		cfg.Board = DefaultBoard
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		cfg:            cfg,
		toolchain:      cfg.Toolchain,
		logger:         logger,
		allocator:      newCommandAllocator(),
		pins:           newPinSet(),
		cmdTerminator:  defaultCmdTerminator,
		dataTerminator: defaultDataTerminator,
		whitespaceSub:  defaultWhitespaceSub,
	}
}

// Board returns the configured board name.
func (s *Session) Board() string {
	return s.cfg.Board
}

// Descriptors returns the registered peripherals in attachment order.
func (s *Session) Descriptors() []*sketch.Descriptor {
	out := make([]*sketch.Descriptor, len(s.descriptors))
	copy(out, s.descriptors)
	return out
}

// Close releases the serial transport. Safe on offline sessions.
func (s *Session) Close() error {
	if s.transport == nil {
		return nil
	}
	err := s.transport.Close()
	s.transport = nil
	return err
}

// allocateCommands zips a kind's fixed method order with freshly allocated
// consecutive command codes.
func (s *Session) allocateCommands(kind sketch.Kind) map[string]int {
	methods := kind.Methods()
	codes := s.allocator.allocate(len(methods))
	commands := make(map[string]int, len(methods))
	for i, method := range methods {
		commands[method] = codes[i]
	}
	return commands
}

// kindCount counts already-registered descriptors of a kind, used to number
// multi-instance peripherals.
func (s *Session) kindCount(kind sketch.Kind) int {
	count := 0
	for _, d := range s.descriptors {
		if d.Kind() == kind {
			count++
		}
	}
	return count
}

func (s *Session) register(d *sketch.Descriptor) {
	s.descriptors = append(s.descriptors, d)
}

// AttachLED attaches an LED to a microcontroller pin.
func (s *Session) AttachLED(pin int) (*LED, error) {
	if err := s.pins.claim(pin); err != nil {
		return nil, err
	}
	commands := s.allocateCommands(sketch.KindLED)
	d, err := sketch.NewLED(pin, commands)
	if err != nil {
		return nil, err
	}
	s.register(d)
	s.logger.Printf("LED attached to pin %d", pin)
	return &LED{session: s, pin: pin, commands: commands}, nil
}

// AttachRelay attaches a relay to a microcontroller pin.
func (s *Session) AttachRelay(pin int) (*Relay, error) {
	if err := s.pins.claim(pin); err != nil {
		return nil, err
	}
	commands := s.allocateCommands(sketch.KindRelay)
	d, err := sketch.NewRelay(pin, commands)
	if err != nil {
		return nil, err
	}
	s.register(d)
	s.logger.Printf("relay attached to pin %d", pin)
	return &Relay{session: s, pin: pin, commands: commands}, nil
}

// AttachButton attaches a push button to a microcontroller pin.
func (s *Session) AttachButton(pin int) (*Button, error) {
	if err := s.pins.claim(pin); err != nil {
		return nil, err
	}
	commands := s.allocateCommands(sketch.KindButton)
	d, err := sketch.NewButton(pin, commands)
	if err != nil {
		return nil, err
	}
	s.register(d)
	s.logger.Printf("button attached to pin %d", pin)
	return &Button{session: s, pin: pin, commands: commands}, nil
}

// AttachHallEffectSensor attaches a hall effect sensor to a microcontroller
// pin.
func (s *Session) AttachHallEffectSensor(pin int) (*HallEffectSensor, error) {
	if err := s.pins.claim(pin); err != nil {
		return nil, err
	}
	commands := s.allocateCommands(sketch.KindHallEffectSensor)
	d, err := sketch.NewHallEffectSensor(pin, commands)
	if err != nil {
		return nil, err
	}
	s.register(d)
	s.logger.Printf("hall effect sensor attached to pin %d", pin)
	return &HallEffectSensor{session: s, pin: pin, commands: commands}, nil
}

// AttachServoMotor attaches a servo motor to a microcontroller pin. Multiple
// servos may be attached; each gets a distinct instance number.
func (s *Session) AttachServoMotor(pin int) (*ServoMotor, error) {
	if err := s.pins.claim(pin); err != nil {
		return nil, err
	}
	commands := s.allocateCommands(sketch.KindServoMotor)
	instance := s.kindCount(sketch.KindServoMotor) + 1
	d, err := sketch.NewServoMotor(pin, instance, commands)
	if err != nil {
		return nil, err
	}
	s.register(d)
	s.logger.Printf("servo motor %d attached to pin %d", instance, pin)
	return &ServoMotor{session: s, pin: pin, commands: commands}, nil
}

// AttachDHT11 attaches a DHT11 temperature and humidity sensor.
func (s *Session) AttachDHT11(pin int) (*DHT, error) {
	return s.attachDHT(pin, sketch.DHT11)
}

// AttachDHT22 attaches a DHT22 temperature and humidity sensor.
func (s *Session) AttachDHT22(pin int) (*DHT, error) {
	return s.attachDHT(pin, sketch.DHT22)
}

func (s *Session) attachDHT(pin int, model sketch.DHTModel) (*DHT, error) {
	if err := s.pins.claim(pin); err != nil {
		return nil, err
	}
	commands := s.allocateCommands(sketch.KindDHTSensor)
	instance := s.kindCount(sketch.KindDHTSensor) + 1
	d, err := sketch.NewDHT(pin, instance, model, commands)
	if err != nil {
		return nil, err
	}
	s.register(d)
	s.logger.Printf("%s attached to pin %d", model, pin)
	return &DHT{session: s, pin: pin, model: model, commands: commands}, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Sketchbridge Authors

package sketch

import "fmt"

// SentinelCommand is the reserved "no pending command" value used by the
// firmware dispatch loop. It is never allocated to a peripheral.
const SentinelCommand = -1

// Kind identifies a peripheral archetype. The set is closed: every kind the
// generator understands is listed here, and dispatch on Kind replaces any
// runtime type inspection.
type Kind int

const (
	KindLED Kind = iota
	KindRelay
	KindButton
	KindHallEffectSensor
	KindServoMotor
	KindDHTSensor
)

// String returns the snake-style tag used in generated identifier names.
func (k Kind) String() string {
	switch k {
	case KindLED:
		return "led"
	case KindRelay:
		return "relay"
	case KindButton:
		return "button"
	case KindHallEffectSensor:
		return "hall_effect_sensor"
	case KindServoMotor:
		return "servo_motor"
	case KindDHTSensor:
		return "dht_sensor"
	default:
		return "unknown"
	}
}

// Methods returns the fixed, ordered method list for a kind. The order is
// load-bearing for command allocation: attach operations zip this list with
// freshly allocated command codes.
func (k Kind) Methods() []string {
	switch k {
	case KindLED, KindRelay:
		return []string{"turn_on", "turn_off"}
	case KindButton, KindHallEffectSensor:
		return []string{"read"}
	case KindServoMotor:
		return []string{"rotate"}
	case KindDHTSensor:
		return []string{"get_data", "get_temperature", "get_humidity"}
	default:
		return nil
	}
}

// InvalidCommandConfigError reports a required method missing from a
// caller-supplied command map. It is a programming error, fatal to the
// attach call that triggered it.
type InvalidCommandConfigError struct {
	Kind   Kind
	Method string
}

func (e *InvalidCommandConfigError) Error() string {
	return fmt.Sprintf("method %q missing from %s command map", e.Method, e.Kind)
}

// Descriptor is one logical device's contribution to the generated firmware:
// required libraries, a global declaration, setup statements, and one
// firmware statement body per method, plus the method-to-command mapping the
// dispatch loop is generated from. Descriptors are immutable once
// constructed and owned by exactly one session.
type Descriptor struct {
	kind      Kind
	instance  int
	pins      []int
	libraries []string
	global    string
	setup     string
	methods   []string
	commands  map[string]int
	bodies    map[string]string
}

// Kind returns the peripheral archetype.
func (d *Descriptor) Kind() Kind {
	return d.kind
}

// Instance returns the per-kind instance number (0 for kinds that can only
// be attached once per pin without a shared firmware object).
func (d *Descriptor) Instance() int {
	return d.instance
}

// Pins returns the microcontroller pins this device occupies.
func (d *Descriptor) Pins() []int {
	pins := make([]int, len(d.pins))
	copy(pins, d.pins)
	return pins
}

// Libraries returns the firmware libraries this device requires.
func (d *Descriptor) Libraries() []string {
	libs := make([]string, len(d.libraries))
	copy(libs, d.libraries)
	return libs
}

// Methods returns the device's method names in their fixed archetype order.
func (d *Descriptor) Methods() []string {
	methods := make([]string, len(d.methods))
	copy(methods, d.methods)
	return methods
}

// Command returns the command code mapped to a method.
func (d *Descriptor) Command(method string) (int, bool) {
	code, ok := d.commands[method]
	return code, ok
}

// validate checks the descriptor invariant: every method must have both a
// command code and a firmware statement body before code generation.
func (d *Descriptor) validate() error {
	for _, method := range d.methods {
		if _, ok := d.commands[method]; !ok {
			return &InvalidCommandConfigError{Kind: d.kind, Method: method}
		}
		if _, ok := d.bodies[method]; !ok {
			return &InvalidCommandConfigError{Kind: d.kind, Method: method}
		}
	}
	return nil
}

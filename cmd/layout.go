// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Sketchbridge Authors

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sketchbridge/sketchbridge/pkg/mcu"
)

// layoutDevice is one peripheral entry in a layout file.
type layoutDevice struct {
	Kind string `json:"kind"`
	Pin  int    `json:"pin"`
}

// layout is the on-disk description of a microcontroller setup: which
// board it is, how to reach it, and what hangs off which pin.
type layout struct {
	Port    string         `json:"port,omitempty"`
	Baud    int            `json:"baud,omitempty"`
	Board   string         `json:"board,omitempty"`
	Devices []layoutDevice `json:"devices"`
}

func loadLayout(path string) (*layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file: %v", err)
	}

	var l layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse layout file %s: %v", path, err)
	}
	if len(l.Devices) == 0 {
		return nil, fmt.Errorf("layout file %s declares no devices", path)
	}
	return &l, nil
}

// attach registers every layout device on the session, in file order so
// command codes come out stable across runs.
func (l *layout) attach(session *mcu.Session) error {
	for i, dev := range l.Devices {
		var err error
		switch dev.Kind {
		case "led":
			_, err = session.AttachLED(dev.Pin)
		case "relay":
			_, err = session.AttachRelay(dev.Pin)
		case "button":
			_, err = session.AttachButton(dev.Pin)
		case "hall_effect_sensor":
			_, err = session.AttachHallEffectSensor(dev.Pin)
		case "servo_motor":
			_, err = session.AttachServoMotor(dev.Pin)
		case "dht11":
			_, err = session.AttachDHT11(dev.Pin)
		case "dht22":
			_, err = session.AttachDHT22(dev.Pin)
		default:
			return fmt.Errorf("device %d: unknown kind %q", i, dev.Kind)
		}
		if err != nil {
			return fmt.Errorf("device %d (%s, pin %d): %v", i, dev.Kind, dev.Pin, err)
		}
	}
	return nil
}

// newSession builds a session from the layout. Command-line flags take
// precedence over layout fields. With connect false the session stays
// offline, which is all code generation needs.
func (l *layout) newSession(connect bool) (*mcu.Session, error) {
	cfg := mcu.Config{
		Port:     l.Port,
		BaudRate: l.Baud,
		Board:    l.Board,
	}
	if portName != "" {
		cfg.Port = portName
	}
	// An explicitly passed --baud wins even when it equals the default,
	// so Changed is the test rather than the flag's value.
	if f := rootCmd.PersistentFlags().Lookup("baud"); f != nil && f.Changed {
		cfg.BaudRate = baudRate
	}
	if !connect {
		cfg.Port = ""
	} else {
		if cfg.Port == "" {
			return nil, fmt.Errorf("no serial port given: use --port or set \"port\" in the layout file")
		}
		cfg.ReadTimeout = 5 * time.Second
	}

	session, err := mcu.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := l.attach(session); err != nil {
		session.Close()
		return nil, err
	}
	return session, nil
}

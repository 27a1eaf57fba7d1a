// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Sketchbridge Authors

package mcu

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sketchbridge/sketchbridge/pkg/sketch"
)

// Host-side handles returned by the attach operations. Each domain method
// sends the mapped command code, plus a follow-up data payload where the
// firmware expects one, and blocks for acknowledgement.

// LED is the host handle for an attached LED.
type LED struct {
	session  *Session
	pin      int
	commands map[string]int
	state    bool
}

// TurnOn lights the LED. No-op if already on.
func (l *LED) TurnOn() error {
	if l.state {
		return nil
	}
	if err := l.session.SendCommand(l.commands["turn_on"]); err != nil {
		return err
	}
	l.state = true
	return nil
}

// TurnOff darkens the LED. No-op if already off.
func (l *LED) TurnOff() error {
	if !l.state {
		return nil
	}
	if err := l.session.SendCommand(l.commands["turn_off"]); err != nil {
		return err
	}
	l.state = false
	return nil
}

// State reports the host-side on/off state.
func (l *LED) State() bool {
	return l.state
}

// Relay is the host handle for an attached relay.
type Relay struct {
	session  *Session
	pin      int
	commands map[string]int
	state    bool
}

// TurnOn energizes the relay. No-op if already on.
func (r *Relay) TurnOn() error {
	if r.state {
		return nil
	}
	if err := r.session.SendCommand(r.commands["turn_on"]); err != nil {
		return err
	}
	r.state = true
	return nil
}

// TurnOff de-energizes the relay. No-op if already off.
func (r *Relay) TurnOff() error {
	if !r.state {
		return nil
	}
	if err := r.session.SendCommand(r.commands["turn_off"]); err != nil {
		return err
	}
	r.state = false
	return nil
}

// State reports the host-side on/off state.
func (r *Relay) State() bool {
	return r.state
}

// Button is the host handle for an attached push button.
type Button struct {
	session  *Session
	pin      int
	commands map[string]int
}

// Read returns the pressed state.
func (b *Button) Read() (bool, error) {
	if err := b.session.SendCommand(b.commands["read"]); err != nil {
		return false, err
	}
	response, err := b.session.ReadResponse(OriginCommand)
	if err != nil {
		return false, err
	}
	return response == "1", nil
}

// HallEffectSensor is the host handle for an attached hall effect sensor.
type HallEffectSensor struct {
	session  *Session
	pin      int
	commands map[string]int
}

// Read returns whether a magnetic field is detected.
func (h *HallEffectSensor) Read() (bool, error) {
	if err := h.session.SendCommand(h.commands["read"]); err != nil {
		return false, err
	}
	response, err := h.session.ReadResponse(OriginCommand)
	if err != nil {
		return false, err
	}
	return response == "1", nil
}

// ServoMotor is the host handle for an attached servo motor.
type ServoMotor struct {
	session  *Session
	pin      int
	commands map[string]int
}

// Rotate turns the servo to the given angle. The command frame selects the
// handler; the angle travels on the data channel.
func (s *ServoMotor) Rotate(angle int) error {
	if err := s.session.SendCommand(s.commands["rotate"]); err != nil {
		return err
	}
	return s.session.SendData(strconv.Itoa(angle))
}

// DHT is the host handle for an attached DHT11 or DHT22 sensor.
type DHT struct {
	session  *Session
	pin      int
	model    sketch.DHTModel
	commands map[string]int
}

// Model returns the concrete sensor model.
func (d *DHT) Model() sketch.DHTModel {
	return d.model
}

// Data reads temperature and humidity in one exchange.
func (d *DHT) Data() (temperature, humidity float64, err error) {
	if err := d.session.SendCommand(d.commands["get_data"]); err != nil {
		return 0, 0, err
	}
	response, err := d.session.ReadResponse(OriginCommand)
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(response)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%s read failed: %q", d.model, response)
	}
	temperature, err = strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%s read failed: %q", d.model, response)
	}
	humidity, err = strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%s read failed: %q", d.model, response)
	}
	return temperature, humidity, nil
}

// Temperature reads the temperature in degrees Celsius.
func (d *DHT) Temperature() (float64, error) {
	return d.readFloat("get_temperature")
}

// Humidity reads the relative humidity percentage.
func (d *DHT) Humidity() (float64, error) {
	return d.readFloat("get_humidity")
}

func (d *DHT) readFloat(method string) (float64, error) {
	if err := d.session.SendCommand(d.commands[method]); err != nil {
		return 0, err
	}
	response, err := d.session.ReadResponse(OriginCommand)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(response, 64)
	if err != nil {
		return 0, fmt.Errorf("%s read failed: %q", d.model, response)
	}
	return value, nil
}

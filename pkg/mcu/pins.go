// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Sketchbridge Authors

package mcu

// pinSet tracks which microcontroller pins are claimed. Claims are permanent
// for the session lifetime.
type pinSet struct {
	claimed map[int]bool
}

func newPinSet() *pinSet {
	return &pinSet{claimed: make(map[int]bool)}
}

// claim validates and records the given pins. If any pin is already in use
// the whole call fails with PinConflictError and no pin is recorded.
func (p *pinSet) claim(pins ...int) error {
	for _, pin := range pins {
		if p.claimed[pin] {
			return &PinConflictError{Pin: pin}
		}
	}
	for _, pin := range pins {
		p.claimed[pin] = true
	}
	return nil
}

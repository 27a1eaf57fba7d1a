// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Sketchbridge Authors

package mcu

import "testing"

func TestLED_SkipsRedundantSends(t *testing.T) {
	session, transport := newTestSession(t)
	led, err := session.AttachLED(7)
	if err != nil {
		t.Fatalf("AttachLED: %v", err)
	}

	transport.queue("ok\n")
	if err := led.TurnOn(); err != nil {
		t.Fatalf("TurnOn: %v", err)
	}
	// Already on: no frame goes out, no ack is needed.
	if err := led.TurnOn(); err != nil {
		t.Fatalf("second TurnOn: %v", err)
	}
	if len(transport.writes) != 1 {
		t.Errorf("writes = %q, want a single turn-on frame", transport.writes)
	}
	if !led.State() {
		t.Error("LED state should be on")
	}

	transport.queue("ok\n")
	if err := led.TurnOff(); err != nil {
		t.Fatalf("TurnOff: %v", err)
	}
	if len(transport.writes) != 2 {
		t.Errorf("writes = %q, want turn-on then turn-off", transport.writes)
	}
	if transport.writes[0] != "0\n" || transport.writes[1] != "1\n" {
		t.Errorf("frames = %q, want [\"0\\n\" \"1\\n\"]", transport.writes)
	}
}

func TestButton_Read(t *testing.T) {
	session, transport := newTestSession(t)
	button, err := session.AttachButton(2)
	if err != nil {
		t.Fatalf("AttachButton: %v", err)
	}

	transport.queue("ok\n1\n")
	pressed, err := button.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !pressed {
		t.Error("expected pressed state for response \"1\"")
	}

	transport.queue("ok\n0\n")
	pressed, err = button.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if pressed {
		t.Error("expected released state for response \"0\"")
	}
}

func TestServoMotor_RotateSendsCommandThenData(t *testing.T) {
	session, transport := newTestSession(t)
	servo, err := session.AttachServoMotor(9)
	if err != nil {
		t.Fatalf("AttachServoMotor: %v", err)
	}

	transport.queue("ok\n")   // command ack
	transport.queue("ok\r\n") // data ack
	if err := servo.Rotate(90); err != nil {
		t.Fatalf("Rotate: %v", err)
	}

	want := []string{"0\n", "90\r\n"}
	if len(transport.writes) != len(want) {
		t.Fatalf("writes = %q, want %q", transport.writes, want)
	}
	for i := range want {
		if transport.writes[i] != want[i] {
			t.Errorf("write %d = %q, want %q", i, transport.writes[i], want[i])
		}
	}
}

func TestDHT_Data(t *testing.T) {
	session, transport := newTestSession(t)
	dht, err := session.AttachDHT11(4)
	if err != nil {
		t.Fatalf("AttachDHT11: %v", err)
	}

	transport.queue("ok\n23.50 45.10\n")
	temperature, humidity, err := dht.Data()
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if temperature != 23.5 || humidity != 45.1 {
		t.Errorf("Data() = %v, %v, want 23.5, 45.1", temperature, humidity)
	}
}

func TestDHT_Temperature(t *testing.T) {
	session, transport := newTestSession(t)
	dht, err := session.AttachDHT22(4)
	if err != nil {
		t.Fatalf("AttachDHT22: %v", err)
	}

	transport.queue("ok\n21.25\n")
	temperature, err := dht.Temperature()
	if err != nil {
		t.Fatalf("Temperature: %v", err)
	}
	if temperature != 21.25 {
		t.Errorf("Temperature() = %v, want 21.25", temperature)
	}
}

func TestDHT_MalformedResponse(t *testing.T) {
	session, transport := newTestSession(t)
	dht, err := session.AttachDHT11(4)
	if err != nil {
		t.Fatalf("AttachDHT11: %v", err)
	}

	transport.queue("ok\nnan garbage extra\n")
	if _, _, err := dht.Data(); err == nil {
		t.Error("expected error for malformed sensor response")
	}
}

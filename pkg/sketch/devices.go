// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Sketchbridge Authors

package sketch

import "fmt"

// DHTModel selects the concrete DHT sensor wired to the pin. The value is
// substituted verbatim into the firmware constructor call.
type DHTModel string

const (
	DHT11 DHTModel = "DHT11"
	DHT22 DHTModel = "DHT22"
)

// NewLED builds the descriptor for a single LED on an output pin.
func NewLED(pin int, commands map[string]int) (*Descriptor, error) {
	d := &Descriptor{
		kind:     KindLED,
		pins:     []int{pin},
		setup:    fmt.Sprintf("pinMode(%d, OUTPUT);\n", pin),
		methods:  KindLED.Methods(),
		commands: commands,
		bodies: map[string]string{
			"turn_on":  fmt.Sprintf("digitalWrite(%d, HIGH);", pin),
			"turn_off": fmt.Sprintf("digitalWrite(%d, LOW);", pin),
		},
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewRelay builds the descriptor for a relay on an output pin.
func NewRelay(pin int, commands map[string]int) (*Descriptor, error) {
	d := &Descriptor{
		kind:     KindRelay,
		pins:     []int{pin},
		setup:    fmt.Sprintf("pinMode(%d, OUTPUT);\n", pin),
		methods:  KindRelay.Methods(),
		commands: commands,
		bodies: map[string]string{
			"turn_on":  fmt.Sprintf("digitalWrite(%d, HIGH);", pin),
			"turn_off": fmt.Sprintf("digitalWrite(%d, LOW);", pin),
		},
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewButton builds the descriptor for a push button on a pull-up input pin.
func NewButton(pin int, commands map[string]int) (*Descriptor, error) {
	d := &Descriptor{
		kind:     KindButton,
		pins:     []int{pin},
		setup:    fmt.Sprintf("pinMode(%d, INPUT_PULLUP);\n", pin),
		methods:  KindButton.Methods(),
		commands: commands,
		bodies: map[string]string{
			"read": fmt.Sprintf("sendResponse(String(digitalRead(%d)));", pin),
		},
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewHallEffectSensor builds the descriptor for a hall effect sensor on an
// input pin.
func NewHallEffectSensor(pin int, commands map[string]int) (*Descriptor, error) {
	d := &Descriptor{
		kind:     KindHallEffectSensor,
		pins:     []int{pin},
		setup:    fmt.Sprintf("pinMode(%d, INPUT);\n", pin),
		methods:  KindHallEffectSensor.Methods(),
		commands: commands,
		bodies: map[string]string{
			"read": fmt.Sprintf("sendResponse(String(digitalRead(%d)));", pin),
		},
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewServoMotor builds the descriptor for a servo motor. Servos may be
// attached more than once per session; instance keeps the generated firmware
// variable names distinct.
func NewServoMotor(pin, instance int, commands map[string]int) (*Descriptor, error) {
	name := fmt.Sprintf("servo%d", instance)
	d := &Descriptor{
		kind:      KindServoMotor,
		instance:  instance,
		pins:      []int{pin},
		libraries: []string{"Servo.h"},
		global:    fmt.Sprintf("Servo %s;\n", name),
		setup:     fmt.Sprintf("%s.attach(%d);\n%s.write(0);\n", name, pin, name),
		methods:   KindServoMotor.Methods(),
		commands:  commands,
		bodies: map[string]string{
			"rotate": fmt.Sprintf("String data = receiveData();\nint angle = data.toInt();\n%s.write(angle);", name),
		},
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewDHT builds the descriptor for a DHT11 or DHT22 temperature and humidity
// sensor. Like servos, DHT sensors are multi-instance.
func NewDHT(pin, instance int, model DHTModel, commands map[string]int) (*Descriptor, error) {
	name := fmt.Sprintf("dht%d", instance)
	d := &Descriptor{
		kind:      KindDHTSensor,
		instance:  instance,
		pins:      []int{pin},
		libraries: []string{"DHT.h"},
		global:    fmt.Sprintf("DHT %s = DHT(%d, %s);\n", name, pin, model),
		setup:     fmt.Sprintf("%s.begin();\n", name),
		methods:   KindDHTSensor.Methods(),
		commands:  commands,
		bodies: map[string]string{
			"get_data":        fmt.Sprintf(`sendResponse(String(%s.readTemperature()) + " " + String(%s.readHumidity()));`, name, name),
			"get_temperature": fmt.Sprintf("sendResponse(String(%s.readTemperature()));", name),
			"get_humidity":    fmt.Sprintf("sendResponse(String(%s.readHumidity()));", name),
		},
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

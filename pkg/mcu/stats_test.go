// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Sketchbridge Authors

package mcu

import "testing"

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected LineClass
	}{
		{name: "plain ack", line: "ok", expected: LineAck},
		{name: "uppercase ack", line: "OK", expected: LineAck},
		{name: "ack inside noise", line: "boot ok", expected: LineAck},
		{name: "pin read", line: "1", expected: LineNumeric},
		{name: "negative number", line: "-1", expected: LineNumeric},
		{name: "sensor payload", line: "23.50 45.10", expected: LineData},
		{name: "empty line", line: "", expected: LineData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyLine(tt.line); got != tt.expected {
				t.Errorf("ClassifyLine(%q) = %v, want %v", tt.line, got, tt.expected)
			}
		})
	}
}

func TestStatistics_Observe(t *testing.T) {
	stats := NewStatistics()
	for _, line := range []string{"ok", "1", "23.50 45.10", "OK", "0"} {
		stats.Observe(line)
	}

	if stats.TotalLines != 5 {
		t.Errorf("TotalLines = %d, want 5", stats.TotalLines)
	}
	if stats.Acks != 2 {
		t.Errorf("Acks = %d, want 2", stats.Acks)
	}
	if stats.NumericLines != 2 {
		t.Errorf("NumericLines = %d, want 2", stats.NumericLines)
	}
	if stats.DataLines != 1 {
		t.Errorf("DataLines = %d, want 1", stats.DataLines)
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Sketchbridge Authors

package mcu

import (
	"fmt"
	"strconv"
	"time"
)

// LineClass categorizes one observed response line.
type LineClass int

const (
	LineAck LineClass = iota
	LineNumeric
	LineData
)

// ClassifyLine categorizes a response line the way the monitor displays it:
// acknowledgements, bare numeric responses (pin reads), or free-form data.
func ClassifyLine(line string) LineClass {
	if IsAck(line) {
		return LineAck
	}
	if _, err := strconv.Atoi(line); err == nil {
		return LineNumeric
	}
	return LineData
}

// Statistics tracks observed protocol traffic and rates for the monitor.
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	TotalLines   uint64
	Acks         uint64
	NumericLines uint64
	DataLines    uint64

	LineRate float64 // lines/sec
	AckRate  float64 // acks/sec
}

// NewStatistics creates a statistics tracker.
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Observe records one response line.
func (s *Statistics) Observe(line string) {
	s.TotalLines++
	switch ClassifyLine(line) {
	case LineAck:
		s.Acks++
	case LineNumeric:
		s.NumericLines++
	default:
		s.DataLines++
	}
}

// UpdateRates recalculates the per-second rates.
func (s *Statistics) UpdateRates() {
	now := time.Now()
	elapsed := now.Sub(s.StartTime).Seconds()
	if elapsed > 0 {
		s.LineRate = float64(s.TotalLines) / elapsed
		s.AckRate = float64(s.Acks) / elapsed
	}
	s.LastUpdateTime = now
}

// Summary renders a one-line traffic summary.
func (s *Statistics) Summary() string {
	return fmt.Sprintf("%d lines (%d ack, %d numeric, %d data) %.1f lines/s",
		s.TotalLines, s.Acks, s.NumericLines, s.DataLines, s.LineRate)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Sketchbridge Authors

package mcu

import "github.com/sketchbridge/sketchbridge/pkg/sketch"

// commandAllocator issues session-unique command codes. It tracks the
// highest code issued so far, starting from the dispatch sentinel, so codes
// form a contiguous non-negative range and are never reused even though
// peripheral removal does not exist.
//
// Not safe for concurrent use: all attachment happens in the single-threaded
// setup phase before runtime operation begins.
type commandAllocator struct {
	last int
}

func newCommandAllocator() *commandAllocator {
	return &commandAllocator{last: sketch.SentinelCommand}
}

// allocate returns n consecutive fresh command codes and advances the
// high-water mark.
func (a *commandAllocator) allocate(n int) []int {
	codes := make([]int, n)
	for i := range codes {
		a.last++
		codes[i] = a.last
	}
	return codes
}

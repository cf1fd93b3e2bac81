// Package io provides the devices attached to the RetroVM machine: the
// console that receives PRINT output, and the display that renders the
// framebuffer.
package io

import (
	"iter"
)

// Device is a peripheral of the machine.
type Device interface {
	// Rewind resets the device to its initial state.
	Rewind()
	// Defines returns the device's named constants.
	Defines() iter.Seq2[string, string]
}

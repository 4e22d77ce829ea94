//go:build !cgo

package main

import (
	"github.com/rollseq/rollseq/tracker"
)

func newMIDIContext(broker *tracker.Broker) tracker.MIDIContext {
	// with no cgo, we cannot use MIDI, so return a null context
	return tracker.NullMIDIContext{}
}

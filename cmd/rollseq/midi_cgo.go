//go:build cgo

package main

import (
	"github.com/rollseq/rollseq/tracker"
	"github.com/rollseq/rollseq/tracker/gomidi"
)

func newMIDIContext(broker *tracker.Broker) tracker.MIDIContext {
	return gomidi.NewContext(broker)
}

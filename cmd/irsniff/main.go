//go:build tinygo

// Command irsniff prints every train seen by the IR receiver in the ir-ctl text
// format, followed by the decode result, so that captures can be pasted into
// ircap.
package main

import (
	"fmt"
	"machine"
	"time"

	"github.com/sparques/irpad"
	"github.com/sparques/irpad/internal/capture"
	"github.com/sparques/irpad/remote"
)

const irReceiver = machine.GP27

func main() {
	// the handler runs from rx.Poll, outside the interrupt
	rec := irpad.NewRecorder(func(pt irpad.PulseTrain) {
		comment := "undecoded"
		if d, err := remote.DecodeAny(pt); err == nil {
			comment = d.String()
		}
		fmt.Printf("%s # %s\n", capture.FormatLine(pt), comment)
	})
	rx := irpad.NewRxDevice(irReceiver, rec)
	rx.Start()
	defer rx.Stop()

	dropped := 0
	for {
		if !rx.Poll() {
			time.Sleep(5 * time.Millisecond)
		}
		if rec.Dropped != dropped {
			dropped = rec.Dropped
			fmt.Printf("# %d captures dropped\n", dropped)
		}
	}
}

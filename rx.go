//go:build tinygo

package irpad

import (
	. "machine"
	"runtime/interrupt"
	"time"
)

// RxDevice feeds the edges seen on a demodulating IR receiver to a Recorder.
type RxDevice struct {
	pin       Pin
	lastEdge  time.Time
	recorder  *Recorder
	recording bool
}

func NewRxDevice(pin Pin, rec *Recorder) *RxDevice {
	// the most common receivers have a pull up pin builtin
	// but in the future, may want to add the option to use PinPullupInput
	pin.Configure(PinConfig{Mode: PinInput})
	return &RxDevice{
		pin:      pin,
		recorder: rec,
	}
}

func (rx *RxDevice) interruptHandler(Pin) {
	now := time.Now()
	rx.recorder.HandleEdge(now.Sub(rx.lastEdge))
	rx.lastEdge = now
	rx.recording = true
}

// Start sets the interrupt handler and thus starts recording.
func (rx *RxDevice) Start() {
	rx.lastEdge = time.Now()
	rx.pin.SetInterrupt(PinFalling|PinRising, rx.interruptHandler)
}

// Poll completes the current capture once the line has been idle for longer
// than the recorder's gap, then runs the recorder's handler for a completed
// capture, if any. Call it from the main loop; the handler runs there too.
func (rx *RxDevice) Poll() bool {
	state := interrupt.Disable()
	if rx.recording && time.Since(rx.lastEdge) > rx.recorder.Gap {
		rx.recording = false
		rx.recorder.complete()
	}
	pt := rx.recorder.take()
	interrupt.Restore(state)

	return rx.recorder.deliver(pt)
}

// Stop disables the interrupt handler.
func (rx *RxDevice) Stop() {
	rx.pin.SetInterrupt(PinFalling|PinRising, nil)
}

package irpad

import "time"

const (
	// DefaultGap is the idle time after which a capture is considered complete.
	DefaultGap = 25 * time.Millisecond
	// MinPulses is the shortest train a Recorder reports; anything shorter is
	// noise or a repeat code.
	MinPulses = 10
	// MaxPulses is the longest train a Recorder can hold. Longer captures are
	// dropped.
	MaxPulses = 128
)

// Recorder turns the intervals between receiver edges into pulse trains. The
// first interval of a train is always a mark. An interval longer than Gap is the
// silence between two frames; it ends the current train, which is kept for the
// handler if it has at least MinPulses entries.
//
// HandleEdge is meant to run in an interrupt handler: it never allocates and
// never calls the handler. Completed captures are handed over by Poll or Flush
// from the main loop. Only one completed capture is held; captures that end
// before it was polled are dropped and counted.
type Recorder struct {
	Gap       time.Duration
	MinPulses int
	// Dropped counts captures lost to overflow or to a slow Poll.
	Dropped int

	handler func(PulseTrain)

	// written by HandleEdge
	cur      [MaxPulses]uint32
	n        int
	overflow bool

	// completed capture waiting for Poll; ready is 0 when there is none
	done  [MaxPulses]uint32
	ready int

	// owned by the main loop
	out [MaxPulses]uint32
}

func NewRecorder(handler func(PulseTrain)) *Recorder {
	return &Recorder{
		Gap:       DefaultGap,
		MinPulses: MinPulses,
		handler:   handler,
	}
}

// HandleEdge records the time elapsed since the previous edge.
func (r *Recorder) HandleEdge(elapsed time.Duration) {
	if elapsed > r.Gap {
		// the idle line before a frame is not part of it
		r.complete()
		return
	}
	if r.n == len(r.cur) {
		r.overflow = true
		return
	}
	us := elapsed / time.Microsecond
	if us > 0xFFFFFFFF {
		us = 0xFFFFFFFF
	}
	r.cur[r.n] = uint32(us)
	r.n++
}

// complete ends the current train and parks it for Poll.
func (r *Recorder) complete() {
	switch {
	case r.overflow:
		r.Dropped++
	case r.n < r.MinPulses:
	case r.ready != 0:
		r.Dropped++
	default:
		r.ready = copy(r.done[:], r.cur[:r.n])
	}
	r.n = 0
	r.overflow = false
}

// take copies the parked capture out of HandleEdge's reach and frees the slot.
// It returns nil if there is none and must not run concurrently with
// HandleEdge.
func (r *Recorder) take() PulseTrain {
	if r.ready == 0 {
		return nil
	}
	n := copy(r.out[:], r.done[:r.ready])
	r.ready = 0
	return PulseTrain(r.out[:n])
}

func (r *Recorder) deliver(pt PulseTrain) bool {
	if pt == nil {
		return false
	}
	if r.handler != nil {
		r.handler(pt.Clone())
	}
	return true
}

// Poll hands a completed capture to the handler and reports whether there was
// one. It must not run concurrently with HandleEdge; RxDevice.Poll takes care
// of that on hardware.
func (r *Recorder) Poll() bool {
	return r.deliver(r.take())
}

// Flush ends the train recorded so far and hands over any completed capture.
// The same concurrency rule as Poll applies.
func (r *Recorder) Flush() bool {
	r.complete()
	return r.Poll()
}

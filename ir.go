package irpad

const (
	// Freq38Khz is the most commonly used frequency for IR remotes
	Freq38Khz = 38000
	// Freq36Khz is the carrier used by RC5 remotes
	Freq36Khz = 36000
)

// MarkSpace encodes the mark (carrier on) and space (carrier off) durations, in
// microseconds, used to transmit one bit value.
type MarkSpace [2]uint32

func (ms MarkSpace) Mark() uint32  { return ms[0] }
func (ms MarkSpace) Space() uint32 { return ms[1] }

// PulseTrain is a sequence of durations in microseconds, alternating mark, space,
// mark, ... and always starting with a mark. The final space of a train is usually
// implicit: transmitters end on a mark and receivers stop recording once the line
// has been idle for long enough.
type PulseTrain []uint32

// Clone returns a copy of the train that can be modified freely.
func (pt PulseTrain) Clone() PulseTrain {
	if pt == nil {
		return nil
	}
	out := make(PulseTrain, len(pt))
	copy(out, pt)
	return out
}

// Duration returns the total length of the train in microseconds.
func (pt PulseTrain) Duration() uint64 {
	var total uint64
	for _, p := range pt {
		total += uint64(p)
	}
	return total
}

// Pairs groups the train into mark/space pairs. A trailing mark without a space
// is returned as a pair with a zero space.
func (pt PulseTrain) Pairs() []MarkSpace {
	out := make([]MarkSpace, 0, (len(pt)+1)/2)
	for i := 0; i < len(pt); i += 2 {
		pair := MarkSpace{pt[i], 0}
		if i+1 < len(pt) {
			pair[1] = pt[i+1]
		}
		out = append(out, pair)
	}
	return out
}

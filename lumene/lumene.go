// Package lumene implements the fixed width protocol of Lumene projection screen
// remotes. Frames have no header or trailer: 32 bits, most significant first, a 1
// is a short mark and a long space, a 0 a long mark and a short space.
package lumene

import (
	"errors"
	"fmt"

	"github.com/sparques/irpad"
)

const (
	Unit    uint32 = 417
	Gap            = 50 * Unit
	Carrier        = irpad.Freq38Khz

	Bits        = 32
	FrameLength = 2 * Bits
)

var (
	Bit1 = irpad.MarkSpace{1 * Unit, 3 * Unit}
	Bit0 = irpad.MarkSpace{3 * Unit, 1 * Unit}
)

// Encode renders scancode as a 64 pulse frame.
func Encode(scancode uint32) irpad.PulseTrain {
	return irpad.GeneratePulses(Bit1, Bit0, Bits, uint64(scancode), nil, 0, true)
}

// Decode recovers the scancode from a captured frame. The final space may be
// missing from the capture.
func Decode(pulses irpad.PulseTrain) (uint32, error) {
	one, zero := Bit1, Bit0
	bits, err := irpad.DecodeBits(pulses, &one, &zero, false)
	if err != nil {
		var derr *irpad.DecodeError
		if errors.As(err, &derr) {
			derr.Protocol = "lumene"
		}
		return 0, err
	}
	if len(bits) != Bits {
		return 0, irpad.NewDecodeError("lumene", irpad.ErrMalformedFrame, -1, "got %d bits, want %d", len(bits), Bits)
	}
	return uint32(bits.Uint()), nil
}

// Format renders a scancode the way the remote's code table lists it.
func Format(scancode uint32) string {
	return fmt.Sprintf("%#x", scancode)
}

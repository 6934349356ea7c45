// Package rc5 encodes and decodes the Philips RC5 protocol.
//
// RC5 is Manchester coded: every bit is two half bits of one unit each, a 1 is
// space then mark and a 0 is mark then space. A frame is 14 bits, two start bits
// that are always 1, a toggle bit, a 5 bit address and a 6 bit command, sent most
// significant bit first. Scancodes are address<<8 | command.
package rc5

import (
	"errors"
	"fmt"

	"github.com/sparques/irpad"
)

const (
	Unit    uint32 = 889
	Carrier        = irpad.Freq36Khz

	Bits     = 14
	HalfBits = 2 * Bits

	AddressBits = 5
	CommandBits = 6
)

// ErrScancodeRange is returned when the address or command of a scancode does not
// fit in its field.
var ErrScancodeRange = errors.New("rc5: scancode out of range")

// Frame is a decoded RC5 frame.
type Frame struct {
	Toggle  bool
	Address uint8
	Command uint8
}

// Scancode packs the address and command.
func (f Frame) Scancode() uint32 {
	return uint32(f.Address)<<8 | uint32(f.Command)
}

func (f Frame) String() string {
	return fmt.Sprintf("rc5 address=%#x command=%#x toggle=%t", f.Address, f.Command, f.Toggle)
}

// Encode renders scancode as an RC5 pulse train.
func Encode(scancode uint32, toggle bool) (irpad.PulseTrain, error) {
	if scancode > 0xFFFF {
		return nil, fmt.Errorf("%w: %#x is wider than 16 bits", ErrScancodeRange, scancode)
	}
	addr, cmd := scancode>>8, scancode&0xFF
	if addr >= 1<<AddressBits || cmd >= 1<<CommandBits {
		return nil, fmt.Errorf("%w: address %#x command %#x", ErrScancodeRange, addr, cmd)
	}

	frame := uint32(0b11) << (Bits - 2)
	if toggle {
		frame |= 1 << (Bits - 3)
	}
	frame |= addr << CommandBits
	frame |= cmd

	// Half bits are -1 for space and +1 for mark. Runs of equal half bits are
	// merged into signed durations.
	var runs [HalfBits]int32
	n := 0
	prev := int8(0)
	for i := Bits - 1; i >= 0; i-- {
		halves := [2]int8{1, -1}
		if (frame>>uint(i))&1 == 1 {
			halves = [2]int8{-1, 1}
		}
		for _, h := range halves {
			if h == prev {
				runs[n-1] += int32(h) * int32(Unit)
				continue
			}
			runs[n] = int32(h) * int32(Unit)
			n++
			prev = h
		}
	}

	// The leading space of the first start bit is indistinguishable from silence,
	// and so is a trailing space.
	start, end := 1, n
	if runs[end-1] < 0 {
		end--
	}
	out := make(irpad.PulseTrain, 0, end-start)
	for _, r := range runs[start:end] {
		if r < 0 {
			r = -r
		}
		out = append(out, uint32(r))
	}
	return out, nil
}

// Decode recovers a frame from a captured pulse train.
func Decode(pulses irpad.PulseTrain) (Frame, error) {
	// restore the leading space dropped by Encode
	halves := make([]int8, 1, HalfBits+1)
	halves[0] = -1

	for i, p := range pulses {
		sign := int8(1)
		if i%2 == 1 {
			sign = -1
		}
		switch {
		case irpad.ApproxEqual(p, Unit, Unit/2):
			halves = append(halves, sign)
		case irpad.ApproxEqual(p, 2*Unit, Unit/2):
			halves = append(halves, sign, sign)
		default:
			return Frame{}, irpad.NewDecodeError("rc5", irpad.ErrTimingViolation, i, "pulse of %dus is neither one nor two units", p)
		}
		if len(halves) > HalfBits {
			return Frame{}, irpad.NewDecodeError("rc5", irpad.ErrMalformedFrame, i, "more than %d half bits", HalfBits)
		}
	}
	if len(halves) < HalfBits {
		// trailing space was not recorded
		halves = append(halves, -1)
	}
	if len(halves) != HalfBits {
		return Frame{}, irpad.NewDecodeError("rc5", irpad.ErrMalformedFrame, -1, "got %d half bits, want %d", len(halves), HalfBits)
	}

	var frame uint32
	for i := 0; i < HalfBits; i += 2 {
		frame <<= 1
		if halves[i] < 0 {
			frame |= 1
		}
	}

	if frame>>(Bits-2) != 0b11 {
		return Frame{}, irpad.NewDecodeError("rc5", irpad.ErrTimingViolation, -1, "start bits are %02b", frame>>(Bits-2))
	}

	return Frame{
		Toggle:  frame>>(Bits-3)&1 == 1,
		Address: uint8(frame >> CommandBits & (1<<AddressBits - 1)),
		Command: uint8(frame & (1<<CommandBits - 1)),
	}, nil
}

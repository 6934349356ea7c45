// Package nec encodes and decodes the NEC family of IR protocols.
//
// NEC frames carry four bytes, each sent least significant bit first: address,
// address complement, command and command complement. Three variants exist and
// differ only in which of those bytes are real complements:
//
//	NEC    8-bit address, both complements are computed
//	NECX   16-bit address, the command complement is computed
//	NEC32  all four bytes are free
//
// A frame is a 16 unit header mark, an 8 unit header space, 32 bits and a
// trailing mark. Every bit is a one unit mark followed by a one unit space (0) or
// a three unit space (1).
//
// Scancodes follow the layout used by the Linux rc-core:
//
//	NEC    address<<8 | command
//	NECX   address<<16 | addressComplement<<8 | command
//	NEC32  addressComplement<<24 | address<<16 | commandComplement<<8 | command
package nec

import (
	"errors"
	"fmt"

	"github.com/sparques/irpad"
)

const (
	Unit uint32 = 563

	HeaderMark   = 16 * Unit
	XHeaderMark  = 8 * Unit
	HeaderSpace  = 8 * Unit
	RepeatSpace  = 4 * Unit
	BitMark      = Unit
	Bit0Space    = Unit
	Bit1Space    = 3 * Unit
	TrailerMark  = Unit
	TrailerSpace = 10 * Unit

	Carrier = irpad.Freq38Khz

	// Bits is the number of data bits in a frame.
	Bits = 32
	// FrameLength is the number of pulses in a frame: header pair, two pulses per
	// bit and the trailer mark.
	FrameLength = 2 + 2*Bits + 1
)

var (
	bit1   = irpad.MarkSpace{BitMark, Bit1Space}
	bit0   = irpad.MarkSpace{BitMark, Bit0Space}
	header = irpad.MarkSpace{HeaderMark, HeaderSpace}
)

// ErrScancodeRange is returned when a scancode has bits set outside its variant's
// layout.
var ErrScancodeRange = errors.New("nec: scancode out of range")

// Variant selects how the complement bytes are carried.
type Variant uint8

const (
	NEC Variant = iota
	NECX
	NEC32
)

func (v Variant) String() string {
	switch v {
	case NEC:
		return "NEC"
	case NECX:
		return "NECX"
	case NEC32:
		return "NEC32"
	default:
		return fmt.Sprintf("Variant(%d)", uint8(v))
	}
}

// MaxScancode returns the largest scancode the variant can carry.
func (v Variant) MaxScancode() uint32 {
	switch v {
	case NEC:
		return 0xFFFF
	case NECX:
		return 0xFFFFFF
	default:
		return 0xFFFFFFFF
	}
}

// Encode renders scancode as a 67 pulse NEC frame.
func Encode(scancode uint32, v Variant) (irpad.PulseTrain, error) {
	data, err := ScancodeToData(scancode, v)
	if err != nil {
		return nil, err
	}
	return irpad.GeneratePulses(bit1, bit0, Bits, uint64(data), &header, TrailerMark, false), nil
}

// ScancodeToData assembles the 32 bits sent on the wire, address byte lowest.
func ScancodeToData(scancode uint32, v Variant) (uint32, error) {
	if scancode > v.MaxScancode() {
		return 0, fmt.Errorf("%w: %#x does not fit %s", ErrScancodeRange, scancode, v)
	}

	var addr, addrInv, cmd, cmdInv uint32
	cmd = scancode & 0xFF
	switch v {
	case NEC32:
		addrInv = (scancode >> 24) & 0xFF
		addr = (scancode >> 16) & 0xFF
		cmdInv = (scancode >> 8) & 0xFF
	case NECX:
		addr = (scancode >> 16) & 0xFF
		addrInv = (scancode >> 8) & 0xFF
		cmdInv = cmd ^ 0xFF
	case NEC:
		addr = (scancode >> 8) & 0xFF
		addrInv = addr ^ 0xFF
		cmdInv = cmd ^ 0xFF
	default:
		return 0, fmt.Errorf("nec: unknown variant %s", v)
	}
	return cmdInv<<24 | cmd<<16 | addrInv<<8 | addr, nil
}

// Repeat returns the short frame a remote sends while a key is held.
func Repeat() irpad.PulseTrain {
	return irpad.PulseTrain{HeaderMark, RepeatSpace, TrailerMark}
}

// Decode validates a captured 67 pulse frame and returns its normalized scancode
// together with the variant deduced from the complement bytes.
func Decode(pulses irpad.PulseTrain) (uint32, Variant, error) {
	if err := checkFrame(pulses); err != nil {
		return 0, 0, err
	}

	var data uint32
	for i := 3; i < len(pulses)-1; i += 2 {
		data <<= 1
		if irpad.ApproxEqual(pulses[i], Bit1Space, Unit/2) {
			data |= 1
		}
	}

	addr := Bitrev8(uint8(data >> 24))
	addrInv := Bitrev8(uint8(data >> 16))
	cmd := Bitrev8(uint8(data >> 8))
	cmdInv := Bitrev8(uint8(data))

	scancode, v := ToScancode(addr, addrInv, cmd, cmdInv)
	return scancode, v, nil
}

func checkFrame(pulses irpad.PulseTrain) error {
	if len(pulses) != FrameLength {
		return irpad.NewDecodeError("nec", irpad.ErrMalformedFrame, -1, "got %d pulses, want %d", len(pulses), FrameLength)
	}
	if !irpad.ApproxEqual(pulses[0], HeaderMark, Unit/2) && !irpad.ApproxEqual(pulses[0], XHeaderMark, Unit/2) {
		return irpad.NewDecodeError("nec", irpad.ErrTimingViolation, 0, "header mark %dus", pulses[0])
	}
	if !irpad.ApproxEqual(pulses[1], HeaderSpace, Unit/2) {
		return irpad.NewDecodeError("nec", irpad.ErrTimingViolation, 1, "header space %dus", pulses[1])
	}
	last := len(pulses) - 1
	if !irpad.ApproxEqual(pulses[last], TrailerMark, Unit/2) {
		return irpad.NewDecodeError("nec", irpad.ErrTimingViolation, last, "trailer mark %dus", pulses[last])
	}
	for i := 2; i < last; i += 2 {
		if !irpad.ApproxEqual(pulses[i], BitMark, Unit/2) {
			return irpad.NewDecodeError("nec", irpad.ErrTimingViolation, i, "bit mark %dus", pulses[i])
		}
	}
	return nil
}

// ToScancode packs the four received bytes into a scancode. The command
// complement is checked before the address complement.
func ToScancode(addr, addrInv, cmd, cmdInv uint8) (uint32, Variant) {
	switch {
	case cmd^cmdInv != 0xFF:
		return uint32(addrInv)<<24 | uint32(addr)<<16 | uint32(cmdInv)<<8 | uint32(cmd), NEC32
	case addr^addrInv != 0xFF:
		return uint32(addr)<<16 | uint32(addrInv)<<8 | uint32(cmd), NECX
	default:
		return uint32(addr)<<8 | uint32(cmd), NEC
	}
}

// Bitrev8 reverses the bit order of b, e.g. 0b00000011 becomes 0b11000000.
func Bitrev8(b uint8) uint8 {
	b = b>>4 | b<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}

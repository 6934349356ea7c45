package remote

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sparques/irpad"
	"github.com/sparques/irpad/lumene"
	"github.com/sparques/irpad/nec"
	"github.com/sparques/irpad/rc5"
)

// Protocol identifies an IR encoding.
type Protocol uint8

const (
	NEC Protocol = iota + 1
	NECX
	NEC32
	RC5
	Lumene
)

var (
	ErrUnknownProtocol = errors.New("unknown protocol")
	ErrScancodeRange   = errors.New("scancode out of range")
)

// Protocols lists every supported protocol, in the order DecodeAny tries them.
var Protocols = []Protocol{NEC, NECX, NEC32, RC5, Lumene}

func (p Protocol) String() string {
	switch p {
	case NEC:
		return "nec"
	case NECX:
		return "necx"
	case NEC32:
		return "nec32"
	case RC5:
		return "rc5"
	case Lumene:
		return "lumene"
	default:
		return fmt.Sprintf("Protocol(%d)", uint8(p))
	}
}

// ParseProtocol accepts the names printed by String, case insensitively, as well
// as the spellings used in lirc configurations ("NEC X", "NEC-32").
func ParseProtocol(s string) (Protocol, error) {
	norm := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	for _, p := range Protocols {
		if p.String() == norm {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProtocol, s)
}

// MarshalText lets protocols appear by name in configuration files.
func (p Protocol) MarshalText() ([]byte, error) {
	if p.Carrier() == 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownProtocol, uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *Protocol) UnmarshalText(text []byte) error {
	parsed, err := ParseProtocol(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Carrier returns the modulation frequency in Hz, or 0 for an unknown protocol.
func (p Protocol) Carrier() uint32 {
	switch p {
	case NEC, NECX, NEC32:
		return nec.Carrier
	case RC5:
		return rc5.Carrier
	case Lumene:
		return lumene.Carrier
	default:
		return 0
	}
}

// BitWidth is the number of significant scancode bits for p.
func (p Protocol) BitWidth() int {
	switch p {
	case NEC, RC5:
		return 16
	case NECX:
		return 24
	case NEC32, Lumene:
		return 32
	default:
		return 0
	}
}

// Validate reports whether scancode can be encoded with p.
func (p Protocol) Validate(scancode uint32) error {
	var err error
	switch p {
	case NEC, NECX, NEC32:
		_, err = nec.ScancodeToData(scancode, p.necVariant())
	case RC5:
		_, err = rc5.Encode(scancode, false)
	case Lumene:
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownProtocol, p)
	}
	if err != nil && !errors.Is(err, ErrUnknownProtocol) {
		return fmt.Errorf("%w: %v", ErrScancodeRange, err)
	}
	return err
}

func (p Protocol) necVariant() nec.Variant {
	switch p {
	case NECX:
		return nec.NECX
	case NEC32:
		return nec.NEC32
	default:
		return nec.NEC
	}
}

func fromVariant(v nec.Variant) Protocol {
	switch v {
	case nec.NECX:
		return NECX
	case nec.NEC32:
		return NEC32
	default:
		return NEC
	}
}

// Encode renders scancode as a pulse train for protocol p.
func Encode(p Protocol, scancode uint32) (irpad.PulseTrain, error) {
	switch p {
	case NEC, NECX, NEC32:
		pulses, err := nec.Encode(scancode, p.necVariant())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScancodeRange, err)
		}
		return pulses, nil
	case RC5:
		pulses, err := rc5.Encode(scancode, false)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScancodeRange, err)
		}
		return pulses, nil
	case Lumene:
		return lumene.Encode(scancode), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProtocol, p)
	}
}

// Decoded is the result of decoding a captured train.
type Decoded struct {
	Protocol Protocol
	Scancode uint32
}

func (d Decoded) String() string {
	return fmt.Sprintf("%s %#x", d.Protocol, d.Scancode)
}

// Decode decodes pulses as protocol p. The NEC protocols all decode the same
// frames; the protocol of the result is the variant found in the frame.
func Decode(p Protocol, pulses irpad.PulseTrain) (Decoded, error) {
	switch p {
	case NEC, NECX, NEC32:
		scancode, v, err := nec.Decode(pulses)
		if err != nil {
			return Decoded{}, err
		}
		return Decoded{Protocol: fromVariant(v), Scancode: scancode}, nil
	case RC5:
		f, err := rc5.Decode(pulses)
		if err != nil {
			return Decoded{}, err
		}
		return Decoded{Protocol: RC5, Scancode: f.Scancode()}, nil
	case Lumene:
		scancode, err := lumene.Decode(pulses)
		if err != nil {
			return Decoded{}, err
		}
		return Decoded{Protocol: Lumene, Scancode: scancode}, nil
	default:
		return Decoded{}, fmt.Errorf("%w: %s", ErrUnknownProtocol, p)
	}
}

// DecodeAny tries the NEC, RC5 and Lumene decoders in turn and returns the first
// success. If all fail the joined errors are returned.
func DecodeAny(pulses irpad.PulseTrain) (Decoded, error) {
	var errs []error
	for _, p := range []Protocol{NEC, RC5, Lumene} {
		d, err := Decode(p, pulses)
		if err == nil {
			return d, nil
		}
		errs = append(errs, err)
	}
	return Decoded{}, decodeErrors(errs)
}

// decodeErrors keeps every protocol's reason on one line.
type decodeErrors []error

func (e decodeErrors) Error() string {
	parts := make([]string, len(e))
	for i, err := range e {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "; ")
}

func (e decodeErrors) Unwrap() []error { return e }

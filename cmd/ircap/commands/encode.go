package commands

import (
	"fmt"
	"io"

	"github.com/sparques/irpad"
	"github.com/sparques/irpad/internal/capture"
	"github.com/sparques/irpad/rc5"
	"github.com/sparques/irpad/remote"
)

// RunEncode prints the pulse train for scancode in capture format. The trailing
// comment names the protocol and carrier; decode ignores it.
func RunEncode(p remote.Protocol, scancode uint32, toggle bool, out io.Writer) error {
	var (
		pulses irpad.PulseTrain
		err    error
	)
	switch {
	case p == remote.RC5:
		pulses, err = rc5.Encode(scancode, toggle)
		if err != nil {
			err = fmt.Errorf("%w: %v", remote.ErrScancodeRange, err)
		}
	case toggle:
		return fmt.Errorf("-toggle only applies to rc5")
	default:
		pulses, err = remote.Encode(p, scancode)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s # %s %#x carrier=%dHz\n", capture.FormatLine(pulses), p, scancode, p.Carrier())
	return err
}

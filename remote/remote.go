// Package remote binds a protocol and a named command table to the codecs.
//
// A Remote holds no hardware handle. Transmit returns the pulse train and carrier
// for a scancode; Send hands them to a Sender such as *irpad.Transmitter.
package remote

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/sparques/irpad"
)

var ErrUnknownCommand = errors.New("unknown command")

// Sender emits a pulse train on a carrier of the given frequency.
type Sender interface {
	Send(pulses irpad.PulseTrain, hz uint32) error
}

type Remote struct {
	name     string
	protocol Protocol
	codes    map[string]uint32
}

// New builds a remote. Every code is validated against p so that sending a
// table command cannot fail to encode.
func New(name string, p Protocol, codes map[string]uint32) (*Remote, error) {
	if p.Carrier() == 0 {
		return nil, fmt.Errorf("remote %q: %w: %s", name, ErrUnknownProtocol, p)
	}
	table := make(map[string]uint32, len(codes))
	for cmd, code := range codes {
		if err := p.Validate(code); err != nil {
			return nil, fmt.Errorf("remote %q command %q: %w", name, cmd, err)
		}
		table[cmd] = code
	}
	return &Remote{name: name, protocol: p, codes: table}, nil
}

// MustNew is New for static tables; it panics on error.
func MustNew(name string, p Protocol, codes map[string]uint32) *Remote {
	r, err := New(name, p, codes)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Remote) Name() string       { return r.name }
func (r *Remote) Protocol() Protocol { return r.protocol }
func (r *Remote) Carrier() uint32    { return r.protocol.Carrier() }

// Code looks up a named command.
func (r *Remote) Code(cmd string) (uint32, bool) {
	code, ok := r.codes[cmd]
	return code, ok
}

// Commands returns the command names in sorted order.
func (r *Remote) Commands() []string {
	names := make([]string, 0, len(r.codes))
	for name := range r.codes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Transmit encodes scancode with the remote's protocol.
func (r *Remote) Transmit(scancode uint32) (irpad.PulseTrain, uint32, error) {
	pulses, err := Encode(r.protocol, scancode)
	if err != nil {
		return nil, 0, fmt.Errorf("remote %q: %w", r.name, err)
	}
	return pulses, r.Carrier(), nil
}

// Command encodes a named command.
func (r *Remote) Command(name string) (irpad.PulseTrain, uint32, error) {
	code, ok := r.codes[name]
	if !ok {
		return nil, 0, fmt.Errorf("remote %q: %w: %q", r.name, ErrUnknownCommand, name)
	}
	return r.Transmit(code)
}

// Send encodes a named command and hands it to tx.
func (r *Remote) Send(tx Sender, name string) error {
	pulses, hz, err := r.Command(name)
	if err != nil {
		return err
	}
	log.Debug().
		Str("remote", r.name).
		Str("command", name).
		Stringer("protocol", r.protocol).
		Int("pulses", len(pulses)).
		Uint64("duration_us", pulses.Duration()).
		Msg("send")
	return tx.Send(pulses, hz)
}

func (r *Remote) String() string {
	return fmt.Sprintf("%s (%s, %d commands)", r.name, r.protocol, len(r.codes))
}

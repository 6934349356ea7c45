package remote

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparques/irpad"
	"github.com/sparques/irpad/internal/testutil/testlog"
	"github.com/sparques/irpad/lumene"
	"github.com/sparques/irpad/nec"
	"github.com/sparques/irpad/rc5"
)

type recordingSender struct {
	pulses []irpad.PulseTrain
	freqs  []uint32
	err    error
}

func (s *recordingSender) Send(pulses irpad.PulseTrain, hz uint32) error {
	s.pulses = append(s.pulses, pulses)
	s.freqs = append(s.freqs, hz)
	return s.err
}

func TestParseProtocol(t *testing.T) {
	for _, p := range Protocols {
		got, err := ParseProtocol(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	got, err := ParseProtocol(" NEC-X ")
	require.NoError(t, err)
	assert.Equal(t, NECX, got)

	_, err = ParseProtocol("sony")
	assert.ErrorIs(t, err, ErrUnknownProtocol)

	var p Protocol
	require.NoError(t, p.UnmarshalText([]byte("RC5")))
	assert.Equal(t, RC5, p)
	text, err := Lumene.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "lumene", string(text))
	_, err = Protocol(0).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownProtocol)
}

func TestProtocolProperties(t *testing.T) {
	assert.Equal(t, uint32(38000), NEC.Carrier())
	assert.Equal(t, uint32(38000), NEC32.Carrier())
	assert.Equal(t, uint32(38000), Lumene.Carrier())
	assert.Equal(t, uint32(36000), RC5.Carrier())
	assert.Zero(t, Protocol(42).Carrier())

	assert.Equal(t, 16, NEC.BitWidth())
	assert.Equal(t, 24, NECX.BitWidth())
	assert.Equal(t, 32, NEC32.BitWidth())
	assert.Equal(t, "Protocol(42)", Protocol(42).String())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, NEC.Validate(0xFFFF))
	assert.ErrorIs(t, NEC.Validate(0x10000), ErrScancodeRange)
	assert.NoError(t, NECX.Validate(0xFFFFFF))
	assert.ErrorIs(t, NECX.Validate(0x1000000), ErrScancodeRange)
	assert.NoError(t, NEC32.Validate(0xFFFFFFFF))
	assert.NoError(t, RC5.Validate(0x1F3F))
	assert.ErrorIs(t, RC5.Validate(0x2000), ErrScancodeRange)
	assert.ErrorIs(t, RC5.Validate(0x0040), ErrScancodeRange)
	assert.NoError(t, Lumene.Validate(0xFFFFFFFF))
	assert.ErrorIs(t, Protocol(0).Validate(0), ErrUnknownProtocol)
}

func TestEncodeMatchesCodecs(t *testing.T) {
	pulses, err := Encode(NECX, 0x3004)
	require.NoError(t, err)
	want, err := nec.Encode(0x3004, nec.NECX)
	require.NoError(t, err)
	assert.Equal(t, want, pulses)

	pulses, err = Encode(RC5, 0x1010)
	require.NoError(t, err)
	want, err = rc5.Encode(0x1010, false)
	require.NoError(t, err)
	assert.Equal(t, want, pulses)

	pulses, err = Encode(Lumene, 0xFDE3322)
	require.NoError(t, err)
	assert.Equal(t, lumene.Encode(0xFDE3322), pulses)

	_, err = Encode(NEC, 0x123456)
	assert.ErrorIs(t, err, ErrScancodeRange)
	_, err = Encode(Protocol(9), 1)
	assert.ErrorIs(t, err, ErrUnknownProtocol)
	_, err = Decode(Protocol(9), nil)
	assert.ErrorIs(t, err, ErrUnknownProtocol)
}

func TestDecodeReportsDetectedVariant(t *testing.T) {
	pulses, err := Encode(NEC32, 0x11EE4455)
	require.NoError(t, err)

	// asking for plain NEC still reports what the frame carries
	d, err := Decode(NEC, pulses)
	require.NoError(t, err)
	assert.Equal(t, Decoded{Protocol: NEC32, Scancode: 0x11EE4455}, d)
	assert.Equal(t, "nec32 0x11ee4455", d.String())
}

func TestDecodeAny(t *testing.T) {
	cases := []Decoded{
		{NEC, 0x15C},
		{NECX, 0x6F80D},
		{RC5, 0x1038},
		{Lumene, 0xEFE1E2C},
	}
	for _, tc := range cases {
		t.Run(tc.String(), func(t *testing.T) {
			pulses, err := Encode(tc.Protocol, tc.Scancode)
			require.NoError(t, err)
			got, err := DecodeAny(pulses)
			require.NoError(t, err)
			assert.Equal(t, tc, got)
		})
	}

	_, err := DecodeAny(irpad.PulseTrain{100, 200, 300})
	require.Error(t, err)
	assert.True(t, errors.Is(err, irpad.ErrMalformedFrame))
	assert.NotContains(t, err.Error(), "\n")
}

func TestNewValidatesCodes(t *testing.T) {
	_, err := New("bad", RC5, map[string]uint32{"OK": 0x1001, "WIDE": 0x4001})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScancodeRange)
	assert.Contains(t, err.Error(), `"WIDE"`)

	_, err = New("bad", Protocol(0), nil)
	assert.ErrorIs(t, err, ErrUnknownProtocol)

	assert.Panics(t, func() { MustNew("bad", NEC, map[string]uint32{"X": 0x10000}) })
}

func TestRemoteTable(t *testing.T) {
	codes := map[string]uint32{"ON": 0x15C, "OFF": 0x11F}
	r, err := New("amp", NEC, codes)
	require.NoError(t, err)

	// the table is copied
	codes["ON"] = 0
	code, ok := r.Code("ON")
	assert.True(t, ok)
	assert.Equal(t, uint32(0x15C), code)
	_, ok = r.Code("MISSING")
	assert.False(t, ok)

	assert.Equal(t, "amp", r.Name())
	assert.Equal(t, NEC, r.Protocol())
	assert.Equal(t, uint32(38000), r.Carrier())
	assert.Equal(t, []string{"OFF", "ON"}, r.Commands())
	assert.Equal(t, "amp (nec, 2 commands)", r.String())
}

func TestRemoteTransmit(t *testing.T) {
	r := MustNew("amp", RC5, nil)

	pulses, hz, err := r.Transmit(0x1010)
	require.NoError(t, err)
	assert.Equal(t, uint32(36000), hz)
	f, err := rc5.Decode(pulses)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x1010), f.Scancode())

	_, _, err = r.Transmit(0xFFFF)
	assert.ErrorIs(t, err, ErrScancodeRange)
}

func TestRemoteSend(t *testing.T) {
	testlog.Start(t)

	r, ok := Builtin("feintech")
	require.True(t, ok)

	tx := &recordingSender{}
	require.NoError(t, r.Send(tx, "ON"))
	require.Len(t, tx.pulses, 1)
	assert.Equal(t, []uint32{38000}, tx.freqs)
	scancode, v, err := nec.Decode(tx.pulses[0])
	require.NoError(t, err)
	assert.Equal(t, nec.NEC, v)
	assert.Equal(t, uint32(0x15C), scancode)

	err = r.Send(tx, "EJECT")
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Len(t, tx.pulses, 1)

	boom := errors.New("boom")
	assert.ErrorIs(t, r.Send(&recordingSender{err: boom}, "OFF"), boom)
}

func TestBuiltins(t *testing.T) {
	assert.Equal(t, []string{"benq", "feintech", "lumene", "myamp", "tangent"}, BuiltinNames())

	_, ok := Builtin("sony")
	assert.False(t, ok)

	want := map[string]Protocol{
		"benq":     NECX,
		"feintech": NEC,
		"lumene":   Lumene,
		"myamp":    RC5,
		"tangent":  NECX,
	}
	for _, name := range BuiltinNames() {
		r, ok := Builtin(name)
		require.True(t, ok)
		assert.Equal(t, want[name], r.Protocol(), name)

		// every shipped command survives a round trip through its decoder
		for _, cmd := range r.Commands() {
			pulses, _, err := r.Command(cmd)
			require.NoError(t, err, "%s %s", name, cmd)
			d, err := Decode(r.Protocol(), pulses)
			require.NoError(t, err, "%s %s", name, cmd)
			code, _ := r.Code(cmd)
			assert.Equal(t, Decoded{Protocol: r.Protocol(), Scancode: code}, d, "%s %s", name, cmd)
		}
	}
}

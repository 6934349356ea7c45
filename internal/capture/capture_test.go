package capture

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sparques/irpad"
	"github.com/sparques/irpad/internal/testutil/testlog"
)

func TestParseLine(t *testing.T) {
	pulses, comment, ok, err := ParseLine("+9024 -4512 +564 -564 +564 -1692 +564 -564 +564 -1692 +564 # KEY_POWER")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "KEY_POWER", comment)
	assert.Equal(t, irpad.PulseTrain{9024, 4512, 564, 564, 564, 1692, 564, 564, 564, 1692, 564}, pulses)

	pulses, _, ok, err = ParseLine("1 2 3 4 5 6 7 8 9 10")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, pulses, 10)

	for _, skipped := range []string{"", "   ", "# timeout 125000", "+9000 -2250 +560"} {
		_, _, ok, err = ParseLine(skipped)
		assert.NoError(t, err, skipped)
		assert.False(t, ok, skipped)
	}

	for _, bad := range []string{
		"-9024 +4512 +564 -564 +564 -1692 +564 -564 +564 -1692",
		"+9024 -4512 +564 -564 +564 -1692 +564 -564 +564 -x",
		"+9024 -4512 +564 -564 +564 -1692 +564 -564 +564 -0",
	} {
		_, _, ok, err = ParseLine(bad)
		assert.Error(t, err, bad)
		assert.False(t, ok)
	}
}

func TestScan(t *testing.T) {
	input := strings.Join([]string{
		"# captured with ir-ctl -r",
		"+1 -2 +3 -4 +5 -6 +7 -8 +9 -10",
		"+9000 -2250 +560",
		"+1 -2 +3 -4 +5 -6 +7 -8 +9 -zz",
		"10 9 8 7 6 5 4 3 2 1 # reversed",
	}, "\n")

	var lines []Line
	require.NoError(t, Scan(strings.NewReader(input), func(l Line) error {
		lines = append(lines, l)
		return nil
	}))
	require.Len(t, lines, 3)
	assert.Equal(t, 2, lines[0].Number)
	assert.Equal(t, 4, lines[1].Number)
	assert.Error(t, lines[1].Err)
	assert.Equal(t, 5, lines[2].Number)
	assert.Equal(t, "reversed", lines[2].Comment)

	stop := errors.New("stop")
	n := 0
	err := Scan(strings.NewReader(input), func(Line) error {
		n++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, n)

	trains, err := ReadAll(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, trains, 2)
}

func TestAverage(t *testing.T) {
	avg := Average([]irpad.PulseTrain{
		{9000, 4500, 560, 560},
		{9010, 4490, 561, 1690},
		{1, 2, 3},
		{9021, 4480, 563, 1700},
	})
	assert.Equal(t, irpad.PulseTrain{9010, 4490, 561, 1316}, avg)
	assert.Nil(t, Average(nil))
}

func TestFormatLine(t *testing.T) {
	assert.Equal(t, "+9000 -4500 +560", FormatLine(irpad.PulseTrain{9000, 4500, 560}))
	assert.Equal(t, "", FormatLine(nil))

	in := irpad.PulseTrain{889, 889, 1778, 1778, 1778, 889, 889, 889, 889, 889, 889}
	out, _, ok, err := ParseLine(FormatLine(in))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in, out)
}

func TestArchive(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 123456789, time.UTC)
	w.now = func() time.Time { return fixed }

	first := &Record{Source: "benq.txt", Line: 3, Label: "MUTE", Pulses: []uint32{9000, 4500, 560}, Protocol: "necx", Scancode: 0x3014}
	require.NoError(t, w.Write(first))
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.True(t, first.Time.Equal(fixed))

	id := uuid.New()
	second := &Record{ID: id, Time: fixed.Add(time.Second), Source: "benq.txt", Line: 4, Pulses: []uint32{1, 2}, Error: "nec: malformed frame"}
	require.NoError(t, w.Write(second))
	require.NoError(t, w.Close())

	r := NewReader(&buf)
	got, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.True(t, got.Time.Equal(fixed))
	assert.Equal(t, "MUTE", got.Label)
	assert.Equal(t, []uint32{9000, 4500, 560}, got.Pulses)
	assert.Equal(t, uint32(0x3014), got.Scancode)
	assert.True(t, got.Decoded())

	got, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.False(t, got.Decoded())
	assert.Equal(t, "nec: malformed frame", got.Error)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
	assert.NoError(t, r.Close())
}

func TestArchiveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captures.ircap")

	for i := 0; i < 2; i++ {
		w, err := CreateArchive(path)
		require.NoError(t, err)
		require.NoError(t, w.Write(&Record{Line: i + 1, Pulses: []uint32{uint32(i)}}))
		require.NoError(t, w.Close())
		require.NoError(t, w.Close())
	}

	r, err := OpenArchive(path)
	require.NoError(t, err)
	defer r.Close()
	records, err := r.All()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].Line)
	assert.Equal(t, 2, records[1].Line)
	assert.NotEqual(t, records[0].ID, records[1].ID)

	_, err = OpenArchive(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestCodeTable(t *testing.T) {
	testlog.Start(t)

	records := []Record{
		{Source: "amp.txt", Line: 1, Label: "ON", Protocol: "nec", Scancode: 0x15C},
		{Source: "amp.txt", Line: 2, Label: "ON", Protocol: "nec", Scancode: 0x15D},
		{Source: "amp.txt", Line: 3, Protocol: "nec", Scancode: 0x11F},
		{Source: "amp.txt", Line: 4, Label: "X", Protocol: "rc5", Scancode: 0x1001},
		{Source: "amp.txt", Line: 5, Label: "BAD", Error: "rc5: timing violation"},
	}
	assert.Equal(t, []string{"nec", "rc5"}, Protocols(records))

	table := BuildCodeTable(records, "nec")
	assert.Equal(t, CodeTable{"ON": 0x15C, "amp.txt_3": 0x11F}, table)

	var buf bytes.Buffer
	require.NoError(t, table.WriteYAML(&buf))
	var back map[string]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, map[string]string{"ON": "0x15c", "amp.txt_3": "0x11f"}, back)
}

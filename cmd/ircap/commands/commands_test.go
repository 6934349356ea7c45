package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sparques/irpad"
	"github.com/sparques/irpad/internal/capture"
	"github.com/sparques/irpad/internal/config"
	"github.com/sparques/irpad/internal/testutil/testlog"
	"github.com/sparques/irpad/remote"
)

func encodeLine(t *testing.T, p remote.Protocol, scancode uint32) string {
	t.Helper()
	pulses, err := remote.Encode(p, scancode)
	require.NoError(t, err)
	return capture.FormatLine(pulses)
}

func TestParseFlags(t *testing.T) {
	p, err := ParseProtocolFlag("auto")
	require.NoError(t, err)
	assert.Zero(t, p)
	p, err = ParseProtocolFlag("NECX")
	require.NoError(t, err)
	assert.Equal(t, remote.NECX, p)
	_, err = ParseProtocolFlag("sirc")
	assert.ErrorIs(t, err, remote.ErrUnknownProtocol)

	code, err := ParseScancode("0x3004")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x3004), code)
	code, err = ParseScancode("348")
	require.NoError(t, err)
	assert.Equal(t, uint32(348), code)
	_, err = ParseScancode("0x1FFFFFFFF")
	assert.Error(t, err)
}

func TestRunDecode(t *testing.T) {
	testlog.Start(t)

	input := strings.Join([]string{
		"# benq projector",
		encodeLine(t, remote.NECX, 0x3014) + " # MUTE",
		"+100 -100 +100 -100 +100 -100 +100 -100 +100 -100",
		encodeLine(t, remote.RC5, 0x1010),
		"+1 -2 +3 -4 +5 -6 +7 -8 +9 -bad",
		encodeLine(t, remote.Lumene, 0xFDE3322),
	}, "\n")

	var out bytes.Buffer
	var archive bytes.Buffer
	w := capture.NewWriter(&archive)
	stats, err := RunDecode(strings.NewReader(input), DecodeOptions{Source: "benq.txt", Archive: w}, &out)
	require.NoError(t, err)
	assert.Equal(t, DecodeStats{Lines: 5, Failed: 2}, stats)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "line 2: necx 0x3014", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "line 3: error: "), lines[1])
	assert.Equal(t, "line 4: rc5 0x1010", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "line 5: error: "), lines[3])
	assert.Equal(t, "line 6: lumene 0xfde3322", lines[4])

	records, err := capture.NewReader(&archive).All()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "MUTE", records[0].Label)
	assert.Equal(t, "necx", records[0].Protocol)
	assert.Equal(t, "benq.txt", records[0].Source)
	assert.NotEmpty(t, records[1].Error)
	assert.Nil(t, records[3].Pulses)
}

func TestRunDecodeFixedProtocol(t *testing.T) {
	input := encodeLine(t, remote.RC5, 0x1001)

	var out bytes.Buffer
	stats, err := RunDecode(strings.NewReader(input), DecodeOptions{Protocol: remote.NEC}, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.Contains(t, out.String(), "malformed frame")

	out.Reset()
	stats, err = RunDecode(strings.NewReader(input), DecodeOptions{Protocol: remote.RC5}, &out)
	require.NoError(t, err)
	assert.Zero(t, stats.Failed)
	assert.Equal(t, "line 1: rc5 0x1001\n", out.String())
}

func TestRunEncode(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RunEncode(remote.NEC, 0x15C, false, &out))
	assert.True(t, strings.HasSuffix(out.String(), " # nec 0x15c carrier=38000Hz\n"))

	// the output decodes back
	var decoded bytes.Buffer
	_, err := RunDecode(strings.NewReader(out.String()), DecodeOptions{}, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "line 1: nec 0x15c\n", decoded.String())

	out.Reset()
	require.NoError(t, RunEncode(remote.RC5, 0x1010, true, &out))
	pulses, _, ok, err := capture.ParseLine(out.String())
	require.NoError(t, err)
	require.True(t, ok)
	plain, err := remote.Encode(remote.RC5, 0x1010)
	require.NoError(t, err)
	assert.NotEqual(t, plain, pulses)

	assert.Error(t, RunEncode(remote.NEC, 0x15C, true, &out))
	assert.ErrorIs(t, RunEncode(remote.RC5, 0x2000, true, &out), remote.ErrScancodeRange)
	assert.ErrorIs(t, RunEncode(remote.NEC, 0x10000, false, &out), remote.ErrScancodeRange)
}

func TestRunAvg(t *testing.T) {
	input := "+10 -20 +30 -40 +50 -60 +70 -80 +90 -100\n+12 -22 +32 -42 +52 -62 +72 -82 +92 -102\n"
	var out bytes.Buffer
	require.NoError(t, RunAvg(strings.NewReader(input), &out))
	assert.Equal(t, "+11 -21 +31 -41 +51 -61 +71 -81 +91 -101 # average of 2\n", out.String())

	assert.Error(t, RunAvg(strings.NewReader("# nothing here\n"), &out))
}

func writeArchive(t *testing.T, records ...capture.Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "captures.ircap")
	w, err := capture.CreateArchive(path)
	require.NoError(t, err)
	for i := range records {
		require.NoError(t, w.Write(&records[i]))
	}
	require.NoError(t, w.Close())
	return path
}

func TestRunExport(t *testing.T) {
	testlog.Start(t)

	path := writeArchive(t,
		capture.Record{Source: "amp.txt", Line: 1, Label: "ON", Pulses: irpad.PulseTrain{1, 2}, Protocol: "nec", Scancode: 0x15C},
		capture.Record{Source: "amp.txt", Line: 2, Label: "OFF", Protocol: "nec", Scancode: 0x11F},
		capture.Record{Source: "amp.txt", Line: 3, Error: "nec: malformed frame"},
	)

	var out bytes.Buffer
	require.NoError(t, RunExport(path, "jsonl", "", &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	var rec capture.Record
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "ON", rec.Label)
	assert.Equal(t, []uint32{1, 2}, rec.Pulses)

	out.Reset()
	require.NoError(t, RunExport(path, "yaml", "", &out))
	var table map[string]string
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &table))
	assert.Equal(t, map[string]string{"ON": "0x15c", "OFF": "0x11f"}, table)

	// the exported table loads as a keypad code file
	codesPath := filepath.Join(t.TempDir(), "amp.yaml")
	require.NoError(t, os.WriteFile(codesPath, out.Bytes(), 0o600))
	codes, err := config.LoadCodes(codesPath)
	require.NoError(t, err)
	assert.Equal(t, map[string]uint32{"ON": 0x15C, "OFF": 0x11F}, codes)

	assert.Error(t, RunExport(path, "csv", "", &out))
	assert.Error(t, RunExport(filepath.Join(t.TempDir(), "missing"), "jsonl", "", &out))

	mixed := writeArchive(t,
		capture.Record{Label: "A", Protocol: "nec", Scancode: 1},
		capture.Record{Label: "B", Protocol: "rc5", Scancode: 2},
	)
	err = RunExport(mixed, "yaml", "", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nec, rc5")

	out.Reset()
	require.NoError(t, RunExport(mixed, "yaml", "rc5", &out))
	table = nil
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &table))
	assert.Equal(t, map[string]string{"B": "0x2"}, table)

	empty := writeArchive(t, capture.Record{Error: "x"})
	assert.Error(t, RunExport(empty, "yaml", "", &out))
}

// Package capture reads and writes recorded pulse trains.
//
// The text format is the one printed by ir-ctl -r: one train per line, marks
// prefixed with '+', spaces with '-', anything after '#' is a comment. Unsigned
// values are accepted too, so averaged dumps can be fed back in.
package capture

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sparques/irpad"
)

// MinPulses is the shortest line treated as a capture. Shorter lines are
// repeat codes or noise.
const MinPulses = irpad.MinPulses

// Line is one line of a capture file.
type Line struct {
	Number  int
	Pulses  irpad.PulseTrain
	Comment string
	Err     error
}

// ParseLine parses one line. ok is false for lines that hold no capture: blank
// lines, comments and trains shorter than MinPulses.
func ParseLine(line string) (pulses irpad.PulseTrain, comment string, ok bool, err error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		comment = strings.TrimSpace(line[i+1:])
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) < MinPulses {
		return nil, comment, false, nil
	}

	pulses = make(irpad.PulseTrain, 0, len(fields))
	for i, f := range fields {
		want := byte('+')
		if i%2 == 1 {
			want = '-'
		}
		switch f[0] {
		case '+', '-':
			if f[0] != want {
				return nil, comment, false, fmt.Errorf("value %d: %q has the wrong sign", i, f)
			}
			f = f[1:]
		}
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil || v == 0 {
			return nil, comment, false, fmt.Errorf("value %d: bad duration %q", i, fields[i])
		}
		pulses = append(pulses, uint32(v))
	}
	return pulses, comment, true, nil
}

// Scan calls fn for every capture line in r, including lines that failed to
// parse. It stops at the first error returned by fn.
func Scan(r io.Reader, fn func(Line) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		pulses, comment, ok, err := ParseLine(sc.Text())
		if !ok && err == nil {
			continue
		}
		if err := fn(Line{Number: n, Pulses: pulses, Comment: comment, Err: err}); err != nil {
			return err
		}
	}
	return sc.Err()
}

// ReadAll returns every well-formed train in r.
func ReadAll(r io.Reader) ([]irpad.PulseTrain, error) {
	var trains []irpad.PulseTrain
	err := Scan(r, func(l Line) error {
		if l.Err == nil {
			trains = append(trains, l.Pulses)
		}
		return nil
	})
	return trains, err
}

// Average returns the column-wise mean, truncated to whole microseconds, of the
// trains that have as many entries as the first one.
func Average(trains []irpad.PulseTrain) irpad.PulseTrain {
	if len(trains) == 0 {
		return nil
	}
	n := len(trains[0])
	sums := make([]uint64, n)
	count := uint64(0)
	for _, t := range trains {
		if len(t) != n {
			continue
		}
		for i, v := range t {
			sums[i] += uint64(v)
		}
		count++
	}
	avg := make(irpad.PulseTrain, n)
	for i, s := range sums {
		avg[i] = uint32(s / count)
	}
	return avg
}

// FormatLine renders pulses in the ir-ctl text format.
func FormatLine(pulses irpad.PulseTrain) string {
	var sb strings.Builder
	for i, p := range pulses {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if i%2 == 0 {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('-')
		}
		sb.WriteString(strconv.FormatUint(uint64(p), 10))
	}
	return sb.String()
}

package commands

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/sparques/irpad"
	"github.com/sparques/irpad/internal/capture"
	"github.com/sparques/irpad/remote"
)

type DecodeOptions struct {
	// Protocol to decode with; 0 tries all of them.
	Protocol remote.Protocol
	// Source names the input in archive records.
	Source string
	// Archive receives a record per capture line when set.
	Archive *capture.Writer
}

// DecodeStats counts the capture lines of one input.
type DecodeStats struct {
	Lines  int
	Failed int
}

// RunDecode decodes every capture line of r and prints one result per line.
// Lines that fail are reported and counted; they do not stop the run.
func RunDecode(r io.Reader, opts DecodeOptions, out io.Writer) (DecodeStats, error) {
	var stats DecodeStats
	err := capture.Scan(r, func(l capture.Line) error {
		stats.Lines++
		rec := &capture.Record{
			Source: opts.Source,
			Line:   l.Number,
			Label:  l.Comment,
			Pulses: l.Pulses,
		}

		d, err := decodeLine(l, opts.Protocol)
		if err != nil {
			stats.Failed++
			rec.Error = err.Error()
			fmt.Fprintf(out, "line %d: error: %v\n", l.Number, err)
			log.Debug().Err(err).Str("source", opts.Source).Int("line", l.Number).Msg("decode failed")
		} else {
			rec.Protocol = d.Protocol.String()
			rec.Scancode = d.Scancode
			fmt.Fprintf(out, "line %d: %s\n", l.Number, d)
		}

		if opts.Archive != nil {
			if err := opts.Archive.Write(rec); err != nil {
				return fmt.Errorf("archive line %d: %w", l.Number, err)
			}
		}
		return nil
	})
	return stats, err
}

func decodeLine(l capture.Line, p remote.Protocol) (remote.Decoded, error) {
	if l.Err != nil {
		return remote.Decoded{}, fmt.Errorf("%w: %v", irpad.ErrMalformedFrame, l.Err)
	}
	if p == 0 {
		return remote.DecodeAny(l.Pulses)
	}
	return remote.Decode(p, l.Pulses)
}

package capture

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Hex is a scancode written as a quoted hex string.
type Hex uint32

func (h Hex) MarshalYAML() (any, error) {
	return fmt.Sprintf("%#x", uint32(h)), nil
}

// CodeTable maps command names to scancodes. Its YAML form is the code file
// format read by the keypad configuration.
type CodeTable map[string]Hex

// BuildCodeTable collects the decoded records of one protocol. Records are named
// by their label, or by source and line when they have none. When a name is seen
// with two different scancodes the first one is kept.
func BuildCodeTable(records []Record, protocol string) CodeTable {
	table := make(CodeTable)
	for _, rec := range records {
		if !rec.Decoded() || rec.Protocol != protocol {
			continue
		}
		name := rec.Label
		if name == "" {
			name = fmt.Sprintf("%s_%d", rec.Source, rec.Line)
		}
		if prev, ok := table[name]; ok {
			if uint32(prev) != rec.Scancode {
				log.Warn().
					Str("name", name).
					Uint32("kept", uint32(prev)).
					Uint32("dropped", rec.Scancode).
					Msg("conflicting scancodes")
			}
			continue
		}
		table[name] = Hex(rec.Scancode)
	}
	return table
}

// Protocols lists the protocols of the decoded records in first-seen order.
func Protocols(records []Record) []string {
	var out []string
	seen := make(map[string]bool)
	for _, rec := range records {
		if rec.Decoded() && !seen[rec.Protocol] {
			seen[rec.Protocol] = true
			out = append(out, rec.Protocol)
		}
	}
	return out
}

// WriteYAML writes the table; keys come out sorted.
func (t CodeTable) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]Hex(t)); err != nil {
		return err
	}
	return enc.Close()
}

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sparques/irpad/internal/capture"
)

// RunExport writes the records of an archive as JSON lines, or the decoded
// scancodes as a YAML code table.
func RunExport(path, format, protocol string, w io.Writer) error {
	reader, err := capture.OpenArchive(path)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer reader.Close()

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "yaml":
		records, err := reader.All()
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		return exportYAML(records, protocol, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, yaml)", format)
	}
}

func exportJSONL(reader *capture.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		if err := encoder.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}
}

func exportYAML(records []capture.Record, protocol string, w io.Writer) error {
	if protocol == "" {
		protocols := capture.Protocols(records)
		switch len(protocols) {
		case 0:
			return fmt.Errorf("archive has no decoded captures")
		case 1:
			protocol = protocols[0]
		default:
			return fmt.Errorf("archive mixes protocols (%s); pick one with -protocol", strings.Join(protocols, ", "))
		}
	}
	return capture.BuildCodeTable(records, protocol).WriteYAML(w)
}

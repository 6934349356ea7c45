// Command ircap decodes, encodes and archives IR captures offline.
//
// Captures are text lines in the format printed by ir-ctl -r, one train per
// line. Lines shorter than ten values are ignored.
//
// Usage:
//
//	ircap <command> [flags] [args]
//
// Examples:
//
//	# Decode every capture in a file, trying all protocols
//	ircap decode benq.txt
//
//	# Decode from ir-ctl and keep the results
//	ir-ctl -d /dev/lirc1 -r | ircap decode -protocol necx -archive benq.ircap -
//
//	# Print the capture for a scancode
//	ircap encode -protocol rc5 -toggle 0x1010
//
//	# Turn an archive into a code file for the keypad
//	ircap export -format yaml benq.ircap > benq.yaml
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/sparques/irpad/cmd/ircap/commands"
	"github.com/sparques/irpad/cmd/ircap/interactive"
	"github.com/sparques/irpad/internal/capture"
	"github.com/sparques/irpad/internal/logging"
	"github.com/sparques/irpad/remote"
)

const usage = `ircap - IR capture tool

Usage:
  ircap <command> [flags] [args]

Commands:
  decode   Decode capture lines from a file or stdin
  encode   Print the capture for a scancode
  avg      Average the captures of a file
  export   Export an archive as JSON lines or a YAML code table
  shell    Interactive shell

Use "ircap <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	logging.ConfigureRuntime("ircap")

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "decode":
		runDecode(args)
	case "encode":
		runEncode(args)
	case "avg":
		runAvg(args)
	case "export":
		runExport(args)
	case "shell":
		if err := interactive.NewShell(os.Stdout).Run(); err != nil {
			fatal(err)
		}
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func openInput(path string) (io.ReadCloser, string, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), "stdin", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	return f, filepath.Base(path), nil
}

func runDecode(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `ircap decode - Decode capture lines

Usage:
  ircap decode [flags] <file|->

Flags:
`)
		fs.PrintDefaults()
	}
	protocol := fs.String("protocol", "auto", "Protocol (auto, nec, necx, nec32, rc5, lumene)")
	archive := fs.String("archive", "", "Append a record per capture to this archive")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: capture file required")
		fs.Usage()
		os.Exit(1)
	}

	p, err := commands.ParseProtocolFlag(*protocol)
	if err != nil {
		fatal(err)
	}

	in, source, err := openInput(fs.Arg(0))
	if err != nil {
		fatal(err)
	}
	defer in.Close()

	opts := commands.DecodeOptions{Protocol: p, Source: source}
	if *archive != "" {
		w, err := capture.CreateArchive(*archive)
		if err != nil {
			fatal(err)
		}
		defer w.Close()
		opts.Archive = w
	}

	stats, err := commands.RunDecode(in, opts, os.Stdout)
	if err != nil {
		fatal(err)
	}
	log.Info().Str("source", source).Int("lines", stats.Lines).Int("failed", stats.Failed).Msg("decode finished")
	if stats.Failed > 0 {
		// deferred closes do not run on os.Exit
		in.Close()
		if opts.Archive != nil {
			opts.Archive.Close()
		}
		os.Exit(1)
	}
}

func runEncode(args []string) {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `ircap encode - Print the capture for a scancode

Usage:
  ircap encode -protocol <name> [-toggle] <scancode>

Flags:
`)
		fs.PrintDefaults()
	}
	protocol := fs.String("protocol", "", "Protocol (nec, necx, nec32, rc5, lumene)")
	toggle := fs.Bool("toggle", false, "Set the rc5 toggle bit")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 || *protocol == "" {
		fs.Usage()
		os.Exit(1)
	}

	p, err := remote.ParseProtocol(*protocol)
	if err != nil {
		fatal(err)
	}
	code, err := commands.ParseScancode(fs.Arg(0))
	if err != nil {
		fatal(err)
	}
	if err := commands.RunEncode(p, code, *toggle, os.Stdout); err != nil {
		fatal(err)
	}
}

func runAvg(args []string) {
	fs := flag.NewFlagSet("avg", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `ircap avg - Average captures

Captures with a different length than the first one are skipped.

Usage:
  ircap avg <file|->
`)
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}

	in, _, err := openInput(fs.Arg(0))
	if err != nil {
		fatal(err)
	}
	defer in.Close()
	if err := commands.RunAvg(in, os.Stdout); err != nil {
		fatal(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `ircap export - Export an archive

Usage:
  ircap export [flags] <archive>

Flags:
`)
		fs.PrintDefaults()
	}
	format := fs.String("format", "jsonl", "Output format (jsonl, yaml)")
	protocol := fs.String("protocol", "", "Protocol for the yaml code table (default: the only one in the archive)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: archive path required")
		fs.Usage()
		os.Exit(1)
	}

	name := ""
	if *protocol != "" {
		p, err := remote.ParseProtocol(*protocol)
		if err != nil {
			fatal(err)
		}
		name = p.String()
	}

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fatal(fmt.Errorf("failed to create output file: %w", err))
		}
		defer f.Close()
		w = f
	}

	if err := commands.RunExport(fs.Arg(0), *format, name, w); err != nil {
		fatal(err)
	}
}

// Package interactive provides the ircap shell: paste captures to decode them,
// or encode scancodes to captures.
package interactive

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sparques/irpad/cmd/ircap/commands"
	"github.com/sparques/irpad/internal/capture"
	"github.com/sparques/irpad/remote"
)

// Shell holds the state of one interactive session.
type Shell struct {
	out      io.Writer
	protocol remote.Protocol
	toggle   bool
	history  []capture.Line
}

func NewShell(out io.Writer) *Shell {
	return &Shell{out: out}
}

// Run reads commands until EOF or quit.
func (s *Shell) Run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ircap> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	s.out = rl.Stdout()
	s.printHelp()
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return nil
		}
		if s.Exec(line) {
			return nil
		}
	}
}

// Exec runs one input line and reports whether the session should end.
func (s *Shell) Exec(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}

	// a pasted capture starts with a duration
	if c := input[0]; c == '+' || (c >= '0' && c <= '9') {
		s.decode(input)
		return false
	}

	parts := strings.Fields(input)
	cmd, args := strings.ToLower(parts[0]), parts[1:]
	switch cmd {
	case "help", "?":
		s.printHelp()
	case "protocol", "p":
		s.cmdProtocol(args)
	case "encode", "e":
		s.cmdEncode(args)
	case "toggle":
		s.toggle = !s.toggle
		fmt.Fprintf(s.out, "toggle %t\n", s.toggle)
	case "avg":
		s.cmdAvg()
	case "clear":
		s.history = nil
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (s *Shell) decode(input string) {
	_, err := commands.RunDecode(strings.NewReader(input), commands.DecodeOptions{Protocol: s.protocol}, s.out)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	pulses, comment, ok, err := capture.ParseLine(input)
	if ok && err == nil {
		s.history = append(s.history, capture.Line{Number: len(s.history) + 1, Pulses: pulses, Comment: comment})
	} else if !ok && err == nil {
		fmt.Fprintf(s.out, "need at least %d values\n", capture.MinPulses)
	}
}

func (s *Shell) cmdProtocol(args []string) {
	if len(args) == 0 {
		name := "auto"
		if s.protocol != 0 {
			name = s.protocol.String()
		}
		fmt.Fprintf(s.out, "protocol %s\n", name)
		return
	}
	p, err := commands.ParseProtocolFlag(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	s.protocol = p
}

func (s *Shell) cmdEncode(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "usage: encode <scancode>")
		return
	}
	if s.protocol == 0 {
		fmt.Fprintln(s.out, "error: choose a protocol first")
		return
	}
	code, err := commands.ParseScancode(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	toggle := s.toggle && s.protocol == remote.RC5
	if err := commands.RunEncode(s.protocol, code, toggle, s.out); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
}

func (s *Shell) cmdAvg() {
	if len(s.history) == 0 {
		fmt.Fprintln(s.out, "no captures yet")
		return
	}
	var sb strings.Builder
	for _, l := range s.history {
		sb.WriteString(capture.FormatLine(l.Pulses))
		sb.WriteByte('\n')
	}
	if err := commands.RunAvg(strings.NewReader(sb.String()), s.out); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `
ircap shell:
  <capture line>        - Decode a pasted capture (+mark -space ...)
  protocol [name|auto]  - Show or set the protocol (nec, necx, nec32, rc5, lumene)
  encode <scancode>     - Print the capture for a scancode
  toggle                - Flip the rc5 toggle bit used by encode
  avg                   - Average the captures pasted so far
  clear                 - Forget pasted captures
  quit                  - Leave the shell
`)
}

package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sparques/irpad/remote"
)

// ParseProtocolFlag parses a -protocol value. "auto" and the empty string
// return 0, which makes decode try every protocol.
func ParseProtocolFlag(s string) (remote.Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return 0, nil
	}
	return remote.ParseProtocol(s)
}

// ParseScancode accepts decimal, 0x hex, 0o octal and 0b binary.
func ParseScancode(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid scancode %q: %w", s, err)
	}
	return uint32(v), nil
}

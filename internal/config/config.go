// Package config loads the keypad configuration: remotes and the layers that use
// them.
//
// The main file is TOML:
//
//	[[remote]]
//	name = "sonos"
//	builtin = "tangent"
//
//	[[remote]]
//	name = "amp"
//	protocol = "nec"
//	codes = { ON = 0x15C, OFF = "0x11F" }
//	codes_file = "amp.yaml"
//
//	[[layer]]
//	name = "Sonos"
//	rgb = [0, 255, 255]
//	debounce = "200ms"
//
//	  [[layer.key]]
//	  x = 1
//	  y = 3
//	  remote = "sonos"
//	  command = "KEY_ENTER"
//	  label = "mute"
//
// Code files are YAML maps of command name to scancode.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/sparques/irpad/internal/keypad"
	"github.com/sparques/irpad/remote"
)

// Pad dimensions.
const (
	Columns = 4
	Rows    = 4
)

// SelectorKey switches layers while held; no layer may bind it.
var SelectorKey = keypad.Key{X: 0, Y: 0}

var ErrInvalid = errors.New("invalid config")

// Scancode accepts integers or numeric strings ("0x15C", "348") in both TOML
// and YAML.
type Scancode uint32

func (s *Scancode) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case int64:
		if v < 0 || v > 0xFFFFFFFF {
			return fmt.Errorf("scancode %d out of range", v)
		}
		*s = Scancode(v)
		return nil
	case string:
		return s.parse(v)
	default:
		return fmt.Errorf("scancode must be an integer or string, got %T", v)
	}
}

func (s *Scancode) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: scancode must be a scalar", node.Line)
	}
	if err := s.parse(node.Value); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	return nil
}

func (s *Scancode) parse(raw string) error {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 0, 32)
	if err != nil {
		return fmt.Errorf("bad scancode %q: %w", raw, err)
	}
	*s = Scancode(v)
	return nil
}

type RemoteConfig struct {
	Name      string              `toml:"name"`
	Protocol  string              `toml:"protocol"`
	Builtin   string              `toml:"builtin"`
	Codes     map[string]Scancode `toml:"codes"`
	CodesFile string              `toml:"codes_file"`
}

type KeyConfig struct {
	X       int    `toml:"x"`
	Y       int    `toml:"y"`
	Remote  string `toml:"remote"`
	Command string `toml:"command"`
	Label   string `toml:"label"`
}

type LayerConfig struct {
	Name     string      `toml:"name"`
	RGB      []int       `toml:"rgb"`
	Debounce string      `toml:"debounce"`
	Keys     []KeyConfig `toml:"key"`
}

type Config struct {
	Remotes []RemoteConfig `toml:"remote"`
	Layers  []LayerConfig  `toml:"layer"`

	// directory code files are resolved against
	dir string
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	cfg, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML. Relative code files are resolved against dir.
func Parse(data []byte, dir string) (*Config, error) {
	cfg := &Config{dir: dir}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	for i := range c.Remotes {
		r := &c.Remotes[i]
		r.Name = strings.TrimSpace(r.Name)
		r.Protocol = strings.TrimSpace(r.Protocol)
		r.Builtin = strings.ToLower(strings.TrimSpace(r.Builtin))
		r.CodesFile = strings.TrimSpace(r.CodesFile)
	}
	for i := range c.Layers {
		l := &c.Layers[i]
		l.Name = strings.TrimSpace(l.Name)
		l.Debounce = strings.TrimSpace(l.Debounce)
		for j := range l.Keys {
			l.Keys[j].Remote = strings.TrimSpace(l.Keys[j].Remote)
			l.Keys[j].Command = strings.TrimSpace(l.Keys[j].Command)
		}
	}
}

func invalid(path, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalid, path, fmt.Sprintf(format, args...))
}

// Validate checks everything that does not need the code files. Command names
// are checked by Pad.
func (c *Config) Validate() error {
	remotes := make(map[string]bool, len(c.Remotes))
	for i, r := range c.Remotes {
		path := fmt.Sprintf("remote[%d]", i)
		if r.Name == "" {
			return invalid(path, "name is required")
		}
		if remotes[r.Name] {
			return invalid(path, "duplicate remote %q", r.Name)
		}
		remotes[r.Name] = true

		switch {
		case r.Builtin != "":
			if r.Protocol != "" || len(r.Codes) > 0 || r.CodesFile != "" {
				return invalid(path, "builtin cannot be combined with protocol or codes")
			}
			if _, ok := remote.Builtin(r.Builtin); !ok {
				return invalid(path+".builtin", "unknown remote %q (have %s)", r.Builtin, strings.Join(remote.BuiltinNames(), ", "))
			}
		case r.Protocol == "":
			return invalid(path, "protocol or builtin is required")
		default:
			p, err := remote.ParseProtocol(r.Protocol)
			if err != nil {
				return invalid(path+".protocol", "%v", err)
			}
			for cmd, code := range r.Codes {
				if err := p.Validate(uint32(code)); err != nil {
					return invalid(path+".codes."+cmd, "%v", err)
				}
			}
		}
	}

	layers := make(map[string]bool, len(c.Layers))
	for i, l := range c.Layers {
		path := fmt.Sprintf("layer[%d]", i)
		if l.Name == "" {
			return invalid(path, "name is required")
		}
		if layers[l.Name] {
			return invalid(path, "duplicate layer %q", l.Name)
		}
		layers[l.Name] = true

		if len(l.RGB) != 0 && len(l.RGB) != 3 {
			return invalid(path+".rgb", "want 3 components, got %d", len(l.RGB))
		}
		for _, v := range l.RGB {
			if v < 0 || v > 255 {
				return invalid(path+".rgb", "component %d out of range", v)
			}
		}
		if l.Debounce != "" {
			d, err := time.ParseDuration(l.Debounce)
			if err != nil {
				return invalid(path+".debounce", "%v", err)
			}
			if d < 0 {
				return invalid(path+".debounce", "negative duration")
			}
		}

		seen := make(map[keypad.Key]bool, len(l.Keys))
		for j, k := range l.Keys {
			kpath := fmt.Sprintf("%s.key[%d]", path, j)
			if k.X < 0 || k.X >= Columns || k.Y < 0 || k.Y >= Rows {
				return invalid(kpath, "position (%d,%d) is off the pad", k.X, k.Y)
			}
			pos := keypad.Key{X: k.X, Y: k.Y}
			if pos == SelectorKey {
				return invalid(kpath, "key %s is the layer selector", pos)
			}
			if seen[pos] {
				return invalid(kpath, "key %s assigned twice", pos)
			}
			seen[pos] = true
			if !remotes[k.Remote] {
				return invalid(kpath+".remote", "unknown remote %q", k.Remote)
			}
			if k.Command == "" {
				return invalid(kpath+".command", "command is required")
			}
		}
	}
	return nil
}

// LoadCodes reads a YAML code table.
func LoadCodes(path string) (map[string]uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("codes load failed (%s): %w", path, err)
	}
	var raw map[string]Scancode
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("codes parse failed (%s): %w", path, err)
	}
	codes := make(map[string]uint32, len(raw))
	for name, code := range raw {
		codes[name] = uint32(code)
	}
	return codes, nil
}

// BuildRemotes builds the configured remotes, keyed by name.
func (c *Config) BuildRemotes() (map[string]*remote.Remote, error) {
	out := make(map[string]*remote.Remote, len(c.Remotes))
	for i, rc := range c.Remotes {
		r, err := c.buildRemote(rc)
		if err != nil {
			return nil, fmt.Errorf("remote[%d]: %w", i, err)
		}
		out[rc.Name] = r
	}
	return out, nil
}

func (c *Config) buildRemote(rc RemoteConfig) (*remote.Remote, error) {
	if rc.Builtin != "" {
		b, ok := remote.Builtin(rc.Builtin)
		if !ok {
			return nil, fmt.Errorf("unknown builtin remote %q", rc.Builtin)
		}
		codes := make(map[string]uint32)
		for _, cmd := range b.Commands() {
			codes[cmd], _ = b.Code(cmd)
		}
		return remote.New(rc.Name, b.Protocol(), codes)
	}

	p, err := remote.ParseProtocol(rc.Protocol)
	if err != nil {
		return nil, err
	}
	codes := make(map[string]uint32)
	if rc.CodesFile != "" {
		path := rc.CodesFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.dir, path)
		}
		fromFile, err := LoadCodes(path)
		if err != nil {
			return nil, err
		}
		for name, code := range fromFile {
			codes[name] = code
		}
	}
	// inline codes win over the file
	for name, code := range rc.Codes {
		codes[name] = uint32(code)
	}
	return remote.New(rc.Name, p, codes)
}

// Pad builds the keypad layers. Every key sends through tx.
func (c *Config) Pad(tx remote.Sender) (*keypad.Pad, error) {
	remotes, err := c.BuildRemotes()
	if err != nil {
		return nil, err
	}

	layers := make([]*keypad.Layer, 0, len(c.Layers))
	for i, lc := range c.Layers {
		layer := &keypad.Layer{
			Name: lc.Name,
			Keys: make(map[keypad.Key]keypad.Action, len(lc.Keys)),
		}
		if len(lc.RGB) == 3 {
			layer.RGB = keypad.RGB{uint8(lc.RGB[0]), uint8(lc.RGB[1]), uint8(lc.RGB[2])}
		}
		if lc.Debounce != "" {
			// checked by Validate
			layer.Debounce, _ = time.ParseDuration(lc.Debounce)
		}
		for j, kc := range lc.Keys {
			r := remotes[kc.Remote]
			if _, ok := r.Code(kc.Command); !ok {
				return nil, invalid(fmt.Sprintf("layer[%d].key[%d].command", i, j), "remote %q has no command %q", kc.Remote, kc.Command)
			}
			layer.Keys[keypad.Key{X: kc.X, Y: kc.Y}] = &keypad.IRAction{
				Remote:  r,
				Command: kc.Command,
				Sender:  tx,
				Text:    kc.Label,
			}
		}
		layers = append(layers, layer)
	}
	return keypad.NewPad(layers...), nil
}

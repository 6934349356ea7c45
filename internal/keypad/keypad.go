// Package keypad maps keys of the macro pad to IR commands, grouped in layers.
package keypad

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sparques/irpad/remote"
)

// DefaultDebounce is the minimum time between two sends of the same held key.
const DefaultDebounce = 200 * time.Millisecond

var ErrUnknownLayer = errors.New("unknown layer")

// Key is a position on the pad, column X and row Y.
type Key struct {
	X, Y int
}

func (k Key) String() string {
	return fmt.Sprintf("(%d,%d)", k.X, k.Y)
}

// Action is what a key does when pressed.
type Action interface {
	Send() error
	Label() string
}

// IRAction sends a named command of a remote.
type IRAction struct {
	Remote  *remote.Remote
	Command string
	Sender  remote.Sender
	// Text shown for the key. Defaults to the command name.
	Text string
}

func (a *IRAction) Send() error {
	return a.Remote.Send(a.Sender, a.Command)
}

func (a *IRAction) Label() string {
	if a.Text != "" {
		return a.Text
	}
	return a.Command
}

// RGB is a key backlight color.
type RGB [3]uint8

type Layer struct {
	Name     string
	RGB      RGB
	Debounce time.Duration
	Keys     map[Key]Action

	lastSent map[Key]time.Time
}

func (l *Layer) debounce() time.Duration {
	if l.Debounce <= 0 {
		return DefaultDebounce
	}
	return l.Debounce
}

// Labels returns the key labels of the layer.
func (l *Layer) Labels() map[Key]string {
	labels := make(map[Key]string, len(l.Keys))
	for k, a := range l.Keys {
		labels[k] = a.Label()
	}
	return labels
}

// update sends the action of every pressed key whose last send is older than the
// debounce interval. Keys are visited in row-major order.
func (l *Layer) update(now time.Time, pressed func(Key) bool) int {
	if l.lastSent == nil {
		l.lastSent = make(map[Key]time.Time, len(l.Keys))
	}
	keys := make([]Key, 0, len(l.Keys))
	for k := range l.Keys {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Y != keys[j].Y {
			return keys[i].Y < keys[j].Y
		}
		return keys[i].X < keys[j].X
	})

	sent := 0
	for _, k := range keys {
		if !pressed(k) {
			continue
		}
		if last, ok := l.lastSent[k]; ok && now.Sub(last) <= l.debounce() {
			continue
		}
		l.lastSent[k] = now
		action := l.Keys[k]
		if err := action.Send(); err != nil {
			log.Error().Err(err).Str("layer", l.Name).Stringer("key", k).Str("label", action.Label()).Msg("send failed")
			continue
		}
		sent++
	}
	return sent
}

// Pad holds the layers and the currently selected one.
type Pad struct {
	layers  []*Layer
	current *Layer
}

// NewPad selects the first layer, if any.
func NewPad(layers ...*Layer) *Pad {
	p := &Pad{layers: layers}
	if len(layers) > 0 {
		p.current = layers[0]
	}
	return p
}

func (p *Pad) Layers() []*Layer { return p.layers }

// Current returns the selected layer, or nil if none is selected.
func (p *Pad) Current() *Layer { return p.current }

// Select makes the named layer current.
func (p *Pad) Select(name string) error {
	for _, l := range p.layers {
		if l.Name == name {
			p.current = l
			log.Info().Str("layer", name).Msg("layer selected")
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownLayer, name)
}

// Deselect leaves the pad without a current layer; Update then does nothing.
func (p *Pad) Deselect() {
	p.current = nil
}

// Update polls the current layer and returns the number of actions sent.
func (p *Pad) Update(now time.Time, pressed func(Key) bool) int {
	if p.current == nil {
		return 0
	}
	return p.current.update(now, pressed)
}

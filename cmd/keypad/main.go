//go:build tinygo

// Command keypad is the macro pad firmware. Each key of the current layer sends
// an IR command; holding the selector key and pressing one of the keys after it
// switches layers.
package main

import (
	_ "embed"
	"machine"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sparques/irpad"
	"github.com/sparques/irpad/internal/config"
	"github.com/sparques/irpad/internal/keypad"
	"github.com/sparques/irpad/internal/logging"
)

//go:embed config.toml
var configTOML []byte

const irLED = machine.GP26

// keys are wired active low, row by row
var keyPins = [config.Rows][config.Columns]machine.Pin{
	{machine.GP0, machine.GP1, machine.GP2, machine.GP3},
	{machine.GP4, machine.GP5, machine.GP6, machine.GP7},
	{machine.GP8, machine.GP9, machine.GP10, machine.GP11},
	{machine.GP12, machine.GP13, machine.GP14, machine.GP15},
}

var selector = config.SelectorKey

func pressed(k keypad.Key) bool {
	return !keyPins[k.Y][k.X].Get()
}

func main() {
	logging.ConfigureRuntime("keypad")

	for _, row := range keyPins {
		for _, pin := range row {
			pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		}
	}

	cfg, err := config.Parse(configTOML, ".")
	if err != nil {
		log.Fatal().Err(err).Msg("bad config")
	}
	tx := irpad.NewTransmitter(irpad.NewTxDevice(irLED))
	pad, err := cfg.Pad(tx)
	if err != nil {
		log.Fatal().Err(err).Msg("bad config")
	}

	for {
		now := time.Now()
		if pressed(selector) {
			selectLayer(pad)
		} else {
			pad.Update(now, pressed)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// selectLayer maps the keys following the selector, in row-major order, to the
// layers in configuration order.
func selectLayer(pad *keypad.Pad) {
	for i, layer := range pad.Layers() {
		n := i + 1
		k := keypad.Key{X: n % config.Columns, Y: n / config.Columns}
		if k.Y >= config.Rows {
			return
		}
		if pressed(k) {
			if err := pad.Select(layer.Name); err != nil {
				log.Error().Err(err).Msg("select layer")
			}
			return
		}
	}
}

//go:build tinygo

package irpad

import (
	. "machine"

	"github.com/sparques/pwm"
)

// TxDevice is a Carrier modulating an IR LED with a PWM channel.
type TxDevice struct {
	pin    Pin
	pgroup pwm.Group
	ch     uint8
	duty   uint32
	// DutyCycle is the percentage of each carrier period the LED is lit.
	DutyCycle uint32
}

func NewTxDevice(pin Pin) *TxDevice {
	pin.Configure(PinConfig{Mode: PinPWM})
	pgroup := pwm.Get(pin)
	pgroup.Configure(PWMConfig{Period: uint64(1e9) / uint64(Freq38Khz)})
	ch, _ := pgroup.Channel(pin)
	pgroup.Set(ch, 0)
	tx := &TxDevice{
		pin:       pin,
		pgroup:    pgroup,
		ch:        ch,
		DutyCycle: 33,
	}
	tx.duty = pgroup.Top() * tx.DutyCycle / 100
	return tx
}

// SetFrequency implements Carrier.
func (tx *TxDevice) SetFrequency(hz uint32) error {
	if err := tx.pgroup.Configure(PWMConfig{Period: uint64(1e9) / uint64(hz)}); err != nil {
		return err
	}
	tx.duty = tx.pgroup.Top() * tx.DutyCycle / 100
	tx.pgroup.Set(tx.ch, 0)
	return nil
}

// On implements Carrier.
func (tx *TxDevice) On() {
	tx.pgroup.Set(tx.ch, tx.duty)
}

// Off implements Carrier.
func (tx *TxDevice) Off() {
	tx.pgroup.Set(tx.ch, 0)
}

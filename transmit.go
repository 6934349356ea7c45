package irpad

import (
	"errors"
	"time"
)

// Carrier is the modulated output driving an IR LED.
type Carrier interface {
	// SetFrequency configures the modulation frequency in Hz.
	SetFrequency(hz uint32) error
	// On starts modulating, Off stops. Both must return quickly.
	On()
	Off()
}

// ErrNoCarrier is returned when a Transmitter has nothing to drive.
var ErrNoCarrier = errors.New("irpad: transmitter has no carrier")

// Transmitter plays pulse trains on a Carrier. Send blocks until the last pulse
// has been emitted.
type Transmitter struct {
	carrier Carrier
	freq    uint32
	// Sleep waits between edges; time.Sleep unless replaced.
	Sleep func(time.Duration)
}

func NewTransmitter(c Carrier) *Transmitter {
	return &Transmitter{
		carrier: c,
		Sleep:   time.Sleep,
	}
}

// Send keys the carrier at hz for every mark of pulses and idles for every space.
// The carrier is always left off.
func (tx *Transmitter) Send(pulses PulseTrain, hz uint32) error {
	if tx == nil || tx.carrier == nil {
		return ErrNoCarrier
	}
	if hz != tx.freq {
		if err := tx.carrier.SetFrequency(hz); err != nil {
			return err
		}
		tx.freq = hz
	}

	defer tx.carrier.Off()
	for i, d := range pulses {
		if i%2 == 0 {
			tx.carrier.On()
			tx.Sleep(time.Duration(d) * time.Microsecond)
			tx.carrier.Off()
			continue
		}
		tx.Sleep(time.Duration(d) * time.Microsecond)
	}
	return nil
}

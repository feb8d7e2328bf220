//go:build rp2040

package main

import (
	"errors"
	"machine"
	"sync/atomic"

	"gorecord/core"
)

var errUnknownPin = errors.New("rp2040: unknown pin")

// Edge flags are set from pin interrupts and forwarded to the scheduler by
// the tick loop. Channel operations are not allowed in interrupt context.
var (
	buttonPending  uint32
	triggerPending uint32
)

// RPGPIODriver implements core.GPIODriver for the arena board
type RPGPIODriver struct {
	status *StatusLED
	levels [core.NumGPIOPins]bool
}

// NewRPGPIODriver configures every output line released
func NewRPGPIODriver(status *StatusLED) *RPGPIODriver {
	d := &RPGPIODriver{status: status}
	for logical, pin := range digitalPins {
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		pin.Set(activeLow[logical])
	}
	return d
}

// SetPin implements core.GPIODriver
func (d *RPGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	switch pin {
	case core.PinLEDRed:
		d.status.SetRed(value)
	case core.PinLEDGreen:
		d.status.SetGreen(value)
	default:
		hw, ok := digitalPins[pin]
		if !ok {
			return errUnknownPin
		}
		hw.Set(value != activeLow[pin])
	}
	d.levels[pin] = value
	return nil
}

// GetPin implements core.GPIODriver
func (d *RPGPIODriver) GetPin(pin core.GPIOPin) (bool, error) {
	if pin >= core.NumGPIOPins {
		return false, errUnknownPin
	}
	if hw, ok := digitalPins[pin]; ok {
		return hw.Get() != activeLow[pin], nil
	}
	return d.levels[pin], nil
}

// edgeInputs owns the button and external trigger interrupts
type edgeInputs struct{}

func newEdgeInputs() *edgeInputs {
	pinButton.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	pinTrigger.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	pinButton.SetInterrupt(machine.PinFalling, func(machine.Pin) {
		atomic.StoreUint32(&buttonPending, 1)
	})
	return &edgeInputs{}
}

// SetTriggerEnabled implements core.TriggerMask
func (e *edgeInputs) SetTriggerEnabled(enabled bool) {
	if !enabled {
		pinTrigger.SetInterrupt(0, nil)
		atomic.StoreUint32(&triggerPending, 0)
		return
	}
	pinTrigger.SetInterrupt(machine.PinRising, func(machine.Pin) {
		atomic.StoreUint32(&triggerPending, 1)
	})
}

// forwardEdges hands latched edges to the scheduler
func forwardEdges(s *core.Scheduler) {
	if atomic.SwapUint32(&buttonPending, 0) != 0 {
		s.ButtonEdge()
	}
	if atomic.SwapUint32(&triggerPending, 0) != 0 {
		s.TriggerEdge()
	}
}

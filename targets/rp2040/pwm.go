//go:build rp2040

package main

import (
	"errors"
	"machine"

	"gorecord/core"
)

// pwmPeriodNs gives the feeder rings a 1 kHz carrier
const pwmPeriodNs = 1000000

var errPWMChannel = errors.New("rp2040: unknown PWM channel")

// pwmPeripheral is an interface for PWM hardware peripherals
// This abstracts over TinyGo's unexported *pwmGroup type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

type pwmOutput struct {
	group   pwmPeripheral
	channel uint8
}

// RP2040PWMDriver implements core.PWMDriver on the RP2040 PWM slices.
// The compare domain is inverted: 0 is full on, CompareMax is dark.
type RP2040PWMDriver struct {
	outputs [core.NumPWMChannels]pwmOutput
}

// NewRP2040PWMDriver configures every feeder and cue pin, dark
func NewRP2040PWMDriver() (*RP2040PWMDriver, error) {
	d := &RP2040PWMDriver{}
	configured := make(map[uint8]bool)

	for ch, pin := range pwmPins {
		// RP2040: GPIO pin N maps to slice (N >> 1) & 0x7, channel N & 1
		sliceNum := uint8((pin >> 1) & 0x7)
		group := getPWMPeripheral(sliceNum)
		if !configured[sliceNum] {
			if err := group.Configure(machine.PWMConfig{Period: pwmPeriodNs}); err != nil {
				return nil, err
			}
			configured[sliceNum] = true
		}
		channel, err := group.Channel(pin)
		if err != nil {
			return nil, err
		}
		d.outputs[ch] = pwmOutput{group: group, channel: channel}
		group.Set(channel, 0)
	}
	return d, nil
}

// SetCompare implements core.PWMDriver
func (d *RP2040PWMDriver) SetCompare(ch core.PWMChannel, value uint16) error {
	if ch >= core.NumPWMChannels {
		return errPWMChannel
	}
	if value > core.CompareMax {
		return core.ErrValueRange
	}
	out := d.outputs[ch]
	top := out.group.Top()
	// Use 64-bit math; Top can reach 65535
	duty := uint32(uint64(core.CompareMax-value) * uint64(top) / core.CompareMax)
	out.group.Set(out.channel, duty)
	return nil
}

// getPWMPeripheral returns the PWM peripheral for a given slice number
func getPWMPeripheral(sliceNum uint8) pwmPeripheral {
	switch sliceNum {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

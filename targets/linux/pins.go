//go:build linux && !tinygo

package main

import "gorecord/core"

// Arena HAT line offsets on gpiochip0 (Raspberry Pi BCM numbering)
const (
	lineButton  = 24 // active low, pulled up
	lineTrigger = 25 // rising edge, pulled down
)

var outputLines = map[core.GPIOPin]int{
	core.PinAck:      17,
	core.PinTTLOut:   27,
	core.PinRelay1:   5,
	core.PinRelay2:   6,
	core.PinRelay3:   13,
	core.PinRelay4:   19,
	core.PinLEDRed:   22,
	core.PinLEDGreen: 23,
}

// Relay drivers on the HAT are active low
var activeLow = map[core.GPIOPin]bool{
	core.PinRelay1: true,
	core.PinRelay2: true,
	core.PinRelay3: true,
	core.PinRelay4: true,
}

// pwmChannels maps each PWM output to a channel of the sysfs PWM chip
var pwmChannels = [core.NumPWMChannels]int{
	core.PWMFeeder1: 0,
	core.PWMFeeder2: 1,
	core.PWMFeeder3: 2,
	core.PWMFeeder4: 3,
	core.PWMCue:     4,
}

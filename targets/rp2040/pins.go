//go:build rp2040

package main

import (
	"machine"

	"gorecord/core"
)

// Arena board pin map (Raspberry Pi Pico)
const (
	pinUARTTX = machine.GPIO0 // UART0 TX
	pinUARTRX = machine.GPIO1 // UART0 RX

	pinRelay1 = machine.GPIO2
	pinRelay2 = machine.GPIO3
	pinRelay3 = machine.GPIO4
	pinRelay4 = machine.GPIO5
	pinAck    = machine.GPIO6
	pinTTLOut = machine.GPIO7

	pinButton  = machine.GPIO8 // active low, pulled up
	pinTrigger = machine.GPIO9 // rising edge, pulled down

	pinFeeder1 = machine.GPIO10 // PWM5 A
	pinFeeder2 = machine.GPIO11 // PWM5 B
	pinFeeder3 = machine.GPIO12 // PWM6 A
	pinFeeder4 = machine.GPIO13 // PWM6 B
	pinCue     = machine.GPIO14 // PWM7 A

	pinStatusLED = machine.GPIO16 // WS2812 data
)

const commandBaud = 9600

// digitalPins maps logical output lines to board pins. The status LEDs are
// not on this list; they share the WS2812 pixel.
var digitalPins = map[core.GPIOPin]machine.Pin{
	core.PinAck:    pinAck,
	core.PinTTLOut: pinTTLOut,
	core.PinRelay1: pinRelay1,
	core.PinRelay2: pinRelay2,
	core.PinRelay3: pinRelay3,
	core.PinRelay4: pinRelay4,
}

// activeLow lists lines whose driver inverts the logic level
var activeLow = map[core.GPIOPin]bool{
	core.PinRelay1: true,
	core.PinRelay2: true,
	core.PinRelay3: true,
	core.PinRelay4: true,
}

var pwmPins = [core.NumPWMChannels]machine.Pin{
	core.PWMFeeder1: pinFeeder1,
	core.PWMFeeder2: pinFeeder2,
	core.PWMFeeder3: pinFeeder3,
	core.PWMFeeder4: pinFeeder4,
	core.PWMCue:     pinCue,
}

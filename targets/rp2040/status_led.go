//go:build rp2040

package main

import (
	"image/color"
	"machine"
	"runtime/interrupt"

	"tinygo.org/x/drivers/ws2812"
)

// StatusLED shows the red and green status lines on one WS2812 pixel.
// Both on shows yellow.
type StatusLED struct {
	dev        ws2812.Device
	red, green bool
}

func NewStatusLED(pin machine.Pin) *StatusLED {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	s := &StatusLED{dev: ws2812.New(pin)}
	s.show()
	return s
}

func (s *StatusLED) SetRed(on bool) {
	s.red = on
	s.show()
}

func (s *StatusLED) SetGreen(on bool) {
	s.green = on
	s.show()
}

func (s *StatusLED) show() {
	var c color.RGBA
	if s.red {
		c.R = 0x40
	}
	if s.green {
		c.G = 0x40
	}
	// WS2812 bit timing must not be interrupted
	state := interrupt.Disable()
	s.dev.WriteColors([]color.RGBA{c})
	interrupt.Restore(state)
}

//go:build linux && !tinygo

package main

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/warthog618/go-gpiocdev"

	"gorecord/core"
)

var errUnknownPin = errors.New("linux: unknown pin")

// CdevGPIO implements core.GPIODriver on the GPIO character device
type CdevGPIO struct {
	chip  *gpiocdev.Chip
	lines [core.NumGPIOPins]*gpiocdev.Line
}

// NewCdevGPIO requests every output line, released
func NewCdevGPIO(chipName string) (*CdevGPIO, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	g := &CdevGPIO{chip: chip}

	for pin, offset := range outputLines {
		opts := []gpiocdev.LineReqOption{gpiocdev.AsOutput(0)}
		if activeLow[pin] {
			opts = append(opts, gpiocdev.AsActiveLow)
		}
		line, err := chip.RequestLine(offset, opts...)
		if err != nil {
			g.Close()
			return nil, fmt.Errorf("request %s line %d: %w", pin, offset, err)
		}
		g.lines[pin] = line
	}
	return g, nil
}

// SetPin implements core.GPIODriver
func (g *CdevGPIO) SetPin(pin core.GPIOPin, value bool) error {
	if pin >= core.NumGPIOPins || g.lines[pin] == nil {
		return errUnknownPin
	}
	v := 0
	if value {
		v = 1
	}
	return g.lines[pin].SetValue(v)
}

// GetPin implements core.GPIODriver
func (g *CdevGPIO) GetPin(pin core.GPIOPin) (bool, error) {
	if pin >= core.NumGPIOPins || g.lines[pin] == nil {
		return false, errUnknownPin
	}
	v, err := g.lines[pin].Value()
	return v != 0, err
}

// Close releases the outputs and the chip
func (g *CdevGPIO) Close() error {
	var errs []error
	for _, line := range g.lines {
		if line == nil {
			continue
		}
		if err := line.SetValue(0); err != nil {
			errs = append(errs, err)
		}
		if err := line.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := g.chip.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// EdgeInputs watches the button and trigger lines. Events arrive on the
// gpiocdev watcher goroutine and are handed to the scheduler once bound.
type EdgeInputs struct {
	sched   atomic.Pointer[core.Scheduler]
	trigger atomic.Bool

	button   *gpiocdev.Line
	trigLine *gpiocdev.Line
}

// NewEdgeInputs requests both input lines with edge detection
func NewEdgeInputs(chipName string) (*EdgeInputs, error) {
	e := &EdgeInputs{}
	var err error

	e.button, err = gpiocdev.RequestLine(chipName, lineButton,
		gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) {
			if s := e.sched.Load(); s != nil {
				s.ButtonEdge()
			}
		}))
	if err != nil {
		return nil, fmt.Errorf("request button line %d: %w", lineButton, err)
	}

	e.trigLine, err = gpiocdev.RequestLine(chipName, lineTrigger,
		gpiocdev.AsInput, gpiocdev.WithPullDown, gpiocdev.WithRisingEdge,
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) {
			s := e.sched.Load()
			if s != nil && e.trigger.Load() {
				s.TriggerEdge()
			}
		}))
	if err != nil {
		e.button.Close()
		return nil, fmt.Errorf("request trigger line %d: %w", lineTrigger, err)
	}
	return e, nil
}

// Bind starts forwarding edges to s
func (e *EdgeInputs) Bind(s *core.Scheduler) {
	e.sched.Store(s)
}

// SetTriggerEnabled implements core.TriggerMask
func (e *EdgeInputs) SetTriggerEnabled(enabled bool) {
	e.trigger.Store(enabled)
}

// Close releases both lines
func (e *EdgeInputs) Close() error {
	return errors.Join(e.button.Close(), e.trigLine.Close())
}

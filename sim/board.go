// Package sim provides a simulated arena board.
//
// A Board implements every hardware interface the core needs and records an
// ordered log of what the firmware did to it. With a virtual clock, time only
// moves when the delay timer is waited on or the test calls Advance, which
// makes pulse timing and handshake ordering fully deterministic.
package sim

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"gorecord/core"
)

// EventKind classifies a logged board event
type EventKind uint8

const (
	PinEvent EventKind = iota
	PWMEvent
	TxEvent
	MaskEvent
)

// Event is one observable action on the board
type Event struct {
	At      uint32 // board time in ms
	Kind    EventKind
	Pin     core.GPIOPin
	Level   bool
	Channel core.PWMChannel
	Value   uint16
	Data    string
}

// Board is a simulated arena board
type Board struct {
	mu       sync.Mutex
	tb       *core.TimeBase
	realtime bool
	start    time.Time
	now      uint32

	pins           [core.NumGPIOPins]bool
	compare        [core.NumPWMChannels]uint16
	triggerEnabled bool
	delayArmed     bool

	tx     bytes.Buffer
	events []Event
	echo   io.Writer

	// OnPin, when set, is called after every pin transition. Tests use it to
	// inject edges at precise points.
	OnPin func(pin core.GPIOPin, level bool)
}

// New returns a board on a virtual clock that ticks tb
func New(tb *core.TimeBase) *Board {
	b := &Board{tb: tb}
	for i := range b.compare {
		b.compare[i] = core.CompareOff
	}
	return b
}

// NewRealtime returns a board on the wall clock; call RunClock to tick tb
func NewRealtime(tb *core.TimeBase) *Board {
	b := New(tb)
	b.realtime = true
	b.start = time.Now()
	return b
}

var (
	_ core.GPIODriver  = (*Board)(nil)
	_ core.PWMDriver   = (*Board)(nil)
	_ core.SerialPort  = (*Board)(nil)
	_ core.DelayTimer  = (*Board)(nil)
	_ core.TriggerMask = (*Board)(nil)
)

// Core returns a core.Board backed entirely by b
func (b *Board) Core(info core.DeviceInfo) core.Board {
	return core.Board{
		GPIO:    b,
		PWM:     b,
		Serial:  b,
		Delay:   b,
		Trigger: b,
		Info:    info,
	}
}

// SetPinHook replaces OnPin while the board may be in use
func (b *Board) SetPinHook(fn func(pin core.GPIOPin, level bool)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.OnPin = fn
}

// SetEcho mirrors everything transmitted to w
func (b *Board) SetEcho(w io.Writer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.echo = w
}

func (b *Board) clock() uint32 {
	if b.realtime {
		return uint32(time.Since(b.start) / time.Millisecond)
	}
	return b.now
}

func (b *Board) log(e Event) {
	e.At = b.clock()
	b.events = append(b.events, e)
}

// SetPin implements core.GPIODriver
func (b *Board) SetPin(pin core.GPIOPin, value bool) error {
	if pin >= core.NumGPIOPins {
		return errUnknownPin
	}
	b.mu.Lock()
	changed := b.pins[pin] != value
	if changed {
		b.pins[pin] = value
		b.log(Event{Kind: PinEvent, Pin: pin, Level: value})
	}
	hook := b.OnPin
	b.mu.Unlock()

	if changed && hook != nil {
		hook(pin, value)
	}
	return nil
}

// GetPin implements core.GPIODriver
func (b *Board) GetPin(pin core.GPIOPin) (bool, error) {
	if pin >= core.NumGPIOPins {
		return false, errUnknownPin
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pins[pin], nil
}

// SetCompare implements core.PWMDriver
func (b *Board) SetCompare(ch core.PWMChannel, value uint16) error {
	if ch >= core.NumPWMChannels {
		return errUnknownChannel
	}
	if value > core.CompareMax {
		return core.ErrValueRange
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.compare[ch] = value
	b.log(Event{Kind: PWMEvent, Channel: ch, Value: value})
	return nil
}

// Write implements core.SerialPort
func (b *Board) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tx.Write(p)
	b.log(Event{Kind: TxEvent, Data: string(p)})
	if b.echo != nil {
		return b.echo.Write(p)
	}
	return len(p), nil
}

// SetTriggerEnabled implements core.TriggerMask
func (b *Board) SetTriggerEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.triggerEnabled = enabled
	b.log(Event{Kind: MaskEvent, Level: enabled})
}

// Start implements core.DelayTimer
func (b *Board) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.delayArmed {
		panic("sim: delay timer started twice")
	}
	b.delayArmed = true
}

// Wait implements core.DelayTimer
func (b *Board) Wait() {
	b.mu.Lock()
	armed := b.delayArmed
	b.mu.Unlock()
	if !armed {
		panic("sim: wait on a stopped delay timer")
	}

	if b.realtime {
		time.Sleep(time.Millisecond)
		return
	}
	b.Advance(1)
}

// Stop implements core.DelayTimer
func (b *Board) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delayArmed = false
}

// Advance moves the virtual clock forward, ticking the time base once per ms
func (b *Board) Advance(ms uint32) {
	for i := uint32(0); i < ms; i++ {
		b.mu.Lock()
		b.now++
		b.mu.Unlock()
		b.tb.Tick()
	}
}

// RunClock ticks the time base every wall-clock millisecond until ctx ends
func (b *Board) RunClock(ctx context.Context) {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.tb.Tick()
		}
	}
}

// Now returns the board time in ms
func (b *Board) Now() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clock()
}

// Output returns everything transmitted so far
func (b *Board) Output() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tx.String()
}

// TakeOutput returns and clears the transmitted text
func (b *Board) TakeOutput() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.tx.String()
	b.tx.Reset()
	return s
}

// Pin returns the current level of a line
func (b *Board) Pin(pin core.GPIOPin) bool {
	level, _ := b.GetPin(pin)
	return level
}

// Compare returns the last compare value written to a channel
func (b *Board) Compare(ch core.PWMChannel) uint16 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.compare[ch]
}

// TriggerEnabled reports the trigger mask state
func (b *Board) TriggerEnabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.triggerEnabled
}

// Events returns a copy of the event log
func (b *Board) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.events...)
}

// Transitions returns the logged transitions of one pin
func (b *Board) Transitions(pin core.GPIOPin) []Event {
	var out []Event
	for _, e := range b.Events() {
		if e.Kind == PinEvent && e.Pin == pin {
			out = append(out, e)
		}
	}
	return out
}

// ClearEvents empties the event log and the transmit capture
func (b *Board) ClearEvents() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
	b.tx.Reset()
}

//go:build rp2040

package main

import (
	"runtime"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// The delay timer is a PIO state machine clocked at 2 kHz running a single
// two-cycle instruction, so one word lands in the RX FIFO every millisecond.
const delayClockHz = 2000

func buildDelayProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Push(false, false).Delay(1).Encode(), // 0: push noblock [1]
		// .wrap
	}
}

// PIODelayTimer implements core.DelayTimer
type PIODelayTimer struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	offset uint8
	cfg    rp2pio.StateMachineConfig
}

// NewPIODelayTimer loads the tick program on PIO0 and leaves it stopped
func NewPIODelayTimer(cpuHz uint32) (*PIODelayTimer, error) {
	t := &PIODelayTimer{pio: rp2pio.PIO0}
	t.sm = t.pio.StateMachine(0)
	t.sm.TryClaim()

	program := buildDelayProgram()
	offset, err := t.pio.AddProgram(program, -1)
	if err != nil {
		return nil, err
	}
	t.offset = offset

	whole, frac, err := rp2pio.ClkDivFromFrequency(delayClockHz, cpuHz)
	if err != nil {
		return nil, err
	}
	t.cfg = rp2pio.DefaultStateMachineConfig()
	t.cfg.SetWrap(offset+uint8(len(program))-1, offset)
	t.cfg.SetClkDivIntFrac(whole, frac)
	return t, nil
}

// Start implements core.DelayTimer. Init restarts the state machine with
// empty FIFOs so the first word arrives one period later.
func (t *PIODelayTimer) Start() {
	t.sm.Init(t.offset, t.cfg)
	t.sm.SetEnabled(true)
}

// Wait implements core.DelayTimer
func (t *PIODelayTimer) Wait() {
	for t.sm.IsRxFIFOEmpty() {
		runtime.Gosched()
	}
	t.sm.RxGet()
}

// Stop implements core.DelayTimer
func (t *PIODelayTimer) Stop() {
	t.sm.SetEnabled(false)
	t.sm.ClearFIFOs()
}

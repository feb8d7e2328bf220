package core

import "sync/atomic"

// DelayTimer is the independently start/stoppable compare timer behind the
// delay primitive. Once started it fires every millisecond.
type DelayTimer interface {
	// Start arms the timer with a 1 ms period
	Start()

	// Wait blocks (in low-power wait where the platform has one) until the
	// next compare match
	Wait()

	// Stop disarms the timer
	Stop()
}

// Delayer is the only blocking wait in the firmware. Every pulse (ACK,
// relay, TTL) is timed with it. It is not reentrant.
type Delayer struct {
	timer DelayTimer
	busy  uint32
}

// NewDelayer wraps a delay timer
func NewDelayer(timer DelayTimer) *Delayer {
	return &Delayer{timer: timer}
}

// Delay blocks for ms compare matches of the delay timer
func (d *Delayer) Delay(ms uint32) {
	if ms == 0 {
		return
	}
	if !atomic.CompareAndSwapUint32(&d.busy, 0, 1) {
		panic("core: nested delay")
	}

	d.timer.Start()
	for elapsed := uint32(0); elapsed < ms; elapsed++ {
		d.timer.Wait()
	}
	d.timer.Stop()

	atomic.StoreUint32(&d.busy, 0)
}

package core

import (
	"sync/atomic"

	"gorecord/protocol"
)

// TimeBase is the millisecond/second clock reported in every timestamp.
//
// Seconds and milliseconds are packed into one word (seconds<<16 | millis)
// so a reader can never observe a pair torn across a tick. Writers (the tick
// handler and the start/stop commands) serialize on the interrupt mask.
type TimeBase struct {
	word    uint32
	running uint32
}

// NewTimeBase returns a stopped time base reading 0.0
func NewTimeBase() *TimeBase {
	return &TimeBase{}
}

// Tick advances the time base by one millisecond. Called once per hardware
// tick; a stopped time base ignores ticks.
func (tb *TimeBase) Tick() {
	state := disableInterrupts()
	if atomic.LoadUint32(&tb.running) != 0 {
		atomic.StoreUint32(&tb.word, advance(atomic.LoadUint32(&tb.word)))
	}
	restoreInterrupts(state)
}

func advance(word uint32) uint32 {
	sec := uint16(word >> 16)
	ms := uint16(word) + 1
	if ms == protocol.MillisPerSecond {
		ms = 0
		sec++ // truncates at 65536
	}
	return uint32(sec)<<16 | uint32(ms)
}

// Now returns a consistent snapshot of the time base
func (tb *TimeBase) Now() protocol.Timestamp {
	word := atomic.LoadUint32(&tb.word)
	return protocol.Timestamp{Seconds: uint16(word >> 16), Millis: uint16(word)}
}

// Start resumes counting from the current value
func (tb *TimeBase) Start() {
	state := disableInterrupts()
	atomic.StoreUint32(&tb.running, 1)
	restoreInterrupts(state)
}

// Stop halts the time base and resets it to 0.0
func (tb *TimeBase) Stop() {
	state := disableInterrupts()
	atomic.StoreUint32(&tb.running, 0)
	atomic.StoreUint32(&tb.word, 0)
	restoreInterrupts(state)
}

// Running reports whether ticks are being counted
func (tb *TimeBase) Running() bool {
	return atomic.LoadUint32(&tb.running) != 0
}

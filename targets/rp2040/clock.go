//go:build rp2040

package main

import (
	"runtime/volatile"
	"time"
	"unsafe"

	"gorecord/core"
)

// RP2040 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWL = timerBase + 0x28 // Raw timer low word
)

var timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))

// GetHardwareTime reads the low 32 bits of the 1 MHz hardware timer
func GetHardwareTime() uint32 {
	return timerRAWL.Get()
}

// runTickLoop feeds the time base from the hardware timer. Every whole
// millisecond elapsed produces exactly one Tick, so scheduling jitter never
// loses time. Latched edges are forwarded on the same cadence.
func runTickLoop(s *core.Scheduler) {
	tb := s.TimeBase()
	last := GetHardwareTime()
	for {
		now := GetHardwareTime()
		for now-last >= 1000 {
			last += 1000
			tb.Tick()
		}
		forwardEdges(s)
		time.Sleep(250 * time.Microsecond)
	}
}

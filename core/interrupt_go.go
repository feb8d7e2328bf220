//go:build !tinygo

package core

import "sync"

// IRQState is a placeholder for interrupt state on regular Go
type IRQState uintptr

// On regular Go the "interrupt" producers are goroutines, so a mutex stands
// in for masking interrupts. Critical sections must not nest.
var criticalMu sync.Mutex

// disableInterrupts enters the critical section
func disableInterrupts() IRQState {
	criticalMu.Lock()
	return 0
}

// restoreInterrupts leaves the critical section
func restoreInterrupts(state IRQState) {
	criticalMu.Unlock()
}

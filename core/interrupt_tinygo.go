//go:build tinygo

package core

import "runtime/interrupt"

// IRQState is the saved interrupt mask
type IRQState = interrupt.State

// disableInterrupts disables interrupts and returns the previous state
func disableInterrupts() IRQState {
	return interrupt.Disable()
}

// restoreInterrupts restores the interrupt state
func restoreInterrupts(state IRQState) {
	interrupt.Restore(state)
}

//go:build rp2040

package main

import "machine"

// The USB CDC port is the debug console; the command link is UART0

func initConsole() {
	err := machine.Serial.Configure(machine.UARTConfig{})
	if err != nil {
		return
	}
}

func consoleWrite(s string) {
	machine.Serial.Write([]byte(s))
	machine.Serial.Write([]byte("\r\n"))
}

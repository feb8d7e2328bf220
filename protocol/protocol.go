// Package protocol implements the RECORD arena text protocol
package protocol

// Version represents the gorecord firmware version
const Version = "v3.0.0"

// Protocol constants
const (
	MessageMax  = 256 // Maximum size of one assembled reply fragment
	RxQueueSize = 64  // Receive FIFO depth between the UART reader and the main loop

	// LineEnd terminates every complete reply. Hosts read until they see it.
	LineEnd = "\r\n\n"

	// NewLine separates lines inside a multi-line reply.
	NewLine = "\r\n"

	// FieldDigits is the maximum number of digits in a numeric dialog field
	FieldDigits = 4

	// FeederSessionLen is the number of characters following '#'
	FeederSessionLen = 4

	// CarriageReturn terminates numeric fields and ends calibration
	CarriageReturn = '\r'
)

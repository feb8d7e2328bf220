package core

import "gorecord/protocol"

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event captures one unit of scheduler work for post-mortem analysis
type Event struct {
	Kind uint8              // Event type code
	Arg  uint32             // Command character or edge source
	At   protocol.Timestamp // Time base reading when the work started
}

// Event type codes
const (
	EvtCommand = 1 // Command character dispatched
	EvtEdge    = 2 // Button or trigger sequence serviced
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Event ring buffer (non-blocking, for post-mortem)
	eventRing     [EventRingSize]Event
	eventRingHead uint8

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function.
// The command UART is never a debug sink; targets use the USB console or stderr.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

func debugOutputWorker() {
	for msg := range debugChan {
		if debugEnabled && debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking).
// Used from interrupt context; drops the message when the channel is full.
func DebugAsync(msg string) {
	if debugChan != nil {
		select {
		case debugChan <- msg:
		default:
		}
	}
}

// RecordEvent captures an event in the ring buffer
func RecordEvent(kind uint8, arg uint32, at protocol.Timestamp) {
	irq := disableInterrupts()
	idx := eventRingHead
	eventRing[idx] = Event{Kind: kind, Arg: arg, At: at}
	eventRingHead = (idx + 1) % EventRingSize
	restoreInterrupts(irq)
}

// DumpEvents outputs the event ring, oldest first (call on shutdown/error)
func DumpEvents() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENTS] === Event Ring Dump ===")
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := &eventRing[(start+i)%EventRingSize]
		switch evt.Kind {
		case EvtCommand:
			debugPrintln("[EVENTS] CMD " + string(rune(evt.Arg)) + " at " + evt.At.String())
		case EvtEdge:
			debugPrintln("[EVENTS] EDGE " + protocol.Utoa(evt.Arg) + " at " + evt.At.String())
		}
	}
	debugPrintln("[EVENTS] === End Dump ===")
}

// ClearEvents clears the event ring
func ClearEvents() {
	irq := disableInterrupts()
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
	restoreInterrupts(irq)
}

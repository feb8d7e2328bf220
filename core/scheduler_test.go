package core_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorecord/core"
	"gorecord/protocol"
	"gorecord/sim"
)

var testInfo = core.DeviceInfo{
	Device:   "Simulated arena",
	ID:       "SIM_1",
	Firmware: "v3.0.0",
	Library:  "v1.2",
	Config:   "v0.2",
	Updated:  "today",
}

func newArena(t *testing.T) (*core.Scheduler, *sim.Board) {
	t.Helper()
	tb := core.NewTimeBase()
	tb.Start()
	board := sim.New(tb)

	s, err := core.NewScheduler(board.Core(testInfo), core.DefaultState(), tb)
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}
	s.Init()
	board.ClearEvents()
	return s, board
}

// send queues input and runs the scheduler until no work is left
func send(t *testing.T, s *core.Scheduler, input string) {
	t.Helper()
	for i := 0; i < len(input); i++ {
		s.ReceiveByte(input[i])
	}
	drain(t, s)
}

func drain(t *testing.T, s *core.Scheduler) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Drain(ctx); err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
}

// indexOf returns the position of the first event matching fn, or -1
func indexOf(events []sim.Event, fn func(e sim.Event) bool) int {
	for i, e := range events {
		if fn(e) {
			return i
		}
	}
	return -1
}

func pinIs(pin core.GPIOPin, level bool) func(sim.Event) bool {
	return func(e sim.Event) bool {
		return e.Kind == sim.PinEvent && e.Pin == pin && e.Level == level
	}
}

func txContains(s string) func(sim.Event) bool {
	return func(e sim.Event) bool {
		return e.Kind == sim.TxEvent && strings.Contains(e.Data, s)
	}
}

func TestNewSchedulerRequiresCompleteBoard(t *testing.T) {
	tb := core.NewTimeBase()
	board := sim.New(tb).Core(testInfo)
	board.Delay = nil

	if _, err := core.NewScheduler(board, core.DefaultState(), tb); err == nil {
		t.Error("Expected an error for a board without a delay timer")
	}
}

func TestFeederCommandHandshake(t *testing.T) {
	s, board := newArena(t)

	send(t, s, "#F1L2")

	if got := board.Compare(core.PWMFeeder1); got != core.DefaultLevel2 {
		t.Errorf("Expected feeder 1 at %d, got %d", core.DefaultLevel2, got)
	}
	for _, ch := range []core.PWMChannel{core.PWMFeeder2, core.PWMFeeder3, core.PWMFeeder4, core.PWMCue} {
		if got := board.Compare(ch); got != core.CompareOff {
			t.Errorf("Expected channel %d untouched, got %d", ch, got)
		}
	}

	acks := board.Transitions(core.PinAck)
	if len(acks) != 2 || !acks[0].Level || acks[1].Level {
		t.Fatalf("Expected exactly one ACK high then low, got %+v", acks)
	}
	if held := acks[1].At - acks[0].At; held != core.DefaultTTLLengthMs {
		t.Errorf("Expected ACK held %d ms, got %d", core.DefaultTTLLengthMs, held)
	}

	events := board.Events()
	echo := indexOf(events, txContains("2"))
	ackHigh := indexOf(events, pinIs(core.PinAck, true))
	text := indexOf(events, txContains(": feeder configured at "))
	ackLow := indexOf(events, pinIs(core.PinAck, false))
	if !(echo < ackHigh && ackHigh < text && text < ackLow) {
		t.Errorf("Unexpected ordering: echo=%d ackHigh=%d text=%d ackLow=%d", echo, ackHigh, text, ackLow)
	}

	want := "#F1L2: feeder configured at 0.0\r\n\n"
	if got := board.Output(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestFeederCommandInvalidSelector(t *testing.T) {
	s, board := newArena(t)

	send(t, s, "#F9L1")

	if acks := board.Transitions(core.PinAck); len(acks) != 0 {
		t.Errorf("Expected no handshake, got %+v", acks)
	}
	want := "#F9L1: invalid feeder or level, command ignored.\r\n\n"
	if got := board.Output(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRelayPulseSerializesCommands(t *testing.T) {
	s, board := newArena(t)

	send(t, s, "FK")

	relay := board.Transitions(core.PinRelay1)
	if len(relay) != 2 || !relay[0].Level || relay[1].Level {
		t.Fatalf("Expected relay 1 pulse, got %+v", relay)
	}
	if width := relay[1].At - relay[0].At; width != core.DefaultRelayOnTimeMs {
		t.Errorf("Expected %d ms pulse, got %d", core.DefaultRelayOnTimeMs, width)
	}

	events := board.Events()
	relayOff := indexOf(events, pinIs(core.PinRelay1, false))
	cue := indexOf(events, func(e sim.Event) bool {
		return e.Kind == sim.PWMEvent && e.Channel == core.PWMCue
	})
	if cue < relayOff {
		t.Errorf("Indicator changed during the valve pulse (cue=%d relayOff=%d)", cue, relayOff)
	}

	want := "F: relay1 toggled at 0.0\r\n\n" +
		"K: trial indication on at 0.600\r\n\n"
	if got := board.Output(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestEdgeDuringCommandIsDeferred(t *testing.T) {
	s, board := newArena(t)
	board.OnPin = func(pin core.GPIOPin, level bool) {
		if pin == core.PinRelay1 && level {
			s.ButtonEdge()
		}
	}

	send(t, s, "F")

	want := "F: relay1 toggled at 0.0\r\n\n" +
		" Button 1 pushed at 0.600\r\n\n"
	if got := board.Output(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if ttl := board.Transitions(core.PinTTLOut); len(ttl) != 2 {
		t.Errorf("Expected one TTL pulse from the button, got %+v", ttl)
	}
	if leds := board.Transitions(core.PinLEDRed); len(leds) != 2 {
		t.Errorf("Expected the red LED to flash once, got %+v", leds)
	}
}

func TestTimerRoundTrip(t *testing.T) {
	s, board := newArena(t)
	board.Advance(1234)

	send(t, s, "E")
	if got := board.TakeOutput(); got != "E: timer stopped at 1.234\r\n\n" {
		t.Errorf("Unexpected stop reply %q", got)
	}

	send(t, s, "Q")
	if got := board.TakeOutput(); got != "Q: timer started at 0.0\r\n\n" {
		t.Errorf("Unexpected start reply %q", got)
	}

	// Q's handshake already consumed the TTL length
	board.Advance(2500 - core.DefaultTTLLengthMs)
	send(t, s, "W")
	if got := board.TakeOutput(); got != "W: time requested at 2.500\r\n\n" {
		t.Errorf("Unexpected read reply %q", got)
	}

	send(t, s, "EW")
	want := "E: timer stopped at 2.600\r\n\n" +
		"W: time requested at 0.0\r\n\n"
	if got := board.TakeOutput(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestExternalTriggerToggle(t *testing.T) {
	s, board := newArena(t)

	s.TriggerEdge()
	drain(t, s)
	if out := board.Output(); out != "" {
		t.Errorf("Expected a masked trigger to produce nothing, got %q", out)
	}
	if ttl := board.Transitions(core.PinTTLOut); len(ttl) != 0 {
		t.Errorf("Expected no TTL activity, got %+v", ttl)
	}

	send(t, s, "Y")
	if !s.State().Config.ExternalTTLEnabled || !board.TriggerEnabled() {
		t.Fatal("Expected external TTLs to be enabled")
	}
	if got := board.TakeOutput(); got != "Y: external TTLs toggled on at 0.0\r\n\n" {
		t.Errorf("Unexpected reply %q", got)
	}

	s.TriggerEdge()
	drain(t, s)
	if got := board.TakeOutput(); got != " External TTL detected at 0.100\r\n\n" {
		t.Errorf("Unexpected trigger reply %q", got)
	}

	send(t, s, "Y")
	board.TakeOutput()
	board.ClearEvents()
	s.TriggerEdge()
	drain(t, s)
	if out := board.Output(); out != "" {
		t.Errorf("Expected a masked trigger to produce nothing, got %q", out)
	}
	if _, edges := s.Drops(); edges != 2 {
		t.Errorf("Expected 2 dropped edges, got %d", edges)
	}
}

func TestTTLModes(t *testing.T) {
	s, board := newArena(t)

	send(t, s, "T")
	if !board.Pin(core.PinTTLOut) {
		t.Error("Expected toggle mode to leave TTL high")
	}
	send(t, s, "t")
	if got := board.TakeOutput(); !strings.HasSuffix(got, "t: TTL is HIGH\r\n\n") {
		t.Errorf("Unexpected level reply %q", got)
	}

	// Selecting pulse mode clears the held level
	send(t, s, "$D2")
	if board.Pin(core.PinTTLOut) {
		t.Error("Expected mode change to clear TTL")
	}
	if s.State().Config.TTLMode != core.TTLPulse {
		t.Fatalf("Expected pulse mode, got %s", s.State().Config.TTLMode)
	}
	board.ClearEvents()

	send(t, s, "T")
	ttl := board.Transitions(core.PinTTLOut)
	if len(ttl) != 2 || ttl[1].At-ttl[0].At != core.DefaultTTLLengthMs {
		t.Errorf("Expected one %d ms TTL pulse, got %+v", core.DefaultTTLLengthMs, ttl)
	}
	if !strings.HasPrefix(board.Output(), "T: TTL requested at ") {
		t.Errorf("Unexpected pulse reply %q", board.Output())
	}

	send(t, s, "$D3")
	board.ClearEvents()
	send(t, s, "T")
	if acks := board.Transitions(core.PinAck); len(acks) != 0 {
		t.Errorf("Expected no ACK in off mode, got %+v", acks)
	}
	if ttl := board.Transitions(core.PinTTLOut); len(ttl) != 0 {
		t.Errorf("Expected TTL untouched in off mode, got %+v", ttl)
	}
	if !strings.HasPrefix(board.Output(), "T: TTL requested but not serviced at ") {
		t.Errorf("Unexpected off reply %q", board.Output())
	}
}

func TestResetCommand(t *testing.T) {
	s, board := newArena(t)

	send(t, s, "K#F1L3")
	if board.Compare(core.PWMCue) != core.CueOn || board.Compare(core.PWMFeeder1) != core.DefaultLevel3 {
		t.Fatal("Expected indicator and feeder 1 to be lit")
	}

	send(t, s, "R")
	for ch := core.PWMFeeder1; ch < core.NumPWMChannels; ch++ {
		if got := board.Compare(ch); got != core.CompareOff {
			t.Errorf("Expected channel %d off, got %d", ch, got)
		}
	}
	if s.State().Config.TrialIndicatorOn {
		t.Error("Expected trial indicator flag to be cleared")
	}
	if !strings.Contains(board.Output(), "R: reset all peripherals at ") {
		t.Errorf("Unexpected reset reply %q", board.Output())
	}
}

func TestUnknownCommand(t *testing.T) {
	s, board := newArena(t)

	send(t, s, "x")

	want := "x: I cannot recognize that command. Send me a '?' for a list of commands.\r\n\n"
	if got := board.Output(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if acks := board.Transitions(core.PinAck); len(acks) != 0 {
		t.Errorf("Expected no handshake, got %+v", acks)
	}
	if s.State() != core.DefaultState() {
		t.Error("Expected state to be unchanged")
	}
}

func TestHelpReport(t *testing.T) {
	s, board := newArena(t)

	send(t, s, "?H")

	out := board.Output()
	for _, want := range []string{
		"Device ID: SIM_1",
		"TTL output mode: TOGGLE",
		"Level 1: F1=7700 F2=7700 F3=7700 F4=7700",
		"Relay active time: 500 ms",
		"K      toggle the trial indicator",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected help to contain %q", want)
		}
	}
	if !strings.HasSuffix(out, "?: Information.\r\n\n") {
		t.Errorf("Unexpected help ending %q", out)
	}
	if n := strings.Count(out, "\r\n\n"); n != 1 {
		t.Errorf("Expected a single reply terminator, got %d", n)
	}
}

func TestReceiveOverflow(t *testing.T) {
	s, board := newArena(t)

	for i := 0; i < protocol.RxQueueSize+3; i++ {
		s.ReceiveByte('x')
	}
	if rx, _ := s.Drops(); rx != 3 {
		t.Errorf("Expected 3 dropped bytes, got %d", rx)
	}

	drain(t, s)
	if n := strings.Count(board.TakeOutput(), "cannot recognize"); n != protocol.RxQueueSize {
		t.Errorf("Expected %d replies, got %d", protocol.RxQueueSize, n)
	}
}

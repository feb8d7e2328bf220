package core_test

import (
	"strings"
	"testing"

	"gorecord/core"
)

func TestConfigureLevel(t *testing.T) {
	s, board := newArena(t)

	send(t, s, "$A12400\rn")

	if got := s.State().Tiers[core.TierLevel1][1]; got != 400 {
		t.Errorf("Expected level 1 feeder 2 = 400, got %d", got)
	}
	if got := board.Compare(core.PWMFeeder2); got != core.CompareOff {
		t.Errorf("Expected no hardware write without a test, got %d", got)
	}
	out := board.Output()
	for _, echo := range []string{"$\r\n", "> A", "[1-3]: 1", "[1-4]: 2", "ENTER: 400\r", "[y/n]: n"} {
		if !strings.Contains(out, echo) {
			t.Errorf("Expected echo %q in %q", echo, out)
		}
	}
	if !strings.HasSuffix(out, "$: Configuration saved.\r\n\n") {
		t.Errorf("Unexpected reply ending %q", out)
	}
}

func TestConfigureLevelTestApplies(t *testing.T) {
	s, board := newArena(t)

	send(t, s, "$A23100\ry")

	if got := board.Compare(core.PWMFeeder3); got != 100 {
		t.Errorf("Expected feeder 3 at 100, got %d", got)
	}
	if got := board.Compare(core.PWMFeeder1); got != core.DefaultLevel2 {
		t.Errorf("Expected feeder 1 at level 2 (%d), got %d", core.DefaultLevel2, got)
	}
}

func TestConfigureAbortsWithoutMutation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"value too large", "$A119000", "Invalid input, value exceeds 8000"},
		{"malformed value", "$A11a\r", "Invalid input"},
		{"empty value", "$A11\r", "Invalid input"},
		{"level zero", "$A0", "Invalid level"},
		{"feeder five", "$A15", "Invalid feeder"},
		{"relay malformed", "$B1x\r", "value exceeds 9999"},
		{"ttl mode", "$D7", "Invalid selection"},
		{"unknown option", "$Z", "Input unrecognized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, board := newArena(t)

			send(t, s, tt.input)

			if s.State() != core.DefaultState() {
				t.Errorf("Expected no state change, got %+v", s.State())
			}
			out := board.Output()
			if !strings.Contains(out, tt.msg) {
				t.Errorf("Expected %q in %q", tt.msg, out)
			}
			if !strings.HasSuffix(out, "\r\n\n") {
				t.Errorf("Expected a terminated reply, got %q", out)
			}
		})
	}
}

func TestConfigureDurations(t *testing.T) {
	s, board := newArena(t)

	send(t, s, "$B250\r")
	send(t, s, "$C5\r")

	cfg := s.State().Config
	if cfg.RelayOnTimeMs != 250 {
		t.Errorf("Expected relay time 250, got %d", cfg.RelayOnTimeMs)
	}
	if cfg.TTLLengthMs != 5 {
		t.Errorf("Expected TTL length 5, got %d", cfg.TTLLengthMs)
	}

	board.ClearEvents()
	send(t, s, "G")
	relay := board.Transitions(core.PinRelay2)
	if len(relay) != 2 || relay[1].At-relay[0].At != 250 {
		t.Errorf("Expected a 250 ms pulse on relay 2, got %+v", relay)
	}
	acks := board.Transitions(core.PinAck)
	if len(acks) != 2 || acks[1].At-acks[0].At != 5 {
		t.Errorf("Expected a 5 ms ACK, got %+v", acks)
	}
}

func TestCalibrationWrapsAndCommits(t *testing.T) {
	s, board := newArena(t)

	// Four digits end the field without a carriage return
	send(t, s, "$A117980n")
	board.ClearEvents()

	send(t, s, "%11[\ry")

	if got := s.State().Tiers[core.TierLevel1][0]; got != 0 {
		t.Errorf("Expected 7980 + 50 to wrap to 0, got %d", got)
	}
	if got := board.Compare(core.PWMFeeder1); got != 0 {
		t.Errorf("Expected feeder 1 register 0, got %d", got)
	}
	if got := board.Compare(core.PWMFeeder4); got != core.DefaultLevel1 {
		t.Errorf("Expected feeder 4 at level 1 after commit, got %d", got)
	}
	out := board.Output()
	if !strings.Contains(out, "upper limit reached, looped back to 0") {
		t.Errorf("Expected wrap notice in %q", out)
	}
	if !strings.Contains(out, "> CCR value is currently: 7980") || !strings.Contains(out, "> CCR value is currently: 0") {
		t.Errorf("Expected value redraws in %q", out)
	}
}

func TestCalibrationLowerWrap(t *testing.T) {
	s, _ := newArena(t)

	send(t, s, "$A31040\rn")
	send(t, s, "%31]\ry")

	if got := s.State().Tiers[core.TierLevel3][0]; got != core.CompareMax {
		t.Errorf("Expected 40 - 50 to wrap to 8000, got %d", got)
	}
}

func TestCalibrationDiscardRestores(t *testing.T) {
	s, board := newArena(t)

	send(t, s, "%22]]]\rn")

	if s.State() != core.DefaultState() {
		t.Error("Expected tiers unchanged after discard")
	}
	for ch := core.PWMFeeder1; ch <= core.PWMFeeder4; ch++ {
		if got := board.Compare(ch); got != core.DefaultLevel2 {
			t.Errorf("Expected channel %d restored to %d, got %d", ch, core.DefaultLevel2, got)
		}
	}
	if !strings.Contains(board.Output(), "> CCR value is currently: 3350") {
		t.Errorf("Expected live value 3350 in %q", board.Output())
	}
}

func TestCalibrationInvalidSelection(t *testing.T) {
	s, board := newArena(t)

	send(t, s, "%4")

	if !strings.HasSuffix(board.Output(), "%: Invalid level, cannot continue.\r\n\n") {
		t.Errorf("Unexpected reply %q", board.Output())
	}
	if !s.Idle() {
		t.Error("Expected the dialog to end without waiting for more input")
	}
}

package core

import (
	"context"

	"gorecord/protocol"
)

// relayKeys maps command characters to valves 1..4
const relayKeys = "FGHJ"

var relayText = [NumRelays]string{
	": relay1 toggled at ",
	": relay2 toggled at ",
	": relay3 toggled at ",
	": relay4 toggled at ",
}

func (d *Dispatcher) registerCommands() {
	cmds := []Command{
		{Char: '#', Name: "feeder", Help: "#FxLy  set feeder x (1-4) to level y (0-3)", Handler: d.cmdFeeder},
		{Char: '$', Name: "configure", Help: "$      configuration menu (levels, relay time, TTL length, TTL mode)", Handler: d.cmdConfigure},
		{Char: '%', Name: "calibrate", Help: "%      calibrate one level of one feeder with '[' and ']'", Handler: d.cmdCalibrate},
		{Char: 'K', Name: "indicator", Help: "K      toggle the trial indicator", Handler: d.cmdIndicator},
		{Char: 'R', Name: "reset", Help: "R      reset all feeders, valves and indicators", Handler: d.cmdReset},
		{Char: 'F', Name: "relay1", Help: "F      open valve 1", Handler: d.cmdRelay},
		{Char: 'G', Name: "relay2", Help: "G      open valve 2", Handler: d.cmdRelay},
		{Char: 'H', Name: "relay3", Help: "H      open valve 3", Handler: d.cmdRelay},
		{Char: 'J', Name: "relay4", Help: "J      open valve 4", Handler: d.cmdRelay},
		{Char: 'Q', Name: "timer_start", Help: "Q      start the timer", Handler: d.cmdTimerStart},
		{Char: 'W', Name: "timer_read", Help: "W      read the timer", Handler: d.cmdTimerRead},
		{Char: 'E', Name: "timer_stop", Help: "E      stop and reset the timer", Handler: d.cmdTimerStop},
		{Char: 'T', Name: "ttl", Help: "T      send a TTL according to the TTL mode", Handler: d.cmdTTL},
		{Char: 't', Name: "ttl_level", Help: "t      report the TTL output level", Handler: d.cmdTTLLevel},
		{Char: 'Y', Name: "external_ttl", Help: "Y      toggle servicing of external TTLs", Handler: d.cmdExternalTTL},
		{Char: '?', Name: "help", Help: "?      status and help", Handler: d.cmdHelp},
	}
	for i := range cmds {
		if err := d.table.Register(cmds[i].Char, cmds[i].Name, cmds[i].Help, cmds[i].Handler); err != nil {
			panic("core: " + cmds[i].Name + ": " + err.Error())
		}
	}
}

// cmdFeeder handles "#FxLy": four more characters, echoed as they arrive
func (d *Dispatcher) cmdFeeder(ctx context.Context, c byte) error {
	d.sayByte(c)

	session := protocol.NewCommandSession(protocol.FeederSessionLen)
	for !session.Done() {
		b, err := d.nextEcho(ctx)
		if err != nil {
			return err
		}
		session.Feed(b)
	}

	ts := d.tb.Now()
	arg := session.Bytes()
	feeder, err := ParseFeeder(arg[1])
	if err == nil {
		var tier Tier
		if tier, err = ParseTier(arg[3]); err == nil {
			err = d.bright.SetBrightness(feeder, tier)
		}
	}
	if err != nil {
		DebugPrintln("[CMD] #: " + err.Error())
		d.say(": invalid feeder or level, command ignored." + protocol.LineEnd)
		return nil
	}

	d.acknowledge(ts, 0, ": feeder configured at ", false)
	return nil
}

func (d *Dispatcher) cmdIndicator(ctx context.Context, c byte) error {
	ts := d.tb.Now()
	cfg := &d.state.Config
	cfg.TrialIndicatorOn = !cfg.TrialIndicatorOn
	d.act.SetIndicator(cfg.TrialIndicatorOn)

	text := ": trial indication off at "
	if cfg.TrialIndicatorOn {
		text = ": trial indication on at "
	}
	d.acknowledge(ts, c, text, false)
	return nil
}

func (d *Dispatcher) cmdReset(ctx context.Context, c byte) error {
	ts := d.tb.Now()
	d.act.ReleaseAll()
	d.state.Config.TrialIndicatorOn = false
	if err := d.bright.ApplyTier(TierOff); err != nil {
		DebugPrintln("[CMD] R: " + err.Error())
	}
	d.acknowledge(ts, c, ": reset all peripherals at ", false)
	return nil
}

func (d *Dispatcher) cmdRelay(ctx context.Context, c byte) error {
	idx := 0
	for idx < len(relayKeys) && relayKeys[idx] != c {
		idx++
	}
	if idx == len(relayKeys) {
		return ErrInvalidRelay
	}

	ts := d.tb.Now()
	if err := d.act.PulseRelay(Relay(idx + 1)); err != nil {
		return err
	}
	d.acknowledge(ts, c, relayText[idx], false)
	return nil
}

func (d *Dispatcher) cmdTimerStart(ctx context.Context, c byte) error {
	ts := d.tb.Now()
	d.tb.Start()
	d.acknowledge(ts, c, ": timer started at ", false)
	return nil
}

func (d *Dispatcher) cmdTimerRead(ctx context.Context, c byte) error {
	d.acknowledge(d.tb.Now(), c, ": time requested at ", false)
	return nil
}

func (d *Dispatcher) cmdTimerStop(ctx context.Context, c byte) error {
	ts := d.tb.Now()
	d.tb.Stop()
	d.acknowledge(ts, c, ": timer stopped at ", false)
	return nil
}

func (d *Dispatcher) cmdTTL(ctx context.Context, c byte) error {
	ts := d.tb.Now()
	switch d.state.Config.TTLMode {
	case TTLToggle:
		d.act.ToggleTTL()
		d.acknowledge(ts, c, ": TTL toggled at ", false)
	case TTLPulse:
		d.acknowledge(ts, c, ": TTL requested at ", true)
	default:
		d.out.WriteByte(c)
		d.out.WriteString(": TTL requested but not serviced at ")
		d.sayTimestamp(ts)
	}
	return nil
}

func (d *Dispatcher) cmdTTLLevel(ctx context.Context, c byte) error {
	level, err := d.act.TTLLevel()
	if err != nil {
		return err
	}
	d.out.WriteByte(c)
	if level {
		d.say(": TTL is HIGH" + protocol.LineEnd)
	} else {
		d.say(": TTL is LOW" + protocol.LineEnd)
	}
	return nil
}

func (d *Dispatcher) cmdExternalTTL(ctx context.Context, c byte) error {
	ts := d.tb.Now()
	cfg := &d.state.Config
	cfg.ExternalTTLEnabled = !cfg.ExternalTTLEnabled
	d.trigger.SetTriggerEnabled(cfg.ExternalTTLEnabled)

	text := ": external TTLs toggled off at "
	if cfg.ExternalTTLEnabled {
		text = ": external TTLs toggled on at "
	}
	d.acknowledge(ts, c, text, false)
	return nil
}

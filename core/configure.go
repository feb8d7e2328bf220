package core

import (
	"context"

	"gorecord/protocol"
)

const nl = protocol.NewLine

// cmdConfigure runs the '$' dialog. Every answer is validated before anything
// is stored, so an aborted run leaves the settings untouched.
func (d *Dispatcher) cmdConfigure(ctx context.Context, c byte) error {
	d.sayByte(c)
	d.say(nl + "Configuration mode. Select an option:" + nl +
		" A - Adjust feeder brightness levels" + nl +
		" B - Set relay active time" + nl +
		" C - Set TTL pulse length" + nl +
		" D - Select TTL output mode" + nl + "> ")

	sel, err := d.nextEcho(ctx)
	if err != nil {
		return err
	}
	switch sel {
	case 'A', 'a':
		return d.configureLevel(ctx)
	case 'B', 'b':
		return d.configureDuration(ctx, &d.state.Config.RelayOnTimeMs, "Relay active time")
	case 'C', 'c':
		return d.configureDuration(ctx, &d.state.Config.TTLLengthMs, "TTL length")
	case 'D', 'd':
		return d.configureTTLMode(ctx)
	default:
		d.say(nl + "$: Input unrecognized, exiting configuration mode." + protocol.LineEnd)
		return nil
	}
}

// abortConfig reports a validation failure, or passes through cancellation
func (d *Dispatcher) abortConfig(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.say(nl + "$: " + msg + ", exiting configuration mode." + protocol.LineEnd)
	return nil
}

func (d *Dispatcher) configureLevel(ctx context.Context) error {
	d.say(nl + "Select level [1-3]: ")
	b, err := d.nextEcho(ctx)
	if err != nil {
		return err
	}
	tier, err := ParseLevel(b)
	if err != nil {
		return d.abortConfig(ctx, "Invalid level")
	}

	d.say(nl + "Select feeder [1-4]: ")
	if b, err = d.nextEcho(ctx); err != nil {
		return err
	}
	feeder, err := ParseFeeder(b)
	if err != nil {
		return d.abortConfig(ctx, "Invalid feeder")
	}

	current, _ := d.bright.Value(tier, feeder)
	d.out.WriteString(nl + "Current value is ")
	d.out.Uint(uint32(current))
	d.say(". Enter new value [0-8000] and press ENTER: ")
	v, err := d.readField(ctx)
	if err != nil || !between(v, 0, CompareMax) {
		return d.abortConfig(ctx, "Invalid input, value exceeds 8000 or is not a number")
	}

	if err := d.bright.ModifyCCR(tier, feeder, uint16(v)); err != nil {
		return d.abortConfig(ctx, err.Error())
	}
	d.out.WriteString(nl + "$: Level ")
	d.out.Uint(uint32(tier))
	d.out.WriteString(" feeder ")
	d.out.Uint(uint32(feeder))
	d.out.WriteString(" set to ")
	d.out.Uint(v)
	d.say("." + nl + "Would you like to test the new value? [y/n]: ")

	answer, err := d.nextEcho(ctx)
	if err != nil {
		return err
	}
	if answer == 'y' || answer == 'Y' {
		if err := d.bright.ApplyTier(tier); err != nil {
			DebugPrintln("[CMD] $A: " + err.Error())
		}
		d.out.WriteString(nl + "$: Level ")
		d.out.Uint(uint32(tier))
		d.say(" applied to all feeders." + protocol.LineEnd)
		return nil
	}
	d.say(nl + "$: Configuration saved." + protocol.LineEnd)
	return nil
}

func (d *Dispatcher) configureDuration(ctx context.Context, target *uint32, name string) error {
	d.out.WriteString(nl + name + " is ")
	d.out.Uint(*target)
	d.say(" ms. Enter new value [0-9999] and press ENTER: ")

	v, err := d.readField(ctx)
	if err != nil || !between(v, 0, MaxDurationMs) {
		return d.abortConfig(ctx, "Invalid input, value exceeds 9999 or is not a number")
	}

	*target = v
	d.out.WriteString(nl + "$: " + name + " set to ")
	d.out.Uint(v)
	d.say(" ms." + protocol.LineEnd)
	return nil
}

var ttlModeMenu = [...]TTLMode{TTLToggle, TTLPulse, TTLOff}

func (d *Dispatcher) configureTTLMode(ctx context.Context) error {
	d.say(nl + "Select TTL output mode:")
	for i, m := range ttlModeMenu {
		d.out.WriteString(nl + " ")
		d.out.Uint(uint32(i + 1))
		d.out.WriteString(" - " + m.String())
		if m == d.state.Config.TTLMode {
			d.out.WriteString(" [Active]")
		} else {
			d.out.WriteString(" [Inactive]")
		}
		d.flush()
	}
	d.say(nl + "> ")

	b, err := d.nextEcho(ctx)
	if err != nil {
		return err
	}
	idx, ok := selector[uint8](b, 1, uint8(len(ttlModeMenu)))
	if !ok {
		return d.abortConfig(ctx, "Invalid selection")
	}

	mode := ttlModeMenu[idx-1]
	if mode != d.state.Config.TTLMode {
		d.state.Config.TTLMode = mode
		d.act.SetTTL(false)
	}
	d.say(nl + "$: TTL output mode " + mode.String() + " applied." + protocol.LineEnd)
	return nil
}

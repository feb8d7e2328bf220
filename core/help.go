package core

import (
	"context"

	"gorecord/protocol"
)

// cmdHelp prints the device report, then waits for one key: 'H' adds the
// command list, anything else ends the report.
func (d *Dispatcher) cmdHelp(ctx context.Context, c byte) error {
	d.sayByte(c)
	d.writeInfo()
	d.writeSettings()
	d.say(nl + "Send 'H' for the command list, any other key to exit: ")

	key, err := d.nextEcho(ctx)
	if err != nil {
		return err
	}
	if key == 'H' || key == 'h' {
		d.writeCommandList()
	}

	d.out.WriteString(nl)
	d.out.WriteByte(c)
	d.say(": Information." + protocol.LineEnd)
	return nil
}

func (d *Dispatcher) writeInfo() {
	info := &d.info
	d.say(nl + "Device: " + info.Device)
	d.say(nl + "Device ID: " + info.ID)
	d.say(nl + "Firmware: " + info.Firmware + "  Library: " + info.Library + "  Config: " + info.Config)
	d.say(nl + "Updated: " + info.Updated)
}

func (d *Dispatcher) writeSettings() {
	cfg := &d.state.Config
	if cfg.ExternalTTLEnabled {
		d.say(nl + "External TTLs: enabled")
	} else {
		d.say(nl + "External TTLs: disabled")
	}
	d.say(nl + "TTL output mode: " + cfg.TTLMode.String())

	for tier := TierLevel1; tier < NumTiers; tier++ {
		d.out.WriteString(nl + "Level ")
		d.out.Uint(uint32(tier))
		d.out.WriteString(":")
		for f := Feeder(1); f <= NumFeeders; f++ {
			v, _ := d.bright.Value(tier, f)
			d.out.WriteString(" F")
			d.out.Uint(uint32(f))
			d.out.WriteString("=")
			d.out.Uint(uint32(v))
		}
		d.flush()
	}

	d.out.WriteString(nl + "Relay active time: ")
	d.out.Uint(cfg.RelayOnTimeMs)
	d.out.WriteString(" ms" + nl + "TTL length: ")
	d.out.Uint(cfg.TTLLengthMs)
	d.say(" ms")
}

func (d *Dispatcher) writeCommandList() {
	d.say(nl + "Commands:")
	d.table.Each(func(cmd *Command) {
		d.say(nl + " " + cmd.Help)
	})
}

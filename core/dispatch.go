package core

import (
	"context"

	"gorecord/protocol"
)

// byteSource hands the dispatcher the next received byte, blocking until one
// arrives. Interactive dialogs read their answers through it.
type byteSource interface {
	NextByte(ctx context.Context) (byte, error)
}

// Dispatcher is the command protocol state machine. It runs exactly one
// command to completion per call and owns no state of its own beyond the
// reply buffer; settings live in the scheduler's State.
type Dispatcher struct {
	state   *State
	bright  *Brightness
	act     *Actuator
	delay   *Delayer
	tb      *TimeBase
	serial  SerialPort
	in      byteSource
	trigger TriggerMask
	info    DeviceInfo
	table   *CommandTable
	out     protocol.ScratchOutput
}

func newDispatcher(state *State, board *Board, tb *TimeBase, in byteSource, trigger TriggerMask) *Dispatcher {
	delay := NewDelayer(board.Delay)
	d := &Dispatcher{
		state:   state,
		bright:  NewBrightness(&state.Tiers, board.PWM),
		act:     NewActuator(board.GPIO, board.PWM, delay, &state.Config),
		delay:   delay,
		tb:      tb,
		serial:  board.Serial,
		in:      in,
		trigger: trigger,
		info:    board.Info,
		table:   NewCommandTable(),
	}
	d.registerCommands()
	return d
}

// Commands exposes the command table
func (d *Dispatcher) Commands() *CommandTable {
	return d.table
}

// Dispatch runs the command for c. Only cancellation of ctx is returned;
// every other failure is reported to the host and ends the command.
func (d *Dispatcher) Dispatch(ctx context.Context, c byte) error {
	err := d.table.Dispatch(ctx, c)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case err == ErrUnknownCommand:
		d.out.WriteByte(c)
		d.say(": I cannot recognize that command. Send me a '?' for a list of commands." + protocol.LineEnd)
	default:
		DebugPrintln("[CMD] " + string(rune(c)) + " failed: " + err.Error())
	}
	return nil
}

// acknowledge runs the handshake after a command's action has executed:
// ACK up, confirmation text, hold for the TTL length, ACK down, then the
// timestamp captured before the action. With withTTL set TTL_OUT follows ACK.
func (d *Dispatcher) acknowledge(ts protocol.Timestamp, echo byte, text string, withTTL bool) {
	d.act.SetAck(true)
	if withTTL {
		d.act.SetTTL(true)
	}
	if echo != 0 {
		d.out.WriteByte(echo)
	}
	d.say(text)

	d.delay.Delay(d.state.Config.TTLLengthMs)

	if withTTL {
		d.act.SetTTL(false)
	}
	d.act.SetAck(false)
	d.sayTimestamp(ts)
}

// serviceEdge runs the button/trigger sequence queued by the scheduler
func (d *Dispatcher) serviceEdge(src edgeSource) {
	ts := d.tb.Now()
	text := protocol.ButtonEventText
	if src == edgeTrigger {
		text = protocol.TriggerEventText
	}

	d.act.SetStatusLEDs(true)
	d.acknowledge(ts, 0, text, true)
	d.act.SetStatusLEDs(false)
}

// nextEcho reads one byte and echoes it back
func (d *Dispatcher) nextEcho(ctx context.Context) (byte, error) {
	b, err := d.in.NextByte(ctx)
	if err != nil {
		return 0, err
	}
	d.sayByte(b)
	return b, nil
}

// readField reads a numeric field of up to four digits, echoing each one
func (d *Dispatcher) readField(ctx context.Context) (uint32, error) {
	field := protocol.NewNumericField()
	for !field.Done() {
		b, err := d.nextEcho(ctx)
		if err != nil {
			return 0, err
		}
		field.Feed(b)
	}
	return field.Uint()
}

func (d *Dispatcher) flush() {
	if _, err := d.serial.Write(d.out.Result()); err != nil {
		DebugPrintln("[CMD] serial write failed: " + err.Error())
	}
	d.out.Reset()
}

func (d *Dispatcher) say(s string) {
	d.out.WriteString(s)
	d.flush()
}

func (d *Dispatcher) sayByte(b byte) {
	d.out.WriteByte(b)
	d.flush()
}

func (d *Dispatcher) sayTimestamp(ts protocol.Timestamp) {
	d.out.Timestamp(ts)
	d.out.WriteString(protocol.LineEnd)
	d.flush()
}

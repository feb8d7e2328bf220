package arena

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorecord/core"
	"gorecord/protocol"
	"gorecord/sim"
)

var testInfo = core.DeviceInfo{
	Device:   "Simulated arena",
	ID:       "SIM_1",
	Firmware: protocol.Version,
	Library:  "v1.2",
	Config:   "v0.2",
	Updated:  "today",
}

func newSimClient(t *testing.T, opts ...Option) (*Client, *sim.Board, *core.Scheduler) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	board, s, err := sim.Start(ctx, false, testInfo, core.DefaultState())
	require.NoError(t, err)

	opts = append([]Option{WithTimeout(2 * time.Second)}, opts...)
	return NewClient(sim.NewLoopback(board, s), opts...), board, s
}

func TestFeederLight(t *testing.T) {
	c, board, _ := newSimClient(t)

	resp, err := c.FeederLight(2, 3)
	require.NoError(t, err)

	assert.Equal(t, byte('#'), resp.Command)
	assert.True(t, resp.HasTimestamp)
	assert.Equal(t, uint16(core.DefaultLevel3), board.Compare(core.PWMFeeder2))
	assert.Equal(t, uint16(core.CompareOff), board.Compare(core.PWMFeeder1))
}

func TestValveActivateThenTimerFetch(t *testing.T) {
	c, board, _ := newSimClient(t)

	resp, err := c.ValveActivate(1)
	require.NoError(t, err)
	assert.Equal(t, byte('F'), resp.Command)
	assert.Equal(t, "relay1 toggled", resp.Text)
	assert.Len(t, board.Transitions(core.PinRelay1), 2)

	// Relay pulse and ACK have both elapsed on the virtual clock
	ts, err := c.TimerFetch()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ts.Duration(), 600*time.Millisecond)
}

func TestBadArgumentsAreNotSent(t *testing.T) {
	c, board, _ := newSimClient(t)

	_, err := c.FeederLight(5, 1)
	assert.ErrorIs(t, err, ErrBadArgument)
	_, err = c.FeederLight(1, 4)
	assert.ErrorIs(t, err, ErrBadArgument)
	_, err = c.ValveActivate(0)
	assert.ErrorIs(t, err, ErrBadArgument)
	_, err = c.FeederReconfig(1, 0, 100, false)
	assert.ErrorIs(t, err, ErrBadArgument)
	_, err = c.SetRelayTime(10000)
	assert.ErrorIs(t, err, ErrBadArgument)

	assert.Empty(t, board.Output())
}

func TestTTLOutput(t *testing.T) {
	c, _, _ := newSimClient(t)

	high, err := c.TTLLevel()
	require.NoError(t, err)
	assert.False(t, high)

	_, err = c.OutputTTL()
	require.NoError(t, err)

	high, err = c.TTLLevel()
	require.NoError(t, err)
	assert.True(t, high)

	_, err = c.SetTTLMode(core.TTLOff)
	require.NoError(t, err)

	high, err = c.TTLLevel()
	require.NoError(t, err)
	assert.False(t, high, "changing mode clears TTL_OUT")

	resp, err := c.OutputTTL()
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "not serviced")
}

func TestFeederReconfig(t *testing.T) {
	c, board, _ := newSimClient(t)

	_, err := c.FeederReconfig(2, 1, 400, true)
	require.NoError(t, err)
	assert.Equal(t, uint16(400), board.Compare(core.PWMFeeder2))
	assert.Equal(t, uint16(core.DefaultLevel1), board.Compare(core.PWMFeeder1))

	// Four digits complete the field without a carriage return
	_, err = c.FeederReconfig(1, 1, 7980, true)
	require.NoError(t, err)
	assert.Equal(t, uint16(7980), board.Compare(core.PWMFeeder1))

	report, err := c.Info(false)
	require.NoError(t, err)
	assert.Contains(t, report, "Level 1: F1=7980 F2=400 F3=7700 F4=7700")
}

func TestDurations(t *testing.T) {
	c, board, _ := newSimClient(t)

	_, err := c.SetRelayTime(250)
	require.NoError(t, err)
	_, err = c.SetTTLLength(20)
	require.NoError(t, err)

	board.ClearEvents()
	_, err = c.ValveActivate(4)
	require.NoError(t, err)

	relay := board.Transitions(core.PinRelay4)
	require.Len(t, relay, 2)
	assert.Equal(t, uint32(250), relay[1].At-relay[0].At)
	ack := board.Transitions(core.PinAck)
	require.Len(t, ack, 2)
	assert.Equal(t, uint32(20), ack[1].At-ack[0].At)
}

func TestInfoWithCommands(t *testing.T) {
	c, _, _ := newSimClient(t)

	report, err := c.Info(true)
	require.NoError(t, err)

	assert.Contains(t, report, "Device ID: SIM_1")
	assert.Contains(t, report, "Commands:")
	assert.True(t, strings.HasSuffix(report, "?: Information."+protocol.LineEnd))
}

func TestUnknownCommand(t *testing.T) {
	c, _, _ := newSimClient(t)

	_, err := c.Exchange("Z")
	assert.ErrorIs(t, err, ErrNotRecognized)
}

func TestToggleTTLIn(t *testing.T) {
	c, board, _ := newSimClient(t)

	on, err := c.ToggleTTLIn()
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, board.TriggerEnabled())

	on, err = c.ToggleTTLIn()
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, board.TriggerEnabled())
}

func TestEventsReachHandler(t *testing.T) {
	var events []protocol.Response
	c, _, s := newSimClient(t, WithEventHandler(func(r protocol.Response) {
		events = append(events, r)
	}))

	s.ButtonEdge()

	// The event arrives before the reply to the next command
	_, err := c.IndicatorToggle()
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, protocol.EventButton, events[0].Event)
	assert.True(t, events[0].HasTimestamp)
}

func TestPollEvents(t *testing.T) {
	var kinds []protocol.EventKind
	c, _, s := newSimClient(t,
		WithTimeout(200*time.Millisecond),
		WithEventHandler(func(r protocol.Response) { kinds = append(kinds, r.Event) }))

	_, err := c.ToggleTTLIn()
	require.NoError(t, err)
	s.TriggerEdge()

	n, err := c.PollEvents()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []protocol.EventKind{protocol.EventTrigger}, kinds)
}

type silentPort struct{ written []byte }

func (p *silentPort) Read([]byte) (int, error)     { return 0, io.EOF }
func (p *silentPort) Write(b []byte) (int, error) { p.written = append(p.written, b...); return len(b), nil }
func (p *silentPort) Close() error                { return nil }
func (p *silentPort) Flush() error                { return nil }

func TestExchangeTimesOut(t *testing.T) {
	port := &silentPort{}
	c := NewClient(port, WithTimeout(20*time.Millisecond))

	_, err := c.AllInactive()
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "R", string(port.written))
}

// Package arena is the host side of the arena controller link. A Client sends
// command characters over a serial port and parses the LineEnd terminated
// replies, including button and trigger events that arrive unprompted.
package arena

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"

	"gorecord/core"
	"gorecord/host/serial"
	"gorecord/protocol"
)

var (
	ErrTimeout       = errors.New("arena: timed out waiting for a response")
	ErrUnexpected    = errors.New("arena: unexpected response")
	ErrBadArgument   = errors.New("arena: argument out of range")
	ErrNotRecognized = errors.New("arena: command not recognized by controller")
)

// DefaultTimeout matches the one second read timeout of the reference tooling
const DefaultTimeout = time.Second

// EventHandler receives button and external trigger reports
type EventHandler func(protocol.Response)

// Client talks to one arena controller
type Client struct {
	mu         sync.Mutex
	port       serial.Port
	timeout    time.Duration
	terminator string
	onEvent    EventHandler
	pending    strings.Builder
}

// Option configures a Client
type Option func(*Client)

// WithTimeout bounds the wait for each reply
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithTerminator overrides the reply terminator
func WithTerminator(t string) Option {
	return func(c *Client) { c.terminator = t }
}

// WithEventHandler sets the callback for unprompted event reports
func WithEventHandler(h EventHandler) Option {
	return func(c *Client) { c.onEvent = h }
}

// NewClient wraps an open port
func NewClient(port serial.Port, opts ...Option) *Client {
	c := &Client{
		port:       port,
		timeout:    DefaultTimeout,
		terminator: protocol.LineEnd,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close closes the underlying port
func (c *Client) Close() error {
	return c.port.Close()
}

// Send writes raw command bytes without waiting for a reply
func (c *Client) Send(cmd string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.send(cmd)
}

func (c *Client) send(cmd string) error {
	glog.V(1).Infof("arena: send %q", cmd)
	if _, err := c.port.Write([]byte(cmd)); err != nil {
		return fmt.Errorf("arena: write %q: %w", cmd, err)
	}
	return nil
}

// Exchange sends cmd and returns the first reply that is not an event.
// Events read meanwhile go to the event handler.
func (c *Client) Exchange(cmd string) (protocol.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.send(cmd); err != nil {
		return protocol.Response{}, err
	}
	for {
		resp, err := c.readResponse()
		if err != nil {
			return resp, fmt.Errorf("arena: %q: %w", cmd, err)
		}
		if resp.Event != protocol.EventNone {
			c.dispatchEvent(resp)
			continue
		}
		if strings.Contains(resp.Text, "cannot recognize") {
			return resp, ErrNotRecognized
		}
		return resp, nil
	}
}

// ReadResponse waits for the next reply of any kind
func (c *Client) ReadResponse() (protocol.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readResponse()
}

// PollEvents reads replies until the port stays quiet for one timeout and
// hands events to the handler. It returns the number of events seen.
func (c *Client) PollEvents() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for {
		resp, err := c.readResponse()
		if errors.Is(err, ErrTimeout) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if resp.Event != protocol.EventNone {
			n++
			c.dispatchEvent(resp)
			continue
		}
		glog.Warningf("arena: unsolicited reply %q", resp.Raw)
	}
}

func (c *Client) dispatchEvent(resp protocol.Response) {
	glog.V(1).Infof("arena: event %q at %s", resp.Text, resp.Timestamp)
	if c.onEvent != nil {
		c.onEvent(resp)
	}
}

// readResponse collects bytes until the terminator or the timeout
func (c *Client) readResponse() (protocol.Response, error) {
	deadline := time.Now().Add(c.timeout)
	buf := make([]byte, 64)

	for {
		if s := c.pending.String(); strings.Contains(s, c.terminator) {
			idx := strings.Index(s, c.terminator) + len(c.terminator)
			raw := s[:idx]
			c.pending.Reset()
			c.pending.WriteString(s[idx:])
			return protocol.ParseResponse(raw)
		}
		if time.Now().After(deadline) {
			if c.pending.Len() > 0 {
				glog.Warningf("arena: partial reply %q", c.pending.String())
			}
			return protocol.Response{}, ErrTimeout
		}

		n, err := c.port.Read(buf)
		if n > 0 {
			glog.V(2).Infof("arena: recv %q", buf[:n])
			c.pending.Write(buf[:n])
		}
		if err != nil && err != io.EOF {
			return protocol.Response{}, fmt.Errorf("arena: read: %w", err)
		}
		if n == 0 {
			time.Sleep(time.Millisecond)
		}
	}
}

// FeederLight sets one feeder ring to a tier (0..3)
func (c *Client) FeederLight(feeder, tier int) (protocol.Response, error) {
	if feeder < 1 || feeder > core.NumFeeders || tier < 0 || tier > int(core.TierLevel3) {
		return protocol.Response{}, ErrBadArgument
	}
	return c.Exchange("#F" + strconv.Itoa(feeder) + "L" + strconv.Itoa(tier))
}

var valveCommands = [...]string{"F", "G", "H", "J"}

// ValveActivate pulses one reward valve (1..4)
func (c *Client) ValveActivate(valve int) (protocol.Response, error) {
	if valve < 1 || valve > core.NumRelays {
		return protocol.Response{}, ErrBadArgument
	}
	return c.Exchange(valveCommands[valve-1])
}

// AllInactive resets every output
func (c *Client) AllInactive() (protocol.Response, error) {
	return c.Exchange("R")
}

// IndicatorToggle flips the trial cue
func (c *Client) IndicatorToggle() (protocol.Response, error) {
	return c.Exchange("K")
}

// TimerStart starts the controller time base
func (c *Client) TimerStart() (protocol.Response, error) {
	return c.Exchange("Q")
}

// TimerFetch reads the controller time base
func (c *Client) TimerFetch() (protocol.Timestamp, error) {
	resp, err := c.Exchange("W")
	if err != nil {
		return protocol.Timestamp{}, err
	}
	if !resp.HasTimestamp {
		return protocol.Timestamp{}, fmt.Errorf("%w: %q", ErrUnexpected, resp.Raw)
	}
	return resp.Timestamp, nil
}

// TimerStop stops and clears the controller time base
func (c *Client) TimerStop() (protocol.Response, error) {
	return c.Exchange("E")
}

// OutputTTL services a TTL request in the configured output mode
func (c *Client) OutputTTL() (protocol.Response, error) {
	return c.Exchange("T")
}

// TTLLevel reports whether TTL_OUT is high
func (c *Client) TTLLevel() (bool, error) {
	resp, err := c.Exchange("t")
	if err != nil {
		return false, err
	}
	switch {
	case strings.HasSuffix(resp.Text, "HIGH"):
		return true, nil
	case strings.HasSuffix(resp.Text, "LOW"):
		return false, nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnexpected, resp.Raw)
}

// ToggleTTLIn arms or disarms the external trigger input and returns the
// new state
func (c *Client) ToggleTTLIn() (bool, error) {
	resp, err := c.Exchange("Y")
	if err != nil {
		return false, err
	}
	return strings.Contains(resp.Text, "toggled on"), nil
}

// Info returns the '?' report, with the command list when commands is set
func (c *Client) Info(commands bool) (string, error) {
	key := "x"
	if commands {
		key = "H"
	}
	resp, err := c.Exchange("?" + key)
	if err != nil {
		return "", err
	}
	return resp.Raw, nil
}

// field formats a numeric answer; four digits complete a field on their own
func field(v int) string {
	s := strconv.Itoa(v)
	if len(s) < protocol.FieldDigits {
		s += string(protocol.CarriageReturn)
	}
	return s
}

// FeederReconfig stores a new compare value for one feeder at one level and
// optionally applies that level to every feeder
func (c *Client) FeederReconfig(feeder, level, value int, test bool) (protocol.Response, error) {
	if feeder < 1 || feeder > core.NumFeeders || level < 1 || level > int(core.TierLevel3) ||
		value < 0 || value > core.CompareMax {
		return protocol.Response{}, ErrBadArgument
	}
	answer := "n"
	if test {
		answer = "y"
	}
	return c.expectConfig("$A" + strconv.Itoa(level) + strconv.Itoa(feeder) + field(value) + answer)
}

// SetRelayTime changes the valve on-time in ms
func (c *Client) SetRelayTime(ms int) (protocol.Response, error) {
	if ms < 0 || ms > core.MaxDurationMs {
		return protocol.Response{}, ErrBadArgument
	}
	return c.expectConfig("$B" + field(ms))
}

// SetTTLLength changes the TTL and ACK pulse length in ms
func (c *Client) SetTTLLength(ms int) (protocol.Response, error) {
	if ms < 0 || ms > core.MaxDurationMs {
		return protocol.Response{}, ErrBadArgument
	}
	return c.expectConfig("$C" + field(ms))
}

// SetTTLMode selects what 'T' does
func (c *Client) SetTTLMode(mode core.TTLMode) (protocol.Response, error) {
	if mode > core.TTLOff {
		return protocol.Response{}, ErrBadArgument
	}
	return c.expectConfig("$D" + strconv.Itoa(int(mode)+1))
}

func (c *Client) expectConfig(script string) (protocol.Response, error) {
	resp, err := c.Exchange(script)
	if err != nil {
		return resp, err
	}
	if last := resp.LastLine(); strings.Contains(last, "exiting configuration mode") {
		return resp, fmt.Errorf("%w: %s", ErrUnexpected, last)
	}
	return resp, nil
}

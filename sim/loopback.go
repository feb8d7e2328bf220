package sim

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"gorecord/core"
)

var errClosed = errors.New("sim: loopback closed")

// Loopback is the host end of a simulated serial link. Bytes written to it
// are queued on the scheduler's receive path; everything the board
// transmits can be read back. The scheduler must be running (Run) on its
// own goroutine.
type Loopback struct {
	sched *core.Scheduler

	mu     sync.Mutex
	rx     bytes.Buffer
	closed bool
}

// loopTap receives the board's transmit stream
type loopTap struct{ l *Loopback }

func (t loopTap) Write(p []byte) (int, error) {
	t.l.mu.Lock()
	defer t.l.mu.Unlock()
	return t.l.rx.Write(p)
}

// NewLoopback connects a host end to board, which s must be driving
func NewLoopback(board *Board, s *core.Scheduler) *Loopback {
	l := &Loopback{sched: s}
	board.SetEcho(loopTap{l})
	return l
}

// Write queues p on the controller receive path
func (l *Loopback) Write(p []byte) (int, error) {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return 0, errClosed
	}
	for _, b := range p {
		l.sched.ReceiveByte(b)
	}
	return len(p), nil
}

// Read returns transmitted bytes. It does not block: with nothing pending it
// returns 0 and io.EOF, like a serial port whose read timed out.
func (l *Loopback) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.rx.Len() == 0 {
		if l.closed {
			return 0, errClosed
		}
		return 0, io.EOF
	}
	return l.rx.Read(p)
}

// Flush discards unread output
func (l *Loopback) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rx.Reset()
	return nil
}

// Close ends the link; the scheduler keeps running until its context ends
func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

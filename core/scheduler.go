package core

import (
	"context"
	"sync/atomic"

	"gorecord/protocol"
)

// edgeSource identifies a device edge waiting for service
type edgeSource uint32

const (
	edgeButton  edgeSource = 1 << 0
	edgeTrigger edgeSource = 1 << 1
)

// Scheduler is the cooperative main loop. Interrupt-side producers only queue
// work and wake it; every command and every edge sequence runs here, one at
// a time, so outputs never interleave.
type Scheduler struct {
	state State
	board Board
	tb    *TimeBase
	disp  *Dispatcher

	rx      protocol.RxQueue
	wake    chan struct{}
	pending uint32 // edgeSource bits
	armed   uint32 // external trigger enabled

	rxDrops   uint32
	edgeDrops uint32
}

// NewScheduler takes ownership of state and wires the dispatcher to board
func NewScheduler(board Board, state State, tb *TimeBase) (*Scheduler, error) {
	if err := board.validate(); err != nil {
		return nil, err
	}
	s := &Scheduler{
		state: state,
		board: board,
		tb:    tb,
		wake:  make(chan struct{}, 1),
	}
	s.disp = newDispatcher(&s.state, &s.board, tb, s, s)
	return s, nil
}

// Init drives every output to the state's idle levels and applies the
// trigger mask. Targets call it once before Run.
func (s *Scheduler) Init() {
	s.disp.act.ReleaseAll()
	s.disp.act.SetTTL(false)
	s.disp.act.SetIndicator(s.state.Config.TrialIndicatorOn)
	if err := s.disp.bright.ApplyTier(TierOff); err != nil {
		DebugPrintln("[SCHED] feeder init failed: " + err.Error())
	}
	s.SetTriggerEnabled(s.state.Config.ExternalTTLEnabled)
}

// ReceiveByte queues a byte from the host. Safe from interrupt context.
func (s *Scheduler) ReceiveByte(b byte) {
	irq := disableInterrupts()
	ok := s.rx.Push(b)
	restoreInterrupts(irq)
	if !ok {
		atomic.AddUint32(&s.rxDrops, 1)
		DebugAsync("[SCHED] rx overflow")
	}
	s.signal()
}

// ButtonEdge records a button press. Safe from interrupt context.
func (s *Scheduler) ButtonEdge() {
	s.raise(edgeButton)
}

// TriggerEdge records a rising edge on the external trigger input. While
// external TTLs are disabled the edge is dropped.
func (s *Scheduler) TriggerEdge() {
	if atomic.LoadUint32(&s.armed) == 0 {
		atomic.AddUint32(&s.edgeDrops, 1)
		return
	}
	s.raise(edgeTrigger)
}

// SetTriggerEnabled arms or masks the external trigger
func (s *Scheduler) SetTriggerEnabled(enabled bool) {
	if enabled {
		atomic.StoreUint32(&s.armed, 1)
	} else {
		atomic.StoreUint32(&s.armed, 0)
		s.clear(edgeTrigger)
	}
	s.board.Trigger.SetTriggerEnabled(enabled)
}

// raise marks src pending; a second edge before service coalesces
func (s *Scheduler) raise(src edgeSource) {
	for {
		old := atomic.LoadUint32(&s.pending)
		if old&uint32(src) != 0 {
			atomic.AddUint32(&s.edgeDrops, 1)
			return
		}
		if atomic.CompareAndSwapUint32(&s.pending, old, old|uint32(src)) {
			break
		}
	}
	s.signal()
}

func (s *Scheduler) clear(src edgeSource) {
	for {
		old := atomic.LoadUint32(&s.pending)
		if atomic.CompareAndSwapUint32(&s.pending, old, old&^uint32(src)) {
			return
		}
	}
}

// takeEdge removes and returns one pending edge, button first
func (s *Scheduler) takeEdge() edgeSource {
	for {
		old := atomic.LoadUint32(&s.pending)
		if old == 0 {
			return 0
		}
		src := edgeButton
		if old&uint32(edgeButton) == 0 {
			src = edgeTrigger
		}
		if atomic.CompareAndSwapUint32(&s.pending, old, old&^uint32(src)) {
			return src
		}
	}
}

func (s *Scheduler) popByte() (byte, bool) {
	irq := disableInterrupts()
	b, ok := s.rx.Pop()
	restoreInterrupts(irq)
	return b, ok
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run services work until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := s.Step(ctx); err != nil {
			return err
		}
	}
}

// Step sleeps until work is available and executes exactly one unit of it:
// a pending edge sequence, or one received command.
func (s *Scheduler) Step(ctx context.Context) error {
	for {
		if src := s.takeEdge(); src != 0 {
			RecordEvent(EvtEdge, uint32(src), s.tb.Now())
			s.disp.serviceEdge(src)
			return nil
		}
		if b, ok := s.popByte(); ok {
			RecordEvent(EvtCommand, uint32(b), s.tb.Now())
			return s.disp.Dispatch(ctx, b)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		}
	}
}

// NextByte blocks for the next received byte. Edges raised meanwhile stay
// pending until the current command completes.
func (s *Scheduler) NextByte(ctx context.Context) (byte, error) {
	for {
		if b, ok := s.popByte(); ok {
			return b, nil
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-s.wake:
		}
	}
}

// Idle reports whether no work is queued
func (s *Scheduler) Idle() bool {
	irq := disableInterrupts()
	empty := s.rx.Empty()
	restoreInterrupts(irq)
	return empty && atomic.LoadUint32(&s.pending) == 0
}

// Drain executes queued work until none is left
func (s *Scheduler) Drain(ctx context.Context) error {
	for !s.Idle() {
		if err := s.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// State returns a copy of the current settings. Call it between steps only.
func (s *Scheduler) State() State {
	return s.state
}

// TimeBase returns the scheduler's time base
func (s *Scheduler) TimeBase() *TimeBase {
	return s.tb
}

// Commands returns the registered command table
func (s *Scheduler) Commands() *CommandTable {
	return s.disp.Commands()
}

// Drops reports received bytes lost to a full queue and edges dropped by
// masking or coalescing
func (s *Scheduler) Drops() (rx, edges uint32) {
	return atomic.LoadUint32(&s.rxDrops), atomic.LoadUint32(&s.edgeDrops)
}

package sim

import (
	"context"

	"gorecord/core"
)

// Start builds a controller on a fresh board and runs it until ctx ends.
// A realtime board follows the wall clock; otherwise time only moves
// during pulses.
func Start(ctx context.Context, realtime bool, info core.DeviceInfo, state core.State) (*Board, *core.Scheduler, error) {
	tb := core.NewTimeBase()
	tb.Start()

	var board *Board
	if realtime {
		board = NewRealtime(tb)
		go board.RunClock(ctx)
	} else {
		board = New(tb)
	}

	s, err := core.NewScheduler(board.Core(info), state, tb)
	if err != nil {
		return nil, nil, err
	}
	s.Init()
	go func() {
		if err := s.Run(ctx); err != nil && ctx.Err() == nil {
			core.DebugPrintln("[SIM] scheduler stopped: " + err.Error())
		}
	}()
	return board, s, nil
}

//go:build linux && !tinygo

package main

import (
	"context"
	"time"

	"gorecord/core"
)

// TickerDelay implements core.DelayTimer with a 1 ms ticker
type TickerDelay struct {
	ticker *time.Ticker
}

// Start implements core.DelayTimer
func (d *TickerDelay) Start() {
	d.ticker = time.NewTicker(time.Millisecond)
}

// Wait implements core.DelayTimer
func (d *TickerDelay) Wait() {
	<-d.ticker.C
}

// Stop implements core.DelayTimer
func (d *TickerDelay) Stop() {
	d.ticker.Stop()
	d.ticker = nil
}

// runTickLoop advances tb once per elapsed millisecond of monotonic time,
// catching up after scheduling delays
func runTickLoop(ctx context.Context, tb *core.TimeBase) {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	start := time.Now()
	var ticked int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			due := int64(time.Since(start) / time.Millisecond)
			for ; ticked < due; ticked++ {
				tb.Tick()
			}
		}
	}
}

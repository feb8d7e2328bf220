//go:build rp2040

package main

import (
	"context"
	"time"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"gorecord/core"
)

// commandPort adapts uartx to core.SerialPort
type commandPort struct{ u *uartx.UART }

func newCommandPort() (*commandPort, error) {
	u := uartx.UART0
	err := u.Configure(uartx.UARTConfig{
		BaudRate: commandBaud,
		TX:       pinUARTTX,
		RX:       pinUARTRX,
	})
	if err != nil {
		return nil, err
	}
	return &commandPort{u: u}, nil
}

func (p *commandPort) Write(b []byte) (int, error) { return p.u.Write(b) }

// readerLoop moves received bytes into the scheduler queue
func (p *commandPort) readerLoop(ctx context.Context, s *core.Scheduler) {
	defer func() {
		if r := recover(); r != nil {
			core.DebugAsync("[UART] reader panic, restarting")
			time.Sleep(100 * time.Millisecond)
			go p.readerLoop(ctx, s)
		}
	}()

	buf := make([]byte, 16)
	for {
		n, err := p.u.RecvSomeContext(ctx, buf)
		for i := 0; i < n; i++ {
			s.ReceiveByte(buf[i])
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			time.Sleep(time.Millisecond)
		}
	}
}

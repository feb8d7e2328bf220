//go:build linux && !tinygo

// Command record-linux runs the arena controller on a Linux single-board
// computer: outputs and edge inputs on the GPIO character device, feeder
// rings on sysfs PWM, and the command link on a serial port.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"

	"gorecord/arena"
	"gorecord/core"
	"gorecord/host/serial"
)

var (
	chipName    = flag.String("chip", "gpiochip0", "GPIO character device")
	pwmChip     = flag.String("pwm", "pwmchip0", "sysfs PWM chip")
	uartDevice  = flag.String("uart", "/dev/ttyAMA0", "Command serial port")
	profilePath = flag.String("profile", "", "Arena profile JSON (default: development arena)")
	debug       = flag.Bool("debug", false, "Log firmware debug output")
)

func main() {
	flag.Set("logtostderr", "true")
	flag.Parse()
	defer glog.Flush()

	core.SetDebugWriter(func(s string) { glog.Info(s) })
	core.SetDebugEnabled(*debug)

	profile := arena.Development()
	if *profilePath != "" {
		data, err := os.ReadFile(*profilePath)
		if err != nil {
			log.Fatalf("read profile: %v", err)
		}
		if profile, err = arena.Load(data); err != nil {
			log.Fatalf("load profile: %v", err)
		}
	}

	gpio, err := NewCdevGPIO(*chipName)
	if err != nil {
		log.Fatalf("gpio: %v", err)
	}
	defer gpio.Close()

	edges, err := NewEdgeInputs(*chipName)
	if err != nil {
		log.Fatalf("edges: %v", err)
	}
	defer edges.Close()

	pwm, err := NewSysfsPWM(*pwmChip)
	if err != nil {
		log.Fatalf("pwm: %v", err)
	}
	defer pwm.Close()

	cfg := serial.DefaultConfig(*uartDevice)
	cfg.ReadTimeout = 100 * time.Millisecond
	port, err := serial.Open(cfg)
	if err != nil {
		log.Fatalf("uart: %v", err)
	}
	defer port.Close()

	board := core.Board{
		GPIO:    gpio,
		PWM:     pwm,
		Serial:  port,
		Delay:   &TickerDelay{},
		Trigger: edges,
		Info:    profile.Info(),
	}

	tb := core.NewTimeBase()
	tb.Start()
	sched, err := core.NewScheduler(board, profile.State(), tb)
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	sched.Init()
	edges.Bind(sched)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go runTickLoop(ctx, tb)
	go readerLoop(ctx, port, sched)

	glog.Infof("arena %s ready on %s", profile.Name, *uartDevice)
	if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		glog.Errorf("scheduler: %v", err)
	}
	rx, dropped := sched.Drops()
	glog.Infof("stopped; %d bytes and %d edges dropped", rx, dropped)
}

// readerLoop moves received bytes into the scheduler queue
func readerLoop(ctx context.Context, port io.Reader, s *core.Scheduler) {
	buf := make([]byte, 16)
	for ctx.Err() == nil {
		n, err := port.Read(buf)
		for i := 0; i < n; i++ {
			s.ReceiveByte(buf[i])
		}
		if err != nil && err != io.EOF {
			glog.Warningf("uart read: %v", err)
			time.Sleep(100 * time.Millisecond)
		}
	}
}

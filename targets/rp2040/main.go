//go:build rp2040

package main

import (
	"context"
	_ "embed"
	"machine"
	"time"

	"gorecord/arena"
	"gorecord/core"
)

//go:embed profile.json
var profileJSON []byte

var loopErrors uint32

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	initConsole()
	core.SetDebugWriter(consoleWrite)
	core.SetDebugEnabled(true)
	core.InitAsyncDebug()

	profile, err := arena.Load(profileJSON)
	if err != nil {
		core.DebugPrintln("[BOOT] profile rejected, using development arena: " + err.Error())
		profile = arena.Development()
	}

	status := NewStatusLED(pinStatusLED)
	pwm, err := NewRP2040PWMDriver()
	if err != nil {
		halt("[BOOT] pwm: " + err.Error())
	}
	delay, err := NewPIODelayTimer(machine.CPUFrequency())
	if err != nil {
		halt("[BOOT] delay timer: " + err.Error())
	}
	port, err := newCommandPort()
	if err != nil {
		halt("[BOOT] uart: " + err.Error())
	}

	board := core.Board{
		GPIO:    NewRPGPIODriver(status),
		PWM:     pwm,
		Serial:  port,
		Delay:   delay,
		Trigger: newEdgeInputs(),
		Info:    profile.Info(),
	}

	tb := core.NewTimeBase()
	tb.Start()
	sched, err := core.NewScheduler(board, profile.State(), tb)
	if err != nil {
		halt("[BOOT] scheduler: " + err.Error())
	}
	sched.Init()
	core.DebugPrintln("[BOOT] arena " + profile.Name + " ready")

	ctx := context.Background()
	go runTickLoop(sched)
	go port.readerLoop(ctx, sched)

	for {
		// Recover from panics in the main loop to prevent a firmware crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					loopErrors++
					core.DebugPrintln("[MAIN] recovered from panic")
					core.DumpEvents()
				}
			}()
			sched.Run(ctx)
		}()
	}
}

func halt(msg string) {
	for {
		core.DebugPrintln(msg)
		time.Sleep(time.Second)
	}
}

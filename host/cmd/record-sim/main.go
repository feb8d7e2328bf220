// Command record-sim runs the controller firmware against a simulated board,
// speaking the arena protocol on stdin and stdout. Output line transitions
// are logged to stderr.
package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/golang/glog"

	"gorecord/arena"
	"gorecord/core"
	"gorecord/sim"
)

var (
	profilePath = flag.String("profile", "", "Arena profile JSON (default: development arena)")
	realtime    = flag.Bool("realtime", true, "Follow the wall clock instead of a virtual one")
	debug       = flag.Bool("debug", false, "Log firmware debug output")
)

func main() {
	// stdout carries the protocol; logs go to stderr unless overridden
	flag.Set("logtostderr", "true")
	flag.Parse()
	defer glog.Flush()

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

	core.SetDebugWriter(func(s string) { glog.Info(s) })
	core.SetDebugEnabled(*debug)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	board, sched, err := sim.Start(ctx, *realtime, profile.Info(), profile.State())
	if err != nil {
		log.Fatalf("start: %v", err)
	}
	board.SetPinHook(func(pin core.GPIOPin, level bool) {
		glog.Infof("%s %s -> %v", sched.TimeBase().Now(), pin, level)
	})
	board.SetEcho(os.Stdout)

	// Time for the longest pulse still running when input ends
	grace := time.Duration(profile.RelayOnTimeMs+profile.TTLLengthMs+100) * time.Millisecond

	go func() {
		defer cancel()
		in := bufio.NewReader(os.Stdin)
		for {
			b, err := in.ReadByte()
			if err != nil {
				if err != io.EOF {
					glog.Warningf("stdin: %v", err)
				}
				for !sched.Idle() {
					time.Sleep(time.Millisecond)
				}
				time.Sleep(grace)
				return
			}
			sched.ReceiveByte(b)
		}
	}()

	<-ctx.Done()
	rx, edges := sched.Drops()
	glog.Infof("stopped; %d bytes and %d edges dropped", rx, edges)
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	profiles "gorecord/arena"
	"gorecord/host/arena"
	"gorecord/host/config"
	"gorecord/host/serial"
	"gorecord/protocol"
	"gorecord/sim"
)

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

// Shell provides an ishell backed console for one arena controller.
type Shell struct {
	Interactive bool

	Shell      *ishell.Shell
	Config     *config.Config
	ConfigPath string
	Client     *arena.Client

	cancelSim func()
}

// NewShell creates a shell with every command registered.
func NewShell(cfg *config.Config, path string, interactive bool) *Shell {
	s := &Shell{
		Interactive: interactive,
		Shell:       ishell.New(),
		Config:      cfg,
		ConfigPath:  path,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context, client *arena.Client)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		s := ShellFrom(c)
		if s.Client == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c, s.Client)
	}
}

// printEvent reports button and trigger events as they are read
func (s *Shell) printEvent(r protocol.Response) {
	s.Shell.Printf("event: %s at %s\n", r.Text, r.Timestamp)
}

// Connect opens the configured port, or starts a simulated arena.
func (s *Shell) Connect() error {
	s.Disconnect()

	var port serial.Port
	name := s.Config.Serial.Port
	if s.Config.Sim.Enabled {
		profile, err := loadProfile(s.Config.Sim.Profile)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithCancel(context.Background())
		board, sched, err := sim.Start(ctx, s.Config.Sim.Realtime, profile.Info(), profile.State())
		if err != nil {
			cancel()
			return err
		}
		s.cancelSim = cancel
		port = sim.NewLoopback(board, sched)
		name = "sim:" + profile.Name
	} else {
		p, err := serial.Open(s.Config.SerialPortConfig())
		if err != nil {
			return err
		}
		port = p
	}

	glog.Infof("connected to %s", name)
	s.Client = arena.NewClient(port,
		arena.WithTimeout(s.Config.Client.Timeout),
		arena.WithTerminator(s.Config.Client.Terminator),
		arena.WithEventHandler(s.printEvent))
	s.Shell.SetPrompt(name + " > ")
	return nil
}

// Disconnect closes the current connection.
func (s *Shell) Disconnect() {
	if s.Client != nil {
		if err := s.Client.Close(); err != nil {
			glog.Warningf("close: %v", err)
		}
		s.Client = nil
	}
	if s.cancelSim != nil {
		s.cancelSim()
		s.cancelSim = nil
	}
	s.Shell.SetPrompt(unconnectedPrompt)
}

// Run connects, then either evaluates args or runs the interactive shell.
func (s *Shell) Run(args ...string) {
	if err := s.Connect(); err != nil {
		glog.Warningf("connect failed: %v", err)
		if !s.Interactive {
			log.Fatalf("connect failed: %v", err)
		}
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

func loadProfile(path string) (*profiles.Profile, error) {
	if path == "" {
		return profiles.Development(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return profiles.Load(data)
}

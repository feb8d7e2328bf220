package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	profiles "gorecord/arena"
	"gorecord/host/arena"
	"gorecord/host/serial"
	"gorecord/protocol"
)

var commands = []*ishell.Cmd{
	&PortsCmd,
	&ConnectCmd,
	&DisconnectCmd,
	&SaveConfigCmd,
	&FeederCmd,
	&ValveCmd,
	&ResetCmd,
	&IndicatorCmd,
	&TimerCmd,
	&TTLCmd,
	&TTLLevelCmd,
	&TTLInCmd,
	&InfoCmd,
	&ReconfigCmd,
	&RelayTimeCmd,
	&TTLLengthCmd,
	&TTLModeCmd,
	&RawCmd,
	&EventsCmd,
}

// intArgs parses the first n arguments as integers
func intArgs(c *ishell.Context, names ...string) ([]int, bool) {
	if len(c.Args) < len(names) {
		c.Err(fmt.Errorf("%s required", strings.Join(names, " ")))
		return nil, false
	}
	out := make([]int, len(names))
	for i, name := range names {
		v, err := strconv.Atoi(c.Args[i])
		if err != nil {
			c.Err(fmt.Errorf("Invalid %s: %v", name, err))
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func printResponse(c *ishell.Context, resp protocol.Response, err error) {
	if err != nil {
		c.Err(err)
		return
	}
	if resp.HasTimestamp {
		c.Printf("%c: %s (t=%s)\n", resp.Command, resp.Text, resp.Timestamp)
		return
	}
	c.Println(strings.TrimRight(resp.Raw, "\r\n"))
}

var (
	// PortsCmd lists serial ports.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"list", "l"},
		Help:    "list serial ports",
		Func: func(c *ishell.Context) {
			ports, err := serial.Ports()
			if err != nil {
				c.Err(err)
				return
			}
			if len(ports) == 0 {
				c.Println("No serial ports found")
				return
			}
			for _, p := range ports {
				c.Println(p)
			}
		},
	}

	// ConnectCmd (re)connects, optionally to another port.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[PORT|sim]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) > 0 {
				if c.Args[0] == "sim" {
					s.Config.Sim.Enabled = true
				} else {
					s.Config.Sim.Enabled = false
					s.Config.Serial.Port = c.Args[0]
				}
			}
			if err := s.Connect(); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd closes the connection.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}

	// SaveConfigCmd writes the current settings to the config file.
	SaveConfigCmd = ishell.Cmd{
		Name: "save",
		Help: "save connection settings",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if err := s.Config.Save(s.ConfigPath); err != nil {
				c.Err(err)
				return
			}
			c.Println("saved", s.ConfigPath)
		},
	}

	// FeederCmd sets a feeder light level.
	FeederCmd = ishell.Cmd{
		Name:    "feeder",
		Aliases: []string{"f"},
		Help:    "FEEDER(1-4) LEVEL(0-3)",
		Func: MustBeConnected(func(c *ishell.Context, client *arena.Client) {
			args, ok := intArgs(c, "FEEDER", "LEVEL")
			if !ok {
				return
			}
			resp, err := client.FeederLight(args[0], args[1])
			printResponse(c, resp, err)
		}),
	}

	// ValveCmd pulses a reward valve.
	ValveCmd = ishell.Cmd{
		Name:    "valve",
		Aliases: []string{"v"},
		Help:    "VALVE(1-4)",
		Func: MustBeConnected(func(c *ishell.Context, client *arena.Client) {
			args, ok := intArgs(c, "VALVE")
			if !ok {
				return
			}
			resp, err := client.ValveActivate(args[0])
			printResponse(c, resp, err)
		}),
	}

	// ResetCmd returns every output to idle.
	ResetCmd = ishell.Cmd{
		Name:    "reset",
		Aliases: []string{"r"},
		Help:    "turn off all outputs",
		Func: MustBeConnected(func(c *ishell.Context, client *arena.Client) {
			resp, err := client.AllInactive()
			printResponse(c, resp, err)
		}),
	}

	// IndicatorCmd toggles the trial cue.
	IndicatorCmd = ishell.Cmd{
		Name:    "indicator",
		Aliases: []string{"k"},
		Help:    "toggle the trial indicator",
		Func: MustBeConnected(func(c *ishell.Context, client *arena.Client) {
			resp, err := client.IndicatorToggle()
			printResponse(c, resp, err)
		}),
	}

	// TimerCmd drives the controller time base.
	TimerCmd = ishell.Cmd{
		Name: "timer",
		Help: "start|fetch|stop",
		Func: MustBeConnected(func(c *ishell.Context, client *arena.Client) {
			op := "fetch"
			if len(c.Args) > 0 {
				op = c.Args[0]
			}
			switch op {
			case "start":
				resp, err := client.TimerStart()
				printResponse(c, resp, err)
			case "stop":
				resp, err := client.TimerStop()
				printResponse(c, resp, err)
			case "fetch":
				ts, err := client.TimerFetch()
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(ts.String())
			default:
				c.Err(fmt.Errorf("unknown timer operation %q", op))
			}
		}),
	}

	// TTLCmd requests a TTL output.
	TTLCmd = ishell.Cmd{
		Name: "ttl",
		Help: "request a TTL output",
		Func: MustBeConnected(func(c *ishell.Context, client *arena.Client) {
			resp, err := client.OutputTTL()
			printResponse(c, resp, err)
		}),
	}

	// TTLLevelCmd reads TTL_OUT.
	TTLLevelCmd = ishell.Cmd{
		Name: "ttl.level",
		Help: "read the TTL output level",
		Func: MustBeConnected(func(c *ishell.Context, client *arena.Client) {
			high, err := client.TTLLevel()
			if err != nil {
				c.Err(err)
				return
			}
			if high {
				c.Println("HIGH")
			} else {
				c.Println("LOW")
			}
		}),
	}

	// TTLInCmd arms or disarms the external trigger.
	TTLInCmd = ishell.Cmd{
		Name:    "ttlin",
		Aliases: []string{"y"},
		Help:    "toggle external TTL input",
		Func: MustBeConnected(func(c *ishell.Context, client *arena.Client) {
			on, err := client.ToggleTTLIn()
			if err != nil {
				c.Err(err)
				return
			}
			c.Println("external TTLs enabled:", on)
		}),
	}

	// InfoCmd prints the device report.
	InfoCmd = ishell.Cmd{
		Name:    "info",
		Aliases: []string{"?"},
		Help:    "[commands]",
		Func: MustBeConnected(func(c *ishell.Context, client *arena.Client) {
			report, err := client.Info(len(c.Args) > 0)
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(strings.TrimRight(report, "\r\n"))
		}),
	}

	// ReconfigCmd stores a new compare value.
	ReconfigCmd = ishell.Cmd{
		Name: "reconfig",
		Help: "FEEDER(1-4) LEVEL(1-3) VALUE(0-8000) [test]",
		Func: MustBeConnected(func(c *ishell.Context, client *arena.Client) {
			args, ok := intArgs(c, "FEEDER", "LEVEL", "VALUE")
			if !ok {
				return
			}
			test := len(c.Args) > 3 && c.Args[3] == "test"
			resp, err := client.FeederReconfig(args[0], args[1], args[2], test)
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(resp.LastLine())
		}),
	}

	// RelayTimeCmd sets the valve on-time.
	RelayTimeCmd = ishell.Cmd{
		Name: "relaytime",
		Help: "MS(0-9999)",
		Func: MustBeConnected(func(c *ishell.Context, client *arena.Client) {
			args, ok := intArgs(c, "MS")
			if !ok {
				return
			}
			resp, err := client.SetRelayTime(args[0])
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(resp.LastLine())
		}),
	}

	// TTLLengthCmd sets the TTL pulse length.
	TTLLengthCmd = ishell.Cmd{
		Name: "ttllength",
		Help: "MS(0-9999)",
		Func: MustBeConnected(func(c *ishell.Context, client *arena.Client) {
			args, ok := intArgs(c, "MS")
			if !ok {
				return
			}
			resp, err := client.SetTTLLength(args[0])
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(resp.LastLine())
		}),
	}

	// TTLModeCmd selects the TTL output mode.
	TTLModeCmd = ishell.Cmd{
		Name: "ttlmode",
		Help: "toggle|pulse|off",
		Func: MustBeConnected(func(c *ishell.Context, client *arena.Client) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("MODE required"))
				return
			}
			mode, err := profiles.ParseTTLMode(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			resp, err := client.SetTTLMode(mode)
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(resp.LastLine())
		}),
	}

	// RawCmd sends characters as typed and prints one reply.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "TEXT",
		Func: MustBeConnected(func(c *ishell.Context, client *arena.Client) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("TEXT required"))
				return
			}
			resp, err := client.Exchange(strings.Join(c.Args, ""))
			if err != nil && resp.Raw == "" {
				c.Err(err)
				return
			}
			c.Println(strings.TrimRight(resp.Raw, "\r\n"))
		}),
	}

	// EventsCmd waits for button and trigger reports.
	EventsCmd = ishell.Cmd{
		Name: "events",
		Help: "print events until the link is quiet",
		Func: MustBeConnected(func(c *ishell.Context, client *arena.Client) {
			n, err := client.PollEvents()
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(n, "events")
		}),
	}
)
